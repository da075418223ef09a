package beacon

import (
	"iter"
	"log/slog"
)

// Applicator is the loop that grants beacon effects to nearby players.
// Each run is stateless: beacons are searched again and effects are granted
// again, relying on the server to refresh effects that are already active.
type Applicator struct {
	host   Host
	config *Config
	log    *slog.Logger
}

// NewApplicator creates an applicator reading its settings from config.
func NewApplicator(host Host, config *Config, log *slog.Logger) *Applicator {
	if log == nil {
		log = slog.Default()
	}
	return &Applicator{host: host, config: config, log: log}
}

// Run applies the effects of every qualifying beacon in every region that
// has at least one player.
func (a *Applicator) Run() {
	for region := range a.host.Regions() {
		if len(region.Players()) == 0 {
			continue
		}
		for s := range Beacons(region) {
			a.apply(s, TargetsInRange(region, s, a.config.Distance()))
		}
	}
}

// apply grants the effects of s to targets if s reaches the configured tier.
func (a *Applicator) apply(s Structure, targets []Target) {
	if s.Tier() < a.config.Tier() {
		return
	}

	primary, hasPrimary := s.PrimaryEffect()
	secondary, hasSecondary := s.SecondaryEffect()
	for _, t := range targets {
		if hasPrimary {
			t.AddEffect(primary)
		}
		if hasSecondary {
			t.AddEffect(secondary)
		}
	}

	if len(targets) > 0 {
		a.log.Debug("beacon: effects applied",
			"pos", s.Position(),
			"tier", s.Tier(),
			"players", len(targets))
	}
}

// Beacons returns the beacons in the loaded chunks of r. The sequence is
// lazy and walks the chunks again every time it is ranged over.
func Beacons(r Region) iter.Seq[Structure] {
	return func(yield func(Structure) bool) {
		for _, c := range r.Chunks() {
			for _, te := range c.TileEntities() {
				s, ok := te.(Structure)
				if !ok {
					continue
				}
				if !yield(s) {
					return
				}
			}
		}
	}
}

// TargetsInRange returns the players of r whose distance to s is at most
// distance. The comparison is done on squared distances.
func TargetsInRange(r Region, s Structure, distance int) []Target {
	pos := s.Position()
	limit := float64(distance) * float64(distance)

	var targets []Target
	for _, t := range r.Players() {
		if t.Position().Sub(pos).LenSqr() <= limit {
			targets = append(targets, t)
		}
	}
	return targets
}

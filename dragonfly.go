package beacon

import (
	"iter"
	"log/slog"
	"time"

	"github.com/df-mc/dragonfly/server/block"
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/entity/effect"
	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/world"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// ServerHost implements Host for a set of Dragonfly worlds. Each region is
// handed out inside a transaction of its world.
type ServerHost struct {
	worlds   []*world.World
	registry *Registry
	perms    *Permissions
	log      *slog.Logger
}

// NewServerHost creates a host over worlds. Nil worlds are ignored.
func NewServerHost(registry *Registry, perms *Permissions, log *slog.Logger, worlds ...*world.World) *ServerHost {
	if log == nil {
		log = slog.Default()
	}
	h := &ServerHost{registry: registry, perms: perms, log: log}
	for _, w := range worlds {
		if w != nil {
			h.worlds = append(h.worlds, w)
		}
	}
	return h
}

// Regions yields one region per world, each inside a transaction of that
// world. A panic while handling a region is re-raised on the caller's
// goroutine so it does not take down the world.
func (h *ServerHost) Regions() iter.Seq[Region] {
	return func(yield func(Region) bool) {
		for _, w := range h.worlds {
			var (
				cont      = true
				recovered any
			)
			<-w.Exec(func(tx *world.Tx) {
				defer func() {
					recovered = recover()
				}()
				cont = yield(h.region(tx))
			})
			if recovered != nil {
				panic(recovered)
			}
			if !cont {
				return
			}
		}
	}
}

func (h *ServerHost) region(tx *world.Tx) *worldRegion {
	return &worldRegion{tx: tx, key: worldKey(tx.World()), host: h}
}

// worldKey identifies a world in the registry. Dimensions of one server share
// a name, so the dimension is part of the key.
func worldKey(w *world.World) string {
	switch w.Dimension() {
	case world.Nether:
		return w.Name() + ":nether"
	case world.End:
		return w.Name() + ":end"
	default:
		return w.Name() + ":overworld"
	}
}

// worldRegion is a world seen through one of its transactions.
type worldRegion struct {
	tx   *world.Tx
	key  string
	host *ServerHost
}

func (r *worldRegion) Name() string {
	return r.key
}

func (r *worldRegion) Players() []Target {
	var targets []Target
	for e := range r.tx.Players() {
		if p, ok := e.(*player.Player); ok {
			targets = append(targets, &playerTarget{p: p, host: r.host})
		}
	}
	return targets
}

// Chunks returns the registered chunks that are currently loaded.
func (r *worldRegion) Chunks() []Chunk {
	chunks := r.host.registry.Chunks(r.key)
	result := make([]Chunk, 0, len(chunks))
	for cp, positions := range chunks {
		if !r.loaded(cp) {
			continue
		}
		result = append(result, &tileChunk{region: r, positions: positions})
	}
	return result
}

// loaded reports whether a viewer holds the chunk at cp. Dragonfly closes
// chunks without viewers, and reading a block from a chunk that is not in
// memory loads or generates it, so unviewed chunks are never touched.
func (r *worldRegion) loaded(cp world.ChunkPos) bool {
	centre := mgl64.Vec3{float64(cp[0])*16 + 8, 0, float64(cp[1])*16 + 8}
	return len(r.tx.Viewers(centre)) > 0
}

// tileChunk is a loaded chunk holding beacons known to the registry.
type tileChunk struct {
	region    *worldRegion
	positions []cube.Pos
}

// TileEntities resolves the registered positions against the world. Positions
// that no longer hold a beacon are dropped from the registry.
func (c *tileChunk) TileEntities() []TileEntity {
	tiles := make([]TileEntity, 0, len(c.positions))
	for _, pos := range c.positions {
		switch b := c.region.tx.Block(pos).(type) {
		case block.Beacon:
			tiles = append(tiles, beaconTile{pos: pos, b: b})
		default:
			if err := c.region.host.registry.Forget(c.region.key, pos); err != nil {
				c.region.host.log.Warn("beacon: failed to forget tile",
					"world", c.region.key,
					"pos", pos,
					"error", err)
			}
		}
	}
	return tiles
}

// beaconTile exposes a beacon block as a Structure.
//
// Effects last 9 seconds plus 2 per pyramid level. The secondary effect only
// exists on a full pyramid; choosing the primary effect as secondary raises
// the primary effect by one level instead.
type beaconTile struct {
	pos cube.Pos
	b   block.Beacon
}

func (t beaconTile) Position() mgl64.Vec3 {
	return t.pos.Vec3()
}

func (t beaconTile) Tier() int {
	return t.b.Level()
}

func (t beaconTile) duration() time.Duration {
	return time.Duration(9+2*t.b.Level()) * time.Second
}

func (t beaconTile) PrimaryEffect() (effect.Effect, bool) {
	if t.b.Primary == nil {
		return effect.Effect{}, false
	}
	lvl := 1
	if t.b.Level() >= 4 && t.b.Primary == t.b.Secondary {
		lvl = 2
	}
	return effect.NewAmbient(t.b.Primary, lvl, t.duration()), true
}

func (t beaconTile) SecondaryEffect() (effect.Effect, bool) {
	if t.b.Secondary == nil || t.b.Level() < 4 || t.b.Secondary == t.b.Primary {
		return effect.Effect{}, false
	}
	return effect.NewAmbient(t.b.Secondary, 1, t.duration()), true
}

// playerTarget is a connected Dragonfly player.
type playerTarget struct {
	p    *player.Player
	host *ServerHost
}

func (t *playerTarget) UUID() uuid.UUID {
	return t.p.UUID()
}

func (t *playerTarget) Name() string {
	return t.p.Name()
}

func (t *playerTarget) Position() mgl64.Vec3 {
	return t.p.Position()
}

func (t *playerTarget) AddEffect(e effect.Effect) {
	t.p.AddEffect(e)
}

func (t *playerTarget) HasPermission(string) bool {
	return t.host.perms.Allowed(t.p.Name(), t.p.UUID())
}

func (t *playerTarget) Message(msg string) {
	t.p.Message(msg)
}

// Region returns the player's world seen through the player's transaction.
func (t *playerTarget) Region() Region {
	return t.host.region(t.p.Tx())
}

// Compile-time checks.
var (
	_ Host      = (*ServerHost)(nil)
	_ Region    = (*worldRegion)(nil)
	_ Structure = beaconTile{}
	_ Located   = (*playerTarget)(nil)
)

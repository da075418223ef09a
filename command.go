package beacon

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
)

// Replies of the /beacon command.
const (
	msgInvalidValue = "Invalid value!"
	msgNotPlayer    = "You need to be a Player for this command!"
	msgNoBeacon     = "No beacon found in this world!"
)

// Usage is shown when /beacon is called with arguments it does not handle.
const Usage = "/beacon <distance|tier> <value> | /beacon measure"

// CommandHandler executes the /beacon command against a config.
type CommandHandler struct {
	config *Config
	log    *slog.Logger
}

// NewCommandHandler creates a command handler that changes config.
func NewCommandHandler(config *Config, log *slog.Logger) *CommandHandler {
	if log == nil {
		log = slog.Default()
	}
	return &CommandHandler{config: config, log: log}
}

// Execute runs /beacon with args for sender. It returns false if the
// arguments are not valid /beacon syntax or the sender lacks the permission,
// so that the caller can show the usage.
func (h *CommandHandler) Execute(sender Sender, args []string) bool {
	if !sender.HasPermission(Permission) {
		return false
	}

	// /beacon <distance|tier> <value>
	if len(args) == 2 && isSettingKey(args[0]) {
		h.set(sender, strings.ToLower(args[0]), args[1])
		return true
	}

	// /beacon measure
	if len(args) == 1 && strings.EqualFold(args[0], MeasureKey) {
		h.measure(sender)
		return true
	}
	return false
}

func isSettingKey(arg string) bool {
	return strings.EqualFold(arg, DistanceKey) || strings.EqualFold(arg, TierKey)
}

func (h *CommandHandler) set(sender Sender, key, arg string) {
	n, err := strconv.ParseInt(arg, 10, 32)
	if err != nil {
		sender.Message(msgInvalidValue)
		return
	}
	value := int(n)

	if err := h.config.SetInt(key, value); err != nil {
		if errors.Is(err, ErrNegative) {
			sender.Message(msgInvalidValue)
			return
		}
		h.log.Warn("beacon: failed to save config",
			"key", key,
			"value", value,
			"error", err)
		sender.Message("Could not save " + key + ": " + err.Error())
		return
	}

	h.log.Info("beacon: config changed", "key", key, "value", value)
	sender.Message(fmt.Sprintf("New value for %s: %d", key, value))
}

func (h *CommandHandler) measure(sender Sender) {
	p, ok := sender.(Located)
	if !ok {
		sender.Message(msgNotPlayer)
		return
	}

	dist, ok := ClosestBeacon(p.Region(), p)
	if !ok {
		p.Message(msgNoBeacon)
		return
	}
	p.Message(fmt.Sprintf("Closest beacon: %.1f", dist))
}

// ClosestBeacon returns the distance between t and the closest beacon in r.
// It returns false if r has no beacon.
func ClosestBeacon(r Region, t Target) (float64, bool) {
	pos := t.Position()

	minSqr, found := 0.0, false
	for s := range Beacons(r) {
		d := s.Position().Sub(pos).LenSqr()
		if !found || d < minSqr {
			minSqr, found = d, true
		}
	}
	if !found {
		return 0, false
	}
	return math.Sqrt(minSqr), true
}

// Complete returns the completion candidates for args. Only the first
// argument is completed.
func Complete(args []string) []string {
	if len(args) == 1 {
		return []string{DistanceKey, TierKey, MeasureKey}
	}
	return nil
}

package beacon

import (
	"log/slog"

	"github.com/df-mc/dragonfly/server/block"
	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/item"
	"github.com/df-mc/dragonfly/server/player"
	"github.com/df-mc/dragonfly/server/world"
)

// PlayerHandler records the beacons a player places and breaks, so that the
// effect loop can find them in the player's world.
//
// Concurrency:
// Handlers are executed synchronously by Dragonfly within the world's
// transaction. The registry is shared between worlds and locks internally.
type PlayerHandler struct {
	player.NopHandler

	registry *Registry
	log      *slog.Logger
}

// Compile-time check that PlayerHandler implements player.Handler.
var _ player.Handler = (*PlayerHandler)(nil)

// HandleBlockPlace tracks placed beacons. A placement that is cancelled
// later is dropped by the first scan that finds its chunk loaded.
func (h *PlayerHandler) HandleBlockPlace(ctx *player.Context, pos cube.Pos, b world.Block) {
	if _, ok := b.(block.Beacon); !ok {
		return
	}
	w := worldKey(ctx.Val().Tx().World())
	if err := h.registry.Track(w, pos); err != nil {
		h.log.Warn("beacon: failed to track tile",
			"world", w,
			"pos", pos,
			"error", err)
	}
}

// HandleBlockBreak forgets the beacon at pos, if any.
func (h *PlayerHandler) HandleBlockBreak(ctx *player.Context, pos cube.Pos, _ *[]item.Stack, _ *int) {
	w := worldKey(ctx.Val().Tx().World())
	if err := h.registry.Forget(w, pos); err != nil {
		h.log.Warn("beacon: failed to forget tile",
			"world", w,
			"pos", pos,
			"error", err)
	}
}

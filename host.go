package beacon

import (
	"iter"

	"github.com/df-mc/dragonfly/server/entity/effect"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// Host enumerates the regions (worlds) of the server.
// Implementations may run each yielded region inside a world transaction, so
// a Region must not be retained after the iteration step that produced it.
type Host interface {
	Regions() iter.Seq[Region]
}

// Region is a single world with its loaded chunks and connected players.
type Region interface {
	Name() string
	// Players returns the players currently connected to the region.
	Players() []Target
	// Chunks returns the loaded chunks of the region.
	Chunks() []Chunk
}

// Chunk is a loaded column of a region.
type Chunk interface {
	TileEntities() []TileEntity
}

// TileEntity is a block entity placed in a chunk.
type TileEntity interface {
	Position() mgl64.Vec3
}

// Structure is a tile entity that has a tier and grants effects: a beacon.
type Structure interface {
	TileEntity
	Tier() int
	PrimaryEffect() (effect.Effect, bool)
	SecondaryEffect() (effect.Effect, bool)
}

// Target is a connected player that can receive effects.
type Target interface {
	UUID() uuid.UUID
	Name() string
	Position() mgl64.Vec3
	AddEffect(e effect.Effect)
}

// Sender is the source of a /beacon command.
type Sender interface {
	HasPermission(perm string) bool
	Message(msg string)
}

// Located is a Sender that is a connected player.
type Located interface {
	Sender
	Target
	Region() Region
}

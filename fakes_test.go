package beacon

import (
	"iter"
	"path/filepath"
	"testing"
	"time"

	"github.com/df-mc/dragonfly/server/entity/effect"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/google/uuid"
)

// newTestConfig loads a fresh config in a temp dir with the given values.
func newTestConfig(t *testing.T, distance, tier int) *Config {
	t.Helper()
	c, err := LoadConfig(filepath.Join(t.TempDir(), "config.yml"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if err := c.SetInt(DistanceKey, distance); err != nil {
		t.Fatalf("SetInt(distance): %v", err)
	}
	if err := c.SetInt(TierKey, tier); err != nil {
		t.Fatalf("SetInt(tier): %v", err)
	}
	return c
}

type fakeHost struct {
	regions []Region
}

func (h *fakeHost) Regions() iter.Seq[Region] {
	return func(yield func(Region) bool) {
		for _, r := range h.regions {
			if !yield(r) {
				return
			}
		}
	}
}

type fakeRegion struct {
	name       string
	players    []Target
	chunks     []Chunk
	chunkCalls int
}

func (r *fakeRegion) Name() string      { return r.name }
func (r *fakeRegion) Players() []Target { return r.players }

func (r *fakeRegion) Chunks() []Chunk {
	r.chunkCalls++
	return r.chunks
}

type fakeChunk struct {
	tiles []TileEntity
}

func (c *fakeChunk) TileEntities() []TileEntity { return c.tiles }

// plainTile is a block entity that is not a beacon.
type plainTile struct {
	pos mgl64.Vec3
}

func (t plainTile) Position() mgl64.Vec3 { return t.pos }

type fakeStructure struct {
	pos       mgl64.Vec3
	tier      int
	primary   *effect.Effect
	secondary *effect.Effect
}

func (s *fakeStructure) Position() mgl64.Vec3 { return s.pos }
func (s *fakeStructure) Tier() int            { return s.tier }

func (s *fakeStructure) PrimaryEffect() (effect.Effect, bool) {
	if s.primary == nil {
		return effect.Effect{}, false
	}
	return *s.primary, true
}

func (s *fakeStructure) SecondaryEffect() (effect.Effect, bool) {
	if s.secondary == nil {
		return effect.Effect{}, false
	}
	return *s.secondary, true
}

type fakeTarget struct {
	id      uuid.UUID
	name    string
	pos     mgl64.Vec3
	effects []effect.Effect
}

func newFakeTarget(name string, pos mgl64.Vec3) *fakeTarget {
	return &fakeTarget{id: uuid.New(), name: name, pos: pos}
}

func (t *fakeTarget) UUID() uuid.UUID           { return t.id }
func (t *fakeTarget) Name() string              { return t.name }
func (t *fakeTarget) Position() mgl64.Vec3      { return t.pos }
func (t *fakeTarget) AddEffect(e effect.Effect) { t.effects = append(t.effects, e) }

type fakeSender struct {
	denied   bool
	messages []string
}

func (s *fakeSender) HasPermission(string) bool { return !s.denied }
func (s *fakeSender) Message(msg string)        { s.messages = append(s.messages, msg) }

type fakeLocated struct {
	*fakeSender
	*fakeTarget
	region Region
}

func (l *fakeLocated) Region() Region { return l.region }

func speedEffect() *effect.Effect {
	e := effect.New(effect.Speed, 1, 10*time.Second)
	return &e
}

func regenerationEffect() *effect.Effect {
	e := effect.New(effect.Regeneration, 1, 10*time.Second)
	return &e
}

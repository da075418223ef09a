package beacon

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/df-mc/dragonfly/server/block/cube"
	"github.com/df-mc/dragonfly/server/world"
	_ "modernc.org/sqlite"
)

// Registry remembers where beacons were placed, per world and chunk.
//
// Dragonfly does not expose the block entities of loaded chunks, so the
// plugin records beacons as players place and break them. The registry keeps
// an in-memory index for reads and writes every change through to SQLite, so
// beacons placed in an earlier run are known after a restart.
type Registry struct {
	db *sql.DB

	mu     sync.RWMutex
	worlds map[string]map[world.ChunkPos]map[cube.Pos]struct{}
}

// OpenRegistry opens the registry database at path, creating it if needed.
// An empty path opens a registry that only lives in memory.
func OpenRegistry(path string) (*Registry, error) {
	dsn := ":memory:"
	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create registry dir: %w", err)
		}
		dsn = path
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open registry: %w", err)
	}
	// A single connection keeps an in-memory database alive and serialises writes.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := initRegistrySchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	r := &Registry{
		db:     db,
		worlds: make(map[string]map[world.ChunkPos]map[cube.Pos]struct{}),
	}
	if err := r.load(); err != nil {
		_ = db.Close()
		return nil, err
	}
	return r, nil
}

func initRegistrySchema(db *sql.DB) error {
	stmts := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		`CREATE TABLE IF NOT EXISTS tiles (
			world TEXT NOT NULL,
			x INTEGER NOT NULL,
			y INTEGER NOT NULL,
			z INTEGER NOT NULL,
			PRIMARY KEY (world, x, y, z)
		);`,
	}
	for _, stmt := range stmts {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("init registry schema: %w", err)
		}
	}
	return nil
}

func (r *Registry) load() error {
	rows, err := r.db.Query(`SELECT world, x, y, z FROM tiles`)
	if err != nil {
		return fmt.Errorf("load registry: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			w       string
			x, y, z int
		)
		if err := rows.Scan(&w, &x, &y, &z); err != nil {
			return fmt.Errorf("load registry: %w", err)
		}
		r.insert(w, cube.Pos{x, y, z})
	}
	return rows.Err()
}

// chunkPos returns the position of the chunk that holds pos.
func chunkPos(pos cube.Pos) world.ChunkPos {
	return world.ChunkPos{int32(pos[0] >> 4), int32(pos[2] >> 4)}
}

// insert adds pos to the index. Caller must hold the lock or own r.
func (r *Registry) insert(w string, pos cube.Pos) {
	chunks := r.worlds[w]
	if chunks == nil {
		chunks = make(map[world.ChunkPos]map[cube.Pos]struct{})
		r.worlds[w] = chunks
	}
	cp := chunkPos(pos)
	tiles := chunks[cp]
	if tiles == nil {
		tiles = make(map[cube.Pos]struct{})
		chunks[cp] = tiles
	}
	tiles[pos] = struct{}{}
}

// Track records a beacon at pos in world w. The index only changes once the
// row is written.
func (r *Registry) Track(w string, pos cube.Pos) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.has(w, pos) {
		return nil
	}
	if _, err := r.db.Exec(`INSERT OR IGNORE INTO tiles (world, x, y, z) VALUES (?, ?, ?, ?)`,
		w, pos[0], pos[1], pos[2]); err != nil {
		return fmt.Errorf("track tile %v: %w", pos, err)
	}
	r.insert(w, pos)
	return nil
}

// Forget removes the position pos in world w.
func (r *Registry) Forget(w string, pos cube.Pos) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.has(w, pos) {
		return nil
	}
	if _, err := r.db.Exec(`DELETE FROM tiles WHERE world = ? AND x = ? AND y = ? AND z = ?`,
		w, pos[0], pos[1], pos[2]); err != nil {
		return fmt.Errorf("forget tile %v: %w", pos, err)
	}

	chunks := r.worlds[w]
	cp := chunkPos(pos)
	delete(chunks[cp], pos)
	if len(chunks[cp]) == 0 {
		delete(chunks, cp)
	}
	if len(chunks) == 0 {
		delete(r.worlds, w)
	}
	return nil
}

// has reports whether pos is indexed. Caller must hold the lock.
func (r *Registry) has(w string, pos cube.Pos) bool {
	_, ok := r.worlds[w][chunkPos(pos)][pos]
	return ok
}

// Chunks returns a snapshot of the tracked positions of world w,
// grouped by chunk.
func (r *Registry) Chunks(w string) map[world.ChunkPos][]cube.Pos {
	r.mu.RLock()
	defer r.mu.RUnlock()

	chunks := r.worlds[w]
	result := make(map[world.ChunkPos][]cube.Pos, len(chunks))
	for cp, tiles := range chunks {
		list := make([]cube.Pos, 0, len(tiles))
		for pos := range tiles {
			list = append(list, pos)
		}
		result[cp] = list
	}
	return result
}

// Len returns the number of positions tracked in world w.
func (r *Registry) Len(w string) int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	n := 0
	for _, tiles := range r.worlds[w] {
		n += len(tiles)
	}
	return n
}

// Close closes the database.
func (r *Registry) Close() error {
	return r.db.Close()
}

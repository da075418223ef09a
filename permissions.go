package beacon

import (
	"strings"

	"github.com/google/uuid"
)

// Permissions decides which players hold the beacon permission.
// Operators are listed by player name or by UUID.
type Permissions struct {
	names map[string]struct{}
	uuids map[uuid.UUID]struct{}
}

// NewPermissions creates permissions for the given operators. Entries that
// parse as a UUID match by UUID, all others match names case-insensitively.
func NewPermissions(operators ...string) *Permissions {
	p := &Permissions{
		names: make(map[string]struct{}),
		uuids: make(map[uuid.UUID]struct{}),
	}
	for _, op := range operators {
		op = strings.TrimSpace(op)
		if op == "" {
			continue
		}
		if id, err := uuid.Parse(op); err == nil {
			p.uuids[id] = struct{}{}
			continue
		}
		p.names[strings.ToLower(op)] = struct{}{}
	}
	return p
}

// Allowed reports whether the player with the given name and UUID is an
// operator. Operators hold every permission.
func (p *Permissions) Allowed(name string, id uuid.UUID) bool {
	if p == nil {
		return false
	}
	if _, ok := p.uuids[id]; ok {
		return true
	}
	_, ok := p.names[strings.ToLower(name)]
	return ok
}

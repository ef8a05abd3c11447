package mob

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/pixil98/go-log"
	"github.com/pixil98/go-realm/internal/world"
)

// Manager owns every spawned mob and drives roaming and respawn off the
// shared driver tick.
type Manager struct {
	handlers []*Handler
}

// NewManager spawns one mob per definition and registers them live.
func NewManager(specs map[string]*Spec, grid world.Map, index *world.Index, router world.Router) *Manager {
	m := &Manager{}

	for _, spec := range specs {
		mob := New(uuid.New().String(), spec)
		handler := NewHandler(mob, grid, index, router)
		mob.SetRegion(grid.GetRegion(mob.X(), mob.Y()))
		index.Add(mob, "")
		m.handlers = append(m.handlers, handler)
	}

	return m
}

// Count returns the number of managed mobs.
func (m *Manager) Count() int { return len(m.handlers) }

// Tick runs one roam/respawn pass over every mob.
func (m *Manager) Tick(ctx context.Context) error {
	log.GetLogger(ctx).Debugf("mob tick: %d handlers", len(m.handlers))

	now := time.Now()
	for _, h := range m.handlers {
		h.Tick(now)
	}
	return nil
}

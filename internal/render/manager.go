package render

import (
	"context"

	"shaderbg/internal/gfx"
)

// Manager keeps one Coordinator per surface identifier, created on first use
// with the manager's options.
type Manager struct {
	host         gfx.Host
	opts         []Option
	coordinators map[string]*Coordinator
}

func NewManager(host gfx.Host, opts ...Option) *Manager {
	return &Manager{
		host:         host,
		opts:         opts,
		coordinators: make(map[string]*Coordinator),
	}
}

// Render renders source on the surface identified by surfaceID.
// See Coordinator.Render.
func (m *Manager) Render(ctx context.Context, source, surfaceID string) error {
	return m.Coordinator(surfaceID).Render(ctx, source)
}

// Teardown stops the loop of surfaceID and removes its surface.
func (m *Manager) Teardown(surfaceID string) {
	c, ok := m.coordinators[surfaceID]
	if !ok {
		if s, found := m.host.Lookup(surfaceID); found {
			s.Destroy()
		}
		return
	}
	c.Teardown()
	delete(m.coordinators, surfaceID)
}

// TeardownAll tears down every surface the manager owns.
func (m *Manager) TeardownAll() {
	for id := range m.coordinators {
		m.Teardown(id)
	}
}

// Coordinator returns the coordinator for surfaceID, creating it if needed.
func (m *Manager) Coordinator(surfaceID string) *Coordinator {
	c, ok := m.coordinators[surfaceID]
	if !ok {
		c = NewCoordinator(m.host, surfaceID, m.opts...)
		m.coordinators[surfaceID] = c
	}
	return c
}

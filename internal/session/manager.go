package session

import (
	"context"
	"sync"
	"time"

	"penguins/internal"
	"penguins/internal/errors"
	"penguins/internal/inputs"
	"penguins/internal/reactive"

	"github.com/google/uuid"
)

// Manager owns the live sessions. Sessions idle for longer than the TTL are
// dropped by Sweep, which resets their state to the defaults on next visit.
type Manager struct {
	graph    *reactive.Graph
	registry *inputs.Registry
	ttl      time.Duration
	logger   *internal.Logger
	now      func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session
}

// NewManager creates a manager whose sessions compute outputs from graph
func NewManager(graph *reactive.Graph, registry *inputs.Registry, ttl time.Duration) *Manager {
	return &Manager{
		graph:    graph,
		registry: registry,
		ttl:      ttl,
		logger:   internal.DefaultLogger.With("Session"),
		now:      time.Now,
		sessions: make(map[string]*Session),
	}
}

// Create starts a session at the default Input State with every output
// computed
func (m *Manager) Create(ctx context.Context) (*Session, error) {
	st := m.registry.Defaults()
	results, err := m.graph.EvaluateAll(ctx, st)
	if err != nil {
		return nil, errors.Wrap(err, "initial evaluation failed")
	}

	now := m.now()
	s := &Session{
		ID:        uuid.New().String(),
		CreatedAt: now,
		graph:     m.graph,
		registry:  m.registry,
		state:     st,
		results:   make(map[string]reactive.Result, len(results)),
		lastSeen:  now,
	}
	for _, r := range results {
		if r.Err != nil {
			m.logger.Warn("session %s: output %s failed: %v", s.ID, r.Name, r.Err)
		}
		s.results[r.Name] = r
	}

	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()

	m.logger.Debug("created session %s", s.ID)
	return s, nil
}

// Get returns a live session and marks it as used
func (m *Manager) Get(id string) (*Session, error) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, errors.NotFound("session " + id)
	}
	s.touch(m.now())
	return s, nil
}

// Delete drops a session; unknown ids are ignored
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Len returns the number of live sessions
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep removes sessions idle for longer than the TTL and returns how many
// were removed
func (m *Manager) Sweep() int {
	cutoff := m.now().Add(-m.ttl)

	m.mu.Lock()
	defer m.mu.Unlock()
	removed := 0
	for id, s := range m.sessions {
		if s.idleSince(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		m.logger.Info("expired %d idle sessions, %d live", removed, len(m.sessions))
	}
	return removed
}

// Run sweeps periodically until ctx is cancelled
func (m *Manager) Run(ctx context.Context) error {
	interval := m.ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			m.Sweep()
		}
	}
}

// Package session keeps one Input State per browser session and the outputs
// computed from it.
package session

import (
	"context"
	"net/url"
	"sync"
	"time"

	"penguins/internal/inputs"
	"penguins/internal/reactive"
)

// Session is one user's Input State plus the latest result for every output.
// All recomputation happens under mu, so a session runs one update at a time.
type Session struct {
	ID        string
	CreatedAt time.Time

	graph    *reactive.Graph
	registry *inputs.Registry

	mu       sync.Mutex
	state    inputs.State
	results  map[string]reactive.Result
	lastSeen time.Time
}

// Apply parses a submitted form against the current state and recomputes
// only the outputs that read a changed input. The returned results are in
// output registration order; an unchanged form returns none.
func (s *Session) Apply(ctx context.Context, form url.Values) ([]reactive.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.registry.ParseForm(s.state, form)
	changed := s.state.Diff(next)
	affected := s.graph.Affected(changed)
	if len(affected) == 0 {
		s.state = next
		return nil, nil
	}

	results, err := s.graph.Evaluate(ctx, next, affected)
	if err != nil {
		return nil, err
	}
	for _, r := range results {
		s.results[r.Name] = r
	}
	s.state = next
	return results, nil
}

// Output returns the latest result for an output
func (s *Session) Output(name string) (reactive.Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	r, ok := s.results[name]
	return r, ok
}

// Results returns the latest result of every output in registration order
func (s *Session) Results() []reactive.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]reactive.Result, 0, len(s.results))
	for _, name := range s.graph.Outputs() {
		if r, ok := s.results[name]; ok {
			out = append(out, r)
		}
	}
	return out
}

// State returns a copy of the current Input State
func (s *Session) State() inputs.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Clone()
}

// LastSeen returns when the session was last used
func (s *Session) LastSeen() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen
}

func (s *Session) touch(now time.Time) {
	s.mu.Lock()
	s.lastSeen = now
	s.mu.Unlock()
}

func (s *Session) idleSince(cutoff time.Time) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastSeen.Before(cutoff)
}

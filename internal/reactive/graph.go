// Package reactive recomputes outputs when the inputs they read change.
//
// Each output declares the input names it depends on. After an input change
// the caller asks the graph which outputs are affected and evaluates only
// those, synchronously and in registration order.
package reactive

import (
	"context"
	"fmt"
	"sync"

	"penguins/internal/inputs"
)

// ComputeFunc produces an output artifact from the current Input State
type ComputeFunc func(ctx context.Context, st inputs.State) (interface{}, error)

// Result is one evaluated output
type Result struct {
	Name     string
	Value    interface{}
	Err      error
	Revision uint64
}

type node struct {
	name    string
	deps    map[string]struct{}
	compute ComputeFunc
}

// Graph holds the output nodes. Registration is expected to finish before
// evaluation starts; after that the graph is read-only apart from the
// subscriber list and revision counter.
type Graph struct {
	nodes  []node
	byName map[string]int

	mu          sync.Mutex
	subscribers []func(Result)
	revision    uint64
}

// NewGraph creates an empty graph
func NewGraph() *Graph {
	return &Graph{byName: make(map[string]int)}
}

// Register adds an output that reads the given inputs
func (g *Graph) Register(name string, deps []string, fn ComputeFunc) error {
	if name == "" {
		return fmt.Errorf("output name is required")
	}
	if _, exists := g.byName[name]; exists {
		return fmt.Errorf("output %q already registered", name)
	}
	if len(deps) == 0 {
		return fmt.Errorf("output %q must declare at least one input", name)
	}
	if fn == nil {
		return fmt.Errorf("output %q has no compute function", name)
	}

	set := make(map[string]struct{}, len(deps))
	for _, d := range deps {
		set[d] = struct{}{}
	}
	g.byName[name] = len(g.nodes)
	g.nodes = append(g.nodes, node{name: name, deps: set, compute: fn})
	return nil
}

// MustRegister is Register for static wiring; it panics on error
func (g *Graph) MustRegister(name string, deps []string, fn ComputeFunc) {
	if err := g.Register(name, deps, fn); err != nil {
		panic(err)
	}
}

// Outputs returns every output name in registration order
func (g *Graph) Outputs() []string {
	out := make([]string, len(g.nodes))
	for i, n := range g.nodes {
		out[i] = n.name
	}
	return out
}

// Has reports whether an output is registered
func (g *Graph) Has(name string) bool {
	_, ok := g.byName[name]
	return ok
}

// DependsOn reports whether output reads input
func (g *Graph) DependsOn(output, input string) bool {
	i, ok := g.byName[output]
	if !ok {
		return false
	}
	_, dep := g.nodes[i].deps[input]
	return dep
}

// Affected returns the outputs that read any of the changed inputs, in
// registration order
func (g *Graph) Affected(changed []string) []string {
	if len(changed) == 0 {
		return nil
	}
	var out []string
	for _, n := range g.nodes {
		for _, c := range changed {
			if _, ok := n.deps[c]; ok {
				out = append(out, n.name)
				break
			}
		}
	}
	return out
}

// Subscribe registers fn to be called with every evaluated result
func (g *Graph) Subscribe(fn func(Result)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.subscribers = append(g.subscribers, fn)
}

// Evaluate computes the named outputs against st. A compute error is
// recorded on its Result and does not stop the remaining outputs; an unknown
// name or a cancelled context aborts. Subscribers are notified only once the
// whole batch has been computed, so an aborted batch notifies no one.
func (g *Graph) Evaluate(ctx context.Context, st inputs.State, names []string) ([]Result, error) {
	results := make([]Result, 0, len(names))
	for _, name := range names {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		i, ok := g.byName[name]
		if !ok {
			return results, fmt.Errorf("unknown output %q", name)
		}

		value, err := g.nodes[i].compute(ctx, st)
		res := Result{Name: name, Value: value, Err: err, Revision: g.nextRevision()}
		results = append(results, res)
	}
	for _, res := range results {
		g.notify(res)
	}
	return results, nil
}

// EvaluateAll computes every output
func (g *Graph) EvaluateAll(ctx context.Context, st inputs.State) ([]Result, error) {
	return g.Evaluate(ctx, st, g.Outputs())
}

func (g *Graph) nextRevision() uint64 {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.revision++
	return g.revision
}

func (g *Graph) notify(res Result) {
	g.mu.Lock()
	subs := make([]func(Result), len(g.subscribers))
	copy(subs, g.subscribers)
	g.mu.Unlock()

	for _, fn := range subs {
		fn(res)
	}
}

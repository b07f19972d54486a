package reactive

import (
	"context"
	"fmt"
	"testing"

	"penguins/internal/inputs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counter(calls map[string]int, name string) ComputeFunc {
	return func(ctx context.Context, st inputs.State) (interface{}, error) {
		calls[name]++
		return fmt.Sprintf("%s:%s", name, st.SelectedAttribute), nil
	}
}

func testGraph(calls map[string]int) *Graph {
	g := NewGraph()
	g.MustRegister("table", []string{inputs.SelectedSpeciesList}, counter(calls, "table"))
	g.MustRegister("hist", []string{inputs.SelectedAttribute, inputs.PlotlyBinCount, inputs.SelectedSpeciesList, inputs.ShowSex}, counter(calls, "hist"))
	g.MustRegister("scatter", []string{inputs.SelectedSpeciesList}, counter(calls, "scatter"))
	return g
}

func TestRegisterValidation(t *testing.T) {
	g := NewGraph()
	noop := func(ctx context.Context, st inputs.State) (interface{}, error) { return nil, nil }

	require.NoError(t, g.Register("a", []string{"x"}, noop))
	assert.Error(t, g.Register("a", []string{"x"}, noop), "duplicate")
	assert.Error(t, g.Register("", []string{"x"}, noop), "empty name")
	assert.Error(t, g.Register("b", nil, noop), "no deps")
	assert.Error(t, g.Register("c", []string{"x"}, nil), "no func")
	assert.Panics(t, func() { g.MustRegister("a", []string{"x"}, noop) })
}

func TestAffected(t *testing.T) {
	g := testGraph(map[string]int{})

	assert.Equal(t, []string{"hist"}, g.Affected([]string{inputs.SelectedAttribute}))
	assert.Equal(t, []string{"table", "hist", "scatter"}, g.Affected([]string{inputs.SelectedSpeciesList}))
	assert.Equal(t, []string{"hist"}, g.Affected([]string{inputs.ShowSex, inputs.PlotlyBinCount}))
	assert.Empty(t, g.Affected([]string{inputs.SeabornBinCount}))
	assert.Empty(t, g.Affected(nil))

	assert.True(t, g.DependsOn("hist", inputs.ShowSex))
	assert.False(t, g.DependsOn("scatter", inputs.ShowSex))
	assert.False(t, g.DependsOn("missing", inputs.ShowSex))
}

func TestEvaluateOnlyAffected(t *testing.T) {
	calls := map[string]int{}
	g := testGraph(calls)
	st := inputs.NewRegistry().Defaults()

	_, err := g.EvaluateAll(context.Background(), st)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"table": 1, "hist": 1, "scatter": 1}, calls)

	results, err := g.Evaluate(context.Background(), st, g.Affected([]string{inputs.SelectedAttribute}))
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "hist", results[0].Name)
	assert.Equal(t, "hist:bill_length_mm", results[0].Value)
	assert.Equal(t, map[string]int{"table": 1, "hist": 2, "scatter": 1}, calls)
}

func TestEvaluateRevisionsAndSubscribers(t *testing.T) {
	g := testGraph(map[string]int{})
	var seen []string
	g.Subscribe(func(r Result) { seen = append(seen, r.Name) })

	results, err := g.EvaluateAll(context.Background(), inputs.State{})
	require.NoError(t, err)
	assert.Equal(t, []string{"table", "hist", "scatter"}, seen)
	assert.Less(t, results[0].Revision, results[1].Revision)
	assert.Less(t, results[1].Revision, results[2].Revision)
}

func TestAbortedBatchNotifiesNoSubscribers(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	g := NewGraph()
	g.MustRegister("first", []string{"x"}, func(ctx context.Context, st inputs.State) (interface{}, error) {
		cancel()
		return 1, nil
	})
	g.MustRegister("second", []string{"x"}, func(ctx context.Context, st inputs.State) (interface{}, error) {
		return 2, nil
	})
	var seen []string
	g.Subscribe(func(r Result) { seen = append(seen, r.Name) })

	results, err := g.EvaluateAll(ctx, inputs.State{})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Len(t, results, 1)
	assert.Empty(t, seen)

	_, err = g.Evaluate(context.Background(), inputs.State{}, []string{"second", "nope"})
	assert.Error(t, err)
	assert.Empty(t, seen)

	_, err = g.EvaluateAll(context.Background(), inputs.State{})
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second"}, seen)
}

func TestEvaluateErrors(t *testing.T) {
	g := NewGraph()
	g.MustRegister("broken", []string{"x"}, func(ctx context.Context, st inputs.State) (interface{}, error) {
		return nil, fmt.Errorf("boom")
	})
	g.MustRegister("fine", []string{"x"}, func(ctx context.Context, st inputs.State) (interface{}, error) {
		return 1, nil
	})

	results, err := g.EvaluateAll(context.Background(), inputs.State{})
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.EqualError(t, results[0].Err, "boom")
	assert.Equal(t, 1, results[1].Value)

	_, err = g.Evaluate(context.Background(), inputs.State{}, []string{"nope"})
	assert.Error(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = g.EvaluateAll(ctx, inputs.State{})
	assert.ErrorIs(t, err, context.Canceled)
}

package session

import (
	"context"
	"net/url"
	"strconv"
	"sync"
	"testing"
	"time"

	"penguins/adapters/palmer"
	"penguins/internal/errors"
	"penguins/internal/inputs"
	"penguins/internal/views"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newManager(t *testing.T, ttl time.Duration) *Manager {
	t.Helper()
	ds, err := palmer.Load()
	require.NoError(t, err)
	return NewManager(views.Outputs(ds), inputs.NewRegistry(), ttl)
}

func defaultForm() url.Values {
	return inputs.NewRegistry().Defaults().Values()
}

func TestCreateComputesEveryOutput(t *testing.T) {
	m := newManager(t, time.Minute)
	s, err := m.Create(context.Background())
	require.NoError(t, err)

	assert.NotEmpty(t, s.ID)
	assert.Equal(t, inputs.NewRegistry().Defaults(), s.State())
	results := s.Results()
	require.Len(t, results, 5)
	for _, r := range results {
		assert.NoError(t, r.Err)
	}

	table, ok := s.Output(views.OutputDataTable)
	require.True(t, ok)
	assert.Equal(t, 81, table.Value.(views.TableView).RowCount())

	got, err := m.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)
}

func TestApplyRecomputesOnlyAffectedOutputs(t *testing.T) {
	m := newManager(t, time.Minute)
	ctx := context.Background()
	s, err := m.Create(ctx)
	require.NoError(t, err)

	before, _ := s.Output(views.OutputScatterplot)

	form := defaultForm()
	form.Set(inputs.PlotlyBinCount, "10")
	results, err := s.Apply(ctx, form)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, views.OutputPlotlyHistogram, results[0].Name)
	assert.Equal(t, 10, results[0].Value.(views.Histogram).BinCount)
	assert.Equal(t, 10, s.State().PlotlyBinCount)

	after, _ := s.Output(views.OutputScatterplot)
	assert.Equal(t, before.Revision, after.Revision)

	// Resubmitting the same form changes nothing
	results, err = s.Apply(ctx, form)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestApplySpeciesChangeUpdatesEverything(t *testing.T) {
	m := newManager(t, time.Minute)
	ctx := context.Background()
	s, err := m.Create(ctx)
	require.NoError(t, err)

	form := defaultForm()
	form[inputs.SelectedSpeciesList] = []string{"Gentoo"}
	results, err := s.Apply(ctx, form)
	require.NoError(t, err)

	got := make([]string, 0, len(results))
	for _, r := range results {
		got = append(got, r.Name)
	}
	assert.Equal(t, []string{
		views.OutputDataTable, views.OutputDataGrid, views.OutputPlotlyHistogram,
		views.OutputSeabornHistogram, views.OutputScatterplot,
	}, got)

	table, _ := s.Output(views.OutputDataTable)
	assert.Equal(t, 21, table.Value.(views.TableView).RowCount())
}

func TestApplyUncheckingEverySpecies(t *testing.T) {
	m := newManager(t, time.Minute)
	ctx := context.Background()
	s, err := m.Create(ctx)
	require.NoError(t, err)

	form := defaultForm()
	form.Del(inputs.SelectedSpeciesList)
	_, err = s.Apply(ctx, form)
	require.NoError(t, err)

	assert.Empty(t, s.State().SelectedSpeciesList)
	h, _ := s.Output(views.OutputPlotlyHistogram)
	assert.True(t, h.Value.(views.Histogram).Empty())
}

func TestApplyCancelledContextKeepsState(t *testing.T) {
	m := newManager(t, time.Minute)
	s, err := m.Create(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	form := defaultForm()
	form.Set(inputs.SelectedAttribute, "body_mass_g")
	_, err = s.Apply(ctx, form)
	require.Error(t, err)
	assert.Equal(t, "bill_length_mm", string(s.State().SelectedAttribute))
}

func TestSessionsAreIndependent(t *testing.T) {
	m := newManager(t, time.Minute)
	ctx := context.Background()
	a, err := m.Create(ctx)
	require.NoError(t, err)
	b, err := m.Create(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)

	form := defaultForm()
	form.Set(inputs.ShowSex, "on")
	_, err = a.Apply(ctx, form)
	require.NoError(t, err)

	assert.True(t, a.State().ShowSex)
	assert.False(t, b.State().ShowSex)
}

func TestConcurrentApply(t *testing.T) {
	m := newManager(t, time.Minute)
	ctx := context.Background()
	s, err := m.Create(ctx)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 1; i <= 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			form := defaultForm()
			form.Set(inputs.SeabornBinCount, strconv.Itoa(n*5))
			_, err := s.Apply(ctx, form)
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	st := s.State()
	h, _ := s.Output(views.OutputSeabornHistogram)
	assert.Equal(t, st.SeabornBinCount, h.Value.(views.Histogram).BinCount)
}

func TestGetUnknownSession(t *testing.T) {
	m := newManager(t, time.Minute)
	_, err := m.Get("missing")
	require.Error(t, err)
	assert.Equal(t, errors.CodeNotFound, errors.GetCode(err))
}

func TestSweepExpiresIdleSessions(t *testing.T) {
	m := newManager(t, 10*time.Minute)
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }
	ctx := context.Background()

	stale, err := m.Create(ctx)
	require.NoError(t, err)
	now = now.Add(6 * time.Minute)
	fresh, err := m.Create(ctx)
	require.NoError(t, err)

	now = now.Add(5 * time.Minute)
	assert.Equal(t, 1, m.Sweep())
	assert.Equal(t, 1, m.Len())

	_, err = m.Get(stale.ID)
	assert.Error(t, err)
	_, err = m.Get(fresh.ID)
	assert.NoError(t, err)

	m.Delete(fresh.ID)
	assert.Equal(t, 0, m.Len())
}

func TestRunStopsOnCancel(t *testing.T) {
	m := newManager(t, time.Minute)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- m.Run(ctx) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}

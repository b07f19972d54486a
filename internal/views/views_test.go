package views

import (
	"context"
	"testing"

	"penguins/adapters/palmer"
	"penguins/domain/penguins"
	"penguins/internal/inputs"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func bundled(t *testing.T) *penguins.Dataset {
	t.Helper()
	ds, err := palmer.Load()
	require.NoError(t, err)
	return ds
}

func defaults() inputs.State {
	return inputs.NewRegistry().Defaults()
}

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

func TestTableFiltersBySpecies(t *testing.T) {
	ds := bundled(t)
	st := defaults()

	view := Table(ds, st)
	assert.Equal(t, penguins.Columns, view.Columns)
	assert.Equal(t, 81, view.RowCount())
	assert.Equal(t, []string{"Adelie", "Torgersen", "39.1", "18.7", "181", "3750", "male", "2007"}, view.Rows[0])

	st.SelectedSpeciesList = []penguins.Species{penguins.SpeciesChinstrap}
	view = Table(ds, st)
	assert.Equal(t, 20, view.RowCount())
	for _, row := range view.Rows {
		assert.Equal(t, "Chinstrap", row[0])
	}
}

func TestTableShowsMissingAsNA(t *testing.T) {
	ds := bundled(t)
	view := Table(ds, defaults())
	assert.Equal(t, []string{"Adelie", "Torgersen", "NA", "NA", "NA", "NA", "NA", "2007"}, view.Rows[3])
}

func TestGridPaging(t *testing.T) {
	ds := bundled(t)
	st := defaults()
	st.SelectedSpeciesList = []penguins.Species{penguins.SpeciesGentoo}

	grid := Grid(ds, st)
	assert.Equal(t, DefaultGridPageSize, grid.PageSize)
	assert.Equal(t, 3, grid.PageCount())

	first := grid.Page(1)
	assert.Len(t, first.Rows, 10)
	assert.Equal(t, 1, first.FirstRow)
	assert.Equal(t, 10, first.LastRow)
	assert.False(t, first.HasPrev)
	assert.True(t, first.HasNext)

	last := grid.Page(3)
	assert.Len(t, last.Rows, 1)
	assert.Equal(t, 21, last.FirstRow)
	assert.Equal(t, 21, last.LastRow)
	assert.True(t, last.HasPrev)
	assert.False(t, last.HasNext)

	assert.Equal(t, 1, grid.Page(-4).Page)
	assert.Equal(t, 3, grid.Page(99).Page)
}

func TestEmptySelection(t *testing.T) {
	ds := bundled(t)
	st := defaults()
	st.SelectedSpeciesList = []penguins.Species{}

	table := Table(ds, st)
	assert.Equal(t, 0, table.RowCount())
	assert.Equal(t, penguins.Columns, table.Columns)

	grid := Grid(ds, st)
	page := grid.Page(1)
	assert.Equal(t, 1, grid.PageCount())
	assert.Empty(t, page.Rows)
	assert.Equal(t, 0, page.FirstRow)
	assert.Equal(t, 0, page.LastRow)

	h := PlotlyHistogram(ds, st)
	assert.True(t, h.Empty())
	assert.Equal(t, "Plotly Histogram for bill_length_mm", h.Title)
	assert.Equal(t, 40, h.BinCount)
	assert.NotNil(t, h.Series)
	assert.Empty(t, h.Series)

	sb := SeabornHistogram(ds, st)
	assert.True(t, sb.Empty())
	assert.Equal(t, "Seaborn Histogram for bill_length_mm", sb.Title)

	sc := Scatter(ds, st)
	assert.Equal(t, 0, sc.PointCount())
	assert.NotNil(t, sc.Series)
	assert.Equal(t, "Body Mass (g)", sc.XLabel)
	assert.Equal(t, "Bill Length(mm)", sc.YLabel)
}

func TestPlotlyHistogramGentoo(t *testing.T) {
	ds := bundled(t)
	st := defaults()
	st.SelectedSpeciesList = []penguins.Species{penguins.SpeciesGentoo}
	st.SelectedAttribute = penguins.BillLengthMM
	st.PlotlyBinCount = 10

	h := PlotlyHistogram(ds, st)
	assert.Equal(t, "Plotly Histogram for bill_length_mm", h.Title)
	assert.Equal(t, "bill_length_mm", h.XAxisTitle)
	assert.Equal(t, "count", h.YAxisTitle)
	assert.Equal(t, 10, h.BinCount)
	assert.Len(t, h.Edges, 11)
	require.Len(t, h.Series, 1)
	assert.Equal(t, "bill_length_mm", h.Series[0].Name)
	assert.Len(t, h.Series[0].Counts, 10)
	// One Gentoo row has no measurements
	assert.Equal(t, 21, h.Records)
	assert.Equal(t, 20, h.Summary.Count)
	assert.Equal(t, 20.0, sum(h.Series[0].Counts))
	assert.Equal(t, h.Summary.Min, h.Edges[0])
	assert.Equal(t, h.Summary.Max, h.Edges[10])
}

func TestShowSexChangesGroupingAndTitle(t *testing.T) {
	ds := bundled(t)
	st := defaults()
	st.SelectedSpeciesList = []penguins.Species{penguins.SpeciesAdelie}

	plain := PlotlyHistogram(ds, st)
	st.ShowSex = true
	split := PlotlyHistogram(ds, st)

	assert.Equal(t, "Plotly Histogram for bill_length_mm (Sex Included)", split.Title)
	assert.Equal(t, "bill_length_mm (with Sex)", split.XAxisTitle)
	assert.True(t, split.SplitBySex)

	names := make([]string, 0, len(split.Series))
	total := 0.0
	for _, s := range split.Series {
		names = append(names, s.Name)
		total += sum(s.Counts)
	}
	assert.Equal(t, []string{"male", "female", "unknown"}, names)
	assert.Equal(t, plain.Edges, split.Edges)
	assert.Equal(t, plain.Summary, split.Summary)
	assert.Equal(t, sum(plain.Series[0].Counts), total)

	sb := SeabornHistogram(ds, st)
	assert.Equal(t, "Seaborn Histogram for bill_length_mm (Sex Included)", sb.Title)
	assert.Equal(t, "bill_length_mm", sb.XAxisTitle)
	assert.Equal(t, "Count", sb.YAxisTitle)
}

func TestHistogramsUseTheirOwnBinCounts(t *testing.T) {
	ds := bundled(t)
	st := defaults()
	st.PlotlyBinCount = 5
	st.SeabornBinCount = 12

	assert.Equal(t, 5, PlotlyHistogram(ds, st).BinCount)
	assert.Equal(t, 12, SeabornHistogram(ds, st).BinCount)

	st.PlotlyBinCount = 0
	h := PlotlyHistogram(ds, st)
	assert.Equal(t, 0, h.RequestedBins)
	assert.Greater(t, h.BinCount, 0)
}

func TestScatterBySpecies(t *testing.T) {
	ds := bundled(t)
	st := defaults()

	sc := Scatter(ds, st)
	assert.Equal(t, penguins.BodyMassG, sc.XField)
	assert.Equal(t, penguins.BillLengthMM, sc.YField)
	require.Len(t, sc.Series, 3)
	assert.Equal(t, "Adelie", sc.Series[0].Name)
	assert.Equal(t, "Gentoo", sc.Series[1].Name)
	assert.Equal(t, "Chinstrap", sc.Series[2].Name)
	// Two rows lack both coordinates
	assert.Equal(t, 79, sc.PointCount())
	assert.Equal(t, 3750.0, sc.Series[0].X[0])
	assert.Equal(t, 39.1, sc.Series[0].Y[0])

	// The attribute and bin inputs have no effect
	st.SelectedAttribute = penguins.FlipperLengthMM
	st.PlotlyBinCount = 3
	st.ShowSex = true
	assert.Equal(t, sc, Scatter(ds, st))
}

func TestOutputsDependencies(t *testing.T) {
	g := Outputs(bundled(t))

	assert.Equal(t, []string{
		OutputDataTable, OutputDataGrid, OutputPlotlyHistogram, OutputSeabornHistogram, OutputScatterplot,
	}, g.Outputs())

	assert.Equal(t, []string{OutputPlotlyHistogram, OutputSeabornHistogram},
		g.Affected([]string{inputs.SelectedAttribute}))
	assert.Equal(t, []string{OutputPlotlyHistogram},
		g.Affected([]string{inputs.PlotlyBinCount}))
	assert.Equal(t, []string{OutputSeabornHistogram},
		g.Affected([]string{inputs.SeabornBinCount}))
	assert.Equal(t, []string{OutputPlotlyHistogram, OutputSeabornHistogram},
		g.Affected([]string{inputs.ShowSex}))
	assert.Equal(t, g.Outputs(), g.Affected([]string{inputs.SelectedSpeciesList}))
}

func TestOutputsEvaluate(t *testing.T) {
	g := Outputs(bundled(t))
	st := defaults()
	st.SelectedSpeciesList = []penguins.Species{penguins.SpeciesGentoo}
	st.PlotlyBinCount = 10

	results, err := g.EvaluateAll(context.Background(), st)
	require.NoError(t, err)
	require.Len(t, results, 5)
	for _, r := range results {
		assert.NoError(t, r.Err)
	}

	assert.Equal(t, 21, results[0].Value.(TableView).RowCount())
	assert.Equal(t, 3, results[1].Value.(GridView).PageCount())
	assert.Equal(t, 10, results[2].Value.(Histogram).BinCount)
	assert.Equal(t, 40, results[3].Value.(Histogram).BinCount)
	assert.Equal(t, 20, results[4].Value.(ScatterView).PointCount())
}

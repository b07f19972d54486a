package views

import (
	"context"

	"penguins/domain/penguins"
	"penguins/internal/inputs"
	"penguins/internal/reactive"
)

// Outputs wires the five presentation functions into a reactive graph, each
// declaring exactly the inputs it reads
func Outputs(ds *penguins.Dataset) *reactive.Graph {
	g := reactive.NewGraph()

	g.MustRegister(OutputDataTable,
		[]string{inputs.SelectedSpeciesList},
		func(ctx context.Context, st inputs.State) (interface{}, error) {
			return Table(ds, st), nil
		})

	g.MustRegister(OutputDataGrid,
		[]string{inputs.SelectedSpeciesList},
		func(ctx context.Context, st inputs.State) (interface{}, error) {
			return Grid(ds, st), nil
		})

	g.MustRegister(OutputPlotlyHistogram,
		[]string{inputs.SelectedAttribute, inputs.PlotlyBinCount, inputs.SelectedSpeciesList, inputs.ShowSex},
		func(ctx context.Context, st inputs.State) (interface{}, error) {
			return PlotlyHistogram(ds, st), nil
		})

	g.MustRegister(OutputSeabornHistogram,
		[]string{inputs.SelectedAttribute, inputs.SeabornBinCount, inputs.ShowSex, inputs.SelectedSpeciesList},
		func(ctx context.Context, st inputs.State) (interface{}, error) {
			return SeabornHistogram(ds, st), nil
		})

	g.MustRegister(OutputScatterplot,
		[]string{inputs.SelectedSpeciesList},
		func(ctx context.Context, st inputs.State) (interface{}, error) {
			return Scatter(ds, st), nil
		})

	return g
}

package views

import (
	"penguins/domain/penguins"
	"penguins/internal/inputs"
)

// Scatter plots body mass against bill length for the selected species, one
// series per species in order of first appearance. It ignores every input
// other than the species selection.
func Scatter(ds *penguins.Dataset, st inputs.State) ScatterView {
	filtered := penguins.FilterBySpecies(ds, st.SelectedSpeciesList)

	view := ScatterView{
		XField:  penguins.BodyMassG,
		YField:  penguins.BillLengthMM,
		XLabel:  "Body Mass (g)",
		YLabel:  "Bill Length(mm)",
		Series:  []ScatterSeries{},
		Records: filtered.Len(),
	}

	index := make(map[penguins.Species]int)
	filtered.Each(func(_ int, r penguins.Record) bool {
		x, y := r.BodyMassG, r.BillLengthMM
		if !x.Valid || !y.Valid {
			return true
		}
		i, ok := index[r.Species]
		if !ok {
			i = len(view.Series)
			index[r.Species] = i
			view.Series = append(view.Series, ScatterSeries{Name: string(r.Species)})
		}
		view.Series[i].X = append(view.Series[i].X, x.Value)
		view.Series[i].Y = append(view.Series[i].Y, y.Value)
		return true
	})
	return view
}

package views

import (
	"penguins/domain/penguins"
	"penguins/internal/inputs"
)

// DefaultGridPageSize is the number of rows per grid page
const DefaultGridPageSize = 10

// Table renders the filtered dataset as a scrollable table
func Table(ds *penguins.Dataset, st inputs.State) TableView {
	filtered := penguins.FilterBySpecies(ds, st.SelectedSpeciesList)
	return TableView{
		Columns: columns(),
		Rows:    rows(filtered),
	}
}

// Grid renders the filtered dataset as a paginated grid
func Grid(ds *penguins.Dataset, st inputs.State) GridView {
	filtered := penguins.FilterBySpecies(ds, st.SelectedSpeciesList)
	return GridView{
		Columns:  columns(),
		Rows:     rows(filtered),
		PageSize: DefaultGridPageSize,
	}
}

// PageCount returns the number of pages; an empty grid still has one page
func (g GridView) PageCount() int {
	size := g.pageSize()
	if len(g.Rows) == 0 {
		return 1
	}
	return (len(g.Rows) + size - 1) / size
}

// Page returns page n, clamped to the valid range
func (g GridView) Page(n int) GridPage {
	size := g.pageSize()
	pages := g.PageCount()
	if n < 1 {
		n = 1
	}
	if n > pages {
		n = pages
	}

	start := (n - 1) * size
	end := start + size
	if end > len(g.Rows) {
		end = len(g.Rows)
	}

	page := GridPage{
		Columns:   g.Columns,
		Rows:      g.Rows[start:end],
		Page:      n,
		PageCount: pages,
		TotalRows: len(g.Rows),
		HasPrev:   n > 1,
		HasNext:   n < pages,
		PrevPage:  n - 1,
		NextPage:  n + 1,
	}
	if end > start {
		page.FirstRow = start + 1
		page.LastRow = end
	}
	return page
}

func (g GridView) pageSize() int {
	if g.PageSize <= 0 {
		return DefaultGridPageSize
	}
	return g.PageSize
}

func columns() []string {
	return append([]string(nil), penguins.Columns...)
}

func rows(ds *penguins.Dataset) [][]string {
	out := make([][]string, 0, ds.Len())
	ds.Each(func(_ int, r penguins.Record) bool {
		out = append(out, r.Cells())
		return true
	})
	return out
}

// Package views holds the dashboard's presentation functions. Each one is a
// pure function of the dataset and the Input State that filters by species
// and returns a backend-neutral artifact.
package views

import (
	"penguins/domain/penguins"
	"penguins/internal/profiling"
)

// Output names, as bound to page slots
const (
	OutputDataTable        = "penguin_datatable"
	OutputDataGrid         = "penguin_datagrid"
	OutputPlotlyHistogram  = "plotly_histogram"
	OutputSeabornHistogram = "seaborn_histogram"
	OutputScatterplot      = "plotly_scatterplot"
)

// TableView is every filtered row, for the scrollable table layout
type TableView struct {
	Columns []string   `json:"columns"`
	Rows    [][]string `json:"rows"`
}

// RowCount returns the number of rows
func (t TableView) RowCount() int { return len(t.Rows) }

// GridView is the paginated grid layout of the same rows
type GridView struct {
	Columns  []string   `json:"columns"`
	Rows     [][]string `json:"rows"`
	PageSize int        `json:"page_size"`
}

// GridPage is one page of a GridView. Pages are 1-based.
type GridPage struct {
	Columns   []string   `json:"columns"`
	Rows      [][]string `json:"rows"`
	Page      int        `json:"page"`
	PageCount int        `json:"page_count"`
	TotalRows int        `json:"total_rows"`
	FirstRow  int        `json:"first_row"`
	LastRow   int        `json:"last_row"`
	HasPrev   bool       `json:"has_prev"`
	HasNext   bool       `json:"has_next"`
	PrevPage  int        `json:"prev_page"`
	NextPage  int        `json:"next_page"`
}

// Summary describes the values binned by a histogram
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`

	Shape profiling.Shape `json:"shape"`
}

// HistogramSeries is one bar group; a single series when not split by sex
type HistogramSeries struct {
	Name   string    `json:"name"`
	Values []float64 `json:"values"`
	Counts []float64 `json:"counts"`
}

// Histogram is the artifact shared by both histogram backends
type Histogram struct {
	Attribute  penguins.Attribute `json:"attribute"`
	Title      string             `json:"title"`
	XAxisTitle string             `json:"xaxis_title"`
	YAxisTitle string             `json:"yaxis_title"`
	SplitBySex bool               `json:"split_by_sex"`
	// RequestedBins is the bin count from the input; BinCount the count used
	RequestedBins int               `json:"requested_bins"`
	BinCount      int               `json:"bin_count"`
	Edges         []float64         `json:"edges"`
	Series        []HistogramSeries `json:"series"`
	Summary       Summary           `json:"summary"`
	// Records is the number of filtered records, including ones with the
	// attribute missing
	Records int `json:"records"`
}

// Empty reports whether there is nothing to draw
func (h Histogram) Empty() bool { return h.Summary.Count == 0 }

// ScatterSeries holds the points of one species
type ScatterSeries struct {
	Name string    `json:"name"`
	X    []float64 `json:"x"`
	Y    []float64 `json:"y"`
}

// ScatterView plots body mass against bill length, coloured by species
type ScatterView struct {
	XField  penguins.Attribute `json:"x_field"`
	YField  penguins.Attribute `json:"y_field"`
	XLabel  string             `json:"x_label"`
	YLabel  string             `json:"y_label"`
	Series  []ScatterSeries    `json:"series"`
	Records int                `json:"records"`
}

// PointCount returns the number of plotted points
func (s ScatterView) PointCount() int {
	n := 0
	for _, ser := range s.Series {
		n += len(ser.X)
	}
	return n
}

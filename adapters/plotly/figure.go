// Package plotly converts view artifacts into plotly.js figure JSON. The page
// hands the figure straight to Plotly.react.
package plotly

import (
	"encoding/json"

	"penguins/internal/views"
)

// Figure is a plotly.js figure: traces plus layout
type Figure struct {
	Data   []Trace `json:"data"`
	Layout Layout  `json:"layout"`
}

// Trace is a single plotly.js trace. Only the fields this dashboard draws are
// modelled.
type Trace struct {
	Type   string    `json:"type"`
	Name   string    `json:"name,omitempty"`
	X      []float64 `json:"x"`
	Y      []float64 `json:"y"`
	Width  []float64 `json:"width,omitempty"`
	Mode   string    `json:"mode,omitempty"`
	Marker *Marker   `json:"marker,omitempty"`
}

// Marker styles bars and points
type Marker struct {
	Size    int     `json:"size,omitempty"`
	Opacity float64 `json:"opacity,omitempty"`
}

// Title is plotly's {"text": ...} title object
type Title struct {
	Text string `json:"text"`
}

// Axis is an x or y axis layout entry
type Axis struct {
	Title Title `json:"title"`
}

// Layout holds the figure titles and bar grouping
type Layout struct {
	Title      Title  `json:"title"`
	XAxis      Axis   `json:"xaxis"`
	YAxis      Axis   `json:"yaxis"`
	BarMode    string `json:"barmode,omitempty"`
	ShowLegend bool   `json:"showlegend"`
}

// JSON encodes the figure
func (f Figure) JSON() ([]byte, error) {
	return json.Marshal(f)
}

// HistogramFigure draws each histogram series as a bar trace of its bin
// counts at the bin centres. Split histograms stack their series.
func HistogramFigure(h views.Histogram) Figure {
	fig := Figure{
		Data: []Trace{},
		Layout: Layout{
			Title:      Title{Text: h.Title},
			XAxis:      Axis{Title: Title{Text: h.XAxisTitle}},
			YAxis:      Axis{Title: Title{Text: h.YAxisTitle}},
			ShowLegend: h.SplitBySex,
		},
	}
	if h.SplitBySex {
		fig.Layout.BarMode = "stack"
	}
	if h.Empty() || len(h.Edges) < 2 {
		return fig
	}

	n := len(h.Edges) - 1
	centers := make([]float64, n)
	widths := make([]float64, n)
	for i := 0; i < n; i++ {
		centers[i] = (h.Edges[i] + h.Edges[i+1]) / 2
		widths[i] = h.Edges[i+1] - h.Edges[i]
	}

	for _, s := range h.Series {
		fig.Data = append(fig.Data, Trace{
			Type:  "bar",
			Name:  s.Name,
			X:     centers,
			Y:     s.Counts,
			Width: widths,
		})
	}
	return fig
}

// ScatterFigure draws one marker trace per species
func ScatterFigure(v views.ScatterView) Figure {
	fig := Figure{
		Data: []Trace{},
		Layout: Layout{
			XAxis:      Axis{Title: Title{Text: v.XLabel}},
			YAxis:      Axis{Title: Title{Text: v.YLabel}},
			ShowLegend: true,
		},
	}
	for _, s := range v.Series {
		fig.Data = append(fig.Data, Trace{
			Type:   "scatter",
			Name:   s.Name,
			X:      s.X,
			Y:      s.Y,
			Mode:   "markers",
			Marker: &Marker{Size: 7, Opacity: 0.8},
		})
	}
	return fig
}

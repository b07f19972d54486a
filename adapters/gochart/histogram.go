// Package gochart renders histogram artifacts as static PNG images.
package gochart

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"

	"penguins/internal"
	"penguins/internal/views"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

const (
	DefaultWidth  = 800
	DefaultHeight = 480
	// MaxSide caps either dimension of a rendered image
	MaxSide = 4096
)

var logger = internal.DefaultLogger.With("GoChart")

// ClampSide returns fallback for a non-positive size and MaxSide for one
// above it
func ClampSide(n, fallback int) int {
	switch {
	case n <= 0:
		return fallback
	case n > MaxSide:
		return MaxSide
	default:
		return n
	}
}

// palette cycles per series; alpha keeps overlapping layers visible
var palette = []drawing.Color{
	{R: 76, G: 114, B: 176, A: 255},
	{R: 221, G: 132, B: 82, A: 255},
	{R: 85, G: 168, B: 104, A: 255},
	{R: 196, G: 78, B: 82, A: 255},
}

// RenderHistogramPNG draws each series as a filled step outline over the
// shared bin edges, layered with a legend. An empty histogram, or any error
// from the chart renderer, yields a blank image carrying the title. Sizes
// above MaxSide are clamped.
func RenderHistogramPNG(h views.Histogram, width, height int) ([]byte, error) {
	width = ClampSide(width, DefaultWidth)
	height = ClampSide(height, DefaultHeight)
	if h.Empty() || len(h.Edges) < 2 {
		return encode(blank(width, height, h.Title))
	}

	series := make([]chart.Series, 0, len(h.Series))
	for i, s := range h.Series {
		xs, ys := steps(h.Edges, s.Counts)
		col := palette[i%len(palette)]
		series = append(series, chart.ContinuousSeries{
			Name:    s.Name,
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: col,
				StrokeWidth: 1.5,
				FillColor:   col.WithAlpha(90),
			},
		})
	}

	ch := chart.Chart{
		Title:      h.Title,
		Width:      width,
		Height:     height,
		Background: chart.Style{Padding: chart.Box{Top: 40, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      chart.XAxis{Name: h.XAxisTitle},
		YAxis:      chart.YAxis{Name: h.YAxisTitle},
		Series:     series,
	}
	ch.Elements = []chart.Renderable{chart.Legend(&ch)}

	var buf bytes.Buffer
	if err := ch.Render(chart.PNG, &buf); err != nil {
		logger.Warn("render of %q failed: %v; using blank image", h.Title, err)
		return encode(blank(width, height, h.Title))
	}
	return buf.Bytes(), nil
}

// steps converts bin counts into the outline of a bar histogram, starting and
// ending on the baseline
func steps(edges, counts []float64) ([]float64, []float64) {
	xs := make([]float64, 0, 2*len(counts)+2)
	ys := make([]float64, 0, 2*len(counts)+2)
	xs = append(xs, edges[0])
	ys = append(ys, 0)
	for i, c := range counts {
		if i+1 >= len(edges) {
			break
		}
		xs = append(xs, edges[i], edges[i+1])
		ys = append(ys, c, c)
	}
	xs = append(xs, edges[len(edges)-1])
	ys = append(ys, 0)
	return xs, ys
}

func blank(w, h int, title string) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
	if title == "" {
		return img
	}

	face := basicfont.Face7x13
	dr := &font.Drawer{Dst: img, Src: image.NewUniform(color.RGBA{R: 40, G: 40, B: 40, A: 255}), Face: face}
	tw := dr.MeasureString(title).Ceil()
	x := (w - tw) / 2
	if x < 8 {
		x = 8
	}
	dr.Dot = fixed.Point26_6{X: fixed.I(x), Y: fixed.I(24)}
	dr.DrawString(title)
	return img
}

func encode(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

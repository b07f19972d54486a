// Package binning buckets numeric values into equal-width histogram bins.
package binning

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Bins holds the shared edges of a histogram. Edges has BinCount()+1 entries;
// bin i covers [Edges[i], Edges[i+1]), the last bin is closed on the right.
type Bins struct {
	Edges []float64
}

// BinCount returns the number of bins
func (b Bins) BinCount() int {
	if len(b.Edges) < 2 {
		return 0
	}
	return len(b.Edges) - 1
}

// Centers returns the midpoint of each bin
func (b Bins) Centers() []float64 {
	out := make([]float64, b.BinCount())
	for i := range out {
		out[i] = (b.Edges[i] + b.Edges[i+1]) / 2
	}
	return out
}

// Width returns the common bin width
func (b Bins) Width() float64 {
	if b.BinCount() == 0 {
		return 0
	}
	return b.Edges[1] - b.Edges[0]
}

// AutoCount picks a bin count for n values using Sturges' rule
func AutoCount(n int) int {
	if n <= 1 {
		return 1
	}
	return int(math.Ceil(math.Log2(float64(n)))) + 1
}

// Resolve turns a requested bin count into the count actually used: values
// <= 0 mean automatic
func Resolve(requested, n int) int {
	if requested <= 0 {
		return AutoCount(n)
	}
	return requested
}

// EqualWidth spans [min, max] of the given samples with count bins. When every
// value is identical the range is widened by 0.5 either side so the single
// value lands in a real bin. It returns empty Bins when there are no values.
func EqualWidth(count int, samples ...[]float64) Bins {
	lo, hi := math.Inf(1), math.Inf(-1)
	for _, s := range samples {
		if len(s) == 0 {
			continue
		}
		lo = math.Min(lo, floats.Min(s))
		hi = math.Max(hi, floats.Max(s))
	}
	if math.IsInf(lo, 1) || count <= 0 {
		return Bins{}
	}
	if lo == hi {
		lo -= 0.5
		hi += 0.5
	}

	edges := make([]float64, count+1)
	floats.Span(edges, lo, hi)
	return Bins{Edges: edges}
}

// Count returns the number of values falling in each bin. Values outside the
// edges are ignored.
func (b Bins) Count(values []float64) []float64 {
	n := b.BinCount()
	if n == 0 {
		return nil
	}
	if len(values) == 0 {
		return make([]float64, n)
	}

	x := make([]float64, 0, len(values))
	for _, v := range values {
		if v >= b.Edges[0] && v <= b.Edges[n] {
			x = append(x, v)
		}
	}
	sort.Float64s(x)
	if len(x) == 0 {
		return make([]float64, n)
	}

	// stat.Histogram treats the last divider as exclusive, so nudge it up to
	// keep the maximum in the final bin
	dividers := make([]float64, len(b.Edges))
	copy(dividers, b.Edges)
	dividers[n] = math.Nextafter(dividers[n], math.Inf(1))

	return stat.Histogram(nil, dividers, x, nil)
}

package views

import (
	"fmt"

	"penguins/domain/penguins"
	"penguins/internal/binning"
	"penguins/internal/inputs"
	"penguins/internal/profiling"

	"github.com/montanaflynn/stats"
)

// PlotlyHistogram buckets the selected attribute into plotly_bin_count bins.
// With show_sex the bars split by sex and both the title and the axis label
// say so.
func PlotlyHistogram(ds *penguins.Dataset, st inputs.State) Histogram {
	attr := st.SelectedAttribute
	h := histogram(ds, st, st.PlotlyBinCount)

	if st.ShowSex {
		h.Title = fmt.Sprintf("Plotly Histogram for %s (Sex Included)", attr)
		h.XAxisTitle = fmt.Sprintf("%s (with Sex)", attr)
	} else {
		h.Title = fmt.Sprintf("Plotly Histogram for %s", attr)
		h.XAxisTitle = string(attr)
	}
	h.YAxisTitle = "count"
	return h
}

// SeabornHistogram is the static-image histogram driven by seaborn_bin_count.
// Its title only gains a suffix with show_sex; the axis label stays the
// attribute name.
func SeabornHistogram(ds *penguins.Dataset, st inputs.State) Histogram {
	attr := st.SelectedAttribute
	h := histogram(ds, st, st.SeabornBinCount)

	h.Title = fmt.Sprintf("Seaborn Histogram for %s", attr)
	if st.ShowSex {
		h.Title += " (Sex Included)"
	}
	h.XAxisTitle = string(attr)
	h.YAxisTitle = "Count"
	return h
}

func histogram(ds *penguins.Dataset, st inputs.State, requestedBins int) Histogram {
	filtered := penguins.FilterBySpecies(ds, st.SelectedSpeciesList)
	attr := st.SelectedAttribute

	h := Histogram{
		Attribute:     attr,
		SplitBySex:    st.ShowSex,
		RequestedBins: requestedBins,
		Records:       filtered.Len(),
	}

	series := groupValues(filtered, attr, st.ShowSex)
	all := filtered.Values(attr)
	h.Summary = summarize(all)
	if len(all) == 0 {
		h.BinCount = requestedBins
		if h.BinCount < 0 {
			h.BinCount = 0
		}
		h.Series = []HistogramSeries{}
		h.Edges = []float64{}
		return h
	}

	samples := make([][]float64, len(series))
	for i, s := range series {
		samples[i] = s.Values
	}
	bins := binning.EqualWidth(binning.Resolve(requestedBins, len(all)), samples...)
	for i := range series {
		series[i].Counts = bins.Count(series[i].Values)
	}

	h.BinCount = bins.BinCount()
	h.Edges = bins.Edges
	h.Series = series
	return h
}

// groupValues collects attribute values, split by sex in order of first
// appearance when bySex is set. Records missing the attribute are skipped;
// records with unknown sex form their own group.
func groupValues(ds *penguins.Dataset, attr penguins.Attribute, bySex bool) []HistogramSeries {
	if !bySex {
		return []HistogramSeries{{Name: string(attr), Values: ds.Values(attr)}}
	}

	index := make(map[penguins.Sex]int)
	var out []HistogramSeries
	ds.Each(func(_ int, r penguins.Record) bool {
		m := r.Measure(attr)
		if !m.Valid {
			return true
		}
		i, ok := index[r.Sex]
		if !ok {
			i = len(out)
			index[r.Sex] = i
			out = append(out, HistogramSeries{Name: r.Sex.Label()})
		}
		out[i].Values = append(out[i].Values, m.Value)
		return true
	})
	return out
}

func summarize(values []float64) Summary {
	if len(values) == 0 {
		return Summary{}
	}
	data := stats.Float64Data(values)

	s := Summary{Count: len(values)}
	// Errors only arise for empty input, which is handled above
	s.Mean, _ = data.Mean()
	s.Median, _ = data.Median()
	if len(values) > 1 {
		s.StdDev, _ = data.StandardDeviationSample()
	}
	s.Min, _ = data.Min()
	s.Max, _ = data.Max()
	s.Shape = profiling.Describe(values)
	return s
}

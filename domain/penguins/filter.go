package penguins

// FilterBySpecies returns the records whose species is in selection, keeping
// their original relative order. An empty selection yields an empty dataset.
func FilterBySpecies(ds *Dataset, selection []Species) *Dataset {
	if len(selection) == 0 || ds.Len() == 0 {
		return &Dataset{}
	}

	want := make(map[Species]struct{}, len(selection))
	for _, s := range selection {
		want[s] = struct{}{}
	}

	out := make([]Record, 0, ds.Len())
	for _, r := range ds.records {
		if _, ok := want[r.Species]; ok {
			out = append(out, r)
		}
	}
	return &Dataset{records: out}
}

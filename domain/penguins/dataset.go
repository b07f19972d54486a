package penguins

// Dataset is an immutable, ordered collection of records. It is safe for
// concurrent readers; nothing mutates it after NewDataset returns.
type Dataset struct {
	records []Record
}

// NewDataset copies the given records into a new dataset
func NewDataset(records []Record) *Dataset {
	cp := make([]Record, len(records))
	copy(cp, records)
	return &Dataset{records: cp}
}

// Len returns the number of records
func (d *Dataset) Len() int {
	if d == nil {
		return 0
	}
	return len(d.records)
}

// At returns the i-th record by value
func (d *Dataset) At(i int) Record {
	return d.records[i]
}

// Records returns a copy of the records in original order
func (d *Dataset) Records() []Record {
	if d == nil {
		return nil
	}
	cp := make([]Record, len(d.records))
	copy(cp, d.records)
	return cp
}

// Each calls fn for every record in order, stopping early when fn returns false
func (d *Dataset) Each(fn func(i int, r Record) bool) {
	if d == nil {
		return
	}
	for i, r := range d.records {
		if !fn(i, r) {
			return
		}
	}
}

// SpeciesPresent returns the species that occur in the dataset, in order of
// first appearance
func (d *Dataset) SpeciesPresent() []Species {
	seen := make(map[Species]bool)
	var out []Species
	d.Each(func(_ int, r Record) bool {
		if !seen[r.Species] {
			seen[r.Species] = true
			out = append(out, r.Species)
		}
		return true
	})
	return out
}

// Values returns the non-missing values of an attribute, in record order
func (d *Dataset) Values(a Attribute) []float64 {
	var out []float64
	d.Each(func(_ int, r Record) bool {
		if m := r.Measure(a); m.Valid {
			out = append(out, m.Value)
		}
		return true
	})
	return out
}

package inputs

import (
	"penguins/domain/penguins"
)

// State is the current value of every input. Presentation functions only
// read it; sessions replace it wholesale on each change.
type State struct {
	SelectedAttribute   penguins.Attribute `json:"selected_attribute"`
	PlotlyBinCount      int                `json:"plotly_bin_count"`
	SeabornBinCount     int                `json:"seaborn_bin_count"`
	SelectedSpeciesList []penguins.Species `json:"selected_species_list"`
	ShowSex             bool               `json:"show_sex"`
}

// Clone returns a deep copy
func (s State) Clone() State {
	cp := s
	if s.SelectedSpeciesList != nil {
		cp.SelectedSpeciesList = append([]penguins.Species{}, s.SelectedSpeciesList...)
	}
	return cp
}

// HasSpecies reports whether a species is selected
func (s State) HasSpecies(sp penguins.Species) bool {
	for _, x := range s.SelectedSpeciesList {
		if x == sp {
			return true
		}
	}
	return false
}

// Diff returns the names of inputs whose value differs between s and other,
// in sidebar order. Species selections compare as sets.
func (s State) Diff(other State) []string {
	var changed []string
	if s.SelectedAttribute != other.SelectedAttribute {
		changed = append(changed, SelectedAttribute)
	}
	if s.PlotlyBinCount != other.PlotlyBinCount {
		changed = append(changed, PlotlyBinCount)
	}
	if s.SeabornBinCount != other.SeabornBinCount {
		changed = append(changed, SeabornBinCount)
	}
	if !sameSpecies(s.SelectedSpeciesList, other.SelectedSpeciesList) {
		changed = append(changed, SelectedSpeciesList)
	}
	if s.ShowSex != other.ShowSex {
		changed = append(changed, ShowSex)
	}
	return changed
}

func sameSpecies(a, b []penguins.Species) bool {
	as := make(map[penguins.Species]bool, len(a))
	for _, x := range a {
		as[x] = true
	}
	bs := make(map[penguins.Species]bool, len(b))
	for _, x := range b {
		bs[x] = true
	}
	if len(as) != len(bs) {
		return false
	}
	for x := range as {
		if !bs[x] {
			return false
		}
	}
	return true
}

// Package inputs declares the dashboard's user-controllable parameters and the
// Input State built from them.
package inputs

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"penguins/domain/penguins"
)

// Input names
const (
	SelectedAttribute   = "selected_attribute"
	PlotlyBinCount      = "plotly_bin_count"
	SeabornBinCount     = "seaborn_bin_count"
	SelectedSpeciesList = "selected_species_list"
	ShowSex             = "show_sex"
)

// MaxBinCount caps the numeric bin count input
const MaxBinCount = 1000

// Kind is the widget type of an input
type Kind string

const (
	KindSelectize     Kind = "selectize"
	KindNumeric       Kind = "numeric"
	KindSlider        Kind = "slider"
	KindCheckboxGroup Kind = "checkbox_group"
	KindCheckbox      Kind = "checkbox"
)

// Input declares one widget. Only the fields relevant to its Kind are set.
type Input struct {
	Name    string
	Label   string
	Kind    Kind
	Choices []string // selectize choices or checkbox-group options
	Min     int      // numeric and slider
	Max     int      // numeric and slider
	Default interface{}
}

// IntDefault returns the default of a numeric or slider input
func (in Input) IntDefault() int {
	v, _ := in.Default.(int)
	return v
}

// IsChecked reports whether a checkbox-group option is selected by default
func (in Input) IsChecked(option string) bool {
	defaults, _ := in.Default.([]string)
	for _, d := range defaults {
		if d == option {
			return true
		}
	}
	return false
}

// Registry is the ordered set of input declarations
type Registry struct {
	inputs []Input
	byName map[string]int
}

// NewRegistry builds the dashboard's sidebar inputs
func NewRegistry() *Registry {
	attrs := make([]string, 0, 4)
	for _, a := range penguins.AllAttributes() {
		attrs = append(attrs, string(a))
	}
	species := make([]string, 0, 3)
	for _, s := range penguins.AllSpecies() {
		species = append(species, string(s))
	}

	r := &Registry{byName: make(map[string]int)}
	r.add(Input{Name: SelectedAttribute, Label: "Selected Attribute", Kind: KindSelectize, Choices: attrs, Default: attrs[0]})
	r.add(Input{Name: PlotlyBinCount, Label: "Plotly Bin Count", Kind: KindNumeric, Min: 0, Max: MaxBinCount, Default: 40})
	r.add(Input{Name: SeabornBinCount, Label: "Seaborn Bin Count", Kind: KindSlider, Min: 0, Max: 100, Default: 40})
	r.add(Input{Name: SelectedSpeciesList, Label: "Species", Kind: KindCheckboxGroup, Choices: species, Default: append([]string(nil), species...)})
	r.add(Input{Name: ShowSex, Label: "Show Sex", Kind: KindCheckbox, Default: false})
	return r
}

func (r *Registry) add(in Input) {
	r.byName[in.Name] = len(r.inputs)
	r.inputs = append(r.inputs, in)
}

// Inputs returns the declarations in sidebar order
func (r *Registry) Inputs() []Input {
	out := make([]Input, len(r.inputs))
	copy(out, r.inputs)
	return out
}

// Lookup finds a declaration by name
func (r *Registry) Lookup(name string) (Input, bool) {
	i, ok := r.byName[name]
	if !ok {
		return Input{}, false
	}
	return r.inputs[i], true
}

// Names returns all input names in sidebar order
func (r *Registry) Names() []string {
	out := make([]string, len(r.inputs))
	for i, in := range r.inputs {
		out[i] = in.Name
	}
	return out
}

// Defaults returns the initial Input State of a new session
func (r *Registry) Defaults() State {
	attr, _ := r.mustLookup(SelectedAttribute).Default.(string)
	speciesDefault, _ := r.mustLookup(SelectedSpeciesList).Default.([]string)
	showSex, _ := r.mustLookup(ShowSex).Default.(bool)

	species := make([]penguins.Species, 0, len(speciesDefault))
	for _, s := range speciesDefault {
		species = append(species, penguins.Species(s))
	}

	return State{
		SelectedAttribute:   penguins.Attribute(attr),
		PlotlyBinCount:      r.mustLookup(PlotlyBinCount).IntDefault(),
		SeabornBinCount:     r.mustLookup(SeabornBinCount).IntDefault(),
		SelectedSpeciesList: species,
		ShowSex:             showSex,
	}
}

func (r *Registry) mustLookup(name string) Input {
	in, ok := r.Lookup(name)
	if !ok {
		panic(fmt.Sprintf("inputs: %s not registered", name))
	}
	return in
}

// ParseForm builds a new State from submitted widget values, starting from
// prev. It plays the role of the widgets themselves: slider values are
// clamped, unparsable numbers and unknown choices keep the previous value,
// unknown checkbox-group options are dropped. A checkbox or checkbox group
// absent from the form is unchecked, as browsers omit them.
func (r *Registry) ParseForm(prev State, form url.Values) State {
	return r.parse(prev, form, true)
}

// ParseQuery builds a State from query parameters on top of the defaults.
// Unlike ParseForm, an absent key keeps its default, so an empty query
// yields Defaults().
func (r *Registry) ParseQuery(query url.Values) State {
	return r.parse(r.Defaults(), query, false)
}

func (r *Registry) parse(prev State, form url.Values, absentUnchecks bool) State {
	next := prev.Clone()

	if v, ok := formValue(form, SelectedAttribute); ok {
		if attr, valid := penguins.ParseAttribute(v); valid {
			next.SelectedAttribute = attr
		}
	}

	if v, ok := formValue(form, PlotlyBinCount); ok {
		if n, err := strconv.Atoi(v); err == nil {
			numeric := r.mustLookup(PlotlyBinCount)
			next.PlotlyBinCount = clamp(n, numeric.Min, numeric.Max)
		}
	}

	if v, ok := formValue(form, SeabornBinCount); ok {
		if n, err := strconv.Atoi(v); err == nil {
			slider := r.mustLookup(SeabornBinCount)
			next.SeabornBinCount = clamp(n, slider.Min, slider.Max)
		}
	}

	if raw, ok := form[SelectedSpeciesList]; ok || absentUnchecks {
		next.SelectedSpeciesList = parseSpecies(raw)
	}
	if _, ok := form[ShowSex]; ok || absentUnchecks {
		next.ShowSex = parseCheckbox(form.Get(ShowSex))
	}

	return next
}

// Values encodes a State as form values, the inverse of ParseForm
func (s State) Values() url.Values {
	v := url.Values{}
	v.Set(SelectedAttribute, string(s.SelectedAttribute))
	v.Set(PlotlyBinCount, strconv.Itoa(s.PlotlyBinCount))
	v.Set(SeabornBinCount, strconv.Itoa(s.SeabornBinCount))
	for _, sp := range s.SelectedSpeciesList {
		v.Add(SelectedSpeciesList, string(sp))
	}
	if s.ShowSex {
		v.Set(ShowSex, "on")
	}
	return v
}

func formValue(form url.Values, name string) (string, bool) {
	vs, ok := form[name]
	if !ok || len(vs) == 0 {
		return "", false
	}
	return strings.TrimSpace(vs[0]), true
}

func parseSpecies(raw []string) []penguins.Species {
	seen := make(map[penguins.Species]bool)
	var out []penguins.Species
	for _, item := range raw {
		// Accept both repeated keys and comma-joined lists
		for _, part := range strings.Split(item, ",") {
			sp, ok := penguins.ParseSpecies(strings.TrimSpace(part))
			if !ok || seen[sp] {
				continue
			}
			seen[sp] = true
			out = append(out, sp)
		}
	}
	if out == nil {
		out = []penguins.Species{}
	}
	return out
}

func parseCheckbox(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "on", "true", "1":
		return true
	default:
		return false
	}
}

func clamp(n, lo, hi int) int {
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}

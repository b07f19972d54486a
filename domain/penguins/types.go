package penguins

import (
	"encoding/json"
	"strconv"
)

// Species identifies one of the three penguin species in the dataset
type Species string

const (
	SpeciesAdelie    Species = "Adelie"
	SpeciesGentoo    Species = "Gentoo"
	SpeciesChinstrap Species = "Chinstrap"
)

// AllSpecies returns the species in display order
func AllSpecies() []Species {
	return []Species{SpeciesAdelie, SpeciesGentoo, SpeciesChinstrap}
}

// ParseSpecies maps a raw label to a known species
func ParseSpecies(s string) (Species, bool) {
	for _, sp := range AllSpecies() {
		if string(sp) == s {
			return sp, true
		}
	}
	return "", false
}

func (s Species) String() string { return string(s) }

// Sex is male, female or unknown (empty)
type Sex string

const (
	SexMale    Sex = "male"
	SexFemale  Sex = "female"
	SexUnknown Sex = ""
)

// ParseSex accepts "male"/"female"; anything else (NA, blank) is unknown
func ParseSex(s string) Sex {
	switch s {
	case "male", "MALE", "Male":
		return SexMale
	case "female", "FEMALE", "Female":
		return SexFemale
	default:
		return SexUnknown
	}
}

// Label returns the series label used when grouping by sex
func (s Sex) Label() string {
	if s == SexUnknown {
		return "unknown"
	}
	return string(s)
}

// Attribute is one of the four numeric measurement columns
type Attribute string

const (
	BillLengthMM    Attribute = "bill_length_mm"
	BillDepthMM     Attribute = "bill_depth_mm"
	FlipperLengthMM Attribute = "flipper_length_mm"
	BodyMassG       Attribute = "body_mass_g"
)

// AllAttributes returns the numeric attributes in selector order
func AllAttributes() []Attribute {
	return []Attribute{BillLengthMM, BillDepthMM, FlipperLengthMM, BodyMassG}
}

// ParseAttribute validates an attribute name
func ParseAttribute(s string) (Attribute, bool) {
	for _, a := range AllAttributes() {
		if string(a) == s {
			return a, true
		}
	}
	return "", false
}

func (a Attribute) String() string { return string(a) }

// Measure is a numeric observation that may be missing (NA in the source)
type Measure struct {
	Value float64
	Valid bool
}

// Known wraps a present value
func Known(v float64) Measure { return Measure{Value: v, Valid: true} }

// Missing is the NA measure
var Missing = Measure{}

func (m Measure) String() string {
	if !m.Valid {
		return "NA"
	}
	return strconv.FormatFloat(m.Value, 'f', -1, 64)
}

// MarshalJSON encodes missing values as null
func (m Measure) MarshalJSON() ([]byte, error) {
	if !m.Valid {
		return []byte("null"), nil
	}
	return json.Marshal(m.Value)
}

// Record is one penguin observation. Records are values; the dataset never
// hands out references into its backing slice.
type Record struct {
	Species         Species `json:"species"`
	Island          string  `json:"island"`
	BillLengthMM    Measure `json:"bill_length_mm"`
	BillDepthMM     Measure `json:"bill_depth_mm"`
	FlipperLengthMM Measure `json:"flipper_length_mm"`
	BodyMassG       Measure `json:"body_mass_g"`
	Sex             Sex     `json:"sex"`
	Year            int     `json:"year"`
}

// Measure returns the value of the given numeric attribute
func (r Record) Measure(a Attribute) Measure {
	switch a {
	case BillLengthMM:
		return r.BillLengthMM
	case BillDepthMM:
		return r.BillDepthMM
	case FlipperLengthMM:
		return r.FlipperLengthMM
	case BodyMassG:
		return r.BodyMassG
	default:
		return Missing
	}
}

// Columns lists the tabular column order used by table, grid and export views
var Columns = []string{
	"species", "island", "bill_length_mm", "bill_depth_mm",
	"flipper_length_mm", "body_mass_g", "sex", "year",
}

// Cells renders the record as strings in Columns order
func (r Record) Cells() []string {
	sex := string(r.Sex)
	if r.Sex == SexUnknown {
		sex = "NA"
	}
	year := "NA"
	if r.Year != 0 {
		year = strconv.Itoa(r.Year)
	}
	return []string{
		string(r.Species),
		r.Island,
		r.BillLengthMM.String(),
		r.BillDepthMM.String(),
		r.FlipperLengthMM.String(),
		r.BodyMassG.String(),
		sex,
		year,
	}
}

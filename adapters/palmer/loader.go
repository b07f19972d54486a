// Package palmer provides the Palmer Archipelago penguin measurements as an
// immutable dataset.
package palmer

import (
	"bytes"
	_ "embed"
	"fmt"
	"strconv"
	"strings"

	"penguins/adapters/excel"
	"penguins/domain/penguins"
	"penguins/internal/errors"
)

//go:embed data/penguins.csv
var bundledCSV []byte

// BundledSource names the embedded data file in logs and errors
const BundledSource = "bundled penguins.csv"

var requiredColumns = []string{
	"species", "bill_length_mm", "bill_depth_mm", "flipper_length_mm", "body_mass_g", "sex",
}

// Load returns the bundled dataset
func Load() (*penguins.Dataset, error) {
	data, err := excel.ReadCSV(bytes.NewReader(bundledCSV))
	if err != nil {
		return nil, errors.DataUnavailable(BundledSource, err)
	}
	ds, err := FromRows(data)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load "+BundledSource)
	}
	return ds, nil
}

// LoadFile reads a CSV or XLSX file with the same columns as the bundled data
func LoadFile(path string) (*penguins.Dataset, error) {
	data, err := excel.NewDataReader(path).ReadData()
	if err != nil {
		return nil, errors.DataUnavailable(path, err)
	}
	ds, err := FromRows(data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to load %s", path)
	}
	return ds, nil
}

// FromRows coerces raw rows into records. NA and blank cells become missing
// values; anything else that does not parse fails the whole load.
func FromRows(data *excel.ExcelData) (*penguins.Dataset, error) {
	present := make(map[string]bool, len(data.Headers))
	for _, h := range data.Headers {
		present[h] = true
	}
	for _, col := range requiredColumns {
		if !present[col] {
			return nil, errors.DataInvalid(fmt.Sprintf("missing column %q", col))
		}
	}

	records := make([]penguins.Record, 0, len(data.Rows))
	for i, row := range data.Rows {
		rec, err := coerceRow(row)
		if err != nil {
			// +2: one for the header row, one for 1-based numbering
			return nil, errors.DataInvalid(fmt.Sprintf("row %d: %v", i+2, err))
		}
		records = append(records, rec)
	}

	return penguins.NewDataset(records), nil
}

func coerceRow(row excel.RawRowData) (penguins.Record, error) {
	species, ok := penguins.ParseSpecies(row["species"])
	if !ok {
		return penguins.Record{}, fmt.Errorf("unknown species %q", row["species"])
	}

	rec := penguins.Record{
		Species: species,
		Island:  row["island"],
		Sex:     penguins.ParseSex(row["sex"]),
	}

	fields := []struct {
		column string
		dst    *penguins.Measure
	}{
		{"bill_length_mm", &rec.BillLengthMM},
		{"bill_depth_mm", &rec.BillDepthMM},
		{"flipper_length_mm", &rec.FlipperLengthMM},
		{"body_mass_g", &rec.BodyMassG},
	}
	for _, f := range fields {
		m, err := parseMeasure(row[f.column])
		if err != nil {
			return penguins.Record{}, fmt.Errorf("%s: %w", f.column, err)
		}
		*f.dst = m
	}

	if y := row["year"]; !isNA(y) {
		year, err := strconv.Atoi(y)
		if err != nil {
			return penguins.Record{}, fmt.Errorf("year: invalid value %q", y)
		}
		rec.Year = year
	}

	return rec, nil
}

func parseMeasure(s string) (penguins.Measure, error) {
	if isNA(s) {
		return penguins.Missing, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return penguins.Missing, fmt.Errorf("invalid value %q", s)
	}
	return penguins.Known(v), nil
}

func isNA(s string) bool {
	s = strings.TrimSpace(s)
	return s == "" || strings.EqualFold(s, "NA") || strings.EqualFold(s, "NaN")
}

package palmer

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"penguins/adapters/excel"
	"penguins/domain/penguins"
	"penguins/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadBundled(t *testing.T) {
	ds, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 81, ds.Len())
	assert.Equal(t, []penguins.Species{penguins.SpeciesAdelie, penguins.SpeciesGentoo, penguins.SpeciesChinstrap}, ds.SpeciesPresent())

	first := ds.At(0)
	assert.Equal(t, penguins.SpeciesAdelie, first.Species)
	assert.Equal(t, "Torgersen", first.Island)
	assert.Equal(t, penguins.Known(39.1), first.BillLengthMM)
	assert.Equal(t, penguins.Known(3750), first.BodyMassG)
	assert.Equal(t, penguins.SexMale, first.Sex)
	assert.Equal(t, 2007, first.Year)

	// Fourth row is the all-NA Adelie observation
	na := ds.At(3)
	assert.False(t, na.BillLengthMM.Valid)
	assert.False(t, na.BodyMassG.Valid)
	assert.Equal(t, penguins.SexUnknown, na.Sex)
}

func TestLoadBundled_SpeciesCounts(t *testing.T) {
	ds, err := Load()
	require.NoError(t, err)

	counts := map[penguins.Species]int{}
	for _, r := range ds.Records() {
		counts[r.Species]++
	}
	assert.Equal(t, 40, counts[penguins.SpeciesAdelie])
	assert.Equal(t, 21, counts[penguins.SpeciesGentoo])
	assert.Equal(t, 20, counts[penguins.SpeciesChinstrap])
}

func TestFromRows_Invalid(t *testing.T) {
	tests := []struct {
		name string
		csv  string
		want string
	}{
		{
			name: "unknown species",
			csv:  "species,island,bill_length_mm,bill_depth_mm,flipper_length_mm,body_mass_g,sex,year\nEmperor,Ross,1,2,3,4,male,2007\n",
			want: `row 2: unknown species "Emperor"`,
		},
		{
			name: "bad number",
			csv:  "species,island,bill_length_mm,bill_depth_mm,flipper_length_mm,body_mass_g,sex,year\nAdelie,Dream,abc,2,3,4,male,2007\n",
			want: "bill_length_mm",
		},
		{
			name: "missing column",
			csv:  "species,island,bill_length_mm\nAdelie,Dream,39\n",
			want: `missing column "bill_depth_mm"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := excel.ReadCSV(strings.NewReader(tt.csv))
			require.NoError(t, err)

			_, err = FromRows(data)
			require.Error(t, err)
			assert.Equal(t, errors.CodeDataInvalid, errors.GetCode(err))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "penguins.csv")
	require.NoError(t, os.WriteFile(csvPath, bundledCSV, 0o644))
	fromCSV, err := LoadFile(csvPath)
	require.NoError(t, err)
	assert.Equal(t, 81, fromCSV.Len())

	// Export the bundled records to XLSX and load them back
	var buf bytes.Buffer
	require.NoError(t, excel.WriteRecords(&buf, fromCSV.Records()))
	xlsxPath := filepath.Join(dir, "penguins.xlsx")
	require.NoError(t, os.WriteFile(xlsxPath, buf.Bytes(), 0o644))

	fromXLSX, err := LoadFile(xlsxPath)
	require.NoError(t, err)
	assert.Equal(t, fromCSV.Records(), fromXLSX.Records())
}

func TestLoadFile_Unavailable(t *testing.T) {
	_, err := LoadFile(filepath.Join(t.TempDir(), "nope.csv"))
	require.Error(t, err)
	assert.Equal(t, errors.CodeDataUnavailable, errors.GetCode(err))
}

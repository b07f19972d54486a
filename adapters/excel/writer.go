package excel

import (
	"fmt"
	"io"

	"penguins/domain/penguins"

	"github.com/xuri/excelize/v2"
)

// SheetName is the sheet used for exported tables
const SheetName = "penguins"

// WriteRecords writes the records as a single-sheet workbook. Numeric
// measurements are stored as numbers; missing ones are left blank.
func WriteRecords(w io.Writer, records []penguins.Record) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(penguins.Columns))
	for i, c := range penguins.Columns {
		header[i] = c
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for i, r := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := recordRow(r)
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SetPanes(SheetName, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("failed to freeze header: %w", err)
	}

	return f.Write(w)
}

func recordRow(r penguins.Record) []interface{} {
	measure := func(m penguins.Measure) interface{} {
		if !m.Valid {
			return nil
		}
		return m.Value
	}
	var sex, year interface{}
	if r.Sex != penguins.SexUnknown {
		sex = string(r.Sex)
	}
	if r.Year != 0 {
		year = r.Year
	}
	return []interface{}{
		string(r.Species),
		r.Island,
		measure(r.BillLengthMM),
		measure(r.BillDepthMM),
		measure(r.FlipperLengthMM),
		measure(r.BodyMassG),
		sex,
		year,
	}
}

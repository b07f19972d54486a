package excel

// RawRowData represents a row of raw tabular data as string key-value pairs
type RawRowData map[string]string

// ExcelData represents a complete tabular dataset read from CSV or XLSX
type ExcelData struct {
	Headers []string     // Column headers
	Rows    []RawRowData // Data rows
}

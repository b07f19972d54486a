package palmer

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"
	"strings"

	"penguins/domain/penguins"
	"penguins/internal/errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// DefaultTable is the table read when none is configured
const DefaultTable = "penguins"

var tableName = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*(\.[A-Za-z_][A-Za-z0-9_]*)?$`)

// penguinRow mirrors one row of the penguins table
type penguinRow struct {
	Species         string          `db:"species"`
	Island          sql.NullString  `db:"island"`
	BillLengthMM    sql.NullFloat64 `db:"bill_length_mm"`
	BillDepthMM     sql.NullFloat64 `db:"bill_depth_mm"`
	FlipperLengthMM sql.NullFloat64 `db:"flipper_length_mm"`
	BodyMassG       sql.NullFloat64 `db:"body_mass_g"`
	Sex             sql.NullString  `db:"sex"`
	Year            sql.NullInt64   `db:"year"`
}

// LoadPostgres reads the dataset from a PostgreSQL table
func LoadPostgres(ctx context.Context, dsn, table string) (*penguins.Dataset, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", dsn)
	if err != nil {
		return nil, errors.DataUnavailable("postgres", err)
	}
	defer db.Close()
	return LoadDB(ctx, db, table)
}

// LoadDB reads the dataset from table through an open connection. SQL NULLs
// become missing values.
func LoadDB(ctx context.Context, db *sqlx.DB, table string) (*penguins.Dataset, error) {
	if table == "" {
		table = DefaultTable
	}
	quoted, err := QuoteTable(table)
	if err != nil {
		return nil, err
	}
	query := `SELECT species, island, bill_length_mm, bill_depth_mm, flipper_length_mm,
		body_mass_g, sex, year
	FROM ` + quoted

	var rows []penguinRow
	if err := db.SelectContext(ctx, &rows, query); err != nil {
		return nil, errors.DataUnavailable("table "+table, err)
	}

	records := make([]penguins.Record, 0, len(rows))
	for i, row := range rows {
		species, ok := penguins.ParseSpecies(row.Species)
		if !ok {
			return nil, errors.DataInvalid(fmt.Sprintf("%s row %d: unknown species %q", table, i+1, row.Species))
		}
		records = append(records, penguins.Record{
			Species:         species,
			Island:          row.Island.String,
			BillLengthMM:    measure(row.BillLengthMM),
			BillDepthMM:     measure(row.BillDepthMM),
			FlipperLengthMM: measure(row.FlipperLengthMM),
			BodyMassG:       measure(row.BodyMassG),
			Sex:             penguins.ParseSex(row.Sex.String),
			Year:            int(row.Year.Int64),
		})
	}
	return penguins.NewDataset(records), nil
}

// QuoteTable validates a table or schema.table name and quotes each part
func QuoteTable(table string) (string, error) {
	if !tableName.MatchString(table) {
		return "", errors.ConfigInvalid(fmt.Sprintf("invalid table name %q", table))
	}
	parts := strings.Split(table, ".")
	for i, p := range parts {
		parts[i] = pq.QuoteIdentifier(p)
	}
	return strings.Join(parts, "."), nil
}

func measure(v sql.NullFloat64) penguins.Measure {
	if !v.Valid {
		return penguins.Missing
	}
	return penguins.Known(v.Float64)
}

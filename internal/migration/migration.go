package migration

import (
	"context"
	"strings"

	"penguins/adapters/palmer"
	"penguins/domain/penguins"
	"penguins/internal"
	"penguins/internal/errors"

	"github.com/jmoiron/sqlx"
)

// Migrator defines the interface for database migration operations
type Migrator interface {
	Run(ctx context.Context, db *sqlx.DB) error
	Version() string
}

// Runner creates the penguins table and loads records into it
type Runner struct {
	version string
	table   string
	quoted  string
	logger  *internal.Logger
}

// NewRunner creates a runner for table, or palmer.DefaultTable when empty
func NewRunner(table string) (*Runner, error) {
	if table == "" {
		table = palmer.DefaultTable
	}
	quoted, err := palmer.QuoteTable(table)
	if err != nil {
		return nil, err
	}
	return &Runner{
		version: "1.0.0",
		table:   table,
		quoted:  quoted,
		logger:  internal.DefaultLogger.With("Migration"),
	}, nil
}

// Version returns the migration version
func (r *Runner) Version() string {
	return r.version
}

// Run creates the table and its species index when missing
func (r *Runner) Run(ctx context.Context, db *sqlx.DB) error {
	if err := r.createPenguinsTable(ctx, db); err != nil {
		return errors.Wrapf(err, "failed to create %s table", r.table)
	}
	if err := r.createIndexes(ctx, db); err != nil {
		return errors.Wrap(err, "failed to create indexes")
	}
	r.logger.Info("schema %s ready for %s", r.version, r.table)
	return nil
}

func (r *Runner) createPenguinsTable(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS `+r.quoted+` (
			id SERIAL PRIMARY KEY,
			species VARCHAR(20) NOT NULL CHECK (species IN ('Adelie', 'Gentoo', 'Chinstrap')),
			island VARCHAR(50),
			bill_length_mm DOUBLE PRECISION,
			bill_depth_mm DOUBLE PRECISION,
			flipper_length_mm DOUBLE PRECISION,
			body_mass_g DOUBLE PRECISION,
			sex VARCHAR(10),
			year INTEGER
		)
	`)
	return err
}

func (r *Runner) createIndexes(ctx context.Context, db *sqlx.DB) error {
	_, err := db.ExecContext(ctx, `CREATE INDEX IF NOT EXISTS `+indexName(r.table)+` ON `+r.quoted+` (species)`)
	return err
}

// Seed replaces the table contents with records in one transaction
func (r *Runner) Seed(ctx context.Context, db *sqlx.DB, records []penguins.Record) (int, error) {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, errors.Wrap(err, "failed to begin seed transaction")
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM `+r.quoted); err != nil {
		return 0, errors.Wrapf(err, "failed to clear %s", r.table)
	}

	insert := `INSERT INTO ` + r.quoted + ` (
		species, island, bill_length_mm, bill_depth_mm, flipper_length_mm, body_mass_g, sex, year
	) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	for i, rec := range records {
		_, err := tx.ExecContext(ctx, insert,
			string(rec.Species), nullString(rec.Island),
			nullMeasure(rec.BillLengthMM), nullMeasure(rec.BillDepthMM),
			nullMeasure(rec.FlipperLengthMM), nullMeasure(rec.BodyMassG),
			nullString(string(rec.Sex)), nullYear(rec.Year),
		)
		if err != nil {
			return 0, errors.Wrapf(err, "failed to insert record %d", i+1)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, errors.Wrap(err, "failed to commit seed")
	}
	r.logger.Info("seeded %d penguins into %s", len(records), r.table)
	return len(records), nil
}

func indexName(table string) string {
	return "idx_" + strings.ReplaceAll(table, ".", "_") + "_species"
}

func nullMeasure(m penguins.Measure) interface{} {
	if !m.Valid {
		return nil
	}
	return m.Value
}

func nullString(s string) interface{} {
	if s == "" {
		return nil
	}
	return s
}

func nullYear(y int) interface{} {
	if y == 0 {
		return nil
	}
	return int64(y)
}

var _ Migrator = (*Runner)(nil)

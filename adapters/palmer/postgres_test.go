package palmer

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"penguins/domain/penguins"
	apperrors "penguins/internal/errors"
	"penguins/internal/testkit"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var penguinColumns = []string{
	"species", "island", "bill_length_mm", "bill_depth_mm", "flipper_length_mm", "body_mass_g", "sex", "year",
}

func TestLoadDB(t *testing.T) {
	db, mock := testkit.NewMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM "penguins"`)).WillReturnRows(
		sqlmock.NewRows(penguinColumns).
			AddRow("Adelie", "Torgersen", 39.1, 18.7, 181.0, 3750.0, "male", int64(2007)).
			AddRow("Adelie", "Torgersen", nil, nil, nil, nil, nil, int64(2007)).
			AddRow("Gentoo", "Biscoe", 46.1, 13.2, 211.0, 4500.0, "female", int64(2007)),
	)

	ds, err := LoadDB(context.Background(), db, "")
	require.NoError(t, err)
	require.Equal(t, 3, ds.Len())

	first := ds.At(0)
	assert.Equal(t, penguins.SpeciesAdelie, first.Species)
	assert.Equal(t, penguins.Known(39.1), first.BillLengthMM)
	assert.Equal(t, penguins.SexMale, first.Sex)
	assert.Equal(t, 2007, first.Year)

	na := ds.At(1)
	assert.False(t, na.BodyMassG.Valid)
	assert.Equal(t, penguins.SexUnknown, na.Sex)

	assert.Equal(t, []float64{39.1, 46.1}, ds.Values(penguins.BillLengthMM))
}

func TestLoadDBSchemaQualifiedTable(t *testing.T) {
	db, mock := testkit.NewMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM "palmer"."penguins_raw"`)).
		WillReturnRows(sqlmock.NewRows(penguinColumns))

	ds, err := LoadDB(context.Background(), db, "palmer.penguins_raw")
	require.NoError(t, err)
	assert.Equal(t, 0, ds.Len())
}

func TestLoadDBInvalidTable(t *testing.T) {
	db, _ := testkit.NewMockDB(t)
	_, err := LoadDB(context.Background(), db, "penguins; DROP TABLE penguins")
	assert.Equal(t, apperrors.CodeConfigInvalid, apperrors.GetCode(err))
}

func TestLoadDBUnknownSpecies(t *testing.T) {
	db, mock := testkit.NewMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM "penguins"`)).WillReturnRows(
		sqlmock.NewRows(penguinColumns).
			AddRow("Emperor", "Ross", 50.0, 20.0, 220.0, 5000.0, "male", int64(2009)),
	)

	_, err := LoadDB(context.Background(), db, "")
	assert.Equal(t, apperrors.CodeDataInvalid, apperrors.GetCode(err))
	assert.ErrorContains(t, err, "Emperor")
}

func TestLoadDBQueryFailure(t *testing.T) {
	db, mock := testkit.NewMockDB(t)
	mock.ExpectQuery(regexp.QuoteMeta(`FROM "penguins"`)).
		WillReturnError(errors.New(`relation "penguins" does not exist`))

	_, err := LoadDB(context.Background(), db, "")
	assert.Equal(t, apperrors.CodeDataUnavailable, apperrors.GetCode(err))
	assert.ErrorContains(t, err, "does not exist")
}

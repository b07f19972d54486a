package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrapKeepsCode(t *testing.T) {
	base := DataInvalid("row 3: unknown species \"Emperor\"")
	err := Wrap(base, "failed to load bundled dataset")

	assert.Equal(t, CodeDataInvalid, GetCode(err))
	assert.Contains(t, err.Error(), "failed to load bundled dataset")
	assert.Contains(t, err.Error(), "Emperor")
}

func TestWrapPlainError(t *testing.T) {
	err := Wrapf(fmt.Errorf("disk gone"), "reading %s", "penguins.csv")
	assert.Equal(t, CodeInternalError, GetCode(err))
	assert.Nil(t, Wrap(nil, "nothing"))
}

func TestGetCodeThroughFmtWrap(t *testing.T) {
	err := fmt.Errorf("startup: %w", NotFound("session abc"))
	assert.Equal(t, CodeNotFound, GetCode(err))
	assert.Equal(t, "UNKNOWN", GetCode(fmt.Errorf("plain")))
}

func TestDataUnavailable(t *testing.T) {
	err := DataUnavailable("penguins.csv", fmt.Errorf("not found"))
	assert.Equal(t, CodeDataUnavailable, err.Code)
	assert.Equal(t, "dataset penguins.csv unavailable: not found", err.Error())
}

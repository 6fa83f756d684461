package errors

import (
	"database/sql"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFromErrorWrapsUnknown(t *testing.T) {
	appErr := FromError(sql.ErrConnDone)
	assert.Equal(t, ErrInternal.Code, appErr.Code)
	assert.Equal(t, http.StatusInternalServerError, appErr.Status)
	assert.ErrorIs(t, appErr, sql.ErrConnDone)
}

func TestCloneMatchesSentinel(t *testing.T) {
	err := Clone(ErrNotFound, "milestone not found")
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.False(t, errors.Is(err, ErrConflict))
	assert.Equal(t, "milestone not found", err.Message)
	assert.Equal(t, "resource not found", ErrNotFound.Message)
}

func TestWithDetails(t *testing.T) {
	err := WithDetails(ErrWizardBlocked, map[string]interface{}{"hint": "select at least one interest"})
	assert.Equal(t, "select at least one interest", err.Details["hint"])
	assert.Nil(t, ErrWizardBlocked.Details)
}

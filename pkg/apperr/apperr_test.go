package apperr

import (
	"errors"
	"fmt"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestHTTPStatus(t *testing.T) {
	cases := []struct {
		err    *Error
		status int
	}{
		{Validationf("bad input"), 400},
		{Unauthorizedf("no"), 401},
		{Forbiddenf("no"), 403},
		{NotFoundf("gone"), 404},
		{Conflictf("dup"), 409},
		{Statef("wrong state"), 409},
		{Persistencef(errors.New("boom"), "db"), 500},
		{InsufficientStock("tepung", decimal.NewFromInt(5), decimal.NewFromInt(2)), 400},
		{NoOpenShift(), 403}, // state error with status override
	}
	for _, tc := range cases {
		assert.Equal(t, tc.status, tc.err.HTTPStatus(), tc.err.Message)
	}
}

func TestInsufficientStockShortage(t *testing.T) {
	err := InsufficientStock("tepung", decimal.NewFromInt(6), decimal.NewFromInt(4))

	assert.True(t, IsKind(err, KindInsufficientStock))
	assert.Contains(t, err.Error(), "tepung")
	assert.Contains(t, err.Error(), "need 6")
	assert.Contains(t, err.Error(), "have 4")

	e, ok := As(err)
	assert.True(t, ok)
	assert.Equal(t, "tepung", e.Shortage.Ingredient)
}

func TestAsUnwrapsWrappedErrors(t *testing.T) {
	inner := Conflictf("shift already open")
	wrapped := fmt.Errorf("open shift: %w", inner)

	e, ok := As(wrapped)
	assert.True(t, ok)
	assert.Equal(t, KindConflict, e.Kind)
	assert.True(t, IsKind(wrapped, KindConflict))

	_, ok = As(errors.New("plain"))
	assert.False(t, ok)
	assert.False(t, IsKind(errors.New("plain"), KindConflict))
}

func TestPersistenceUnwrap(t *testing.T) {
	cause := errors.New("connection reset")
	err := Persistencef(cause, "failed to save order")

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "failed to save order", err.Error())
}

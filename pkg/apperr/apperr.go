// Package apperr defines the error taxonomy shared by services and the HTTP
// layer. Services return *Error values; the fiber error handler maps their
// kind to a status code, so handlers can simply `return err`.
package apperr

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

type Kind int

const (
	KindValidation Kind = iota // missing/malformed input
	KindNotFound               // referenced entity absent
	KindConflict               // duplicate unique key (shift already open, username taken)
	KindState                  // operation invalid in current state
	KindInsufficientStock      // stock check failed during a sale
	KindUnauthorized           // bad or missing credentials
	KindForbidden              // actor lacks the required role
	KindPersistence            // unexpected store failure
)

// Error carries a kind and a user-facing message. Status, when non-zero,
// overrides the kind's default HTTP status.
type Error struct {
	Kind    Kind
	Message string
	Status  int
	Err     error

	// Set only for KindInsufficientStock
	Shortage *StockShortage
}

// StockShortage names the ingredient and quantities so the operator can act.
type StockShortage struct {
	Ingredient string          `json:"ingredient"`
	Required   decimal.Decimal `json:"required"`
	Available  decimal.Decimal `json:"available"`
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Err }

// HTTPStatus maps the taxonomy to API status codes.
func (e *Error) HTTPStatus() int {
	if e.Status != 0 {
		return e.Status
	}
	switch e.Kind {
	case KindValidation, KindInsufficientStock:
		return 400
	case KindUnauthorized:
		return 401
	case KindForbidden:
		return 403
	case KindNotFound:
		return 404
	case KindConflict, KindState:
		return 409
	default:
		return 500
	}
}

func Validationf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

func NotFoundf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Conflictf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindConflict, Message: fmt.Sprintf(format, args...)}
}

func Statef(format string, args ...interface{}) *Error {
	return &Error{Kind: KindState, Message: fmt.Sprintf(format, args...)}
}

func Unauthorizedf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindUnauthorized, Message: fmt.Sprintf(format, args...)}
}

func Forbiddenf(format string, args ...interface{}) *Error {
	return &Error{Kind: KindForbidden, Message: fmt.Sprintf(format, args...)}
}

// Persistencef wraps an unexpected store failure.
func Persistencef(err error, format string, args ...interface{}) *Error {
	return &Error{Kind: KindPersistence, Message: fmt.Sprintf(format, args...), Err: err}
}

// NoOpenShift is the gate error of the order engine. It is a state error,
// but the API contract returns it as 403.
func NoOpenShift() *Error {
	return &Error{Kind: KindState, Status: 403, Message: "no open shift: open a shift before ringing sales"}
}

// InsufficientStock builds the specialized stock error for a failed
// check-and-deduct.
func InsufficientStock(ingredient string, required, available decimal.Decimal) *Error {
	return &Error{
		Kind: KindInsufficientStock,
		Message: fmt.Sprintf("insufficient stock of '%s': need %s, have %s",
			ingredient, required.String(), available.String()),
		Shortage: &StockShortage{Ingredient: ingredient, Required: required, Available: available},
	}
}

// As unwraps err into *Error, if it is one.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	if e, ok := As(err); ok {
		return e.Kind == kind
	}
	return false
}

package core

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when an operation targets a sale, customer, product
// or other record that does not exist. Callers map it to HTTP 404.
var ErrNotFound = errors.New("not found")

// ErrConflict is returned when an operation would violate a business rule that
// another record already satisfies (sale already linked to a salesman,
// customer already registered). Callers map it to HTTP 409.
var ErrConflict = errors.New("conflict")

// ValidationError rejects malformed input before any write happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

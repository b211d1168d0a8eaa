// Package apperr holds the error values the service layer reports to
// handlers. Handlers translate them into response codes; anything else is a
// store failure and surfaces as a generic 500.
package apperr

import "errors"

// ErrNotFound means the record does not exist or belongs to another owner.
// The two cases are deliberately indistinguishable.
var ErrNotFound = errors.New("not found")

// ValidationError rejects a request before any write happens.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string { return e.Msg }

func Validation(msg string) error { return &ValidationError{Msg: msg} }

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

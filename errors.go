package refit

import (
	"errors"
	"fmt"
)

// ValidationError reports a required field that is missing or empty. It is
// always produced before any external call is made.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

// Validationf builds a ValidationError from a format string.
func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}

// TransportError reports a failed external interaction: a subprocess that
// exited non-zero, an HTTP call that returned a non-success status, or a
// response that could not be decoded.
type TransportError struct {
	// Op names the failing operation (e.g. "github create pull request",
	// "git push").
	Op string
	// Status is the HTTP status code when the failure came from an API
	// call, zero otherwise.
	Status int
	// Body is the response body or captured process output, if any.
	Body string
	// Err is the underlying error, if any.
	Err error
}

func (e *TransportError) Error() string {
	msg := e.Op
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	switch {
	case e.Body != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v: %s", msg, e.Err, e.Body)
	case e.Body != "":
		return fmt.Sprintf("%s: %s", msg, e.Body)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg + " failed"
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// IsValidation reports whether err is (or wraps) a ValidationError.
func IsValidation(err error) bool {
	var v *ValidationError
	return errors.As(err, &v)
}

// IsTransport reports whether err is (or wraps) a TransportError.
func IsTransport(err error) bool {
	var t *TransportError
	return errors.As(err, &t)
}

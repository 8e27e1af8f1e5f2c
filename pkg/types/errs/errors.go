package errs

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound = errors.New("not found")
)

// ValidationError rejects malformed input before any side effect. Always 400.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func Validation(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// UpstreamError wraps a provider or transport failure. Status carries the
// provider-supplied HTTP status when there is one, 0 otherwise.
type UpstreamError struct {
	Message string
	Status  int
	Err     error
}

func (e *UpstreamError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}

	return e.Message
}

func (e *UpstreamError) Unwrap() error {
	return e.Err
}

func Upstream(err error, message string) error {
	return &UpstreamError{Message: message, Err: err}
}

// ConfigurationError is fatal: the process refuses to start on it.
type ConfigurationError struct {
	Message string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

func Configuration(format string, args ...interface{}) error {
	return &ConfigurationError{Message: fmt.Sprintf(format, args...)}
}

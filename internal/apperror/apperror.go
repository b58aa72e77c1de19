package apperror

import (
	"errors"
	"fmt"
)

// Sentinel error classes. Callers classify with errors.Is so that wrapped
// errors keep their original detail for logging.
var (
	// ErrConfig marks a missing credential or endpoint. Fatal to the path
	// that needs it, never retried.
	ErrConfig = errors.New("config error")

	// ErrUpstream marks a remote service failure (non-success status or
	// malformed payload). Recovered locally with a stage default.
	ErrUpstream = errors.New("upstream error")

	// ErrTimeout marks an exceeded deadline. Retried a bounded number of
	// times, then treated like ErrUpstream.
	ErrTimeout = errors.New("timeout")

	// ErrValidation marks a malformed inbound request. Surfaced as 400.
	ErrValidation = errors.New("validation error")
)

func Config(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConfig, fmt.Sprintf(format, args...))
}

func Upstream(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrUpstream, fmt.Sprintf(format, args...))
}

func Timeout(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrTimeout, fmt.Sprintf(format, args...))
}

func Validation(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

func IsConfig(err error) bool     { return errors.Is(err, ErrConfig) }
func IsUpstream(err error) bool   { return errors.Is(err, ErrUpstream) }
func IsTimeout(err error) bool    { return errors.Is(err, ErrTimeout) }
func IsValidation(err error) bool { return errors.Is(err, ErrValidation) }

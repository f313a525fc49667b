package nanobanana

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// RateLimitError is returned when the provider rejects a request for quota reasons.
// It is reported to the caller as-is; nothing in this module waits or retries.
type RateLimitError struct {
	RetryAfter time.Duration
	LimitType  string
	Model      string
	Err        error // Underlying error from the provider
}

func (e *RateLimitError) Error() string {
	return fmt.Sprintf("rate limit exceeded for %s: %s limit, retry after %v",
		e.Model, e.LimitType, e.RetryAfter)
}

func (e *RateLimitError) Unwrap() error {
	return e.Err
}

// IsRateLimitError checks if an error is a RateLimitError.
func IsRateLimitError(err error) bool {
	var rlErr *RateLimitError
	return errors.As(err, &rlErr)
}

// ErrInvalidOption is wrapped by every ValidationError.
var ErrInvalidOption = errors.New("invalid option")

// ValidationError reports a value outside a closed set, such as an
// unsupported aspect ratio or resolution.
type ValidationError struct {
	Field   string
	Value   string
	Allowed []string
}

func (e *ValidationError) Error() string {
	if len(e.Allowed) == 0 {
		return fmt.Sprintf("invalid %s %q", e.Field, e.Value)
	}
	return fmt.Sprintf("invalid %s %q (allowed: %s)", e.Field, e.Value, strings.Join(e.Allowed, ", "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidOption
}

// ErrNoImageGenerated is returned when a response carries no image part,
// for example because the prompt was refused or only text came back.
var ErrNoImageGenerated = errors.New("no image was generated in the response")

// ErrInputNotFound is returned when a referenced input image does not exist.
var ErrInputNotFound = errors.New("input file not found")

// ErrStorageNotConfigured is returned when storage operations are attempted
// without a configured storage backend.
var ErrStorageNotConfigured = errors.New("storage not configured")

package devicecache

import (
	"errors"
	"fmt"
)

// Error types for specific failure scenarios
var (
	// ErrInvalidStatus indicates a status value outside the declared set
	ErrInvalidStatus = errors.New("invalid device status")

	// ErrInvalidConfig indicates invalid configuration options
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrClosed indicates the cache has been closed
	ErrClosed = errors.New("cache is closed")
)

// InvalidStatusError reports a status that is not part of the closed
// status set, either as a raw value or an unparseable name.
type InvalidStatusError struct {
	Status Status
	Name   string
}

// Error implements the error interface
func (e *InvalidStatusError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("invalid device status %q", e.Name)
	}
	return fmt.Sprintf("invalid device status %d", int(e.Status))
}

// Unwrap returns ErrInvalidStatus so callers can match with errors.Is
func (e *InvalidStatusError) Unwrap() error {
	return ErrInvalidStatus
}

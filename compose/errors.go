package compose

import "errors"

var (
	// ErrGeneratorDisabled indicates no generator is configured.
	ErrGeneratorDisabled = errors.New("generator disabled")

	// ErrEmptyResponse indicates the generator replied with blank text.
	ErrEmptyResponse = errors.New("generator returned an empty response")

	// ErrInvalidTimeout is returned when a non-positive timeout is configured.
	ErrInvalidTimeout = errors.New("generator timeout must be positive")
)

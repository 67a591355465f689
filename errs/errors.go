// Package errs defines the sentinel errors returned by gridmask packages.
//
// Errors are wrapped with additional context using fmt.Errorf("%w: ...") and should be
// checked with errors.Is.
package errs

import "errors"

// Parameter validation errors.
var (
	// ErrInvalidCombination is returned when mask values request two different symbolic
	// modes for the edge and inside buckets, or a symbolic mode where only numbers are allowed.
	ErrInvalidCombination = errors.New("invalid mask value combination")
	// ErrInvalidMaskValue is returned when a mask value string is neither a number, NaN,
	// nor one of the recognized symbolic tokens.
	ErrInvalidMaskValue = errors.New("invalid mask value")
	// ErrMissingParameter is returned when a required parameter was not provided.
	ErrMissingParameter = errors.New("missing required parameter")
	// ErrInvalidParameter is returned when a parameter value cannot be rendered as an option.
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrConflictingParameter is returned when an extra option collides with an option
	// already bound through its long-form parameter.
	ErrConflictingParameter = errors.New("conflicting parameter")
)

// Input and engine errors.
var (
	// ErrInvalidInput is returned when input geometry is malformed.
	ErrInvalidInput = errors.New("invalid input data")
	// ErrEngineFailed is returned when the external engine reports a failure.
	ErrEngineFailed = errors.New("engine module failed")
	// ErrSessionClosed is returned when a closed session is used.
	ErrSessionClosed = errors.New("session is closed")
)

// Grid format errors.
var (
	// ErrCorruptedGrid is returned when grid bytes cannot be decoded.
	ErrCorruptedGrid = errors.New("corrupted grid data")
	// ErrChecksumMismatch is returned when a grid blob payload fails checksum verification.
	ErrChecksumMismatch = errors.New("grid checksum mismatch")
	// ErrInvalidGridShape is returned when the data length does not match the grid dimensions.
	ErrInvalidGridShape = errors.New("invalid grid shape")
)

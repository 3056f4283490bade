package geometry

import "errors"

// Sentinel errors for expected estimation failures. All of them are absorbed
// by the fallback cascade; none should reach callers of Pipeline.Analyze.
var (
	// ErrMalformedMesh marks mesh input the integrator cannot use: no vertex
	// data, or a vertex count that is not a multiple of three.
	ErrMalformedMesh = errors.New("malformed mesh")

	// ErrInsufficientPoints marks a text extraction that found fewer valid
	// coordinates than the minimum threshold.
	ErrInsufficientPoints = errors.New("insufficient coordinate points")

	// ErrExternalUnavailable marks a failed call to the optional external
	// analysis service.
	ErrExternalUnavailable = errors.New("external analyzer unavailable")
)

// ValidationError rejects an input before any analysis is attempted. It is
// the only error class the pipeline surfaces to callers.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "invalid geometry input: " + e.Reason
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

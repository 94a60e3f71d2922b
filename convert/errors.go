package convert

import (
	"github.com/pkg/errors"
)

var (
	// ErrDecodeFailure means the input document could not be obtained.
	// Conversion never starts.
	ErrDecodeFailure = errors.New("midi decode failed")

	// ErrArithmeticAnomaly means a recomputed delta was negative or
	// too large for a MIDI variable length quantity.
	ErrArithmeticAnomaly = errors.New("delta time out of range")

	// ErrResourceExhausted means the heap stayed above the hard limit
	// after a reclamation cycle.
	ErrResourceExhausted = errors.New("memory limit exceeded")
)

// Package quantum provides the randomness source for melody generation: a
// measurement backend that models an equal-superposition circuit, and a
// rejection sampler that turns raw measurements into uniform integers over
// an arbitrary range.
package quantum

import (
	"context"
	"errors"
)

var (
	// ErrInvalidArgument is returned for out-of-range qubit/shot/count values.
	ErrInvalidArgument = errors.New("quantum: invalid argument")
	// ErrBackendUnavailable wraps failures of the underlying measurement source.
	ErrBackendUnavailable = errors.New("quantum: backend unavailable")
)

// Backend measures a register of independent equal-superposition qubits.
// Each shot yields one value in [0, 2^qubits). Implementations may be real
// hardware clients or local simulators; callers only rely on the statistical
// contract, not on the physics.
type Backend interface {
	MeasureBits(ctx context.Context, qubits, shots int) ([]uint64, error)
}

package quantum

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"fmt"
)

// maxQubits keeps each measured value inside a uint64.
const maxQubits = 63

// Simulator is a local measurement backend. Measuring N qubits prepared in
// equal superposition is statistically indistinguishable from drawing N
// uniform bits, so the simulator reads from the OS entropy pool instead of
// simulating state vectors. Output is intentionally not reproducible across
// runs.
type Simulator struct{}

func NewSimulator() *Simulator {
	return &Simulator{}
}

func (s *Simulator) MeasureBits(_ context.Context, qubits, shots int) ([]uint64, error) {
	if qubits <= 0 || qubits > maxQubits {
		return nil, fmt.Errorf("%w: qubits must be in 1..%d, got %d", ErrInvalidArgument, maxQubits, qubits)
	}
	if shots <= 0 {
		return nil, fmt.Errorf("%w: shots must be positive, got %d", ErrInvalidArgument, shots)
	}

	buf := make([]byte, shots*8)
	if _, err := rand.Read(buf); err != nil {
		return nil, fmt.Errorf("%w: reading entropy: %v", ErrBackendUnavailable, err)
	}

	mask := uint64(1)<<uint(qubits) - 1
	out := make([]uint64, shots)
	for i := range out {
		out[i] = binary.BigEndian.Uint64(buf[i*8:]) & mask
	}
	return out, nil
}

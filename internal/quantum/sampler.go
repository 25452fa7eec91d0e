package quantum

import (
	"context"
	"fmt"
	"math/bits"
)

// Sampler draws uniform integers in [0, max) from a measurement backend.
//
// 2^width is in general not a multiple of max, so taking measurements
// modulo max would bias the low end of the range. The sampler instead uses
// the minimal covering width and rejects out-of-range draws, which keeps
// the distribution exactly uniform at a worst-case rejection rate below 50%
// (2^width < 2*max).
type Sampler struct {
	backend Backend
}

func NewSampler(backend Backend) *Sampler {
	return &Sampler{backend: backend}
}

// SampleUniform returns exactly count independent uniform integers in
// [0, maxValue). The degenerate maxValue==1 range is served without touching
// the backend. Expected backend invocations are O(1) per call: each batch
// requests twice the remaining deficit to amortize rejections.
func (s *Sampler) SampleUniform(ctx context.Context, count, maxValue int) ([]int, error) {
	if maxValue <= 0 {
		return nil, fmt.Errorf("%w: max value must be positive, got %d", ErrInvalidArgument, maxValue)
	}
	if count < 0 {
		return nil, fmt.Errorf("%w: count must be non-negative, got %d", ErrInvalidArgument, count)
	}
	if count == 0 {
		return []int{}, nil
	}
	if maxValue == 1 {
		return make([]int, count), nil
	}

	width := bits.Len(uint(maxValue - 1))
	out := make([]int, 0, count)

	for len(out) < count {
		batch := (count - len(out)) * 2
		draws, err := s.backend.MeasureBits(ctx, width, batch)
		if err != nil {
			return nil, err
		}
		for _, draw := range draws {
			if draw >= uint64(maxValue) {
				continue
			}
			out = append(out, int(draw))
			if len(out) == count {
				break
			}
		}
	}
	return out, nil
}

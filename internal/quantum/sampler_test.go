package quantum

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptedBackend replays a fixed sequence of measurement values and records
// how it was called.
type scriptedBackend struct {
	values []uint64
	pos    int
	calls  int
	widths []int
	err    error
}

func (b *scriptedBackend) MeasureBits(_ context.Context, qubits, shots int) ([]uint64, error) {
	b.calls++
	b.widths = append(b.widths, qubits)
	if b.err != nil {
		return nil, b.err
	}
	out := make([]uint64, shots)
	for i := range out {
		out[i] = b.values[b.pos%len(b.values)]
		b.pos++
	}
	return out, nil
}

func TestSampleUniformCountAndRange(t *testing.T) {
	sampler := NewSampler(NewSimulator())

	for _, maxValue := range []int{2, 3, 5, 6, 7, 16} {
		got, err := sampler.SampleUniform(context.Background(), 500, maxValue)
		require.NoError(t, err)
		require.Len(t, got, 500)
		for _, v := range got {
			assert.GreaterOrEqual(t, v, 0)
			assert.Less(t, v, maxValue)
		}
	}
}

func TestSampleUniformDegenerateRange(t *testing.T) {
	backend := &scriptedBackend{values: []uint64{0}}
	sampler := NewSampler(backend)

	got, err := sampler.SampleUniform(context.Background(), 7, 1)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 0, 0, 0, 0, 0, 0}, got)
	assert.Zero(t, backend.calls, "max value 1 must not invoke the backend")
}

func TestSampleUniformZeroCount(t *testing.T) {
	backend := &scriptedBackend{values: []uint64{0}}
	sampler := NewSampler(backend)

	got, err := sampler.SampleUniform(context.Background(), 0, 6)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Zero(t, backend.calls)
}

func TestSampleUniformRejectsOutOfRange(t *testing.T) {
	// Width for max 6 is 3 bits; 6 and 7 must be rejected, everything else
	// accepted in draw order.
	backend := &scriptedBackend{values: []uint64{7, 5, 6, 0, 3, 6, 7, 2}}
	sampler := NewSampler(backend)

	got, err := sampler.SampleUniform(context.Background(), 4, 6)
	require.NoError(t, err)
	assert.Equal(t, []int{5, 0, 3, 2}, got)
	for _, w := range backend.widths {
		assert.Equal(t, 3, w)
	}
}

func TestSampleUniformMinimalWidth(t *testing.T) {
	cases := map[int]int{2: 1, 3: 2, 4: 2, 5: 3, 8: 3, 9: 4}
	for maxValue, wantWidth := range cases {
		backend := &scriptedBackend{values: []uint64{0, 1}}
		sampler := NewSampler(backend)
		_, err := sampler.SampleUniform(context.Background(), 3, maxValue)
		require.NoError(t, err)
		require.NotEmpty(t, backend.widths)
		assert.Equal(t, wantWidth, backend.widths[0], "max value %d", maxValue)
	}
}

func TestSampleUniformInvalidArguments(t *testing.T) {
	sampler := NewSampler(NewSimulator())

	_, err := sampler.SampleUniform(context.Background(), 4, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = sampler.SampleUniform(context.Background(), 4, -2)
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = sampler.SampleUniform(context.Background(), -1, 4)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSampleUniformBackendFailure(t *testing.T) {
	wantErr := errors.New("ion trap on fire")
	sampler := NewSampler(&scriptedBackend{err: wantErr})

	_, err := sampler.SampleUniform(context.Background(), 4, 6)
	assert.ErrorIs(t, err, wantErr)
}

func TestSampleUniformDistribution(t *testing.T) {
	const (
		maxValue = 6
		draws    = 6000
	)
	sampler := NewSampler(NewSimulator())

	got, err := sampler.SampleUniform(context.Background(), draws, maxValue)
	require.NoError(t, err)

	counts := make([]int, maxValue)
	for _, v := range got {
		counts[v]++
	}

	// Chi-square goodness of fit against the uniform expectation. 20.5 is the
	// 99.9% quantile for 5 degrees of freedom, so a fair source fails this
	// about once in a thousand runs.
	expected := float64(draws) / float64(maxValue)
	chi2 := 0.0
	for _, c := range counts {
		diff := float64(c) - expected
		chi2 += diff * diff / expected
	}
	assert.Less(t, chi2, 20.5, "counts %v look non-uniform", counts)
}

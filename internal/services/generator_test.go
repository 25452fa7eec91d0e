package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantamusic/quanta-api/internal/composer"
	"github.com/quantamusic/quanta-api/internal/models"
	"github.com/quantamusic/quanta-api/internal/quantum"
	"github.com/quantamusic/quanta-api/internal/transport"
)

// zeroBackend measures every shot as zero, which makes runs deterministic:
// every chord is the first table entry, every pitch the chord root, every
// duration the first palette entry.
type zeroBackend struct{}

func (zeroBackend) MeasureBits(_ context.Context, _, shots int) ([]uint64, error) {
	return make([]uint64, shots), nil
}

type failingBackend struct{ err error }

func (b failingBackend) MeasureBits(context.Context, int, int) ([]uint64, error) {
	return nil, b.err
}

// fakeTransport records the operation order and can fail a chosen step.
type fakeTransport struct {
	ops      []string
	created  models.ClipTarget
	sent     []models.NoteEvent
	failOn   string
	failWith error
}

func (f *fakeTransport) step(name string) error {
	f.ops = append(f.ops, name)
	if f.failOn == name {
		return f.failWith
	}
	return nil
}

func (f *fakeTransport) CreateClip(target models.ClipTarget) error {
	f.created = target
	return f.step("create")
}

func (f *fakeTransport) ClearNotes(models.ClipTarget) error { return f.step("clear") }

func (f *fakeTransport) AddNotes(_ models.ClipTarget, notes []models.NoteEvent) error {
	f.sent = append(f.sent, notes...)
	return f.step("add")
}

func (f *fakeTransport) Fire(models.ClipTarget) error { return f.step("fire") }

func testConfig() composer.Config {
	return composer.Config{
		Chords:      []composer.ChordTemplate{{60, 64, 67}},
		Durations:   []float64{1.0},
		BarBeats:    4.0,
		NotesPerBar: 4,
		Bars:        2,
		Tempo:       120,
		Velocity:    100,
		Mode:        composer.ModeFixedCount,
	}
}

func newTestGenerator(clips transport.ClipTransport) *Generator {
	gen := NewGenerator(quantum.NewSampler(zeroBackend{}), clips, nil, testConfig())
	gen.createSettle = 0
	gen.fireSettle = 0
	return gen
}

func TestGenerateAndSyncHappyPath(t *testing.T) {
	clips := &fakeTransport{}
	gen := newTestGenerator(clips)

	run, err := gen.GenerateAndSync(context.Background(), RunOptions{TrackIndex: 3, ClipIndex: 1, Fire: true})
	require.NoError(t, err)

	assert.Equal(t, []string{"create", "clear", "add", "fire"}, clips.ops)
	assert.NotEmpty(t, run.ID)
	assert.Equal(t, 3, run.Target.TrackIndex)
	assert.Equal(t, 1, run.Target.ClipIndex)
	assert.Equal(t, 8.0, run.TotalBeats)
	assert.Equal(t, run.TotalBeats, clips.created.LengthBeats)
	assert.Len(t, run.Notes, 8)
	assert.Equal(t, run.Notes, clips.sent)
	assert.False(t, run.Persisted)

	// zeroBackend pins every pitch draw to the chord root
	for _, note := range run.Notes {
		assert.Equal(t, 60, note.MidiNoteNumber)
	}
}

func TestGenerateAndSyncWithoutFire(t *testing.T) {
	clips := &fakeTransport{}
	gen := newTestGenerator(clips)

	_, err := gen.GenerateAndSync(context.Background(), RunOptions{TrackIndex: 0})
	require.NoError(t, err)
	assert.Equal(t, []string{"create", "clear", "add"}, clips.ops)
}

func TestGenerateAndSyncOverrides(t *testing.T) {
	clips := &fakeTransport{}
	gen := newTestGenerator(clips)

	run, err := gen.GenerateAndSync(context.Background(), RunOptions{Bars: 1, NotesPerBar: 2, Tempo: 90})
	require.NoError(t, err)
	assert.Len(t, run.Notes, 2)
	assert.Equal(t, 90, run.Tempo)
	assert.Equal(t, 4.0, run.TotalBeats)
}

func TestGenerateAndSyncRejectsNegativeTarget(t *testing.T) {
	gen := newTestGenerator(&fakeTransport{})

	_, err := gen.GenerateAndSync(context.Background(), RunOptions{TrackIndex: -1})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = gen.GenerateAndSync(context.Background(), RunOptions{ClipIndex: -2})
	assert.ErrorIs(t, err, ErrInvalidRequest)
}

func TestGenerateAndSyncBackendFailureAbortsBeforeTransport(t *testing.T) {
	clips := &fakeTransport{}
	gen := NewGenerator(quantum.NewSampler(failingBackend{err: quantum.ErrBackendUnavailable}), clips, nil, testConfig())
	gen.createSettle = 0
	gen.fireSettle = 0

	run, err := gen.GenerateAndSync(context.Background(), RunOptions{})
	assert.ErrorIs(t, err, quantum.ErrBackendUnavailable)
	assert.Nil(t, run)
	assert.Empty(t, clips.ops, "no transport traffic on sampler failure")
}

func TestGenerateAndSyncPartialTransportFailure(t *testing.T) {
	clips := &fakeTransport{failOn: "add", failWith: transport.ErrUnavailable}
	gen := newTestGenerator(clips)

	run, err := gen.GenerateAndSync(context.Background(), RunOptions{TrackIndex: 2, Fire: true})
	assert.ErrorIs(t, err, transport.ErrUnavailable)
	require.NotNil(t, run, "partial run must be reported to the caller")
	assert.Equal(t, []string{"create", "clear", "add"}, clips.ops, "no fire after a failed add")
}

func TestRunsAreIndependent(t *testing.T) {
	clips := &fakeTransport{failOn: "create", failWith: transport.ErrUnavailable}
	gen := newTestGenerator(clips)

	_, err := gen.GenerateAndSync(context.Background(), RunOptions{})
	require.Error(t, err)

	// A subsequent run starts from fresh state and succeeds once the
	// channel is back.
	clips.failOn = ""
	run, err := gen.GenerateAndSync(context.Background(), RunOptions{})
	require.NoError(t, err)
	assert.Len(t, run.Notes, 8)
}

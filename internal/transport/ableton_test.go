package transport

import (
	"errors"
	"testing"

	"github.com/hypebeast/go-osc/osc"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quantamusic/quanta-api/internal/models"
)

type recordingSender struct {
	messages []*osc.Message
	err      error
}

func (s *recordingSender) Send(packet osc.Packet) error {
	if s.err != nil {
		return s.err
	}
	if msg, ok := packet.(*osc.Message); ok {
		s.messages = append(s.messages, msg)
	}
	return nil
}

func newTestClient() (*AbletonClient, *recordingSender) {
	rec := &recordingSender{}
	return &AbletonClient{sender: rec, addr: "127.0.0.1:11000"}, rec
}

func TestCreateClipMessage(t *testing.T) {
	client, rec := newTestClient()
	target := models.ClipTarget{TrackIndex: 2, ClipIndex: 1, LengthBeats: 32.0}

	require.NoError(t, client.CreateClip(target))
	require.Len(t, rec.messages, 1)

	msg := rec.messages[0]
	assert.Equal(t, AddressCreateClip, msg.Address)
	assert.Equal(t, []interface{}{int32(2), int32(1), float32(32.0)}, msg.Arguments)
}

func TestClearNotesMessage(t *testing.T) {
	client, rec := newTestClient()

	require.NoError(t, client.ClearNotes(models.ClipTarget{TrackIndex: 0, ClipIndex: 3}))
	require.Len(t, rec.messages, 1)
	assert.Equal(t, AddressRemoveNotes, rec.messages[0].Address)
	assert.Equal(t, []interface{}{int32(0), int32(3)}, rec.messages[0].Arguments)
}

func TestAddNotesSendsSerially(t *testing.T) {
	client, rec := newTestClient()
	target := models.ClipTarget{TrackIndex: 1, ClipIndex: 0}
	notes := []models.NoteEvent{
		{MidiNoteNumber: 60, Velocity: 100, StartBeats: 0, DurationBeats: 1},
		{MidiNoteNumber: 72, Velocity: 90, StartBeats: 1, DurationBeats: 0.5},
	}

	require.NoError(t, client.AddNotes(target, notes))
	require.Len(t, rec.messages, 2)

	first := rec.messages[0]
	assert.Equal(t, AddressAddNotes, first.Address)
	assert.Equal(t, []interface{}{
		int32(1), int32(0), int32(60), float32(0), float32(1), int32(100), false,
	}, first.Arguments)

	second := rec.messages[1]
	assert.Equal(t, []interface{}{
		int32(1), int32(0), int32(72), float32(1), float32(0.5), int32(90), false,
	}, second.Arguments)
}

func TestAddNotesEmptyIsNoOp(t *testing.T) {
	client, rec := newTestClient()

	require.NoError(t, client.AddNotes(models.ClipTarget{}, nil))
	assert.Empty(t, rec.messages)
}

func TestFireMessage(t *testing.T) {
	client, rec := newTestClient()

	require.NoError(t, client.Fire(models.ClipTarget{TrackIndex: 4, ClipIndex: 0}))
	require.Len(t, rec.messages, 1)
	assert.Equal(t, AddressFireClip, rec.messages[0].Address)
}

func TestSendFailuresWrapErrUnavailable(t *testing.T) {
	rec := &recordingSender{err: errors.New("connection refused")}
	client := &AbletonClient{sender: rec, addr: "127.0.0.1:11000"}
	target := models.ClipTarget{TrackIndex: 0, ClipIndex: 0, LengthBeats: 8}

	assert.ErrorIs(t, client.CreateClip(target), ErrUnavailable)
	assert.ErrorIs(t, client.ClearNotes(target), ErrUnavailable)
	assert.ErrorIs(t, client.Fire(target), ErrUnavailable)
	assert.ErrorIs(t, client.AddNotes(target, []models.NoteEvent{{MidiNoteNumber: 60}}), ErrUnavailable)
}

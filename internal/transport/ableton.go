package transport

import (
	"fmt"

	"github.com/hypebeast/go-osc/osc"

	"github.com/quantamusic/quanta-api/internal/logger"
	"github.com/quantamusic/quanta-api/internal/models"
)

// sender is the part of *osc.Client the Ableton transport needs.
type sender interface {
	Send(packet osc.Packet) error
}

// AbletonClient speaks the AbletonOSC dialect over UDP.
type AbletonClient struct {
	sender sender
	addr   string
}

func NewAbletonClient(host string, port int) *AbletonClient {
	return &AbletonClient{
		sender: osc.NewClient(host, port),
		addr:   fmt.Sprintf("%s:%d", host, port),
	}
}

// Addr returns the host:port the client sends to.
func (c *AbletonClient) Addr() string {
	return c.addr
}

// CreateClip allocates a clip of the given length in the target slot. A
// repeated call for the same slot may reset its content.
func (c *AbletonClient) CreateClip(target models.ClipTarget) error {
	msg := osc.NewMessage(AddressCreateClip)
	msg.Append(int32(target.TrackIndex))
	msg.Append(int32(target.ClipIndex))
	msg.Append(float32(target.LengthBeats))
	if err := c.sender.Send(msg); err != nil {
		return fmt.Errorf("%w: create clip at track %d slot %d: %v", ErrUnavailable, target.TrackIndex, target.ClipIndex, err)
	}
	return nil
}

// ClearNotes drops any notes a prior run left in the target slot.
func (c *AbletonClient) ClearNotes(target models.ClipTarget) error {
	msg := osc.NewMessage(AddressRemoveNotes)
	msg.Append(int32(target.TrackIndex))
	msg.Append(int32(target.ClipIndex))
	if err := c.sender.Send(msg); err != nil {
		return fmt.Errorf("%w: clear notes at track %d slot %d: %v", ErrUnavailable, target.TrackIndex, target.ClipIndex, err)
	}
	return nil
}

// AddNotes transmits notes one message at a time, in sequence order. An
// empty sequence is a no-op. Arguments are positional, matching AbletonOSC:
// track, clip, pitch, start, duration, velocity, mute.
func (c *AbletonClient) AddNotes(target models.ClipTarget, notes []models.NoteEvent) error {
	if len(notes) == 0 {
		return nil
	}
	logger.Debug("sending notes", logger.Fields{
		"track": target.TrackIndex,
		"clip":  target.ClipIndex,
		"count": len(notes),
	})
	for i, note := range notes {
		msg := osc.NewMessage(AddressAddNotes)
		msg.Append(int32(target.TrackIndex))
		msg.Append(int32(target.ClipIndex))
		msg.Append(int32(note.MidiNoteNumber))
		msg.Append(float32(note.StartBeats))
		msg.Append(float32(note.DurationBeats))
		msg.Append(int32(note.Velocity))
		msg.Append(false)
		if err := c.sender.Send(msg); err != nil {
			return fmt.Errorf("%w: sending note %d of %d: %v", ErrUnavailable, i+1, len(notes), err)
		}
	}
	return nil
}

// Fire requests playback of the target slot.
func (c *AbletonClient) Fire(target models.ClipTarget) error {
	msg := osc.NewMessage(AddressFireClip)
	msg.Append(int32(target.TrackIndex))
	msg.Append(int32(target.ClipIndex))
	if err := c.sender.Send(msg); err != nil {
		return fmt.Errorf("%w: fire clip at track %d slot %d: %v", ErrUnavailable, target.TrackIndex, target.ClipIndex, err)
	}
	return nil
}

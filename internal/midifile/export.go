// Package midifile renders a note sequence to a standard MIDI file so
// generated phrases can be used outside the live session.
package midifile

import (
	"fmt"
	"io"
	"sort"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"

	"github.com/quantamusic/quanta-api/internal/models"
)

const (
	ticksPerQuarter = 960
	channel         = 0
)

type timedMessage struct {
	tick uint32
	off  bool
	msg  midi.Message
}

// Write renders notes as a single-track SMF at the given tempo. Zero-length
// notes are skipped; note-offs sort before note-ons at the same tick so
// repeated pitches do not cancel each other.
func Write(w io.Writer, notes []models.NoteEvent, tempo int) error {
	if tempo <= 0 {
		return fmt.Errorf("midifile: tempo must be positive, got %d", tempo)
	}

	events := make([]timedMessage, 0, len(notes)*2)
	for _, note := range notes {
		if note.DurationBeats <= 0 {
			continue
		}
		start := uint32(note.StartBeats * ticksPerQuarter)
		end := uint32((note.StartBeats + note.DurationBeats) * ticksPerQuarter)
		key := uint8(note.MidiNoteNumber)
		velocity := uint8(note.Velocity)
		events = append(events,
			timedMessage{tick: start, msg: midi.NoteOn(channel, key, velocity)},
			timedMessage{tick: end, off: true, msg: midi.NoteOff(channel, key)},
		)
	}
	sort.SliceStable(events, func(i, j int) bool {
		if events[i].tick != events[j].tick {
			return events[i].tick < events[j].tick
		}
		return events[i].off && !events[j].off
	})

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(ticksPerQuarter)

	var track smf.Track
	track.Add(0, smf.MetaTempo(float64(tempo)))
	last := uint32(0)
	for _, ev := range events {
		track.Add(ev.tick-last, ev.msg)
		last = ev.tick
	}
	track.Close(0)

	if err := s.Add(track); err != nil {
		return fmt.Errorf("midifile: adding track: %w", err)
	}
	if _, err := s.WriteTo(w); err != nil {
		return fmt.Errorf("midifile: writing: %w", err)
	}
	return nil
}

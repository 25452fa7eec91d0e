package composer

import (
	"fmt"

	"github.com/quantamusic/quanta-api/internal/logger"
	"github.com/quantamusic/quanta-api/internal/models"
)

// Result is the composed sequence plus the metadata downstream stages need
// to size and describe the clip.
type Result struct {
	Notes       []models.NoteEvent
	TotalBeats  float64
	Progression []int
}

// Compose turns sampled draws into a timed note sequence.
//
// progression holds one chord-table index per bar and fixes the harmony for
// the whole run. pitchDraws values must be in [0, ExtendedChordSize);
// durationDraws values must index the duration palette (unused in fixed
// mode). Notes come out bar by bar in non-decreasing start order.
func Compose(cfg Config, progression, pitchDraws, durationDraws []int) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if len(progression) != cfg.Bars {
		return nil, fmt.Errorf("%w: progression has %d entries for %d bars", ErrInvalidConfig, len(progression), cfg.Bars)
	}
	for i, ci := range progression {
		if ci < 0 || ci >= len(cfg.Chords) {
			return nil, fmt.Errorf("%w: progression entry %d is %d, chord table has %d entries", ErrInvalidConfig, i, ci, len(cfg.Chords))
		}
	}

	pitches := newStream("pitch", pitchDraws)
	durations := newStream("duration", durationDraws)

	notes := make([]models.NoteEvent, 0, cfg.SlotBudget())
	now := 0.0

	for _, chordIndex := range progression {
		extended := cfg.Chords[chordIndex].Extended()

		switch cfg.Mode {
		case ModeFixedCount:
			now = composeFixedBar(cfg, extended, pitches, &notes, now)
		case ModeVariableDuration:
			now = composeVariableBar(cfg, extended, pitches, durations, &notes, now)
		}
	}

	return &Result{Notes: notes, TotalBeats: now, Progression: progression}, nil
}

// composeFixedBar emits exactly NotesPerBar notes of equal length, so the
// bar boundary always lands exactly.
func composeFixedBar(cfg Config, extended []int, pitches *stream, notes *[]models.NoteEvent, now float64) float64 {
	noteBeats := cfg.BarBeats / float64(cfg.NotesPerBar)
	for i := 0; i < cfg.NotesPerBar; i++ {
		*notes = append(*notes, models.NoteEvent{
			MidiNoteNumber: extended[pitches.next()],
			Velocity:       cfg.Velocity,
			StartBeats:     now,
			DurationBeats:  noteBeats,
		})
		now += noteBeats
	}
	return now
}

// composeVariableBar accumulates palette-drawn notes until the bar is full.
// A drawn duration that would overflow the bar is clamped to the remaining
// time; a zero palette entry is a rest that consumes its draws without
// emitting a note, keeping the cursor aligned with attempted slots.
func composeVariableBar(cfg Config, extended []int, pitches, durations *stream, notes *[]models.NoteEvent, now float64) float64 {
	barTime := 0.0
	// Rests never advance barTime, and recycled draws can be all rests, so
	// attempts per bar are bounded by the slot budget.
	budget := cfg.SlotBudget()
	for attempts := 0; barTime < cfg.BarBeats; attempts++ {
		if attempts >= budget {
			logger.Warn("bar slot budget exhausted on rests, ending bar early", logger.Fields{
				"bar_time":  barTime,
				"bar_beats": cfg.BarBeats,
			})
			break
		}

		durationIndex := durations.next()
		pitchIndex := pitches.next()

		noteBeats := cfg.Durations[durationIndex]
		if barTime+noteBeats > cfg.BarBeats {
			remaining := cfg.BarBeats - barTime
			if remaining <= 0 {
				break
			}
			// When the remainder matches a palette entry this is that entry;
			// otherwise the final note is shortened to fit.
			noteBeats = remaining
		}
		if noteBeats == 0 {
			continue
		}

		*notes = append(*notes, models.NoteEvent{
			MidiNoteNumber: extended[pitchIndex],
			Velocity:       cfg.Velocity,
			StartBeats:     now,
			DurationBeats:  noteBeats,
		})
		now += noteBeats
		barTime += noteBeats
	}

	// A bar cut short leaves its remainder as silence so later bars stay on
	// the bar grid.
	if barTime < cfg.BarBeats {
		now += cfg.BarBeats - barTime
	}
	return now
}

// Package composer maps uniform random draws onto timed note sequences: a
// chord progression per bar, a pitch per slot chosen from the bar's extended
// chord, and durations either fixed per bar or drawn from a palette.
package composer

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidConfig is returned when a Config cannot produce a valid sequence.
var ErrInvalidConfig = errors.New("composer: invalid config")

// Mode selects how notes are scheduled within a bar.
type Mode string

const (
	// ModeFixedCount places exactly NotesPerBar equal-length notes per bar.
	ModeFixedCount Mode = "fixed"
	// ModeVariableDuration draws note lengths from the palette until the bar
	// is full.
	ModeVariableDuration Mode = "variable"
)

// triadSize is the number of pitch offsets in a chord template.
const triadSize = 3

// ExtendedChordSize is the pitch choice set per slot: the triad plus the
// root raised one octave.
const ExtendedChordSize = triadSize + 1

const (
	defaultVelocity  = 100
	maxVelocity      = 127
	slotBudgetMargin = 10
)

// ChordTemplate is an immutable triad of MIDI pitches.
type ChordTemplate []int

// Extended returns the triad plus the root raised one octave, the 4-way
// pitch choice set for a bar governed by this chord.
func (c ChordTemplate) Extended() []int {
	ext := make([]int, 0, len(c)+1)
	ext = append(ext, c...)
	ext = append(ext, c[0]+12)
	return ext
}

// Config describes one generation run. It is immutable once handed to
// Compose.
type Config struct {
	Chords      []ChordTemplate
	Durations   []float64 // beat lengths; 0 is a rest slot (variable mode)
	BarBeats    float64   // bar length in beats
	NotesPerBar int       // fixed mode only
	Bars        int
	Tempo       int // BPM
	Velocity    int
	Mode        Mode
}

// DefaultConfig mirrors the studio defaults: the six diatonic C-major triads,
// a palette with a rest slot, 8-beat bars, 4 bars at 120 BPM.
func DefaultConfig() Config {
	return Config{
		Chords: []ChordTemplate{
			{60, 64, 67}, // C major (I)
			{55, 59, 62}, // G major (V)
			{57, 60, 64}, // A minor (vi)
			{53, 57, 60}, // F major (IV)
			{52, 55, 59}, // E minor (iii)
			{50, 53, 57}, // D minor (ii)
		},
		Durations:   []float64{0, 0.5, 0.75, 1.0, 2.0},
		BarBeats:    8.0,
		NotesPerBar: 16,
		Bars:        4,
		Tempo:       120,
		Velocity:    defaultVelocity,
		Mode:        ModeVariableDuration,
	}
}

// Validate checks the config before a run. Velocity 0 is normalized to the
// default rather than rejected so callers can leave it unset.
func (c *Config) Validate() error {
	if c.Bars <= 0 {
		return fmt.Errorf("%w: bars must be positive, got %d", ErrInvalidConfig, c.Bars)
	}
	if c.BarBeats <= 0 {
		return fmt.Errorf("%w: bar length must be positive, got %g", ErrInvalidConfig, c.BarBeats)
	}
	if c.Tempo <= 0 {
		return fmt.Errorf("%w: tempo must be positive, got %d", ErrInvalidConfig, c.Tempo)
	}
	if len(c.Chords) == 0 {
		return fmt.Errorf("%w: chord table is empty", ErrInvalidConfig)
	}
	for i, chord := range c.Chords {
		if len(chord) != triadSize {
			return fmt.Errorf("%w: chord %d has %d offsets, want %d", ErrInvalidConfig, i, len(chord), triadSize)
		}
	}
	if c.Velocity == 0 {
		c.Velocity = defaultVelocity
	}
	if c.Velocity < 0 || c.Velocity > maxVelocity {
		return fmt.Errorf("%w: velocity must be in 0..%d, got %d", ErrInvalidConfig, maxVelocity, c.Velocity)
	}

	switch c.Mode {
	case ModeFixedCount:
		if c.NotesPerBar <= 0 {
			return fmt.Errorf("%w: notes per bar must be positive, got %d", ErrInvalidConfig, c.NotesPerBar)
		}
	case ModeVariableDuration:
		if len(c.Durations) == 0 {
			return fmt.Errorf("%w: duration palette is empty", ErrInvalidConfig)
		}
		for i, d := range c.Durations {
			if d < 0 {
				return fmt.Errorf("%w: duration %d is negative (%g)", ErrInvalidConfig, i, d)
			}
		}
		if c.minPositiveDuration() == 0 {
			return fmt.Errorf("%w: duration palette needs at least one positive entry", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown mode %q", ErrInvalidConfig, c.Mode)
	}
	return nil
}

// SlotBudget is how many pitch/duration draws a run should pre-materialize.
// Variable mode sizes for the densest possible bar plus a margin so the
// streams are not exhausted in normal operation.
func (c *Config) SlotBudget() int {
	if c.Mode == ModeFixedCount {
		return c.Bars * c.NotesPerBar
	}
	densest := int(math.Ceil(c.BarBeats / c.minPositiveDuration()))
	return c.Bars*densest + slotBudgetMargin
}

func (c *Config) minPositiveDuration() float64 {
	min := 0.0
	for _, d := range c.Durations {
		if d > 0 && (min == 0 || d < min) {
			min = d
		}
	}
	return min
}

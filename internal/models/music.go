package models

// NoteEvent represents a single musical note with timing and pitch information.
// Times are in beats relative to the start of the clip.
type NoteEvent struct {
	MidiNoteNumber int     `json:"midiNoteNumber"`
	Velocity       int     `json:"velocity"`
	StartBeats     float64 `json:"startBeats"`
	DurationBeats  float64 `json:"durationBeats"`
}

// ClipTarget addresses a clip slot in the DAW session grid.
type ClipTarget struct {
	TrackIndex  int     `json:"trackIndex"`
	ClipIndex   int     `json:"clipIndex"`
	LengthBeats float64 `json:"lengthBeats"`
}

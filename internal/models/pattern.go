package models

import "time"

// GeneratedPattern is a persisted generation run. Notes and the chord
// progression are stored as JSONB so a pattern can be re-exported or
// re-sent without regenerating it.
type GeneratedPattern struct {
	ID string `gorm:"primaryKey;type:uuid" json:"id"`

	// Where the clip was placed
	TrackIndex int `json:"track_index"`
	ClipIndex  int `json:"clip_index"`

	// Musical metadata
	Tempo       int     `json:"tempo"`       // BPM
	TotalBeats  float64 `json:"total_beats"` // Clip length in beats
	Mode        string  `json:"mode"`        // "fixed" or "variable"
	Progression []int   `gorm:"type:jsonb;serializer:json" json:"progression"`

	Notes []NoteEvent `gorm:"type:jsonb;serializer:json" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
}

// Package transport defines the note-event sink contract and its AbletonOSC
// implementation. All operations are fire-and-forget over UDP: there is no
// acknowledgment, so ordering between stages is the caller's problem (see
// the settle pauses in the generation service).
package transport

import (
	"errors"

	"github.com/quantamusic/quanta-api/internal/models"
)

// ErrUnavailable wraps any failure to hand a message to the control channel.
// Messages already sent stay sent; the channel has no transactional
// semantics, so a failed run may leave a partially populated clip.
var ErrUnavailable = errors.New("transport: control channel unavailable")

// ClipTransport accepts clip lifecycle requests for a session-grid target.
// CreateClip is not idempotent at the protocol level; callers issue it at
// most once per run, before adding notes.
type ClipTransport interface {
	CreateClip(target models.ClipTarget) error
	ClearNotes(target models.ClipTarget) error
	AddNotes(target models.ClipTarget, notes []models.NoteEvent) error
	Fire(target models.ClipTarget) error
}

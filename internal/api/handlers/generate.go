package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"

	"github.com/quantamusic/quanta-api/internal/composer"
	"github.com/quantamusic/quanta-api/internal/quantum"
	"github.com/quantamusic/quanta-api/internal/services"
	"github.com/quantamusic/quanta-api/internal/transport"
)

// GenerationRunner is the part of the generation service the handler needs.
type GenerationRunner interface {
	GenerateAndSync(ctx context.Context, opts services.RunOptions) (*services.Run, error)
}

type GenerateHandler struct {
	runner GenerationRunner

	// The pipeline is strictly sequential: one run at a time, and the
	// next-track default advances under the same lock.
	mu        sync.Mutex
	nextTrack int
}

func NewGenerateHandler(runner GenerationRunner) *GenerateHandler {
	return &GenerateHandler{runner: runner}
}

type GenerateRequest struct {
	// TrackIndex omitted: the handler advances through tracks on its own,
	// one per run, like repeatedly triggering generation in a session.
	TrackIndex  *int   `json:"track_index"`
	ClipIndex   int    `json:"clip_index"`
	Bars        int    `json:"bars"`
	NotesPerBar int    `json:"notes_per_bar"`
	Tempo       int    `json:"tempo"`
	Mode        string `json:"mode"` // "fixed" or "variable"
	Fire        *bool  `json:"fire"` // default true
}

func (h *GenerateHandler) Generate(c *gin.Context) {
	// An empty body means "all defaults". ContentLength is unreliable for
	// chunked requests, so bind unconditionally and treat EOF as empty.
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fire := true
	if req.Fire != nil {
		fire = *req.Fire
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	trackIndex := h.nextTrack
	if req.TrackIndex != nil {
		trackIndex = *req.TrackIndex
	}

	run, err := h.runner.GenerateAndSync(c.Request.Context(), services.RunOptions{
		TrackIndex:  trackIndex,
		ClipIndex:   req.ClipIndex,
		Fire:        fire,
		Bars:        req.Bars,
		NotesPerBar: req.NotesPerBar,
		Tempo:       req.Tempo,
		Mode:        composer.Mode(req.Mode),
	})

	switch {
	case err == nil:
	case errors.Is(err, services.ErrInvalidRequest),
		errors.Is(err, composer.ErrInvalidConfig),
		errors.Is(err, quantum.ErrInvalidArgument):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, transport.ErrUnavailable):
		// Notes already delivered stay in the clip; report the partial run.
		resp := gin.H{
			"error": "Ableton control channel unavailable; the clip may be partially populated. " +
				"Ensure Ableton Live is running and the AbletonOSC remote script is active.",
		}
		if run != nil {
			resp["run"] = run
		}
		c.JSON(http.StatusBadGateway, resp)
		return
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// Auto-advance only when the caller did not pin a track.
	if req.TrackIndex == nil {
		h.nextTrack++
	}

	c.JSON(http.StatusOK, gin.H{
		"run":        run,
		"next_track": h.nextTrack,
	})
}

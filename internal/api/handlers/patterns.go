package handlers

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/quantamusic/quanta-api/internal/logger"
	"github.com/quantamusic/quanta-api/internal/midifile"
	"github.com/quantamusic/quanta-api/internal/models"
)

const patternListLimit = 50

type PatternsHandler struct {
	db *gorm.DB // nil when persistence is disabled
}

func NewPatternsHandler(db *gorm.DB) *PatternsHandler {
	return &PatternsHandler{db: db}
}

func (h *PatternsHandler) persistenceDisabled(c *gin.Context) bool {
	if h.db != nil {
		return false
	}
	c.JSON(http.StatusServiceUnavailable, gin.H{
		"error": "persistence is disabled; set DATABASE_URL to store generated patterns",
	})
	return true
}

// List returns the most recent generated patterns.
func (h *PatternsHandler) List(c *gin.Context) {
	if h.persistenceDisabled(c) {
		return
	}

	var patterns []models.GeneratedPattern
	if err := h.db.Order("created_at DESC").Limit(patternListLimit).Find(&patterns).Error; err != nil {
		logger.Error("listing patterns failed", err, nil)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list patterns"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"patterns": patterns})
}

// Get returns one stored pattern with its full note sequence.
func (h *PatternsHandler) Get(c *gin.Context) {
	if h.persistenceDisabled(c) {
		return
	}

	var pattern models.GeneratedPattern
	err := h.db.First(&pattern, "id = ?", c.Param("id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "pattern not found"})
		return
	}
	if err != nil {
		logger.Error("loading pattern failed", err, logger.Fields{"pattern_id": c.Param("id")})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load pattern"})
		return
	}

	c.JSON(http.StatusOK, pattern)
}

// ExportMIDI renders a stored pattern as a standard MIDI file download.
func (h *PatternsHandler) ExportMIDI(c *gin.Context) {
	if h.persistenceDisabled(c) {
		return
	}

	var pattern models.GeneratedPattern
	err := h.db.First(&pattern, "id = ?", c.Param("id")).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "pattern not found"})
		return
	}
	if err != nil {
		logger.Error("loading pattern failed", err, logger.Fields{"pattern_id": c.Param("id")})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load pattern"})
		return
	}

	var buf bytes.Buffer
	if err := midifile.Write(&buf, pattern.Notes, pattern.Tempo); err != nil {
		logger.Error("midi export failed", err, logger.Fields{"pattern_id": pattern.ID})
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to render midi"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", pattern.ID+".mid"))
	c.Data(http.StatusOK, "audio/midi", buf.Bytes())
}

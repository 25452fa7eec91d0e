package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/quantamusic/quanta-api/internal/config"
)

type HealthHandler struct {
	cfg         *config.Config
	abletonAddr string
}

func NewHealthHandler(cfg *config.Config, abletonAddr string) *HealthHandler {
	return &HealthHandler{cfg: cfg, abletonAddr: abletonAddr}
}

// HealthCheck returns the health status of the API
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	persistence := "disabled"
	if h.cfg.PersistenceEnabled() {
		persistence = "enabled"
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"ableton": gin.H{
			"transport": "osc",
			"target":    h.abletonAddr,
		},
		"persistence": persistence,
	})
}

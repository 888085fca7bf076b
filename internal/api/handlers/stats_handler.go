package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/blsantos/InfiniteVideoWall/internal/services"
)

// StatsHandler handles aggregate statistics endpoints.
type StatsHandler struct {
	statsService *services.StatsService
}

// NewStatsHandler creates a stats handler.
func NewStatsHandler(statsService *services.StatsService) *StatsHandler {
	return &StatsHandler{statsService: statsService}
}

// Overview returns total and per-status counts.
func (h *StatsHandler) Overview(c *gin.Context) {
	stats, err := h.statsService.Overview()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, stats)
}

// ByLocation returns counts grouped by city and state.
func (h *StatsHandler) ByLocation(c *gin.Context) {
	counts, err := h.statsService.ByLocation()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

// ByRacismType returns counts grouped by racism type.
func (h *StatsHandler) ByRacismType(c *gin.Context) {
	counts, err := h.statsService.ByRacismType()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

// ByAge returns counts grouped by age range.
func (h *StatsHandler) ByAge(c *gin.Context) {
	counts, err := h.statsService.ByAge()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

// ByGender returns counts grouped by gender.
func (h *StatsHandler) ByGender(c *gin.Context) {
	counts, err := h.statsService.ByGender()
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, counts)
}

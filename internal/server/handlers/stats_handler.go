package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cropwise/cropwise/internal/store"
)

// StatsHandler serves the dashboard statistics and the placeholder weather
// endpoint.
type StatsHandler struct {
	store  *store.Store
	logger *zap.Logger
}

// NewStatsHandler constructs the stats HTTP adapter.
func NewStatsHandler(s *store.Store, logger *zap.Logger) *StatsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsHandler{store: s, logger: logger}
}

// Stats reports the account totals the dashboard shows.
func (h *StatsHandler) Stats(c *gin.Context) {
	total, recent := h.store.UserStats(time.Now())

	c.JSON(http.StatusOK, gin.H{
		"totalUsers":    total,
		"recentSignups": recent,
		"status":        "healthy",
		"timestamp":     time.Now().UTC().Format(time.RFC3339),
	})
}

// Weather returns canned conditions for the requested location. A real
// provider integration never landed; the frontend expects this shape.
func (h *StatsHandler) Weather(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"location":    c.Param("location"),
		"temperature": "25°C",
		"condition":   "Sunny",
		"humidity":    "65%",
		"windSpeed":   "10 km/h",
	})
}

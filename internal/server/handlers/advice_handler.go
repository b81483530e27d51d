package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cropwise/cropwise/internal/service/advisor"
)

// AdviceHandler proxies farming questions to the advice service. The API key
// never reaches the client; all upstream calls happen server-side.
type AdviceHandler struct {
	svc    *advisor.Service
	logger *zap.Logger
}

// NewAdviceHandler constructs the advice HTTP adapter.
func NewAdviceHandler(svc *advisor.Service, logger *zap.Logger) *AdviceHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdviceHandler{svc: svc, logger: logger}
}

type chatRequest struct {
	Message string `json:"message"`
}

// Chat answers one advice question. No conversation state is kept.
func (h *AdviceHandler) Chat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Message is required"})
		return
	}

	reply, err := h.svc.Advise(c.Request.Context(), req.Message)
	if err != nil {
		switch {
		case errors.Is(err, advisor.ErrNotConfigured):
			h.logger.Error("ai chat requested but no api key configured")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "AI service configuration error. Please contact support."})
		case errors.Is(err, advisor.ErrUpstreamAuth):
			c.JSON(http.StatusInternalServerError, gin.H{"error": "AI service authentication failed. Please contact support."})
		default:
			h.logger.Error("ai chat failed", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "I'm sorry, I'm having trouble connecting right now. Please try again in a moment or contact a local agricultural expert for immediate assistance."})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": reply})
}

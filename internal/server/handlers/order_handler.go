package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/cropwise/cropwise/internal/domain/models"
	"github.com/cropwise/cropwise/internal/store"
)

// OrderHandler serves order submission and the admin order endpoints.
type OrderHandler struct {
	store  *store.Store
	logger *zap.Logger
}

// NewOrderHandler constructs the order HTTP adapter.
func NewOrderHandler(s *store.Store, logger *zap.Logger) *OrderHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &OrderHandler{store: s, logger: logger}
}

type createOrderRequest struct {
	Customer models.Customer    `json:"customer"`
	Items    []models.OrderItem `json:"items"`
	// Checkout clients have sent totals both as numbers and as strings.
	Total interface{} `json:"total"`
}

// Create records a submitted checkout.
func (h *OrderHandler) Create(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid order payload", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to submit order"})
		return
	}

	order := h.store.CreateOrder(req.Customer, req.Items, coerceFloat(req.Total))
	c.JSON(http.StatusOK, gin.H{"message": "Order submitted successfully", "orderId": order.ID})
}

// List returns every order.
func (h *OrderHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"orders": h.store.Orders()})
}

// Delete removes an order.
func (h *OrderHandler) Delete(c *gin.Context) {
	id := c.Param("id")

	if err := h.store.DeleteOrder(id); err != nil {
		if errors.Is(err, store.ErrOrderNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		h.logger.Error("order delete failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Unable to delete order"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Order deleted successfully"})
}

func coerceFloat(v interface{}) float64 {
	switch value := v.(type) {
	case float64:
		return value
	case string:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}

package handlers

import (
	"go.uber.org/zap"

	"github.com/cropwise/cropwise/internal/service/advisor"
	"github.com/cropwise/cropwise/internal/store"
)

// Set groups every HTTP handler for router wiring.
type Set struct {
	Auth           *AuthHandler
	Products       *ProductHandler
	Orders         *OrderHandler
	Agriculturists *AgriculturistHandler
	Stats          *StatsHandler
	Advice         *AdviceHandler
}

// NewSet builds all handlers over the shared store and advice service.
func NewSet(s *store.Store, adviceSvc *advisor.Service, uploadDir string, logger *zap.Logger) *Set {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Set{
		Auth:           NewAuthHandler(s, logger.Named("handlers.auth")),
		Products:       NewProductHandler(s, uploadDir, logger.Named("handlers.products")),
		Orders:         NewOrderHandler(s, logger.Named("handlers.orders")),
		Agriculturists: NewAgriculturistHandler(s, uploadDir, logger.Named("handlers.agriculturists")),
		Stats:          NewStatsHandler(s, logger.Named("handlers.stats")),
		Advice:         NewAdviceHandler(adviceSvc, logger.Named("handlers.advice")),
	}
}

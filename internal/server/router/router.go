package router

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/cropwise/cropwise/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares. Upload
// serving is rooted at uploadDir so product and profile images resolve under
// /images regardless of where the directory lives on disk.
func New(h *handlers.Set, uploadDir string, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())
	r.Use(zapLoggerMiddleware(logger))

	r.Static("/images", uploadDir)

	api := r.Group("/api")
	{
		api.POST("/signup", h.Auth.Signup)
		api.POST("/login", h.Auth.Login)
		api.GET("/check-admin/:email", h.Auth.CheckAdmin)

		api.GET("/products", h.Products.List)
		api.POST("/products", h.Products.Create)
		api.PUT("/products/:id", h.Products.Update)
		api.DELETE("/products/:id", h.Products.Delete)

		api.POST("/orders", h.Orders.Create)
		api.GET("/orders", h.Orders.List)
		api.DELETE("/orders/:id", h.Orders.Delete)

		api.GET("/agriculturists", h.Agriculturists.List)
		api.POST("/agriculturists", h.Agriculturists.Create)
		api.PUT("/agriculturists/:id", h.Agriculturists.Update)
		api.DELETE("/agriculturists/:id", h.Agriculturists.Delete)

		api.GET("/stats", h.Stats.Stats)
		api.GET("/weather/:location", h.Stats.Weather)
		api.POST("/ai-chat", h.Advice.Chat)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") {
			c.JSON(http.StatusNotFound, gin.H{"error": "API endpoint not found"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "Page not found"})
	})

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}
		c.Set("request_id", requestID)
		c.Writer.Header().Set("X-Request-ID", requestID)
		c.Next()
	}
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("request_id", c.GetString("request_id")),
			zap.String("client_ip", c.ClientIP()))
	}
}

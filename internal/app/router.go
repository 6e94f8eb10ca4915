package app

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"

	"riderequest/internal/handler"
	"riderequest/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	RideHandler *handler.RideHandler
	// UsernameClaim scopes idempotency keys to the caller. Defaults to
	// handler.DefaultUsernameClaim.
	UsernameClaim string
	// IdempotencyCache is optional; nil disables Idempotency-Key replay.
	IdempotencyCache middleware.ResponseCache
	NewRelicApp      *newrelic.Application
	Logger           *slog.Logger
}

// NewRouter creates the local gin router that fronts the ride function the
// way the API gateway does in production.
func NewRouter(deps RouterDeps) *gin.Engine {
	router := gin.New()

	// Global middleware.
	router.Use(gin.Recovery())
	router.Use(gin.Logger())
	router.Use(middleware.CORSMiddleware())

	// Add New Relic middleware if enabled.
	if deps.NewRelicApp != nil {
		router.Use(nrgin.Middleware(deps.NewRelicApp))
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	usernameClaim := deps.UsernameClaim
	if usernameClaim == "" {
		usernameClaim = handler.DefaultUsernameClaim
	}

	// Claims must be decoded before the replay cache so keys are per rider.
	ride := []gin.HandlerFunc{middleware.ClaimsMiddleware(deps.Logger)}
	if deps.IdempotencyCache != nil {
		ride = append(ride, middleware.IdempotencyMiddleware(deps.IdempotencyCache, usernameClaim))
	}
	ride = append(ride, handler.Gin(deps.RideHandler.RequestRide))
	router.POST("/ride", ride...)

	return router
}

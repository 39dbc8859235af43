package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/leadhub/leadhub/internal/interfaces/http/middleware"
	"github.com/leadhub/leadhub/internal/shared/version"
)

// Engine returns the configured gin engine.
func (c *Container) Engine() *gin.Engine {
	return c.engine
}

// SetupRoutes configures all HTTP routes.
func (c *Container) SetupRoutes() {
	r := c.engine

	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(c.log))
	r.Use(middleware.Recovery(c.log))

	r.GET("/health", c.healthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(c.gatherer, promhttp.HandlerOpts{})))

	c.setupAdminRoutes()
}

// setupAdminRoutes configures the operational lifecycle API. Access control
// is expected at the ingress.
func (c *Container) setupAdminRoutes() {
	admin := c.engine.Group("/api/admin")
	admin.Use(middleware.CORS(c.cfg.Server.AllowedOrigins))
	if c.redis != nil && c.cfg.Server.AdminRateLimit > 0 {
		limiter := middleware.NewRateLimiter(c.redis, c.cfg.Server.AdminRateLimit, time.Minute, c.log)
		admin.Use(limiter.Limit())
	}

	subscriptions := admin.Group("/subscriptions")
	{
		subscriptions.GET("/expiration-summary", c.hdlrs.lifecycleHandler.GetExpirationSummary)
		subscriptions.GET("/:id/deliveries", c.hdlrs.lifecycleHandler.ListDeliveries)
	}
}

func (c *Container) healthCheck(ctx *gin.Context) {
	status := http.StatusOK
	body := gin.H{
		"status":    "healthy",
		"service":   "leadhub",
		"version":   version.String(),
		"scheduler": c.schedulerManager != nil && c.schedulerManager.IsStarted(),
	}

	if sqlDB, err := c.db.DB(); err != nil || sqlDB.PingContext(ctx.Request.Context()) != nil {
		status = http.StatusServiceUnavailable
		body["status"] = "degraded"
	}

	ctx.JSON(status, body)
}

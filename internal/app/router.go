package app

import (
	"github.com/gin-gonic/gin"
	"github.com/newrelic/go-agent/v3/integrations/nrgin"
	"github.com/newrelic/go-agent/v3/newrelic"
	"github.com/redis/go-redis/v9"

	"agripay/internal/handler"
	"agripay/internal/middleware"
)

// RouterDeps contains all dependencies needed for the router.
type RouterDeps struct {
	PaymentHandler  *handler.PaymentHandler
	CallbackHandler *handler.CallbackHandler
	RedisClient     *redis.Client
	NewRelicApp     *newrelic.Application
}

// NewRouter creates a new Gin router with all routes registered.
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

	router.Use(middleware.IdempotencyMiddleware(deps.RedisClient))

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes.
	v1 := router.Group("/v1")
	{
		// Payment routes.
		payments := v1.Group("/payments")
		{
			payments.POST("", deps.PaymentHandler.Checkout)
			payments.GET("/:id", deps.PaymentHandler.GetAttempt)
		}

		// Purchase call sites.
		v1.POST("/courses/:id/purchase", deps.PaymentHandler.PurchaseCourse)
		v1.POST("/crops/orders", deps.PaymentHandler.OrderCrop)
		v1.POST("/loans/:id/fee", deps.PaymentHandler.PayLoanFee)

		// Provider result callback.
		v1.POST("/mpesa/callback", deps.CallbackHandler.Receive)
	}

	return router
}

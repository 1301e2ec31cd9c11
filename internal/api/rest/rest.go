package rest

import (
	"github.com/gin-gonic/gin"

	"github.com/push-name-service/pns-indexer/internal/api/middleware"
)

// SetupRoutes configures all REST API routes
func SetupRoutes(router *gin.Engine, handler *Handler, authCfg middleware.AuthConfig) {
	// Health check endpoint (no auth, no version prefix)
	router.GET("/health", handler.HealthCheck)

	// non-POST on the webhook path answers 405, not 404
	router.HandleMethodNotAllowed = true
	router.NoMethod(respondMethodNotAllowed)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		// Inbound sync webhook (signature-verified when a secret is set)
		v1.POST("/sync/webhook", handler.SyncWebhook)

		// Availability resolution (public read access)
		v1.GET("/names/:name", handler.GetName)

		// Reverse resolution (public read access)
		v1.GET("/addresses/:address/name", handler.GetAddressName)

		// Ownership index (public read access)
		v1.GET("/owners/:address/names", handler.ListOwnerNames)

		// Scoped cache refresh (requires authentication)
		v1.POST("/owners/:address/refresh", middleware.Auth(authCfg), handler.RefreshOwner)
	}
}

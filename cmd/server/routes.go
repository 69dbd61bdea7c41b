package main

import (
	"github.com/gin-gonic/gin"
	"nature-widget.backend/internal/interfaces/http/handlers"
)

type routeDeps struct {
	authHandler          *handlers.AuthHandler
	domainHandler        *handlers.DomainHandler
	keyHandler           *handlers.KeyHandler
	widgetHandler        *handlers.WidgetHandler
	authMiddleware       gin.HandlerFunc
	widgetAuthMiddleware gin.HandlerFunc
}

func registerRoutes(r *gin.Engine, d routeDeps) {
	// Widget surface. The only trust here is the API key; the auth middleware
	// makes the full allow/deny decision including the preflight.
	r.GET("/widget.html", d.widgetAuthMiddleware, d.widgetHandler.ServeWidget)
	r.OPTIONS("/widget.html", d.widgetAuthMiddleware)

	api := r.Group("/api")
	{
		// Auth routes (public except /me)
		auth := api.Group("/auth")
		{
			auth.POST("/register", d.authHandler.Register)
			auth.POST("/login", d.authHandler.Login)
			auth.GET("/me", d.authMiddleware, d.authHandler.Me)
		}

		// Domain routes (protected)
		domains := api.Group("/domains")
		domains.Use(d.authMiddleware)
		{
			domains.GET("/all", d.domainHandler.ListDomains)
			domains.POST("/purchase", d.domainHandler.PurchaseDomain)
			domains.GET("/verify-purchase/:sessionId", d.domainHandler.VerifyPurchase)
			domains.POST("/cancel/:domainId", d.domainHandler.CancelDomain)
		}

		// Key routes (protected)
		keys := api.Group("/keys")
		keys.Use(d.authMiddleware)
		{
			keys.GET("/my-keys", d.keyHandler.ListKeys)
			keys.POST("/generate", d.keyHandler.GenerateKey)
			keys.POST("/regenerate", d.keyHandler.RegenerateKey)
			keys.POST("/revoke/:keyId", d.keyHandler.RevokeKey)
		}
	}
}

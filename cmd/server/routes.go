package main

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"docstack.backend/internal/interfaces/http/handlers"
)

type routeDeps struct {
	authHandler     *handlers.AuthHandler
	apiKeyHandler   *handlers.ApiKeyHandler
	auditHandler    *handlers.AuditHandler
	chatHandler     *handlers.ChatHandler
	documentHandler *handlers.DocumentHandler

	sessionAuth gin.HandlerFunc
	gateChat    gin.HandlerFunc
	gateUpload  gin.HandlerFunc
	gateSearch  gin.HandlerFunc
	gateDelete  gin.HandlerFunc
}

func registerAPIV1Routes(r *gin.Engine, d routeDeps) {
	v1 := r.Group("/api/v1")
	{
		// Auth routes (public)
		auth := v1.Group("/auth")
		{
			auth.POST("/register", d.authHandler.Register)
			auth.POST("/login", d.authHandler.Login)
			auth.GET("/me", d.sessionAuth, d.authHandler.Me)
		}

		// API key management (dashboard session only, never API keys)
		keys := v1.Group("/keys")
		keys.Use(d.sessionAuth)
		{
			keys.POST("", d.apiKeyHandler.CreateApiKey)
			keys.GET("", d.apiKeyHandler.ListApiKeys)
			keys.GET("/analytics", d.apiKeyHandler.GetAnalytics)
			keys.DELETE("/:id", d.apiKeyHandler.RevokeApiKey)
			keys.POST("/:id/regenerate", d.apiKeyHandler.RegenerateApiKey)
		}

		// Audit trail (dashboard session only)
		v1.GET("/audit", d.sessionAuth, d.auditHandler.ListAudit)
	}

	// Programmatic surface, gated per capability
	api := r.Group("/v1")
	{
		api.POST("/chat", d.gateChat, d.chatHandler.SendChat)
		api.POST("/upload", d.gateUpload, d.documentHandler.UploadDocument)
		api.GET("/documents", d.gateSearch, d.documentHandler.ListDocuments)
		api.GET("/documents/:id", d.gateSearch, d.documentHandler.DownloadDocument)
		api.DELETE("/documents/:id", d.gateDelete, d.documentHandler.DeleteDocument)
	}
}

func registerHealthRoute(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
}

func registerMetricsRoute(r *gin.Engine) {
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func applyCORSMiddleware(r *gin.Engine) {
	r.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type, X-API-Key, X-Request-ID")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})
}

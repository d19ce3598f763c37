package api

import (
	"alcyxob/fitness-program/internal/service"
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// HealthCheck reports whether a backing dependency is reachable.
type HealthCheck func(ctx context.Context) error

// RouteDeps holds everything the router needs.
type RouteDeps struct {
	Verifier           EventVerifier
	UserSyncService    service.UserSyncService
	ProgramService     service.ProgramService
	DBHealth           HealthCheck
	ExposeErrorDetails bool
	Log                zerolog.Logger
}

func SetupRoutes(router *gin.Engine, deps RouteDeps) {
	webhookHandler := NewWebhookHandler(deps.Verifier, deps.UserSyncService, deps.Log)
	programHandler := NewProgramHandler(deps.ProgramService, deps.ExposeErrorDetails, deps.Log)

	router.Use(RequestIDMiddleware(), LoggerMiddleware(deps.Log), MetricsMiddleware())

	router.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	router.GET("/healthz", func(c *gin.Context) {
		if deps.DBHealth != nil {
			if err := deps.DBHealth(c.Request.Context()); err != nil {
				deps.Log.Warn().Err(err).Msg("health check failed")
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "database": "down"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok", "database": "up"})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	apiGroup := router.Group("/api")
	{
		// Called by Clerk through Svix
		apiGroup.POST("/clerk-users-webhook", webhookHandler.HandleClerkWebhook)

		// Called by the voice assistant tool
		apiGroup.POST("/vapi/generate-program", programHandler.GenerateProgram)

		userGroup := apiGroup.Group("/users/:clerkId")
		{
			userGroup.GET("/plans", programHandler.GetUserPlans)
			userGroup.GET("/plans/active", programHandler.GetActivePlan)
		}
	}
}

package main

import (
	"alcyxob/fitness-program/internal/ai"
	"alcyxob/fitness-program/internal/api"
	"alcyxob/fitness-program/internal/config"
	"alcyxob/fitness-program/internal/logging"
	"alcyxob/fitness-program/internal/repository/mongo"
	"alcyxob/fitness-program/internal/service"
	"alcyxob/fitness-program/internal/storage"
	"alcyxob/fitness-program/internal/webhook"
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
)

// @title Fitness Program API
// @version 1.0
// @description Generates personalized workout and diet plans and mirrors Clerk users.
// @BasePath /
func main() {
	// --- Configuration ---
	cfg, err := config.LoadConfig(".")
	if err != nil {
		// Logger config is not known yet
		bootLog := logging.New(config.LogConfig{Level: "info"})
		bootLog.Fatal().Err(err).Msg("could not load config")
	}
	log := logging.New(cfg.Log)
	log.Info().
		Str("ai_provider", cfg.AI.Provider).
		Str("ai_model", cfg.AI.Model).
		Bool("transactions", cfg.Database.Transactions).
		Bool("archive", cfg.S3.BucketName != "").
		Msg("configuration loaded")

	// --- Database Connection ---
	dbClient, err := mongo.ConnectDB(cfg.Database.URI)
	if err != nil {
		log.Fatal().Err(err).Msg("could not connect to MongoDB")
	}
	defer func() {
		log.Info().Msg("disconnecting MongoDB")
		if err := mongo.DisconnectDB(dbClient); err != nil {
			log.Error().Err(err).Msg("failed to disconnect MongoDB")
		}
	}()
	appDB := dbClient.Database(cfg.Database.Name)
	log.Info().Str("database", cfg.Database.Name).Msg("database connection established")

	// --- Ensure Indexes ---
	// The partial unique index on active plans must exist before serving traffic.
	indexCtx, cancelIndex := context.WithTimeout(context.Background(), time.Minute)
	if err := mongo.EnsureIndexes(indexCtx, appDB); err != nil {
		cancelIndex()
		log.Fatal().Err(err).Msg("could not create indexes")
	}
	cancelIndex()

	// --- Initialize Storage ---
	fileStorage, err := storage.NewFileStorage(context.Background(), cfg.S3)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize S3 storage")
	}

	// --- Initialize AI Provider ---
	provider, err := ai.NewProvider(context.Background(), cfg.AI)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize AI provider")
	}

	// --- Initialize Repositories ---
	userRepo := mongo.NewMongoUserRepository(appDB)
	planRepo := mongo.NewMongoPlanRepository(appDB, cfg.Database.Transactions)

	// --- Initialize Services ---
	userSyncService := service.NewUserSyncService(userRepo, log)
	programService := service.NewProgramService(planRepo, provider, fileStorage, service.ProgramConfig{
		SystemInstruction: cfg.AI.SystemInstruction,
		Temperature:       cfg.AI.Temperature,
		TopP:              cfg.AI.TopP,
		Timeout:           cfg.AI.Timeout,
	}, log)
	if cfg.Clerk.WebhookSecret == "" {
		log.Warn().Msg("CLERK_WEBHOOK_SECRET is not set; every webhook will be rejected")
	}
	verifier := webhook.NewVerifier(cfg.Clerk.WebhookSecret, log)

	// --- Initialize Gin Engine ---
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery())

	api.SetupRoutes(router, api.RouteDeps{
		Verifier:        verifier,
		UserSyncService: userSyncService,
		ProgramService:  programService,
		DBHealth: func(ctx context.Context) error {
			return mongo.Ping(ctx, dbClient)
		},
		ExposeErrorDetails: cfg.App.ExposeErrorDetails,
		Log:                log,
	})

	// --- Start HTTP Server ---
	server := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.Server.WriteTimeout, // Covers two model calls
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		log.Info().Str("address", cfg.Server.Address).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe error")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	ctxShutdown, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	if err := server.Shutdown(ctxShutdown); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exiting")
}

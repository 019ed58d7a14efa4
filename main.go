package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/inkwell/blog-api/internal/api"
	"github.com/inkwell/blog-api/internal/auth"
	"github.com/inkwell/blog-api/internal/config"
	"github.com/inkwell/blog-api/internal/database"
	"github.com/inkwell/blog-api/internal/logger"
	"github.com/inkwell/blog-api/internal/metrics"
	"github.com/inkwell/blog-api/internal/services"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Init("info", false)
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Init(cfg.LogLevel, cfg.Production())

	ctx := context.Background()

	// Set up database
	db, err := database.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Str("database", cfg.DatabaseURL).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	// Set up services
	userService := services.NewUserService(db)
	articleService := services.NewArticleService(db)
	tokenService := auth.NewTokenService(cfg.JWTSecret, cfg.JWTExpiry)

	// Set up router
	router := api.NewRouter(api.Dependencies{
		Users:          userService,
		Articles:       articleService,
		Local:          auth.NewLocalStrategy(userService),
		Bearer:         auth.NewBearerStrategy(tokenService),
		Tokens:         tokenService,
		Metrics:        metrics.New(),
		DB:             db,
		AllowedOrigins: cfg.ClientOrigins,
	})

	// Set up server
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Graceful shutdown
	go func() {
		log.Info().Int("port", cfg.ServerPort).Msg("Server starting")
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exiting")
}

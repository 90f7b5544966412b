package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/anonto42/neighborly/backend/internal/middleware"
	"github.com/anonto42/neighborly/backend/internal/router"
	"github.com/anonto42/neighborly/backend/internal/services"
	"github.com/anonto42/neighborly/backend/internal/validators"
	"github.com/anonto42/neighborly/backend/pkg/config"
	"github.com/anonto42/neighborly/backend/pkg/firebase"
	"github.com/labstack/echo/v4"
)

func main() {
	configPath := flag.String("config", "", "optional YAML config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid config: %v", err)
	}

	logger := config.NewLogger(os.Stdout, cfg.LogLevel)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database connections
	db, err := config.InitDB(cfg)
	if err != nil {
		logger.Error("failed to initialize databases", slog.Any("err", err))
		os.Exit(1)
	}
	defer db.CloseDB()

	var verifier middleware.TokenVerifier
	if cfg.FirebaseCredentialsPath != "" {
		firebaseApp, err := firebase.InitFirebase(ctx, cfg.FirebaseCredentialsPath)
		if err != nil {
			logger.Error("failed to initialize firebase", slog.Any("err", err))
			os.Exit(1)
		}
		verifier = firebaseApp
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = validators.NewValidator()
	config.SetupMiddleware(e, logger, cfg.APITimeout)

	err = router.SetupRoutes(ctx, e, db.Postgres, db.Mongo, router.Options{
		JWTSecret:     cfg.JWTSecret,
		TokenDuration: cfg.TokenDuration,
		AllowDevLogin: !cfg.IsProduction(),
		Discovery: services.DiscoveryConfig{
			MatchPageSize:      cfg.Discovery.MatchPageSize,
			TrendingSampleSize: cfg.Discovery.TrendingSampleSize,
			TrendingTopN:       cfg.Discovery.TrendingTopN,
		},
		Verifier:      verifier,
		MongoDatabase: cfg.MongoDatabase,
		Logger:        logger,
	})
	if err != nil {
		logger.Error("failed to set up routes", slog.Any("err", err))
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		ReadTimeout:  cfg.APITimeout,
		WriteTimeout: cfg.APITimeout + 5*time.Second,
	}

	go func() {
		logger.Info("server starting", slog.String("addr", srv.Addr), slog.String("env", cfg.Env))
		if err := e.StartServer(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server stopped", slog.Any("err", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", slog.Any("err", err))
	}
}

package main

import (
	"context"
	"errors"
	"log"
	"math/rand"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"harjoitus/internal/config"
	"harjoitus/internal/content"
	"harjoitus/internal/database"
	"harjoitus/internal/game"
	"harjoitus/internal/handlers"
	"harjoitus/internal/logger"
	"harjoitus/internal/metrics"
	"harjoitus/internal/modes"
	"harjoitus/internal/progress"
	"harjoitus/internal/security"
	"harjoitus/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	zl, err := logger.New(cfg.Env, cfg.Debug)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zl.Sync()

	if err := run(cfg, zl); err != nil {
		zl.Fatal("server failed", zap.Error(err))
	}
}

func run(cfg *config.Config, zl *zap.Logger) error {
	ctx := context.Background()

	// Initialize database with config (supports sqlite, postgres, mysql)
	db, err := database.InitializeWithConfig(cfg)
	if err != nil {
		return err
	}
	defer db.Close()
	zl.Info("database connection established", zap.String("type", cfg.DatabaseType))

	applied, err := db.RunMigrations(ctx)
	if err != nil {
		return err
	}
	zl.Info("migrations completed", zap.Strings("applied", applied))

	lib, err := content.Load()
	if err != nil {
		return err
	}
	registry := modes.NewRegistry(lib)
	zl.Info("content loaded", zap.Int("modes", len(registry.All())))

	m := metrics.New()

	var issuer *security.TokenIssuer
	if cfg.DataSecret != "" {
		issuer = security.NewTokenIssuer(cfg.DataSecret, 5*time.Minute)
	}

	// Progress: local store always, mirror when configured
	var mirror progress.Mirror
	if cfg.MirrorURL != "" {
		var tokens progress.TokenSource
		if issuer != nil {
			tokens = issuer
		}
		mirror = progress.NewRemoteClient(cfg.MirrorURL, cfg.MirrorTimeout, tokens)
	}
	local := service.NewProgressStore(cfg.ProgressStore, cfg.ProgressDir, db)
	adapter := progress.NewAdapter(local, mirror, m, zl.Named("progress"))

	reducer := game.NewReducer(registry, rand.New(rand.NewSource(time.Now().UnixNano())), time.Now)
	engine := game.NewEngine(reducer, adapter, m, zl.Named("game"))

	if cfg.NotificationsEnabled() {
		emailService, err := service.NewEmailService(ctx, cfg.AWSRegion, cfg.SESFromEmail, cfg.SESFromName, cfg.NotifyEmail, zl.Named("email"))
		if err != nil {
			zl.Warn("email notifications unavailable", zap.Error(err))
		} else if emailService.IsEnabled() {
			engine.SetNotifier(emailService)
			zl.Info("completion emails enabled", zap.String("to", cfg.NotifyEmail))
		}
	}

	dataService := service.NewDataService(service.NewDataBackend(cfg.DataBackend, cfg.DataFilePath, db), zl.Named("data"))

	limiter := security.NewRateLimiter(cfg.RateLimit, time.Minute, cfg.TrustProxy)
	defer limiter.Stop()

	var verifier handlers.TokenVerifier
	if issuer != nil {
		verifier = issuer
	}
	middleware := handlers.NewMiddleware(zl.Named("http"), m, verifier, limiter)
	dataHandler := handlers.NewDataHandler(dataService, cfg.UploadMaxSize, zl.Named("data"))
	gameHandler := handlers.NewGameHandler(engine, registry, zl.Named("game"))

	// Setup routes
	mux := http.NewServeMux()

	// Persistence
	mux.HandleFunc("GET /api/health", dataHandler.Health)
	mux.HandleFunc("GET /api/data", middleware.RequireToken(dataHandler.GetData))
	mux.HandleFunc("POST /api/data", middleware.RateLimit(middleware.RequireToken(dataHandler.PostData)))

	// Game
	mux.HandleFunc("GET /api/modes", gameHandler.ListModes)
	mux.HandleFunc("GET /api/game", gameHandler.GetGame)
	mux.HandleFunc("POST /api/game/start", gameHandler.Start)
	mux.HandleFunc("POST /api/game/submit", gameHandler.Submit)
	mux.HandleFunc("POST /api/game/advance", gameHandler.Advance)
	mux.HandleFunc("POST /api/game/clear", gameHandler.ClearFeedback)
	mux.HandleFunc("POST /api/game/menu", gameHandler.ReturnToMenu)
	mux.HandleFunc("GET /api/progress", gameHandler.GetProgress)
	mux.HandleFunc("DELETE /api/progress", gameHandler.ResetProgress)

	mux.Handle("GET /metrics", m.Handler())

	addr := ":" + cfg.ServerPort
	server := &http.Server{
		Addr:         addr,
		Handler:      middleware.Logging(mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Listen before loading progress: the default mirror is this server
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	serveErr := make(chan error, 1)
	go func() {
		zl.Info("server starting", zap.String("url", "http://localhost"+addr))
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	bootCtx, cancel := context.WithTimeout(ctx, cfg.MirrorTimeout+time.Second)
	engine.Bootstrap(bootCtx, adapter)
	cancel()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-quit:
	case err := <-serveErr:
		if err != nil {
			return err
		}
	}

	zl.Info("server shutting down")

	// Pending mirror pushes may target this server, so drain them while it still listens
	engine.Wait()
	adapter.Flush()

	shutdownCtx, cancelShutdown := context.WithTimeout(ctx, 10*time.Second)
	defer cancelShutdown()
	if err := server.Shutdown(shutdownCtx); err != nil {
		zl.Warn("graceful shutdown failed", zap.Error(err))
	}

	// Saves from requests finished during Shutdown; failed pushes leave the unsynced marker
	engine.Wait()
	adapter.Flush()
	return nil
}

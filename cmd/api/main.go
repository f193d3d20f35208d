package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"

	httpAdapter "github.com/lorrc/service-desk-realtime/internal/adapters/primary/http"
	mw "github.com/lorrc/service-desk-realtime/internal/adapters/primary/http/middleware"
	"github.com/lorrc/service-desk-realtime/internal/adapters/primary/websocket"
	"github.com/lorrc/service-desk-realtime/internal/adapters/secondary/postgres"
	"github.com/lorrc/service-desk-realtime/internal/auth"
	"github.com/lorrc/service-desk-realtime/internal/config"
	"github.com/lorrc/service-desk-realtime/internal/core/services"
	"github.com/lorrc/service-desk-realtime/internal/infrastructure/logging"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// 2. Initialize Structured Logger
	logConfig := logging.DefaultConfig()
	logConfig.Level = cfg.Logging.Level
	logConfig.Format = cfg.Logging.Format
	logConfig.ServiceName = cfg.App.Name
	logConfig.Environment = cfg.App.Environment
	logger := logging.NewLogger(logConfig)

	logger.Info("starting service",
		"version", cfg.App.Version,
		"environment", cfg.App.Environment,
		"config", cfg.String(),
	)

	// 3. Initialize Database Pool
	ctx := context.Background()
	pool, err := postgres.Connect(ctx, cfg.Database)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	logger.Info("database connection established")

	// 4. Initialize Rate Limiters
	var generalRateLimiter, connectRateLimiter *mw.RateLimiter
	if cfg.RateLimit.Enabled {
		general := mw.DefaultRateLimiterConfig()
		general.RequestsPerSecond = cfg.RateLimit.RequestsPerSecond
		general.BurstSize = cfg.RateLimit.BurstSize
		generalRateLimiter = mw.NewRateLimiter(general)
		defer generalRateLimiter.Stop()

		connect := mw.ConnectRateLimiterConfig()
		connect.RequestsPerSecond = cfg.RateLimit.ConnectRPS
		connect.BurstSize = cfg.RateLimit.ConnectBurst
		connectRateLimiter = mw.NewRateLimiter(connect)
		defer connectRateLimiter.Stop()
	}

	// 5. Dependency Injection (Wiring the Hexagon)

	// Repositories (Secondary Adapters)
	userRepo := postgres.NewUserRepository(pool)
	ticketRepo := postgres.NewTicketRepository(pool)

	// Services (Core)
	identityResolver := services.NewIdentityResolver(userRepo, logger)
	roomAuthorizer := services.NewRoomAuthorizer(ticketRepo, logger)
	authorLookup := services.NewAuthorLookupService(userRepo, logger)

	// Real-time fabric
	hub := websocket.NewHub(logger)
	gateway := websocket.NewGateway(hub, identityResolver, roomAuthorizer, authorLookup, websocket.Options{
		SendQueueSize:  cfg.WebSocket.SendQueueSize,
		MaxMessageSize: cfg.WebSocket.MaxMessageSize,
		PingInterval:   cfg.WebSocket.PingInterval,
		WriteWait:      cfg.WebSocket.WriteWait,
	}, logger)
	bridge := services.NewRealtimeBridge(hub, logger)

	// Handlers (Primary Adapters)
	errorHandler := httpAdapter.NewErrorHandler(logger)
	wsHandler := httpAdapter.NewWebSocketHandler(gateway, cfg, errorHandler, logger)
	eventHandler := httpAdapter.NewEventHandler(bridge, errorHandler, cfg.Ingress.MaxBody, logger)
	healthHandler := httpAdapter.NewHealthHandler(pool, hub, cfg.App.Version)

	// 6. Setup Router
	r := chi.NewRouter()

	// Global middleware
	r.Use(mw.RequestID)
	r.Use(mw.RequestLogger(logger))
	r.Use(mw.RecoveryLogger(logger))

	// WebSocket rooms (authentication happens after the upgrade)
	r.Group(func(r chi.Router) {
		if connectRateLimiter != nil {
			r.Use(connectRateLimiter.Middleware)
		}
		wsHandler.RegisterRoutes(r)
	})

	r.Group(func(r chi.Router) {
		r.Use(httpAdapter.NewCORS(cfg))
		if generalRateLimiter != nil {
			r.Use(generalRateLimiter.Middleware)
		}

		// Health check endpoints
		healthHandler.RegisterRoutes(r)

		// Event ingress for the mutation API
		if cfg.Ingress.Enabled() {
			tokenManager := auth.NewTokenManager(cfg.Ingress.Secret, cfg.Ingress.TokenTTL)
			r.Group(func(r chi.Router) {
				r.Use(mw.ServiceAuth(tokenManager, cfg.Ingress.Subject, logger))
				eventHandler.RegisterRoutes(r)
			})
		} else {
			logger.Warn("event ingress disabled: INGRESS_JWT_SECRET is not set")
		}
	})

	// 7. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:         cfg.Server.Port,
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server in goroutine
	go func() {
		logger.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutdown signal received", "signal", sig.String())

	// Create shutdown context with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	// Graceful shutdown
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	// Live sessions are hijacked connections that Shutdown does not wait
	// for; the hub closes them with a going-away frame.
	stats := hub.Stats()
	hub.Close()

	logger.Info("server shutdown complete", "closed_sessions", stats.Sessions)
}

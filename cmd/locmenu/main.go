// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"github.com/lexsites/locmenu/internal/cache"
	"github.com/lexsites/locmenu/internal/config"
	"github.com/lexsites/locmenu/internal/geoip"
	"github.com/lexsites/locmenu/internal/handler"
	"github.com/lexsites/locmenu/internal/logging"
	"github.com/lexsites/locmenu/internal/middleware"
	"github.com/lexsites/locmenu/internal/scheduler"
	"github.com/lexsites/locmenu/internal/service"
	"github.com/lexsites/locmenu/internal/session"
	"github.com/lexsites/locmenu/internal/store"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	// Parse CLI flags
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "locmenu - Location-Aware Practice Areas Menu Service\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LOCMENU_SESSION_SECRET       Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LOCMENU_MENU_TOKEN           Request token for the menu API (required)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LOCMENU_DB_PATH              SQLite database path (default: ./data/locmenu.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LOCMENU_SERVER_PORT          Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LOCMENU_STATE_LAYER_ENABLED  URLs carry a state segment above cities\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LOCMENU_DEFAULT_STATE        State assumed when a URL omits its state segment\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LOCMENU_DEFAULT_CITY         City used when no city can be detected\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LOCMENU_REDIS_URL            Redis URL for distributed caching (optional)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  LOCMENU_GEOIP_DB_PATH        GeoLite2 database path (optional)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Printf("locmenu %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	// Setup logger
	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Ensure data directory exists
	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	// Initialize database
	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Upgrade logger to also write WARN and ERROR logs to the events table
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewEventLogHandler(textHandler, db))
	slog.SetDefault(logger)
	slog.Info("event log integration enabled", "min_level", "warn")

	ctx := context.Background()
	if cfg.DoSeed {
		if err := store.Seed(ctx, db); err != nil {
			return fmt.Errorf("seeding database: %w", err)
		}
		slog.Info("seed data ensured")
	}

	queries := store.New(db)

	// Initialize session manager
	sessionManager := session.New(db, cfg.IsDevelopment())
	slog.Info("session manager initialized")

	// Cache backend: Redis when configured, memory otherwise
	backend, err := cache.New(cache.Config{
		RedisURL:        cfg.RedisURL,
		Prefix:          cfg.CachePrefix,
		DefaultTTL:      time.Duration(cfg.CacheTTL) * time.Second,
		MaxSize:         cfg.CacheMaxSize,
		CleanupInterval: time.Minute,
	})
	if err != nil {
		return fmt.Errorf("initializing cache: %w", err)
	}
	defer func() {
		if err := backend.Close(); err != nil {
			slog.Error("error closing cache", "error", err)
		}
	}()
	if cfg.UseRedisCache() {
		slog.Info("cache initialized", "backend", "redis", "url", cfg.RedisURL)
	} else {
		slog.Info("cache initialized", "backend", "memory")
	}

	// City list cache over the Areas We Serve menu branch
	cityLister := service.NewCityLister(queries)
	cityCache := cache.NewCityListCacheWithBackend(cityLister.CityPages, backend)
	if err := cityCache.Preload(ctx); err != nil {
		slog.Warn("failed to preload city list", "error", err)
	}

	// GeoIP state suggestion (optional)
	geo := geoip.NewLookup()
	if cfg.GeoIPEnabled() {
		if err := geo.Init(cfg.GeoIPDBPath); err != nil {
			slog.Warn("failed to load GeoIP database", "path", cfg.GeoIPDBPath, "error", err)
		} else {
			slog.Info("GeoIP lookup enabled", "path", cfg.GeoIPDBPath)
		}
	}
	defer func() {
		if err := geo.Close(); err != nil {
			slog.Error("error closing GeoIP database", "error", err)
		}
	}()

	// Core services
	resolver := service.NewResolver(queries, cfg.StateLayerEnabled, cfg.DefaultState)
	related := service.NewRelatedLocator(resolver, cityCache, cfg.StateLayerEnabled, logger)

	// Scheduler: periodic city list refresh and GeoIP reload
	sched := scheduler.New(cityCache, geo, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	// Handlers
	apiHandler := handler.NewAPIHandler(resolver, related, logger)
	menuConfigHandler := handler.NewMenuConfigHandler(cfg, cityCache, geo, logger)
	menuContextHandler := handler.NewMenuContextHandler(sessionManager)
	frontendHandler := handler.NewFrontendHandler(queries, logger)
	healthHandler := handler.NewHealthHandler(db)

	// Create router
	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(chimw.Timeout(30 * time.Second))

	// Health check routes
	r.Get("/health", healthHandler.Health)
	r.Get("/health/live", healthHandler.Liveness)
	r.Get("/health/ready", healthHandler.Readiness)

	// Menu data API: rate limited, token required before any resolver
	// logic runs
	apiRateLimiter := middleware.NewGlobalRateLimiter(50, 100)
	r.Group(func(r chi.Router) {
		r.Use(apiRateLimiter.Middleware())
		r.Use(middleware.MenuTokenAuth(cfg.MenuToken))
		r.Get("/get-practice-areas", apiHandler.GetPracticeAreas)
		r.Get("/get-related-locations", apiHandler.GetRelatedLocations)
		r.Get("/get-sub-practice-areas", apiHandler.GetSubPracticeAreas)
	})

	// Client bootstrap config: rate limited but public, it carries the
	// token the way a rendered page would
	r.With(apiRateLimiter.Middleware()).Get("/menu-config", menuConfigHandler.MenuConfig)

	// Session-persisted city context, CSRF-protected on the mutating
	// route
	csrfMiddleware := middleware.CSRF(middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment()))
	r.Group(func(r chi.Router) {
		r.Use(sessionManager.LoadAndSave)
		r.Use(csrfMiddleware)
		r.Get("/menu-context", menuContextHandler.GetContext)
		r.Post("/menu-context", menuContextHandler.SetContext)
	})
	slog.Info("CSRF protection initialized", "secure", !cfg.IsDevelopment())

	// Frontend page rendering (published pages only)
	r.Get("/*", frontendHandler.ServePage)

	// Create server with appropriate timeouts
	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	// Start server in goroutine
	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env,
			"state_layer", cfg.StateLayerEnabled, "default_state", cfg.DefaultState)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}

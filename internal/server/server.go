// Package server provides the HTTP server and routing for BufferScope.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rs/zerolog"

	"github.com/corgilabs/bufferscope/internal/config"
	"github.com/corgilabs/bufferscope/internal/database"
	"github.com/corgilabs/bufferscope/internal/modules/analysis"
	"github.com/corgilabs/bufferscope/internal/modules/funds"
	"github.com/corgilabs/bufferscope/internal/modules/performance"
	"github.com/corgilabs/bufferscope/internal/modules/scenarios"
	"github.com/corgilabs/bufferscope/internal/modules/watchlists"
	"github.com/corgilabs/bufferscope/internal/reliability"
)

// Config holds server configuration
type Config struct {
	Log      zerolog.Logger
	Config   *config.Config
	StoreDB  *database.DB
	CacheDB  *database.DB
	Registry *funds.Registry

	PerformanceService *performance.Service
	WatchlistRepo      *watchlists.Repository
	WatchlistService   *watchlists.Service

	// Optional, nil when backups are not configured
	BackupService *reliability.BackupService
}

// Server represents the HTTP server
type Server struct {
	router         *chi.Mux
	server         *http.Server
	log            zerolog.Logger
	cfg            *config.Config
	storeDB        *database.DB
	cacheDB        *database.DB
	registry       *funds.Registry
	systemHandlers *SystemHandlers
}

// New creates a new HTTP server
func New(cfg Config) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		log:      cfg.Log.With().Str("component", "server").Logger(),
		cfg:      cfg.Config,
		storeDB:  cfg.StoreDB,
		cacheDB:  cfg.CacheDB,
		registry: cfg.Registry,
		systemHandlers: NewSystemHandlers(
			cfg.Log,
			cfg.Config.DataDir,
			[]*database.DB{cfg.StoreDB, cfg.CacheDB},
			cfg.BackupService,
		),
	}

	s.setupMiddleware(cfg.Config.DevMode)
	s.setupRoutes(cfg)

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Config.Port),
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// setupMiddleware configures middleware
func (s *Server) setupMiddleware(devMode bool) {
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(60 * time.Second))

	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	if !devMode {
		s.router.Use(middleware.Compress(5))
	}
}

// setupRoutes configures all routes
func (s *Server) setupRoutes(cfg Config) {
	s.router.Get("/health", s.handleHealth)

	fundsHandler := funds.NewHandler(cfg.Registry, cfg.Log)
	scenariosHandler := scenarios.NewHandler(cfg.Registry, cfg.Log)
	analysisHandler := analysis.NewHandler(cfg.Registry, cfg.Log)
	performanceHandler := performance.NewHandler(cfg.PerformanceService, cfg.Log)
	watchlistsHandler := watchlists.NewHandler(cfg.WatchlistRepo, cfg.WatchlistService, cfg.Log)

	s.router.Route("/api", func(r chi.Router) {
		r.Route("/funds", fundsHandler.RegisterRoutes)
		r.Route("/scenarios", scenariosHandler.RegisterRoutes)
		r.Route("/analysis", analysisHandler.RegisterRoutes)
		r.Route("/performance", performanceHandler.RegisterRoutes)
		r.Route("/watchlists", watchlistsHandler.RegisterWatchlistRoutes)
		r.Route("/alerts", watchlistsHandler.RegisterAlertRoutes)

		r.Route("/system", func(r chi.Router) {
			r.Get("/status", s.systemHandlers.HandleSystemStatus)
			r.Get("/disk", s.systemHandlers.HandleDiskUsage)
			r.Get("/database/stats", s.systemHandlers.HandleDatabaseStats)
			r.Post("/backup", s.systemHandlers.HandleTriggerBackup)
			r.Get("/backups", s.systemHandlers.HandleListBackups)
		})
	})
}

// Router exposes the configured router, used by tests
func (s *Server) Router() *chi.Mux {
	return s.router
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.log.Info().Int("port", s.cfg.Port).Msg("Starting HTTP server")
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// loggingMiddleware logs HTTP requests
func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}

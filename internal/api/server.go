package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/banben/yugabyte-db/internal/api/handler"
	mw "github.com/banben/yugabyte-db/internal/api/middleware"
	"github.com/banben/yugabyte-db/internal/config"
	"github.com/banben/yugabyte-db/internal/core"
)

type Server struct {
	router       chi.Router
	logger       zerolog.Logger
	services     *core.Services
	platformPool *pgxpool.Pool
	cfg          *config.Config
}

func NewServer(logger zerolog.Logger, platformDB *pgxpool.Pool, cfg *config.Config) *Server {
	s := &Server{
		router:       chi.NewRouter(),
		logger:       logger,
		services:     core.NewServices(platformDB),
		platformPool: platformDB,
		cfg:          cfg,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(mw.RequestLogger(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(mw.Metrics)
}

func (s *Server) setupRoutes() {
	// Prometheus metrics endpoint
	s.router.Handle("/metrics", promhttp.Handler())

	// Health check endpoints
	s.router.Get("/healthz", s.handleHealthz)
	s.router.Get("/readyz", s.handleReadyz)

	// Tenants
	tenant := handler.NewTenant(s.services)
	s.router.Get("/tenants", tenant.List)
	s.router.Post("/tenants", tenant.Create)
	s.router.Get("/tenants/{tenantID}", tenant.Get)

	// Universes
	universe := handler.NewUniverse(s.services)
	s.router.Get("/tenants/{tenantID}/universes", universe.ListByTenant)
	s.router.Post("/tenants/{tenantID}/universes", universe.Create)

	// Storage configs
	storageConfig := handler.NewStorageConfig(s.services)
	s.router.Get("/tenants/{tenantID}/storage-configs", storageConfig.ListByTenant)
	s.router.Post("/tenants/{tenantID}/storage-configs", storageConfig.Create)

	// Schedules
	schedule := handler.NewSchedule(s.services)
	s.router.Get("/tenants/{tenantID}/schedules", schedule.ListByTenant)
	s.router.Post("/tenants/{tenantID}/schedules", schedule.Create)
	s.router.Delete("/tenants/{tenantID}/schedules/{scheduleID}", schedule.Delete)
	s.router.Get("/tenants/{tenantID}/schedules/{scheduleID}/executions", schedule.ListExecutions)
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleReadyz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	checks := map[string]string{}
	healthy := true

	if err := s.platformPool.Ping(ctx); err != nil {
		checks["platform_db"] = err.Error()
		healthy = false
	} else {
		checks["platform_db"] = "ok"
	}

	w.Header().Set("Content-Type", "application/json")
	if healthy {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(checks)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

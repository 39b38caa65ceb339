// Package router wires the HTTP surface: pipeline endpoints, health
// and metrics, plus the shared middleware chain.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/reflectcare/reflection-platform/internal/http/handlers"
	httpmiddleware "github.com/reflectcare/reflection-platform/internal/http/middleware"
	"github.com/reflectcare/reflection-platform/pkg/logging"
)

// Config holds router configuration.
type Config struct {
	Logger *logging.Logger

	ExtractHandler      *handlers.ExtractHandler
	TranscribeHandler   *handlers.TranscribeHandler
	StructureHandler    *handlers.StructureHandler
	SelfPlayHandler     *handlers.SelfPlayHandler
	ReinforceHandler    *handlers.ReinforceHandler
	CPDHandler          *handlers.CPDHandler
	LearningLoopHandler *handlers.LearningLoopHandler
	ExportHandler       *handlers.ExportHandler
	AuditEventsHandler  *handlers.AuditEventsHandler
	HealthHandler       *handlers.HealthHandler
	MetricsHandler      http.Handler

	CORSAllowedOrigins []string

	// RequestCeiling bounds every request context. Zero disables it.
	RequestCeiling time.Duration

	// RateLimit settings for the completion-backed endpoints.
	// Zero rate disables limiting.
	RateLimitPerSecond float64
	RateLimitBurst     int
}

// New creates a chi router with all routes configured.
func New(cfg *Config) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Compress(5))
	if len(cfg.CORSAllowedOrigins) > 0 {
		r.Use(httpmiddleware.CORS(cfg.CORSAllowedOrigins))
	}
	if cfg.Logger != nil {
		r.Use(httpmiddleware.RequestLogger(cfg.Logger))
	}
	if cfg.RequestCeiling > 0 {
		r.Use(httpmiddleware.RequestTimeout(cfg.RequestCeiling))
	}

	// Public endpoints.
	r.Group(func(public chi.Router) {
		if cfg.HealthHandler != nil {
			public.Method(http.MethodGet, "/health", cfg.HealthHandler)
		}
		if cfg.MetricsHandler != nil {
			public.Handle("/metrics", cfg.MetricsHandler)
		}
	})

	// Pipeline endpoints. These fan out to external completion
	// capabilities, so they carry the rate limit.
	r.Route("/api", func(api chi.Router) {
		if cfg.RateLimitPerSecond > 0 {
			api.Use(httpmiddleware.RateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst))
		}

		if cfg.ExtractHandler != nil {
			api.Method(http.MethodPost, "/extract", cfg.ExtractHandler)
		}
		if cfg.TranscribeHandler != nil {
			api.Method(http.MethodPost, "/reflections/transcribe", cfg.TranscribeHandler)
		}
		if cfg.StructureHandler != nil {
			api.Method(http.MethodPost, "/reflections/structure", cfg.StructureHandler)
		}
		if cfg.SelfPlayHandler != nil {
			api.Method(http.MethodPost, "/reflection/selfplay", cfg.SelfPlayHandler)
		}
		if cfg.ReinforceHandler != nil {
			api.Method(http.MethodPost, "/reflection/reinforce", cfg.ReinforceHandler)
		}
		if cfg.CPDHandler != nil {
			api.Method(http.MethodPost, "/cpd", cfg.CPDHandler)
		}
		if cfg.LearningLoopHandler != nil {
			api.Method(http.MethodPost, "/learning-loop/generate", cfg.LearningLoopHandler)
		}
		if cfg.ExportHandler != nil {
			api.Method(http.MethodPost, "/export", cfg.ExportHandler)
		}
		if cfg.AuditEventsHandler != nil {
			api.Method(http.MethodGet, "/compliance/audit", cfg.AuditEventsHandler)
		}
	})

	return r
}

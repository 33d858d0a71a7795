// Package api exposes scoring, alerting, and analytics over HTTP.
package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/greenledger/esg-compass/internal/alert"
	"github.com/greenledger/esg-compass/internal/llm"
	"github.com/greenledger/esg-compass/internal/model"
	"github.com/greenledger/esg-compass/internal/scoring"
)

// Server routes API requests onto the scoring and alerting services.
type Server struct {
	alerts    *alert.Service
	scorer    *scoring.Scorer
	chain     *llm.Chain
	questions []model.Question
	router    *chi.Mux
}

// NewServer wires the HTTP API. chain may be nil to disable LLM-backed
// answer suggestions.
func NewServer(alerts *alert.Service, scorer *scoring.Scorer, chain *llm.Chain, questions []model.Question) *Server {
	s := &Server{
		alerts:    alerts,
		scorer:    scorer,
		chain:     chain,
		questions: questions,
	}
	s.setupRouter()
	return s
}

// Router returns the configured handler.
func (s *Server) Router() http.Handler {
	return s.router
}

func (s *Server) setupRouter() {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.loggingMiddleware)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-User-ID", "X-Request-ID"},
		ExposedHeaders: []string{"X-Request-ID"},
		MaxAge:         300,
	}))

	r.Get("/health", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Use(requireUser)

		r.Get("/questions", s.handleQuestions)
		r.Post("/score", s.handleScore)
		r.Get("/score/history", s.handleScoreHistory)

		r.Route("/alerts", func(r chi.Router) {
			r.Post("/generate", s.handleGenerateAlerts)
			r.Get("/active", s.handleActiveAlerts)
			r.Post("/penalty-warnings", s.handlePenaltyWarnings)
			r.Post("/resolve", s.handleResolveAlert)
		})

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/risk-dashboard", s.handleRiskDashboard)
			r.Post("/benchmarking", s.handleBenchmarking)
			r.Post("/readiness-index", s.handleReadinessIndex)
			r.Post("/roi-estimate", s.handleROIEstimate)
		})

		r.Get("/recommendations/proactive", s.handleProactive)
	})

	s.router = r
}

// userIDHeader carries the opaque tenant identity on every /v1 request.
const userIDHeader = "X-User-ID"

// requireUser rejects /v1 requests without an identity header.
func requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get(userIDHeader) == "" {
			respondError(w, http.StatusBadRequest, "missing_user", "X-User-ID header is required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func userID(r *http.Request) string {
	return r.Header.Get(userIDHeader)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			zap.L().Info("api: request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Int64("duration_ms", time.Since(start).Milliseconds()),
				zap.String("request_id", middleware.GetReqID(r.Context())))
		}()

		next.ServeHTTP(ww, r)
	})
}

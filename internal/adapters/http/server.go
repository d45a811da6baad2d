package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/aretw0/lattice"
	"github.com/aretw0/lattice/internal/presentation/graph"
	"github.com/aretw0/lattice/pkg/domain"
)

// Analyzer is the slice of the lattice engine the graph server needs.
type Analyzer interface {
	Analyze(ctx context.Context) (*lattice.Analysis, error)
}

// Server exposes one manifest's analysis over HTTP. Every request re-runs the
// analysis so a browser view next to an editor stays live without any
// push machinery.
type Server struct {
	analyzer Analyzer
	logger   *slog.Logger

	analyses  *prometheus.CounterVec
	duration  prometheus.Histogram
	peakPools prometheus.Gauge
}

// NewHandler creates the HTTP handler for the graph server. Metrics are
// registered on a private registry so two servers in one process never
// collide.
func NewHandler(analyzer Analyzer, logger *slog.Logger) http.Handler {
	s := &Server{
		analyzer: analyzer,
		logger:   logger,
		analyses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lattice_analyses_total",
			Help: "Analyses performed by the graph server, by outcome.",
		}, []string{"status"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "lattice_analysis_duration_seconds",
			Help:    "Wall time of one full analysis pass.",
			Buckets: prometheus.DefBuckets,
		}),
		peakPools: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lattice_peak_pools",
			Help: "Largest live pool set seen in the most recent analysis.",
		}),
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(s.analyses, s.duration, s.peakPools)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Get("/healthz", s.handleHealth)
	r.Get("/graph", s.handleGraphJSON)
	r.Get("/graph.mmd", s.handleMermaid)
	r.Get("/graph.dot", s.handleDOT)
	r.Get("/diagnostics", s.handleDiagnostics)
	r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	return r
}

func (s *Server) analyze(r *http.Request) (*lattice.Analysis, error) {
	start := time.Now()
	analysis, err := s.analyzer.Analyze(r.Context())
	s.duration.Observe(time.Since(start).Seconds())
	if err != nil {
		s.analyses.WithLabelValues("error").Inc()
		return nil, err
	}
	s.analyses.WithLabelValues("ok").Inc()
	s.peakPools.Set(float64(analysis.PeakPools))
	return analysis, nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

func (s *Server) handleGraphJSON(w http.ResponseWriter, r *http.Request) {
	analysis, err := s.analyze(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(analysis.Graph.Canonical()); err != nil {
		s.logger.Error("failed to encode graph", "error", err)
	}
}

func (s *Server) handleMermaid(w http.ResponseWriter, r *http.Request) {
	analysis, err := s.analyze(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(graph.GenerateMermaid(analysis.Graph)))
}

func (s *Server) handleDOT(w http.ResponseWriter, r *http.Request) {
	analysis, err := s.analyze(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", "text/vnd.graphviz")
	w.Write([]byte(graph.GenerateDOT(analysis.Graph)))
}

func (s *Server) handleDiagnostics(w http.ResponseWriter, r *http.Request) {
	analysis, err := s.analyze(r)
	if err != nil {
		s.fail(w, err)
		return
	}
	diags := analysis.Diagnostics
	if diags == nil {
		// Serialize as [] rather than null.
		diags = []domain.Diagnostic{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(diags)
}

func (s *Server) fail(w http.ResponseWriter, err error) {
	s.logger.Error("analysis failed", "error", err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnprocessableEntity)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

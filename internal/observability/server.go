// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 HoloMUSH Contributors

// Package observability provides HTTP endpoints for metrics, health checks,
// and ad hoc path queries against an arbitrary JSON document.
package observability

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/pathql/pathql/internal/eval"
	"github.com/pathql/pathql/internal/evalerr"
	"github.com/pathql/pathql/internal/jsonbridge"
	"github.com/pathql/pathql/internal/logging"
	"github.com/pathql/pathql/internal/modifier"
	"github.com/pathql/pathql/internal/serialize"
)

// ReadinessChecker returns whether the service is ready to accept connections.
type ReadinessChecker func() bool

// Metrics contains Prometheus metrics for query evaluation.
type Metrics struct {
	QueriesTotal    *prometheus.CounterVec
	QueryErrors     *prometheus.CounterVec
	QueryDuration   *prometheus.HistogramVec
	DocumentBytes   prometheus.Histogram
}

// NewMetrics creates and registers query-engine metrics.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		QueriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pathql_queries_total",
				Help: "Total number of path queries evaluated, by outcome",
			},
			[]string{"outcome"},
		),
		QueryErrors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "pathql_query_errors_total",
				Help: "Total number of path query errors, by error code",
			},
			[]string{"code"},
		),
		QueryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "pathql_query_duration_seconds",
				Help:    "Duration of path query evaluation",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		DocumentBytes: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "pathql_document_bytes",
				Help:    "Size in bytes of the JSON document submitted for evaluation",
				Buckets: prometheus.ExponentialBuckets(64, 4, 10),
			},
		),
	}

	reg.MustRegister(m.QueriesTotal)
	reg.MustRegister(m.QueryErrors)
	reg.MustRegister(m.QueryDuration)
	reg.MustRegister(m.DocumentBytes)

	return m
}

// Server provides HTTP endpoints for observability (metrics, health probes)
// and a /query endpoint evaluating a path expression against a posted
// JSON document.
type Server struct {
	addr       string
	listener   net.Listener
	httpServer *http.Server
	registry   *prometheus.Registry
	metrics    *Metrics
	isReady    ReadinessChecker
	modifiers  *modifier.Registry
	tracer     trace.Tracer
	running    atomic.Bool
}

// NewServer creates a new observability server, evaluating /query requests
// against the built-in modifier registry.
func NewServer(addr string, readinessChecker ReadinessChecker) *Server {
	registry := prometheus.NewRegistry()

	registry.MustRegister(collectors.NewGoCollector())
	registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	metrics := NewMetrics(registry)

	return &Server{
		addr:      addr,
		registry:  registry,
		metrics:   metrics,
		isReady:   readinessChecker,
		modifiers: modifier.Builtins(),
		tracer:    otel.Tracer("pathql/observability"),
	}
}

// Metrics returns the metrics for recording application events.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Modifiers returns the registry backing /query, so a caller can register
// additional modifiers (e.g. via internal/modifierdir) before Start.
func (s *Server) Modifiers() *modifier.Registry {
	return s.modifiers
}

// Start begins serving observability endpoints. The returned channel
// receives at most one error if the underlying HTTP server exits
// unexpectedly (a clean Stop closes the channel without sending).
func (s *Server) Start() (<-chan error, error) {
	if !s.running.CompareAndSwap(false, true) {
		return nil, fmt.Errorf("observability server already running")
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		s.running.Store(false)
		return nil, fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	s.listener = listener

	mux := http.NewServeMux()

	mux.Handle("/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{
		EnableOpenMetrics: true,
	}))
	mux.HandleFunc("/healthz/liveness", s.handleLiveness)
	mux.HandleFunc("/healthz/readiness", s.handleReadiness)
	mux.HandleFunc("/query", s.handleQuery)

	s.httpServer = &http.Server{
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		defer close(errCh)
		if serveErr := s.httpServer.Serve(listener); serveErr != nil && serveErr != http.ErrServerClosed {
			slog.Error("observability server error", "error", serveErr)
			errCh <- serveErr
		}
	}()

	slog.Info("observability server started", "addr", listener.Addr().String())
	return errCh, nil
}

// Stop gracefully shuts down the observability server.
func (s *Server) Stop(ctx context.Context) error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	if s.httpServer != nil {
		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.running.Store(true)
			return fmt.Errorf("failed to shutdown observability server: %w", err)
		}
	}

	slog.Info("observability server stopped")
	return nil
}

// Addr returns the address the server is listening on.
// Returns empty string if not running.
func (s *Server) Addr() string {
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return ""
}

func (s *Server) handleLiveness(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

func (s *Server) handleReadiness(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	if s.isReady == nil || s.isReady() {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok\n"))
		return
	}

	w.WriteHeader(http.StatusServiceUnavailable)
	_, _ = w.Write([]byte("not ready\n"))
}

// queryRequest is the /query endpoint's request body: a JSON document and
// the path expression to evaluate against it.
type queryRequest struct {
	Document json.RawMessage `json:"document"`
	Path     string          `json:"path"`
}

type queryResponse struct {
	RequestID string `json:"request_id"`
	Result    string `json:"result,omitempty"`
	Error     string `json:"error,omitempty"`
}

// handleQuery evaluates a path expression against a posted JSON document,
// tracing the evaluation as a span and recording duration/outcome metrics.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	requestID := ulid.Make().String()
	ctx, span := s.tracer.Start(r.Context(), "pathql.query",
		trace.WithAttributes(attribute.String("request_id", requestID)))
	defer span.End()

	start := time.Now()
	resp := queryResponse{RequestID: requestID}

	body, err := io.ReadAll(io.LimitReader(r.Body, 16<<20))
	if err != nil {
		s.writeQueryError(w, resp, http.StatusBadRequest, "failed to read request body", span)
		return
	}

	var req queryRequest
	if err := json.Unmarshal(body, &req); err != nil {
		s.writeQueryError(w, resp, http.StatusBadRequest, "malformed request body", span)
		return
	}
	ctx = logging.WithQueryPath(ctx, req.Path)
	span.SetAttributes(attribute.String("path", req.Path))
	s.metrics.DocumentBytes.Observe(float64(len(req.Document)))

	doc, err := jsonbridge.DecodeString(string(req.Document))
	if err != nil {
		s.writeQueryError(w, resp, http.StatusBadRequest, "malformed document: "+err.Error(), span)
		return
	}

	out, err := eval.EvaluatePath(doc, req.Path, s.modifiers)
	outcome := "ok"
	if err != nil {
		outcome = "error"
		if code, ok := evalerr.Code(err); ok {
			s.metrics.QueryErrors.WithLabelValues(code).Inc()
		}
	}
	s.metrics.QueriesTotal.WithLabelValues(outcome).Inc()
	s.metrics.QueryDuration.WithLabelValues(outcome).Observe(time.Since(start).Seconds())

	if err != nil {
		slog.ErrorContext(ctx, "query evaluation failed", "error", err, "request_id", requestID)
	} else {
		slog.InfoContext(ctx, "query evaluated", "request_id", requestID, "duration", time.Since(start))
	}

	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		resp.Error = err.Error()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		_ = json.NewEncoder(w).Encode(resp)
		return
	}

	resp.Result = serialize.Render(out)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *Server) writeQueryError(w http.ResponseWriter, resp queryResponse, status int, msg string, span trace.Span) {
	span.SetStatus(codes.Error, msg)
	resp.Error = msg
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

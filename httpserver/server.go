// Package httpserver exposes the interaction pipeline over HTTP: one JSON
// endpoint for customer interactions plus health and metrics surfaces, with
// request-ID and rate-limit middleware in front.
package httpserver

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/caremesh/caremesh/core"
	"github.com/caremesh/caremesh/logging"
	"github.com/caremesh/caremesh/ratelimit"
	"github.com/caremesh/caremesh/telemetry"
)

// InteractionHandler is the pipeline entry point the server fronts.
type InteractionHandler interface {
	HandleInteraction(ctx context.Context, req core.InteractionRequest) *core.UnifiedResponse
}

// Options configures the HTTP server surface.
type Options struct {
	// Limiter gates admission per client. Required.
	Limiter *ratelimit.Limiter

	// Logger defaults to NoOpLogger when nil.
	Logger logging.Logger

	// Metrics is optional; when set, /metrics is mounted and rate-limit
	// rejections are counted.
	Metrics *telemetry.Metrics
}

// Server routes HTTP traffic to the interaction pipeline.
type Server struct {
	handler InteractionHandler
	opts    Options
	mux     *http.ServeMux
}

// New builds the server and its routing table.
func New(handler InteractionHandler, optFns ...func(*Options)) *Server {
	opts := Options{
		Limiter: ratelimit.New(ratelimit.DefaultCeiling, ratelimit.DefaultWindow),
		Logger:  logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = logging.NoOpLogger{}
	}
	if opts.Limiter == nil {
		opts.Limiter = ratelimit.New(ratelimit.DefaultCeiling, ratelimit.DefaultWindow)
	}

	s := &Server{handler: handler, opts: opts, mux: http.NewServeMux()}

	s.mux.Handle("POST /v1/interactions",
		requestID(s.rateLimit(http.HandlerFunc(s.handleInteraction))))
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	if opts.Metrics != nil {
		s.mux.Handle("GET /metrics", opts.Metrics.Handler())
	}

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.ServeHTTP(w, r)
}

func (s *Server) handleInteraction(w http.ResponseWriter, r *http.Request) {
	var req core.InteractionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.CustomerID == "" {
		writeError(w, http.StatusBadRequest, "customer_id is required")
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	resp := s.handler.HandleInteraction(r.Context(), req)
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

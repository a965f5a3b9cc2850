package daemon

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/rs/cors"

	"yt2audio/internal/api"
	"yt2audio/internal/config"
	"yt2audio/internal/history"
	"yt2audio/internal/logging"
	"yt2audio/internal/services"
)

const (
	// maxRequestBody caps POST bodies; requests are small JSON documents.
	maxRequestBody = 64 << 10
	// processRateLimit bounds process requests per client IP and minute.
	processRateLimit = 30
)

type apiServer struct {
	bind   string
	logger *slog.Logger
	daemon *Daemon

	listener net.Listener
	server   *http.Server
}

func newAPIServer(cfg *config.Config, d *Daemon, logger *slog.Logger) *apiServer {
	srv := &apiServer{
		bind:   strings.TrimSpace(cfg.API.Bind),
		logger: logging.NewComponentLogger(logger, "api-server"),
		daemon: d,
	}
	srv.server = &http.Server{
		Handler:           srv.routes(cfg),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		// A process request holds the connection for the whole run.
		WriteTimeout: cfg.PipelineTimeout() + time.Minute,
		IdleTimeout:  60 * time.Second,
	}
	return srv
}

func (s *apiServer) routes(cfg *config.Config) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.New(cors.Options{
		AllowedOrigins: cfg.API.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type"},
	}).Handler)
	r.Use(s.requestLogger)

	r.Get("/healthz", s.handleHealth)
	if s.daemon.opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.daemon.opts.Metrics)
	}

	r.Route("/v1", func(r chi.Router) {
		r.Use(authMiddleware(cfg.API.Token))
		r.With(httprate.LimitByIP(processRateLimit, time.Minute)).Post("/process", s.handleProcess)
		r.Get("/history", s.handleHistory)
		r.Get("/history/{runID}", s.handleHistoryItem)
	})
	return r
}

func (s *apiServer) start() error {
	listener, err := net.Listen("tcp", s.bind)
	if err != nil {
		return fmt.Errorf("api listen: %w", err)
	}
	s.listener = listener

	go func() {
		if err := s.server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("api server error", logging.Error(err))
		}
	}()

	s.logger.Info("api server listening", logging.String("address", listener.Addr().String()))
	return nil
}

func (s *apiServer) stop() {
	if s == nil || s.server == nil {
		return
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("api server shutdown incomplete", logging.Error(err))
		_ = s.server.Close()
	}
}

func (s *apiServer) addr() string {
	if s.listener == nil {
		return s.bind
	}
	return s.listener.Addr().String()
}

func (s *apiServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := s.daemon.health(r.Context())
	status := http.StatusOK
	if health.Status != "ok" {
		status = http.StatusServiceUnavailable
	}
	s.writeJSON(w, status, health)
}

func (s *apiServer) handleProcess(w http.ResponseWriter, r *http.Request) {
	var req api.ProcessRequest
	decoder := json.NewDecoder(io.LimitReader(r.Body, maxRequestBody))
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	resp, err := s.daemon.processor.Process(r.Context(), req)
	if err != nil {
		s.writeError(w, statusFor(err), services.Details(err))
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *apiServer) handleHistory(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	limit := 50
	if value := strings.TrimSpace(query.Get("limit")); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil || parsed <= 0 {
			s.writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = parsed
	}
	runs, err := s.daemon.processor.History(r.Context(), query.Get("movie"), limit)
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, api.HistoryListResponse{Runs: runs})
}

func (s *apiServer) handleHistoryItem(w http.ResponseWriter, r *http.Request) {
	entry, err := s.daemon.processor.Describe(r.Context(), chi.URLParam(r, "runID"))
	if errors.Is(err, history.ErrNotFound) {
		s.writeError(w, http.StatusNotFound, "run not found")
		return
	}
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.writeJSON(w, http.StatusOK, entry)
}

// statusFor maps a request error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, services.ErrTransient):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

func (s *apiServer) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Debug("http request",
			logging.String("method", r.Method),
			logging.String("path", r.URL.Path),
			logging.Int("status", ww.Status()),
			logging.Duration("elapsed", time.Since(start)),
			logging.String(logging.FieldCorrelationID, middleware.GetReqID(r.Context())),
		)
	})
}

func (s *apiServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if payload == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", logging.Error(err))
	}
}

func (s *apiServer) writeError(w http.ResponseWriter, status int, message string) {
	s.writeJSON(w, status, map[string]string{"error": message})
}

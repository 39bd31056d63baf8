package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/tournevent/shipcallback/internal/callback"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	requestIDHeader    = "X-Request-Id"
	defaultMaxBodySize = 1 << 20
	shutdownTimeout    = 30 * time.Second
	handlerTimeout     = 25 * time.Second
)

// Route binds a URL path to a provider name.
type Route struct {
	Path     string
	Provider string
}

// Config holds server configuration.
type Config struct {
	Port         int
	MaxBodyBytes int64
	Routes       []Route

	// Gatherer backs /metrics. Nil means the Prometheus default gatherer.
	Gatherer prometheus.Gatherer
}

// Server is the HTTP host for shipping callbacks.
type Server struct {
	port     int
	maxBody  int64
	routes   []Route
	callback *callback.Handler
	logger   *otelzap.Logger
	router   chi.Router
}

// New creates a new server instance.
func New(cfg Config, handler *callback.Handler, logger *otelzap.Logger) *Server {
	s := &Server{
		port:     cfg.Port,
		maxBody:  cfg.MaxBodyBytes,
		routes:   cfg.Routes,
		callback: handler,
		logger:   logger,
	}
	if s.maxBody <= 0 {
		s.maxBody = defaultMaxBodySize
	}

	metricsHandler := promhttp.Handler()
	if cfg.Gatherer != nil {
		metricsHandler = promhttp.HandlerFor(cfg.Gatherer, promhttp.HandlerOpts{})
	}

	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(handlerTimeout))

	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", metricsHandler)
	for _, route := range s.routes {
		r.Post(route.Path, s.handleCallback(route.Provider))
	}

	s.router = r
	return s
}

// Handler returns the HTTP handler serving every route.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run starts the HTTP server and blocks until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s.logger.Info("Starting server", zap.Int("port", s.port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	g.Go(func() error {
		<-ctx.Done()
		s.logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("ok"))
}

// handleCallback buffers the whole body before handing it to the callback handler.
func (s *Server) handleCallback(providerName string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ctx := r.Context()

		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.maxBody))
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				http.Error(w, "request body too large", http.StatusRequestEntityTooLarge)
				return
			}
			http.Error(w, "could not read request body", http.StatusBadRequest)
			return
		}

		resp := s.callback.Handle(ctx, providerName, body)

		w.Header().Set("Content-Type", resp.ContentType)
		w.WriteHeader(resp.Status)
		if _, err := w.Write(resp.Body); err != nil {
			s.logger.Ctx(ctx).Warn("Writing response failed", zap.Error(err))
		}

		s.logger.Ctx(ctx).Info("Callback served",
			zap.String("request_id", middleware.GetReqID(ctx)),
			zap.String("provider", providerName),
			zap.Int("status", resp.Status),
			zap.Duration("duration", time.Since(start)),
		)
	}
}

// requestID propagates the caller's X-Request-Id, or assigns a UUID, and
// stores it where chi's middleware.GetReqID finds it.
func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := context.WithValue(r.Context(), middleware.RequestIDKey, id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

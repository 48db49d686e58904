package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/oggyb/crush-reveal/internal/config"
	svcErr "github.com/oggyb/crush-reveal/internal/errors"
	"github.com/oggyb/crush-reveal/internal/logger"
	"github.com/oggyb/crush-reveal/internal/metrics"
)

// HealthCheck reports whether a dependency is usable.
type HealthCheck func(ctx context.Context) error

type HTTPOption func(*HTTPServer)

// WithMetricsHandler serves g on GET /metrics.
func WithMetricsHandler(g prometheus.Gatherer) HTTPOption {
	return func(s *HTTPServer) { s.gatherer = g }
}

// WithHealthCheck adds a named check to GET /healthz.
func WithHealthCheck(name string, check HealthCheck) HTTPOption {
	return func(s *HTTPServer) { s.checks[name] = check }
}

// HTTPServer is the JSON gateway used by the web client.
type HTTPServer struct {
	engine   *gin.Engine
	srv      *http.Server
	log      *slog.Logger
	metrics  *metrics.Metrics
	gatherer prometheus.Gatherer
	checks   map[string]HealthCheck
}

// NewHTTPServer builds the gin engine: recovery, request id and access log,
// metrics, CORS, then /healthz, /metrics and the service routes.
func NewHTTPServer(cfg *config.Config, log *slog.Logger, m *metrics.Metrics, routes []RouteRegistrar, opts ...HTTPOption) *HTTPServer {
	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &HTTPServer{
		engine:  gin.New(),
		log:     log,
		metrics: m,
		checks:  map[string]HealthCheck{},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.engine.Use(
		gin.CustomRecovery(s.recovered),
		s.requestLogger(),
		s.observe(),
		cors.New(corsConfig(cfg.HTTP.AllowedOrigins)),
	)

	s.engine.GET("/healthz", s.healthz)
	if s.gatherer != nil {
		s.engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}
	for _, r := range routes {
		r.RegisterRoutes(s.engine)
	}

	s.srv = &http.Server{
		Addr:              cfg.HTTPAddr(),
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler exposes the engine for tests.
func (s *HTTPServer) Handler() http.Handler { return s.engine }

// ListenAndServe listens on the configured address and serves until ctx is done.
func (s *HTTPServer) ListenAndServe(ctx context.Context) error {
	lis, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.srv.Addr, err)
	}
	s.log.Info("starting HTTP server", "addr", lis.Addr().String())
	return s.Serve(ctx, lis)
}

// Serve serves on lis and shuts down gracefully when ctx is done.
func (s *HTTPServer) Serve(ctx context.Context, lis net.Listener) error {
	errCh := make(chan error, 1)
	go func() { errCh <- s.srv.Serve(lis) }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.log.Info("stopping HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *HTTPServer) healthz(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	result := gin.H{}
	healthy := true
	for name, check := range s.checks {
		if err := check(ctx); err != nil {
			healthy = false
			result[name] = err.Error()
			continue
		}
		result[name] = "ok"
	}

	code := http.StatusOK
	if !healthy {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, gin.H{"healthy": healthy, "checks": result})
}

func (s *HTTPServer) recovered(c *gin.Context, r any) {
	logger.FromContextOr(c.Request.Context(), s.log).Error("panic in http handler", "panic", r)
	c.AbortWithStatusJSON(http.StatusInternalServerError, svcErr.ErrorBody{Error: "internal error", Code: svcErr.ReasonInternal})
}

// requestLogger assigns a request id, stores a scoped logger in the request
// context and logs one line per request.
func (s *HTTPServer) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Header("X-Request-ID", id)

		l := s.log.With("request_id", id)
		c.Request = c.Request.WithContext(logger.WithContext(c.Request.Context(), l))

		start := time.Now()
		c.Next()

		attrs := []any{
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"status", c.Writer.Status(),
			"duration", time.Since(start),
		}
		if len(c.Errors) > 0 {
			attrs = append(attrs, "err", c.Errors.String())
		}
		switch {
		case c.Writer.Status() >= http.StatusInternalServerError:
			l.Error("http request", attrs...)
		case c.Writer.Status() >= http.StatusBadRequest:
			l.Warn("http request", attrs...)
		default:
			l.Info("http request", attrs...)
		}
	}
}

func (s *HTTPServer) observe() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		s.metrics.ObserveHTTP(route, strconv.Itoa(c.Writer.Status()), time.Since(start))
	}
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 || slices.Contains(origins, "*") {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}

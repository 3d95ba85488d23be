package devproxy

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/tecnojuy/aula/internal/config"
)

const (
	namespace       = "aula"
	subsystem       = "devproxy"
	shutdownTimeout = 5 * time.Second
)

// Server forwards the dev origin's API prefix to a local backend so cookies
// set by the backend land on the same origin the client talks to.
type Server struct {
	echo    *echo.Echo
	addr    string
	prefix  string
	backend *url.URL
	log     zerolog.Logger

	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// New builds the proxy from cfg. A nil reg gets a fresh registry.
func New(cfg config.Config, log zerolog.Logger, reg *prometheus.Registry) (*Server, error) {
	backend, err := parseBackend(cfg.DevBackend)
	if err != nil {
		return nil, err
	}
	prefix := "/" + strings.Trim(strings.TrimSpace(cfg.DevProxyPrefix), "/")
	if prefix == "/" {
		return nil, fmt.Errorf("dev proxy prefix must not be empty")
	}
	if reg == nil {
		reg = prometheus.NewRegistry()
	}
	factory := promauto.With(reg)

	s := &Server{
		echo:    echo.New(),
		addr:    cfg.DevListen,
		prefix:  prefix,
		backend: backend,
		log:     log.With().Str("component", "devproxy").Logger(),
		requests: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "requests_total",
			Help:      "Proxied API requests by method and status code.",
		}, []string{"method", "code"}),
		duration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "request_duration_seconds",
			Help:      "Round trip time of proxied API requests.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method"}),
	}

	e := s.echo
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:    true,
		LogURI:       true,
		LogStatus:    true,
		LogLatency:   true,
		LogError:     true,
		LogRequestID: true,
		LogValuesFunc: func(_ echo.Context, v middleware.RequestLoggerValues) error {
			ev := s.log.Debug()
			if v.Status >= http.StatusBadRequest {
				ev = s.log.Warn()
			}
			ev.Str("method", v.Method).
				Str("uri", v.URI).
				Int("status", v.Status).
				Dur("latency", v.Latency).
				Str("request_id", v.RequestID).
				AnErr("error", v.Error).
				Msg("proxied request")
			return nil
		},
	}))

	e.GET("/healthz", s.health)
	e.GET("/metrics", echo.WrapHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})))

	proxy := middleware.ProxyWithConfig(middleware.ProxyConfig{
		Balancer: middleware.NewRoundRobinBalancer([]*middleware.ProxyTarget{{Name: "backend", URL: backend}}),
		Rewrite: map[string]string{
			prefix + "/*": "/$1",
		},
	})
	e.Any(prefix+"/*", echo.NotFoundHandler, s.instrument, proxy)
	return s, nil
}

func parseBackend(raw string) (*url.URL, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return nil, fmt.Errorf("dev backend is required")
	}
	if !strings.Contains(trimmed, "://") {
		trimmed = "http://" + trimmed
	}
	u, err := url.Parse(trimmed)
	if err != nil {
		return nil, fmt.Errorf("parse dev backend %q: %w", raw, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("dev backend %q has no host", raw)
	}
	u.Path = strings.TrimRight(u.Path, "/")
	return u, nil
}

// Handler exposes the router, mainly for httptest.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Addr is the configured listen address.
func (s *Server) Addr() string {
	return s.addr
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("listen", s.addr).Str("backend", s.backend.String()).Str("prefix", s.prefix).Msg("dev proxy listening")
		errCh <- s.echo.Start(s.addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("dev proxy: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("dev proxy shutdown: %w", err)
	}
	s.log.Info().Msg("dev proxy stopped")
	return nil
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status":  "ok",
		"backend": s.backend.String(),
	})
}

func (s *Server) instrument(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		start := time.Now()
		err := next(c)
		status := c.Response().Status
		if err != nil {
			var he *echo.HTTPError
			if errors.As(err, &he) {
				status = he.Code
			} else {
				status = http.StatusInternalServerError
			}
		}
		method := c.Request().Method
		s.requests.WithLabelValues(method, strconv.Itoa(status)).Inc()
		s.duration.WithLabelValues(method).Observe(time.Since(start).Seconds())
		return err
	}
}

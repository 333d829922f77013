// Package server exposes the record event webhook over HTTP.
package server

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/model"
	"github.com/devagenticbricks2025/umm-cloud-provisioning/internal/trigger"
)

// TokenHeader carries the shared secret configured on the outbound
// REST message.
const TokenHeader = "X-Webhook-Token"

// Invoker runs one invocation for a record.
type Invoker interface {
	Invoke(ctx context.Context, settings model.Settings, rec model.Record) (trigger.Result, error)
}

// SettingsFunc builds the Settings of one invocation.
type SettingsFunc func() (model.Settings, error)

// Server is the webhook listener.
type Server struct {
	echo     *echo.Echo
	invoker  Invoker
	settings SettingsFunc
	trigger  model.TriggerConfig
	cfg      model.ServerConfig
	token    string
	logger   *zap.Logger
	started  time.Time
}

// New creates a server. An empty token disables the header check.
func New(
	cfg model.ServerConfig,
	triggerCfg model.TriggerConfig,
	token string,
	invoker Invoker,
	settings SettingsFunc,
	logger *zap.Logger,
) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Validator = &structValidator{validate: validator.New()}

	s := &Server{
		echo:     e,
		invoker:  invoker,
		settings: settings,
		trigger:  triggerCfg,
		cfg:      cfg,
		token:    token,
		logger:   logger,
		started:  time.Now(),
	}

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			logger.Debug("request",
				zap.String("method", v.Method),
				zap.String("uri", v.URI),
				zap.Int("status", v.Status),
				zap.Duration("latency", v.Latency),
			)
			return nil
		},
	}))

	e.GET("/healthz", s.handleHealth)
	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	api := e.Group("/api/v1", s.requireToken)
	api.POST("/events/ritm", s.handleRecordEvent)

	return s
}

// Handler returns the underlying HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.echo
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		ReadTimeout:  time.Duration(s.cfg.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(s.cfg.WriteTimeoutSec) * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("webhook listener starting", zap.String("addr", s.cfg.Addr))
		if err := s.echo.StartServer(srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("serving on %s: %w", s.cfg.Addr, err)
		}
		return nil
	case <-ctx.Done():
	}

	s.logger.Info("shutting down webhook listener")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	return nil
}

// requireToken rejects requests without the shared token.
func (s *Server) requireToken(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		if s.token == "" {
			return next(c)
		}
		got := c.Request().Header.Get(TokenHeader)
		if subtle.ConstantTimeCompare([]byte(got), []byte(s.token)) != 1 {
			return echo.NewHTTPError(http.StatusUnauthorized, "invalid webhook token")
		}
		return next(c)
	}
}

type structValidator struct {
	validate *validator.Validate
}

func (v *structValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// Package server exposes cached datasets and metrics over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"nbacorpus/logger"
	"nbacorpus/metrics"
	"nbacorpus/store"
)

const shutdownTimeout = 10 * time.Second

type Server struct {
	echo    *echo.Echo
	repo    store.Repository
	metrics *metrics.Manager
	log     logger.Logger
}

// New builds the router. /metrics is only mounted when m is not nil.
func New(repo store.Repository, m *metrics.Manager, log logger.Logger) *Server {
	if log == nil {
		log = logger.Nop()
	}
	s := &Server{echo: echo.New(), repo: repo, metrics: m, log: log}
	e := s.echo
	e.HideBanner = true
	e.HidePort = true

	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogMethod:  true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			s.log.Debug(c.Request().Context(), "request",
				logger.String("method", v.Method),
				logger.String("uri", v.URI),
				logger.Int("status", v.Status),
				logger.Duration("latency", v.Latency),
			)
			return nil
		},
	}))

	e.GET("/healthz", s.health)
	e.GET("/datasets", s.listDatasets)
	e.GET("/datasets/*", s.getDataset)
	if m != nil {
		e.GET("/metrics", echo.WrapHandler(m.Handler()))
	}
	return s
}

func (s *Server) Handler() http.Handler { return s.echo }

// Start serves on addr until ctx is done, then shuts down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info(ctx, "listening", logger.String("addr", addr))
		errCh <- s.echo.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.echo.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

type datasetList struct {
	Keys []string `json:"keys"`
}

func (s *Server) listDatasets(c echo.Context) error {
	keys, err := s.repo.Keys(c.Request().Context())
	if err != nil {
		s.log.Error(c.Request().Context(), "list datasets", logger.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "could not list datasets")
	}
	prefix := c.QueryParam("prefix")
	out := datasetList{Keys: []string{}}
	for _, k := range keys {
		if strings.HasPrefix(k, prefix) {
			out.Keys = append(out.Keys, k)
		}
	}
	return c.JSON(http.StatusOK, out)
}

// getDataset streams one stored table as CSV. A trailing .csv is accepted.
func (s *Server) getDataset(c echo.Context) error {
	key := strings.TrimSuffix(c.Param("*"), ".csv")
	ctx := c.Request().Context()

	t, err := s.repo.Get(ctx, key)
	var readErr *store.CacheReadFailure
	switch {
	case errors.Is(err, store.ErrInvalidKey):
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrNotFound):
		return echo.NewHTTPError(http.StatusNotFound, "dataset not found")
	case errors.As(err, &readErr):
		s.log.Warn(ctx, "unreadable dataset", logger.String("key", key), logger.Error(err))
		return echo.NewHTTPError(http.StatusInternalServerError, "dataset is unreadable")
	case err != nil:
		return err
	}

	c.Response().Header().Set(echo.HeaderContentType, "text/csv; charset=utf-8")
	c.Response().WriteHeader(http.StatusOK)
	return t.WriteCSV(c.Response())
}

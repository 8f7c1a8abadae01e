package api

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/zooyer/dxfwin/errors"
	"github.com/zooyer/dxfwin/logging"
)

const shutdownTimeout = 10 * time.Second

// NewEcho returns an echo instance with recovery and request logging
func NewEcho() *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	logger := logging.ForService("http")
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogStatus:   true,
		LogURI:      true,
		LogMethod:   true,
		LogLatency:  true,
		LogRemoteIP: true,
		LogError:    true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			args := []any{
				"method", v.Method,
				"uri", v.URI,
				"status", v.Status,
				"ip", v.RemoteIP,
				"latency", v.Latency,
			}
			if v.Error != nil {
				args = append(args, "error", v.Error.Error())
			}
			logger.InfoContext(c.Request().Context(), "request", args...)
			return nil
		},
	}))

	return e
}

// Serve listens on addr until ctx is canceled, then shuts the server down gracefully
func Serve(ctx context.Context, e *echo.Echo, addr string) error {
	logger := logging.ForService("http")
	errCh := make(chan error, 1)

	go func() {
		logger.Info("listening", "addr", addr)
		errCh <- e.Start(addr)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return errors.New(err).
			Component("api").
			Category(errors.CategoryConfiguration).
			Context("addr", addr).
			Build()
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	logger.Info("shutting down")
	if err := e.Shutdown(shutdownCtx); err != nil {
		return errors.New(err).
			Component("api").
			Category(errors.CategoryGeneric).
			Build()
	}
	return nil
}

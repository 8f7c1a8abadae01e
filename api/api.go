// Package api exposes opening records and drawing extraction over HTTP.
package api

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/zooyer/dxfwin/conf"
	"github.com/zooyer/dxfwin/errors"
	"github.com/zooyer/dxfwin/logging"
	"github.com/zooyer/dxfwin/metrics"
	"github.com/zooyer/dxfwin/store"
)

// MaxDrawingSize bounds the body accepted by the extract endpoint
const MaxDrawingSize = "128M"

// Response is the envelope of every API reply
type Response struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Controller manages the API routes and handlers
type Controller struct {
	Echo     *echo.Echo
	Group    *echo.Group
	Store    *store.Store // nil disables the window and drawing routes
	Settings *conf.Settings
	Metrics  *metrics.PipelineMetrics // optional
	logger   *slog.Logger
}

// New creates a controller and registers its routes on e
func New(e *echo.Echo, st *store.Store, settings *conf.Settings, m *metrics.PipelineMetrics) *Controller {
	c := &Controller{
		Echo:     e,
		Group:    e.Group("/api"),
		Store:    st,
		Settings: settings,
		Metrics:  m,
		logger:   logging.ForService("api"),
	}
	c.initRoutes()
	return c
}

func (c *Controller) initRoutes() {
	c.Group.GET("/windows", c.ListWindows, c.withStore)
	c.Group.POST("/windows", c.CreateWindow, c.withStore)
	c.Group.POST("/windows/batch", c.ReplaceWindows, c.withStore)
	// static segment wins over :id in echo's router
	c.Group.DELETE("/windows/all", c.DeleteAllWindows, c.withStore)
	c.Group.PATCH("/windows/:id", c.UpdateWindow, c.withStore)
	c.Group.DELETE("/windows/:id", c.DeleteWindow, c.withStore)
	c.Group.GET("/drawings", c.ListDrawings, c.withStore)
	c.Group.POST("/extract", c.Extract, middleware.BodyLimit(MaxDrawingSize))

	if c.Metrics != nil && c.Settings.Server.Metrics {
		c.Echo.GET("/metrics", echo.WrapHandler(c.Metrics.Handler()))
	}
}

func success(ctx echo.Context, code int, data any) error {
	return ctx.JSON(code, Response{Success: true, Data: data})
}

// StatusOf maps an error category onto an HTTP status code
func StatusOf(err error) int {
	switch errors.CategoryOf(err) {
	case errors.CategoryParse, errors.CategoryValidation:
		return http.StatusBadRequest
	case errors.CategoryNotFound:
		return http.StatusNotFound
	case errors.CategoryCancellation:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// HandleError logs err and writes the error envelope with the given status
func (c *Controller) HandleError(ctx echo.Context, err error, message string, code int) error {
	errorStr := message
	if err != nil {
		errorStr = message + ": " + err.Error()
	}

	level := slog.LevelWarn
	if code >= http.StatusInternalServerError {
		level = slog.LevelError
	}
	c.logger.Log(ctx.Request().Context(), level, "API error",
		"message", message,
		"error", errorStr,
		"code", code,
		"path", ctx.Request().URL.Path,
		"method", ctx.Request().Method,
		"ip", ctx.RealIP())

	return ctx.JSON(code, Response{Success: false, Error: errorStr})
}

// withStore rejects requests to persistence routes when no store is configured
func (c *Controller) withStore(next echo.HandlerFunc) echo.HandlerFunc {
	return func(ctx echo.Context) error {
		if c.Store == nil {
			return c.HandleError(ctx, nil, "persistence is disabled", http.StatusServiceUnavailable)
		}
		return next(ctx)
	}
}

package api

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/zooyer/dxfwin/store"
)

// ListWindows handles GET /api/windows, optionally filtered by ?drawingId=
func (c *Controller) ListWindows(ctx echo.Context) error {
	drawingID := ctx.QueryParam("drawingId")
	if drawingID != "" {
		if _, err := uuid.Parse(drawingID); err != nil {
			return c.HandleError(ctx, err, "invalid drawing id", http.StatusBadRequest)
		}
	}

	windows, err := c.Store.ListWindows(ctx.Request().Context(), drawingID)
	if err != nil {
		return c.HandleError(ctx, err, "failed to list windows", StatusOf(err))
	}
	return success(ctx, http.StatusOK, windows)
}

// CreateWindow handles POST /api/windows
func (c *Controller) CreateWindow(ctx echo.Context) error {
	var w store.Window
	if err := ctx.Bind(&w); err != nil {
		return c.HandleError(ctx, err, "invalid request body", http.StatusBadRequest)
	}

	if err := c.Store.CreateWindow(ctx.Request().Context(), &w); err != nil {
		return c.HandleError(ctx, err, "failed to create window", StatusOf(err))
	}
	return success(ctx, http.StatusCreated, w)
}

// ReplaceWindows handles POST /api/windows/batch, replacing every stored window
func (c *Controller) ReplaceWindows(ctx echo.Context) error {
	var windows []store.Window
	if err := ctx.Bind(&windows); err != nil {
		return c.HandleError(ctx, err, "invalid request body", http.StatusBadRequest)
	}

	saved, err := c.Store.ReplaceWindows(ctx.Request().Context(), windows)
	if err != nil {
		return c.HandleError(ctx, err, "failed to replace windows", StatusOf(err))
	}
	return success(ctx, http.StatusCreated, saved)
}

// UpdateWindow handles PATCH /api/windows/:id
func (c *Controller) UpdateWindow(ctx echo.Context) error {
	id := ctx.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.HandleError(ctx, err, "invalid window id", http.StatusBadRequest)
	}

	var patch store.WindowPatch
	if err := ctx.Bind(&patch); err != nil {
		return c.HandleError(ctx, err, "invalid request body", http.StatusBadRequest)
	}

	w, err := c.Store.UpdateWindow(ctx.Request().Context(), id, patch)
	if err != nil {
		return c.HandleError(ctx, err, "failed to update window", StatusOf(err))
	}
	return success(ctx, http.StatusOK, w)
}

// DeleteWindow handles DELETE /api/windows/:id
func (c *Controller) DeleteWindow(ctx echo.Context) error {
	id := ctx.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		return c.HandleError(ctx, err, "invalid window id", http.StatusBadRequest)
	}

	if err := c.Store.DeleteWindow(ctx.Request().Context(), id); err != nil {
		return c.HandleError(ctx, err, "failed to delete window", StatusOf(err))
	}
	return success(ctx, http.StatusOK, map[string]string{"id": id})
}

// DeleteAllWindows handles DELETE /api/windows/all
func (c *Controller) DeleteAllWindows(ctx echo.Context) error {
	n, err := c.Store.DeleteAllWindows(ctx.Request().Context())
	if err != nil {
		return c.HandleError(ctx, err, "failed to delete windows", StatusOf(err))
	}
	return success(ctx, http.StatusOK, map[string]int64{"deleted": n})
}

// ListDrawings handles GET /api/drawings
func (c *Controller) ListDrawings(ctx echo.Context) error {
	drawings, err := c.Store.ListDrawings(ctx.Request().Context())
	if err != nil {
		return c.HandleError(ctx, err, "failed to list drawings", StatusOf(err))
	}
	return success(ctx, http.StatusOK, drawings)
}

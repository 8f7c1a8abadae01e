package api

import (
	"net/http"
	"path/filepath"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/zooyer/dxfwin"
	"github.com/zooyer/dxfwin/core"
	"github.com/zooyer/dxfwin/export"
	"github.com/zooyer/dxfwin/pipeline"
	"github.com/zooyer/dxfwin/store"
)

// ExtractResponse is the payload of a successful extraction
type ExtractResponse struct {
	Drawing  *store.Drawing           `json:"drawing,omitempty"` // nil when persistence is disabled
	Center   core.Point               `json:"center"`
	Bounds   core.BBox                `json:"bounds"`
	Entities int                      `json:"entities"`
	Records  []pipeline.OpeningRecord `json:"records"`
	Groups   []export.Group           `json:"groups"`
}

// Extract handles POST /api/extract. The body is the raw DXF text; ?name= and
// ?title= label the stored drawing.
func (c *Controller) Extract(ctx echo.Context) error {
	doc, err := dxfwin.Load(ctx.Request().Body)
	if err != nil {
		return c.HandleError(ctx, err, "failed to parse drawing", StatusOf(err))
	}

	cfg, err := c.Settings.PipelineConfig()
	if err != nil {
		return c.HandleError(ctx, err, "invalid extraction settings", http.StatusInternalServerError)
	}

	opts := []pipeline.Option{pipeline.WithLogger(c.logger)}
	if c.Metrics != nil {
		opts = append(opts, pipeline.WithRecorder(c.Metrics))
	}
	p, err := pipeline.New(cfg, opts...)
	if err != nil {
		return c.HandleError(ctx, err, "invalid extraction settings", http.StatusInternalServerError)
	}

	res, err := p.Run(ctx.Request().Context(), doc.Drawing(), nil)
	if err != nil {
		return c.HandleError(ctx, err, "extraction failed", StatusOf(err))
	}

	resp := ExtractResponse{
		Center:   res.Center,
		Bounds:   res.Bounds,
		Entities: res.TotalEntityCount,
		Records:  res.Records,
		Groups:   export.GroupRecords(res.Records),
	}
	if resp.Records == nil {
		resp.Records = []pipeline.OpeningRecord{}
	}

	if c.Store != nil {
		name := filepath.Base(strings.TrimSpace(ctx.QueryParam("name")))
		if name == "." || name == "/" {
			name = ""
		}
		title := ctx.QueryParam("title")
		if title == "" {
			title = strings.TrimSuffix(name, filepath.Ext(name))
		}

		d := &store.Drawing{
			Title:    title,
			FileName: name,
			CenterX:  res.Center.X,
			CenterY:  res.Center.Y,
		}
		if resp.Drawing, err = c.Store.CreateDrawing(ctx.Request().Context(), d, store.FromResult(res)); err != nil {
			return c.HandleError(ctx, err, "failed to save drawing", StatusOf(err))
		}
	}

	return success(ctx, http.StatusOK, resp)
}

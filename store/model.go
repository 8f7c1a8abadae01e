// model.go data model of persisted drawings and openings
package store

import (
	"time"

	"github.com/zooyer/dxfwin/core"
	"github.com/zooyer/dxfwin/pipeline"
)

// Drawing represents one imported drawing file
type Drawing struct {
	ID          string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Title       string    `json:"title"`
	FileName    string    `json:"fileName"`
	WindowCount int       `json:"windowCount"`
	TotalArea   float64   `json:"totalArea"`
	CenterX     float64   `json:"centerX"`
	CenterY     float64   `json:"centerY"`
	CreatedAt   time.Time `gorm:"index" json:"createdAt"`
	Windows     []Window  `gorm:"foreignKey:DrawingID;constraint:OnDelete:CASCADE" json:"-"`
}

// Window represents a persisted opening record. Points are relative to the drawing center.
type Window struct {
	ID           string       `gorm:"primaryKey;type:varchar(36)" json:"id"`
	DrawingID    *string      `gorm:"index;type:varchar(36)" json:"drawingId,omitempty"`
	Name         string       `gorm:"not null;index" json:"name"`
	Kind         string       `json:"kind"`
	Category     string       `gorm:"not null" json:"category"`
	ShapeType    string       `gorm:"not null" json:"shapeType"`
	OpeningType  string       `json:"openingType"`
	Width        float64      `json:"width"`
	Height       float64      `json:"height"`
	Area         float64      `json:"area"`
	Perimeter    float64      `json:"perimeter"`
	GlassArea    float64      `json:"glassArea"`
	FrameWeight  float64      `json:"frameWeight"`
	ArcRatio     float64      `json:"arcRatio"`
	SymmetryRate float64      `json:"symmetryRate"`
	SourceHandle string       `json:"sourceHandle"`
	Points       []core.Point `gorm:"serializer:json;not null" json:"points"`
	CreatedAt    time.Time    `json:"createdAt"`
}

// WindowPatch carries the fields of a partial update; nil fields are left unchanged
type WindowPatch struct {
	Name        *string       `json:"name,omitempty"`
	Kind        *string       `json:"kind,omitempty"`
	Category    *string       `json:"category,omitempty"`
	ShapeType   *string       `json:"shapeType,omitempty"`
	OpeningType *string       `json:"openingType,omitempty"`
	Width       *float64      `json:"width,omitempty"`
	Height      *float64      `json:"height,omitempty"`
	Area        *float64      `json:"area,omitempty"`
	Perimeter   *float64      `json:"perimeter,omitempty"`
	GlassArea   *float64      `json:"glassArea,omitempty"`
	FrameWeight *float64      `json:"frameWeight,omitempty"`
	Points      *[]core.Point `json:"points,omitempty"`
}

// Apply copies the set fields of p onto w
func (p WindowPatch) Apply(w *Window) {
	setString := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	setFloat := func(dst *float64, src *float64) {
		if src != nil {
			*dst = *src
		}
	}

	setString(&w.Name, p.Name)
	setString(&w.Kind, p.Kind)
	setString(&w.Category, p.Category)
	setString(&w.ShapeType, p.ShapeType)
	setString(&w.OpeningType, p.OpeningType)
	setFloat(&w.Width, p.Width)
	setFloat(&w.Height, p.Height)
	setFloat(&w.Area, p.Area)
	setFloat(&w.Perimeter, p.Perimeter)
	setFloat(&w.GlassArea, p.GlassArea)
	setFloat(&w.FrameWeight, p.FrameWeight)
	if p.Points != nil {
		w.Points = *p.Points
	}
}

// FromRecord converts an extracted opening into a window row without id
func FromRecord(r pipeline.OpeningRecord) Window {
	return Window{
		Name:         r.Label,
		Kind:         string(r.Kind),
		Category:     string(r.Category),
		ShapeType:    string(r.ShapeClass),
		OpeningType:  string(r.OpeningType),
		Width:        r.Width,
		Height:       r.Height,
		Area:         r.Area,
		Perimeter:    r.Perimeter,
		GlassArea:    r.GlassArea,
		FrameWeight:  r.FrameWeight,
		ArcRatio:     r.ArcRatio,
		SymmetryRate: r.SymmetryRate,
		SourceHandle: r.SourceHandle,
		Points:       r.Points,
	}
}

// FromResult converts every record of a run
func FromResult(res *pipeline.Result) []Window {
	if res == nil {
		return nil
	}

	windows := make([]Window, 0, len(res.Records))
	for _, r := range res.Records {
		windows = append(windows, FromRecord(r))
	}
	return windows
}

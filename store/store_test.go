package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zooyer/dxfwin/core"
	"github.com/zooyer/dxfwin/errors"
	"github.com/zooyer/dxfwin/pipeline"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "db", "dxfwin.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func window(name string, w, h float64) Window {
	return Window{
		Name:      name,
		ShapeType: "rectangular",
		Width:     w,
		Height:    h,
		Area:      w * h,
		Points:    []core.Point{{X: 0, Y: 0}, {X: w, Y: 0}, {X: w, Y: h}, {X: 0, Y: h}},
	}
}

func TestCreateAndGetWindow(t *testing.T) {
	var (
		ctx = context.Background()
		s   = openTestStore(t)
		w   = window("C1515", 1500, 1500)
	)

	require.NoError(t, s.CreateWindow(ctx, &w))
	_, err := uuid.Parse(w.ID)
	require.NoError(t, err)
	assert.Equal(t, "默认", w.Category)

	got, err := s.GetWindow(ctx, w.ID)
	require.NoError(t, err)
	assert.Equal(t, "C1515", got.Name)
	assert.Equal(t, w.Points, got.Points)
}

func TestCreateWindowRequiresName(t *testing.T) {
	w := window(" ", 1, 1)
	err := openTestStore(t).CreateWindow(context.Background(), &w)
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
}

func TestReplaceWindows(t *testing.T) {
	var (
		ctx = context.Background()
		s   = openTestStore(t)
		old = window("C0909", 900, 900)
	)
	require.NoError(t, s.CreateWindow(ctx, &old))

	saved, err := s.ReplaceWindows(ctx, []Window{window("C1515", 1500, 1500), window("C1018", 1000, 1800)})
	require.NoError(t, err)
	require.Len(t, saved, 2)

	list, err := s.ListWindows(ctx, "")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "C1515", list[0].Name)
	assert.Equal(t, "C1018", list[1].Name)

	_, err = s.GetWindow(ctx, old.ID)
	assert.True(t, errors.HasCategory(err, errors.CategoryNotFound))
}

func TestUpdateWindow(t *testing.T) {
	var (
		ctx  = context.Background()
		s    = openTestStore(t)
		w    = window("C1515", 1500, 1500)
		name = "C1516"
		cat  = "阳台"
	)
	require.NoError(t, s.CreateWindow(ctx, &w))

	got, err := s.UpdateWindow(ctx, w.ID, WindowPatch{Name: &name, Category: &cat})
	require.NoError(t, err)
	assert.Equal(t, "C1516", got.Name)
	assert.Equal(t, "阳台", got.Category)
	assert.Equal(t, 1500.0, got.Width)

	empty := ""
	_, err = s.UpdateWindow(ctx, w.ID, WindowPatch{Name: &empty})
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))

	_, err = s.UpdateWindow(ctx, uuid.NewString(), WindowPatch{Name: &name})
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDeleteWindows(t *testing.T) {
	var (
		ctx = context.Background()
		s   = openTestStore(t)
		a   = window("C1", 1, 1)
		b   = window("C2", 1, 1)
	)
	require.NoError(t, s.CreateWindow(ctx, &a))
	require.NoError(t, s.CreateWindow(ctx, &b))

	require.NoError(t, s.DeleteWindow(ctx, a.ID))
	assert.True(t, errors.HasCategory(s.DeleteWindow(ctx, a.ID), errors.CategoryNotFound))

	n, err := s.DeleteAllWindows(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	list, err := s.ListWindows(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCreateDrawingFromResult(t *testing.T) {
	var (
		ctx = context.Background()
		s   = openTestStore(t)
		res = &pipeline.Result{Records: []pipeline.OpeningRecord{
			{Label: "C1515", Kind: "window", Category: "real", ShapeClass: "rectangular", Width: 1500, Height: 1500, Area: 2_250_000},
			{Label: "C1010", Kind: "window", Category: "reference", ShapeClass: "rectangular", Width: 1000, Height: 1000, Area: 1_000_000},
		}}
	)

	d, err := s.CreateDrawing(ctx, &Drawing{Title: "plan", FileName: "plan.dxf"}, FromResult(res))
	require.NoError(t, err)
	assert.Equal(t, 2, d.WindowCount)
	assert.Equal(t, 3_250_000.0, d.TotalArea)

	drawings, err := s.ListDrawings(ctx)
	require.NoError(t, err)
	require.Len(t, drawings, 1)
	assert.Equal(t, d.ID, drawings[0].ID)

	list, err := s.ListWindows(ctx, d.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.NotNil(t, list[0].DrawingID)
	assert.Equal(t, d.ID, *list[0].DrawingID)
	assert.Equal(t, "real", list[0].Category)

	other, err := s.ListWindows(ctx, uuid.NewString())
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestOpenEmptyPath(t *testing.T) {
	_, err := Open("")
	require.Error(t, err)
}

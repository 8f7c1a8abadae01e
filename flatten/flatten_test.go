package flatten

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zooyer/dxfwin/core"
	"github.com/zooyer/dxfwin/drawing"
	"github.com/zooyer/dxfwin/geom"
)

func line(x1, y1, x2, y2 float64) drawing.Entity {
	return drawing.Entity{
		Kind:  drawing.KindLine,
		Color: drawing.ColorByLayer,
		Start: core.Point{X: x1, Y: y1},
		End:   core.Point{X: x2, Y: y2},
	}
}

func insert(block string, x, y, scale, rotation float64) drawing.Entity {
	return drawing.Entity{
		Kind:     drawing.KindInsert,
		Color:    drawing.ColorByLayer,
		Block:    block,
		Position: core.Point{X: x, Y: y},
		Scale:    core.Point{X: scale, Y: scale},
		Rotation: rotation,
	}
}

func TestFlattenInsertTransform(t *testing.T) {
	d := &drawing.Drawing{
		Entities: []drawing.Entity{insert("W", 100, 100, 2, 90)},
		Blocks: map[string]*drawing.Block{
			"W": {Name: "W", Entities: []drawing.Entity{line(1, 0, 0, 0)}},
		},
	}

	flats, markers := New(d, Options{}).Flatten(d.Entities, geom.Identity(), 0)

	require.Len(t, flats, 1)
	assert.Empty(t, markers)
	assert.InDelta(t, 100, flats[0].Points[0].X, 1e-9)
	assert.InDelta(t, 102, flats[0].Points[0].Y, 1e-9)
	assert.InDelta(t, 100, flats[0].Points[1].X, 1e-9)
	assert.InDelta(t, 100, flats[0].Points[1].Y, 1e-9)
}

func TestFlattenNestedInserts(t *testing.T) {
	d := &drawing.Drawing{
		Entities: []drawing.Entity{insert("OUTER", 1000, 0, 1, 0)},
		Blocks: map[string]*drawing.Block{
			"OUTER": {Entities: []drawing.Entity{insert("INNER", 10, 0, 2, 90)}},
			"INNER": {Entities: []drawing.Entity{line(0, 0, 5, 0)}},
		},
	}

	flats, _ := New(d, Options{}).Flatten(d.Entities, geom.Scaled(1), 0)

	require.Len(t, flats, 1)
	assert.InDelta(t, 1010, flats[0].Points[0].X, 1e-9)
	assert.InDelta(t, 0, flats[0].Points[0].Y, 1e-9)
	// (5,0) *2 -> 旋转 90° -> (0,10)
	assert.InDelta(t, 1010, flats[0].Points[1].X, 1e-9)
	assert.InDelta(t, 10, flats[0].Points[1].Y, 1e-9)
}

func TestFlattenCyclicBlockTruncates(t *testing.T) {
	d := &drawing.Drawing{
		Entities: []drawing.Entity{insert("LOOP", 0, 0, 1, 0)},
		Blocks: map[string]*drawing.Block{
			"LOOP": {Entities: []drawing.Entity{line(0, 0, 1, 0), insert("LOOP", 1, 0, 1, 0)}},
		},
	}

	f := New(d, Options{MaxDepth: 10})
	flats, _ := f.Flatten(d.Entities, geom.Identity(), 0)

	assert.Len(t, flats, 10)
	assert.Equal(t, 1, f.Truncated())
	// 每层向右平移 1
	assert.InDelta(t, 9, flats[9].Points[0].X, 1e-9)
}

func TestFlattenMissingBlock(t *testing.T) {
	d := &drawing.Drawing{Entities: []drawing.Entity{insert("NOPE", 0, 0, 1, 0), line(0, 0, 1, 1)}}

	f := New(d, Options{})
	flats, _ := f.Flatten(d.Entities, geom.Identity(), 0)

	assert.Len(t, flats, 1)
	assert.Equal(t, 1, f.Missing())
}

func TestFlattenTextMarkers(t *testing.T) {
	ins := insert("TAG", 50, 50, 1, 0)
	ins.Attributes = []drawing.Entity{{Kind: drawing.KindText, Text: "m0921", Position: core.Point{X: 55, Y: 50}}}

	d := &drawing.Drawing{
		Entities: []drawing.Entity{
			{Kind: drawing.KindText, Text: "c1515", Position: core.Point{X: 1, Y: 2}, Handle: "A1"},
			{Kind: drawing.KindText, Text: `{\fSimSun|b0;\H2.5;c0909}\Pnote`, Position: core.Point{X: 3, Y: 4}},
			{Kind: drawing.KindText, Text: "   "},
			ins,
		},
		Blocks: map[string]*drawing.Block{
			"TAG": {Entities: []drawing.Entity{{Kind: drawing.KindText, Text: "inside", Position: core.Point{X: 1, Y: 1}}}},
		},
	}

	flats, markers := New(d, Options{}).Flatten(d.Entities, geom.Identity(), 0)

	assert.Empty(t, flats)
	require.Len(t, markers, 4)
	assert.Equal(t, "C1515", markers[0].Text)
	assert.Equal(t, "A1", markers[0].Handle)
	assert.Equal(t, "C0909 NOTE", markers[1].Text)
	assert.Equal(t, "M0921", markers[2].Text)
	assert.Equal(t, core.Point{X: 55, Y: 50}, markers[2].Position)
	assert.Equal(t, "INSIDE", markers[3].Text)
	assert.Equal(t, core.Point{X: 51, Y: 51}, markers[3].Position)
}

func TestFlattenColorAndStyle(t *testing.T) {
	byBlock := line(0, 0, 1, 0)
	byBlock.Color = drawing.ColorByBlock
	byBlock.LineType = "BYBLOCK"

	gray := line(0, 0, 1, 0)
	gray.Color = 8

	explicit := line(0, 0, 1, 0)
	explicit.Color = 3
	explicit.LineType = "HIDDEN2"

	ins := insert("B", 0, 0, 1, 0)
	ins.Color = 5
	ins.LineType = "DASHED"

	onLayer := line(0, 0, 1, 0)
	onLayer.Layer = "swing"

	d := &drawing.Drawing{
		Entities: []drawing.Entity{gray, explicit, ins, onLayer},
		Blocks:   map[string]*drawing.Block{"B": {Entities: []drawing.Entity{byBlock}}},
		Layers: map[string]*drawing.Layer{
			"SWING": {Name: "SWING", Color: -2, LineType: "Dot"},
		},
	}

	flats, _ := New(d, Options{}).Flatten(d.Entities, geom.Identity(), 0)
	require.Len(t, flats, 4)

	assert.Equal(t, 8, flats[0].Color)
	assert.Equal(t, StyleGray, flats[0].Style)

	assert.Equal(t, 3, flats[1].Color)
	assert.Equal(t, StyleHidden, flats[1].Style)

	assert.Equal(t, 5, flats[2].Color)
	assert.Equal(t, StyleDashed, flats[2].Style)

	assert.Equal(t, 2, flats[3].Color)
	assert.Equal(t, StyleDotted, flats[3].Style)
}

func TestFlattenCurves(t *testing.T) {
	d := &drawing.Drawing{Entities: []drawing.Entity{
		{Kind: drawing.KindCircle, Center: core.Point{X: 0, Y: 0}, Radius: 10},
		{Kind: drawing.KindArc, Center: core.Point{X: 0, Y: 0}, Radius: 10, StartAngle: 0, EndAngle: 180},
		{Kind: drawing.KindCircle, Radius: 0},
		{Kind: drawing.KindPolyline, Vertices: []core.Point{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 1, Y: 1}}, Closed: true},
	}}

	flats, _ := New(d, Options{CircleSegments: 24, ArcSegments: 8}).Flatten(d.Entities, geom.Identity(), 0)

	require.Len(t, flats, 3)
	assert.Len(t, flats[0].Points, 24)
	assert.True(t, flats[0].Closed)
	assert.Len(t, flats[1].Points, 9)
	assert.False(t, flats[1].Closed)
	assert.True(t, flats[2].Closed)
	assert.Equal(t, 20.0, flats[0].Bounds.Width())
}

func TestClassifyLineType(t *testing.T) {
	cases := map[string]Style{
		"CONTINUOUS":     StyleContinuous,
		"hidden":         StyleHidden,
		"DASHDOT":        StyleDotted,
		"ACAD_ISO02W100": StyleContinuous,
		"Center2":        StyleDashed,
		"DASHED":         StyleDashed,
	}
	for name, want := range cases {
		assert.Equal(t, want, ClassifyLineType(name), name)
	}
}

func TestIsGray(t *testing.T) {
	assert.True(t, IsGray(8))
	assert.True(t, IsGray(9))
	assert.True(t, IsGray(252))
	assert.True(t, IsGray(-8))
	assert.False(t, IsGray(7))
	assert.False(t, IsGray(1))
	assert.False(t, IsGray(30))
	assert.False(t, IsGray(31))
}

func TestFlattenBlockBasePoint(t *testing.T) {
	d := &drawing.Drawing{
		Entities: []drawing.Entity{insert("B", 100, 0, 2, 0)},
		Blocks: map[string]*drawing.Block{
			"B": {Base: core.Point{X: 10, Y: 10}, Entities: []drawing.Entity{line(10, 10, 11, 10)}},
		},
	}

	flats, _ := New(d, Options{}).Flatten(d.Entities, geom.Identity(), 0)

	require.Len(t, flats, 1)
	// 基点与插入点重合
	assert.InDelta(t, 100, flats[0].Points[0].X, 1e-9)
	assert.InDelta(t, 0, flats[0].Points[0].Y, 1e-9)
	assert.InDelta(t, 102, flats[0].Points[1].X, 1e-9)
}

func TestCursorBatchesInsideBlock(t *testing.T) {
	var lines []drawing.Entity
	for i := 0; i < 5; i++ {
		lines = append(lines, line(float64(i), 0, float64(i), 1))
	}
	d := &drawing.Drawing{
		Entities: []drawing.Entity{insert("BIG", 100, 0, 1, 0)},
		Blocks:   map[string]*drawing.Block{"BIG": {Name: "BIG", Entities: lines}},
	}

	f := New(d, Options{})
	assert.Equal(t, 6, f.Count(d.Entities, 0))

	var (
		cursor = f.Cursor(d.Entities, geom.Identity(), 0)
		sizes  []int
		all    []FlatEntity
	)
	for !cursor.Done() {
		flats, _ := cursor.Next(2)
		sizes = append(sizes, len(flats))
		all = append(all, flats...)
	}

	// 插入本身占一个名额
	assert.Equal(t, []int{1, 2, 2}, sizes)
	want, _ := New(d, Options{}).Flatten(d.Entities, geom.Identity(), 0)
	assert.Equal(t, want, all)
	assert.InDelta(t, 104, all[4].Points[0].X, 1e-9)
}

func TestCountMatchesDepthLimit(t *testing.T) {
	d := &drawing.Drawing{
		Entities: []drawing.Entity{insert("LOOP", 0, 0, 1, 0), insert("NOPE", 0, 0, 1, 0)},
		Blocks: map[string]*drawing.Block{
			"LOOP": {Entities: []drawing.Entity{line(0, 0, 1, 0), insert("LOOP", 1, 0, 1, 0)}},
		},
	}

	var (
		f      = New(d, Options{MaxDepth: 10})
		cursor = f.Cursor(d.Entities, geom.Identity(), 0)
		total  = f.Count(d.Entities, 0)
		visits int
	)
	for !cursor.Done() {
		cursor.Next(1)
		visits++
	}

	// 2 个顶层插入，10 层各 2 个实体
	assert.Equal(t, 22, total)
	assert.Equal(t, total, visits)
	assert.Equal(t, 1, f.Truncated())
	assert.Equal(t, 1, f.Missing())
}

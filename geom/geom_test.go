package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/zooyer/dxfwin/core"
)

const tolerance = 1e-9

func rect(x, y, w, h float64) []core.Point {
	return []core.Point{{X: x, Y: y}, {X: x + w, Y: y}, {X: x + w, Y: y + h}, {X: x, Y: y + h}}
}

func TestAreaPerimeterRectangle(t *testing.T) {
	points := rect(0, 0, 1000, 2000)

	assert.InDelta(t, 2_000_000, Area(points), tolerance)
	assert.InDelta(t, 6000, Perimeter(points), tolerance)

	// 顺时针方向面积相同
	reversed := []core.Point{points[3], points[2], points[1], points[0]}
	assert.InDelta(t, 2_000_000, Area(reversed), tolerance)
}

func TestDegenerateMeasures(t *testing.T) {
	assert.Zero(t, Area(nil))
	assert.Zero(t, Area([]core.Point{{X: 1, Y: 1}, {X: 2, Y: 2}}))
	assert.Zero(t, Perimeter([]core.Point{{X: 1, Y: 1}}))
	assert.Zero(t, Perimeter([]core.Point{{X: 1, Y: 1}, {X: 1, Y: 1}, {X: 1, Y: 1}}))
}

func TestBoundsOrderInvariant(t *testing.T) {
	points := []core.Point{{X: 3, Y: -1}, {X: -7, Y: 4}, {X: 10, Y: 2}, {X: 0, Y: 9}}
	want := Bounds(points)

	for shift := 1; shift < len(points); shift++ {
		rotated := append(append([]core.Point{}, points[shift:]...), points[:shift]...)
		assert.Equal(t, want, Bounds(rotated))
	}

	shuffled := []core.Point{points[2], points[0], points[3], points[1]}
	assert.Equal(t, want, Bounds(shuffled))
	assert.Equal(t, core.Point{X: -7, Y: -1}, want.Min)
	assert.Equal(t, core.Point{X: 10, Y: 9}, want.Max)
}

func TestContains(t *testing.T) {
	polygons := [][]core.Point{
		rect(0, 0, 100, 50),
		Circle(core.Point{X: 500, Y: 500}, 80, 32),
		{{X: 0, Y: 0}, {X: 60, Y: 10}, {X: 40, Y: 70}},
	}

	for _, polygon := range polygons {
		var centroid core.Point
		for _, p := range polygon {
			centroid.X += p.X / float64(len(polygon))
			centroid.Y += p.Y / float64(len(polygon))
		}
		assert.True(t, Contains(polygon, centroid), "centroid %+v", centroid)

		box := Bounds(polygon)
		far := core.Point{X: box.Max.X + 10*box.Width() + 1, Y: box.Max.Y + 10*box.Height() + 1}
		assert.False(t, Contains(polygon, far))
	}

	assert.False(t, Contains(rect(0, 0, 1, 1)[:2], core.Point{X: 0.5, Y: 0.5}))
}

func TestContainsConcave(t *testing.T) {
	// U 形，凹口处不在内部
	u := []core.Point{{X: 0, Y: 0}, {X: 30, Y: 0}, {X: 30, Y: 30}, {X: 20, Y: 30}, {X: 20, Y: 10}, {X: 10, Y: 10}, {X: 10, Y: 30}, {X: 0, Y: 30}}

	assert.True(t, Contains(u, core.Point{X: 5, Y: 20}))
	assert.False(t, Contains(u, core.Point{X: 15, Y: 20}))
}

func TestTransformApply(t *testing.T) {
	tr := Transform{Offset: core.Point{X: 100, Y: 100}, Scale: core.Point{X: 2, Y: 2}, Rotation: 90}
	p := tr.Apply(core.Point{X: 1, Y: 0})

	assert.InDelta(t, 100, p.X, 1e-9)
	assert.InDelta(t, 102, p.Y, 1e-9)
}

func TestTransformCompose(t *testing.T) {
	parent := Transform{Offset: core.Point{X: 10, Y: 0}, Scale: core.Point{X: 2, Y: 2}, Rotation: 90}
	child := Transform{Offset: core.Point{X: 5, Y: 0}, Scale: core.Point{X: 3, Y: 3}, Rotation: 45}

	got := parent.Compose(child)

	assert.InDelta(t, 10, got.Offset.X, 1e-9)
	assert.InDelta(t, 10, got.Offset.Y, 1e-9)
	assert.Equal(t, core.Point{X: 6, Y: 6}, got.Scale)
	assert.Equal(t, 135.0, got.Rotation)

	// 与逐级变换结果一致(均匀缩放)
	local := core.Point{X: 1, Y: 2}
	direct := got.Apply(local)
	stepwise := parent.Apply(child.Apply(local))
	assert.InDelta(t, stepwise.X, direct.X, 1e-9)
	assert.InDelta(t, stepwise.Y, direct.Y, 1e-9)

	assert.Equal(t, child, Identity().Compose(child))
}

func TestArcSpanNormalized(t *testing.T) {
	points := Arc(core.Point{}, 10, 350, 10, 4)

	assert.Len(t, points, 5)
	assert.InDelta(t, 10*math.Cos(350*math.Pi/180), points[0].X, 1e-9)
	assert.InDelta(t, 10, points[2].X, 1e-9) // 0°
	assert.InDelta(t, 10*math.Sin(10*math.Pi/180), points[4].Y, 1e-9)

	start, end := NormalizeSpan(-90, 90)
	assert.Equal(t, 270.0, start)
	assert.Equal(t, 450.0, end)

	start, end = NormalizeSpan(30, 30)
	assert.Equal(t, 360.0, end-start)
}

func TestCircleSegments(t *testing.T) {
	points := Circle(core.Point{X: 1, Y: 1}, 5, 32)

	assert.Len(t, points, 32)
	for _, p := range points {
		assert.InDelta(t, 5, p.Distance(core.Point{X: 1, Y: 1}), 1e-9)
	}
	assert.Len(t, Circle(core.Point{}, 1, 0), DefaultCircleSegments)
}

func TestRingDropsClosingVertex(t *testing.T) {
	points := append(rect(0, 0, 10, 10), core.Point{X: 0.001, Y: 0})

	ring, closed := Ring(points, false, 0.01)
	assert.True(t, closed)
	assert.Len(t, ring, 4)

	open, closed := Ring(rect(0, 0, 10, 10), true, 0.01)
	assert.True(t, closed)
	assert.Len(t, open, 4)

	_, closed = Ring([]core.Point{{X: 0, Y: 0}, {X: 5, Y: 5}}, false, 0.01)
	assert.False(t, closed)
}

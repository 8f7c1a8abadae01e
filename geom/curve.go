package geom

import (
	"math"

	"github.com/zooyer/dxfwin/core"
)

const (
	DefaultCircleSegments = 32
	DefaultArcSegments    = 16
)

// Circle 将整圆离散为 segments 个点(不重复首点)
func Circle(center core.Point, radius float64, segments int) []core.Point {
	if segments < 3 {
		segments = DefaultCircleSegments
	}

	var points = make([]core.Point, 0, segments)
	for i := 0; i < segments; i++ {
		a := 2 * math.Pi * float64(i) / float64(segments)
		points = append(points, core.Point{
			X: center.X + radius*math.Cos(a),
			Y: center.Y + radius*math.Sin(a),
		})
	}

	return points
}

// Arc 将圆弧离散为 segments+1 个点，角度为度数，逆时针
func Arc(center core.Point, radius, startDeg, endDeg float64, segments int) []core.Point {
	if segments < 1 {
		segments = DefaultArcSegments
	}

	var start, end = NormalizeSpan(startDeg, endDeg)
	var (
		from   = start * math.Pi / 180
		span   = (end - start) * math.Pi / 180
		points = make([]core.Point, 0, segments+1)
	)
	for i := 0; i <= segments; i++ {
		a := from + span*float64(i)/float64(segments)
		points = append(points, core.Point{
			X: center.X + radius*math.Cos(a),
			Y: center.Y + radius*math.Sin(a),
		})
	}

	return points
}

// NormalizeSpan 保证 end > start，且跨度在 (0, 360]
func NormalizeSpan(start, end float64) (float64, float64) {
	start = math.Mod(start, 360)
	if start < 0 {
		start += 360
	}
	end = math.Mod(end, 360)
	if end < 0 {
		end += 360
	}
	if end <= start {
		end += 360
	}

	return start, end
}

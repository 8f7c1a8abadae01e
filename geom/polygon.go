package geom

import (
	"math"

	"github.com/zooyer/dxfwin/core"
	"github.com/zooyer/golib/xmath"
)

// Area 鞋带公式计算多边形面积(绝对值)
func Area(points []core.Point) float64 {
	if len(points) < 3 {
		return 0
	}

	var sum float64
	for i := range points {
		next := points[(i+1)%len(points)]
		sum += points[i].X*next.Y - next.X*points[i].Y
	}

	return math.Abs(sum) / 2
}

// Perimeter 首尾相接的周长
func Perimeter(points []core.Point) float64 {
	if len(points) < 2 {
		return 0
	}

	var sum float64
	for i := range points {
		sum += points[i].Distance(points[(i+1)%len(points)])
	}

	return sum
}

// Bounds 点集包围盒，与点的顺序无关
func Bounds(points []core.Point) core.BBox {
	var box = core.EmptyBBox()
	for _, p := range points {
		box = box.Extend(p)
	}

	return box
}

// Contains 射线法判断点是否在多边形内部: 水平射线穿过奇数条边即在内部
func Contains(polygon []core.Point, p core.Point) bool {
	var (
		n      = len(polygon)
		inside = false
	)
	if n < 3 {
		return false
	}

	for i, j := 0, n-1; i < n; j, i = i, i+1 {
		a, b := polygon[i], polygon[j]
		if (a.Y > p.Y) != (b.Y > p.Y) && p.X < (b.X-a.X)*(p.Y-a.Y)/(b.Y-a.Y)+a.X {
			inside = !inside
		}
	}

	return inside
}

// IsClosed 首尾点在 epsilon 内视为闭合
func IsClosed(points []core.Point, epsilon float64) bool {
	if len(points) < 2 {
		return false
	}

	first, last := points[0], points[len(points)-1]

	return xmath.Equal(first.X, last.X, epsilon) && xmath.Equal(first.Y, last.Y, epsilon)
}

// Ring 返回去掉重复闭合点的环，closed 为显式闭合标记
func Ring(points []core.Point, closed bool, epsilon float64) ([]core.Point, bool) {
	if !IsClosed(points, epsilon) {
		return points, closed
	}

	if len(points) > 1 {
		points = points[:len(points)-1]
	}

	return points, true
}

// Translate 整体平移点序列，返回新切片
func Translate(points []core.Point, d core.Point) []core.Point {
	var out = make([]core.Point, len(points))
	for i, p := range points {
		out[i] = p.Add(d)
	}

	return out
}

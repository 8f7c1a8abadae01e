package core

import "math"

// Point 代表平面上的一个点
type Point struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
}

func (p Point) Add(q Point) Point {
	return Point{X: p.X + q.X, Y: p.Y + q.Y}
}

func (p Point) Sub(q Point) Point {
	return Point{X: p.X - q.X, Y: p.Y - q.Y}
}

// Mul 分量相乘(非均匀缩放)
func (p Point) Mul(s Point) Point {
	return Point{X: p.X * s.X, Y: p.Y * s.Y}
}

// Rotate 绕原点逆时针旋转 deg 度
func (p Point) Rotate(deg float64) Point {
	if deg == 0 {
		return p
	}

	rad := deg * math.Pi / 180.0
	cos, sin := math.Cos(rad), math.Sin(rad)

	return Point{X: p.X*cos - p.Y*sin, Y: p.X*sin + p.Y*cos}
}

func (p Point) Distance(q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// BBox 代表包围盒
type BBox struct {
	Min Point `json:"min" yaml:"min"`
	Max Point `json:"max" yaml:"max"`
}

// EmptyBBox 返回一个可被 Extend 扩展的空包围盒
func EmptyBBox() BBox {
	return BBox{
		Min: Point{X: math.MaxFloat64, Y: math.MaxFloat64},
		Max: Point{X: -math.MaxFloat64, Y: -math.MaxFloat64},
	}
}

// IsEmpty 未扩展过任何点的包围盒
func (b BBox) IsEmpty() bool {
	return b.Min.X > b.Max.X || b.Min.Y > b.Max.Y
}

func (b BBox) Extend(p Point) BBox {
	b.Min.X = math.Min(b.Min.X, p.X)
	b.Min.Y = math.Min(b.Min.Y, p.Y)
	b.Max.X = math.Max(b.Max.X, p.X)
	b.Max.Y = math.Max(b.Max.Y, p.Y)

	return b
}

func (b BBox) Union(o BBox) BBox {
	if o.IsEmpty() {
		return b
	}

	return b.Extend(o.Min).Extend(o.Max)
}

func (b BBox) Width() float64 {
	if b.IsEmpty() {
		return 0
	}

	return b.Max.X - b.Min.X
}

func (b BBox) Height() float64 {
	if b.IsEmpty() {
		return 0
	}

	return b.Max.Y - b.Min.Y
}

func (b BBox) Center() Point {
	if b.IsEmpty() {
		return Point{}
	}

	return Point{X: (b.Min.X + b.Max.X) / 2, Y: (b.Min.Y + b.Max.Y) / 2}
}

// Contains 点是否落在包围盒内(含边界)
func (b BBox) Contains(p Point) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X && p.Y >= b.Min.Y && p.Y <= b.Max.Y
}

// ContainsBox o 是否完全落在 b 内
func (b BBox) ContainsBox(o BBox) bool {
	return !o.IsEmpty() && b.Contains(o.Min) && b.Contains(o.Max)
}

// Translate 平移整个包围盒
func (b BBox) Translate(d Point) BBox {
	if b.IsEmpty() {
		return b
	}

	return BBox{Min: b.Min.Add(d), Max: b.Max.Add(d)}
}

// Package feature 计算洞口回路的形状特征：圆弧占比、对称率、外形、开启方向与归属。
package feature

import (
	"math"

	"github.com/zooyer/dxfwin/core"
	"github.com/zooyer/dxfwin/geom"
	"github.com/zooyer/dxfwin/loop"
)

type Shape string

const (
	ShapeRectangular Shape = "rectangular"
	ShapePolygonal   Shape = "polygonal"
	ShapeArched      Shape = "arched"
	ShapeCurved      Shape = "curved"
)

type Orientation string

const (
	OrientationFixed      Orientation = "fixed"
	OrientationSliding    Orientation = "sliding"
	OrientationLeftHinge  Orientation = "left-hinge"
	OrientationRightHinge Orientation = "right-hinge"
	OrientationDouble     Orientation = "double"
)

type Category string

const (
	CategoryReal      Category = "real"
	CategoryReference Category = "reference"
)

const (
	DefaultArcHigh              = 30
	DefaultSymmetryHigh         = 80
	DefaultPolygonVertices      = 4
	DefaultSlidingAreaThreshold = 2_000_000 // 2㎡ (mm²)
	DefaultMirrorTolerance      = 10

	minTurn = 0.01 // rad
	maxTurn = 0.5

	sameBoxTolerance = 1e-6
)

// Indicator 一条开启线(虚线或灰色线)，Handle 为来源实体句柄
type Indicator struct {
	Handle string
	Bounds core.BBox
}

type Options struct {
	ArcHigh              float64
	SymmetryHigh         float64
	PolygonVertices      int
	SlidingAreaThreshold float64
	MirrorTolerance      float64
}

func (o Options) withDefaults() Options {
	if o.ArcHigh <= 0 {
		o.ArcHigh = DefaultArcHigh
	}
	if o.SymmetryHigh <= 0 {
		o.SymmetryHigh = DefaultSymmetryHigh
	}
	if o.PolygonVertices <= 0 {
		o.PolygonVertices = DefaultPolygonVertices
	}
	if o.SlidingAreaThreshold <= 0 {
		o.SlidingAreaThreshold = DefaultSlidingAreaThreshold
	}
	if o.MirrorTolerance <= 0 {
		o.MirrorTolerance = DefaultMirrorTolerance
	}

	return o
}

// Features 一个回路的全部特征
type Features struct {
	ArcRatio     float64
	SymmetryRate float64
	Shape        Shape
	Orientation  Orientation
	Category     Category
}

type Analyzer struct {
	opts Options
}

func New(opts Options) *Analyzer {
	return &Analyzer{opts: opts.withDefaults()}
}

func (a *Analyzer) Options() Options { return a.opts }

// Analyze indicators 为开启线，walls 为墙体回路，坐标均相对图纸中心
func (a *Analyzer) Analyze(l loop.Loop, indicators []Indicator, walls []loop.Loop) Features {
	var (
		arc = ArcRatio(l.Points)
		sym = SymmetryRate(l.Points, a.opts.MirrorTolerance)
	)

	return Features{
		ArcRatio:     arc,
		SymmetryRate: sym,
		Shape:        a.Shape(arc, sym, len(l.Points)),
		Orientation:  a.Orientation(l, indicators),
		Category:     Containment(l.Center(), walls),
	}
}

// ArcRatio 圆弧采样段占周长的百分比。相邻边转角在 (0.01, 0.5) 弧度内的边视为圆弧段
func ArcRatio(points []core.Point) float64 {
	var (
		n      = len(points)
		total  float64
		arcLen float64
	)
	if n < 2 {
		return 0
	}

	for i := range n {
		var (
			p1 = points[i]
			p2 = points[(i+1)%n]
			p3 = points[(i+2)%n]
			v1 = p2.Sub(p1)
			v2 = p3.Sub(p2)
			d  = p1.Distance(p2)
		)
		total += d

		turn := math.Abs(math.Atan2(v1.X*v2.Y-v1.Y*v2.X, v1.X*v2.X+v1.Y*v2.Y))
		if turn > minTurn && turn < maxTurn {
			arcLen += d
		}
	}

	if total <= 0 {
		return 0
	}

	return arcLen / total * 100
}

// SymmetryRate 关于包围盒中心竖线的镜像点在 tolerance 内有对应点的比例(百分比)
func SymmetryRate(points []core.Point, tolerance float64) float64 {
	if len(points) < 3 {
		return 0
	}

	var (
		cx      = geom.Bounds(points).Center().X
		matched int
	)
	for _, p := range points {
		mx := 2*cx - p.X
		for _, q := range points {
			if math.Abs(q.X-mx) < tolerance && math.Abs(q.Y-p.Y) < tolerance {
				matched++
				break
			}
		}
	}

	return float64(matched) / float64(len(points)) * 100
}

// Shape 由圆弧占比、对称率和顶点数判断外形
func (a *Analyzer) Shape(arcRatio, symmetryRate float64, vertices int) Shape {
	switch {
	case arcRatio >= a.opts.ArcHigh && symmetryRate >= a.opts.SymmetryHigh:
		return ShapeArched
	case arcRatio >= a.opts.ArcHigh:
		return ShapeCurved
	case vertices > a.opts.PolygonVertices:
		return ShapePolygonal
	default:
		return ShapeRectangular
	}
}

// Orientation 根据回路内开启线所在的半边判断开启方向。
// 回路自身的轮廓(同一句柄或包围盒重合)不算开启线
func (a *Analyzer) Orientation(l loop.Loop, indicators []Indicator) Orientation {
	var (
		cx          = l.Center().X
		left, right bool
	)
	for _, ind := range indicators {
		box := ind.Bounds
		if box.IsEmpty() || !l.Bounds.ContainsBox(box) {
			continue
		}
		if (ind.Handle != "" && ind.Handle == l.Handle) || sameBox(box, l.Bounds) {
			continue
		}

		// 跨越中线的开启线同时计入两侧
		if box.Min.X < cx {
			left = true
		}
		if box.Max.X > cx {
			right = true
		}
	}

	switch {
	case left && right:
		return OrientationDouble
	case left:
		return OrientationLeftHinge
	case right:
		return OrientationRightHinge
	case l.Area >= a.opts.SlidingAreaThreshold && l.Width() >= l.Height():
		return OrientationSliding
	default:
		return OrientationFixed
	}
}

func sameBox(a, b core.BBox) bool {
	return math.Abs(a.Min.X-b.Min.X) <= sameBoxTolerance &&
		math.Abs(a.Min.Y-b.Min.Y) <= sameBoxTolerance &&
		math.Abs(a.Max.X-b.Max.X) <= sameBoxTolerance &&
		math.Abs(a.Max.Y-b.Max.Y) <= sameBoxTolerance
}

// Containment 中心落在任一墙体回路内为实际洞口，否则为参考图(大样等)
func Containment(center core.Point, walls []loop.Loop) Category {
	for _, w := range walls {
		if w.Bounds.Contains(center) && geom.Contains(w.Points, center) {
			return CategoryReal
		}
	}

	return CategoryReference
}

// Package loop 识别闭合回路并计算面积、周长与包围盒，按面积分为墙体与候选洞口。
package loop

import (
	"math"

	"github.com/zooyer/dxfwin/core"
	"github.com/zooyer/dxfwin/flatten"
	"github.com/zooyer/dxfwin/geom"
)

type Class string

const (
	ClassWall      Class = "wall"
	ClassCandidate Class = "candidate"
)

const (
	DefaultWallAreaThreshold = 10_000_000 // 10㎡ (mm²)
	DefaultNoiseFloor        = 5000
	DefaultMaxAspect         = 40
	DefaultEpsilon           = 0.01
)

// Loop 闭合回路，点相对于图纸中心
type Loop struct {
	Points    []core.Point
	Area      float64
	Perimeter float64
	Bounds    core.BBox
	Handle    string
	Class     Class
}

func (l Loop) Width() float64 { return l.Bounds.Width() }

func (l Loop) Height() float64 { return l.Bounds.Height() }

func (l Loop) Center() core.Point { return l.Bounds.Center() }

// Aspect 长边 / 短边，短边为 0 时为 +Inf
func (l Loop) Aspect() float64 {
	w, h := l.Width(), l.Height()
	if math.Min(w, h) <= 0 {
		return math.Inf(1)
	}

	return math.Max(w, h) / math.Min(w, h)
}

// Degenerate 少于 3 个点或周长为 0
func (l Loop) Degenerate() bool {
	return len(l.Points) < 3 || l.Perimeter <= 0
}

// Measure 由点序列计算面积、周长与包围盒，纯函数
func Measure(points []core.Point, handle string) Loop {
	return Loop{
		Points:    points,
		Area:      geom.Area(points),
		Perimeter: geom.Perimeter(points),
		Bounds:    geom.Bounds(points),
		Handle:    handle,
	}
}

type Options struct {
	WallAreaThreshold float64
	NoiseFloor        float64
	MaxAspect         float64
	Epsilon           float64
}

func (o Options) withDefaults() Options {
	if o.WallAreaThreshold <= 0 {
		o.WallAreaThreshold = DefaultWallAreaThreshold
	}
	if o.NoiseFloor <= 0 {
		o.NoiseFloor = DefaultNoiseFloor
	}
	if o.MaxAspect <= 0 {
		o.MaxAspect = DefaultMaxAspect
	}
	if o.Epsilon <= 0 {
		o.Epsilon = DefaultEpsilon
	}

	return o
}

// Set 一次识别中收集到的回路
type Set struct {
	Walls      []Loop
	Candidates []Loop
	Noise      int // 面积过小或长宽比异常
	Degenerate int // 点数不足或周长为 0
}

type Classifier struct {
	opts Options
}

func New(opts Options) *Classifier {
	return &Classifier{opts: opts.withDefaults()}
}

func (c *Classifier) Options() Options { return c.opts }

// Classify 判断一个已闭合的点环属于墙体、候选洞口，或被丢弃
func (c *Classifier) Classify(l Loop) (Class, bool) {
	switch {
	case l.Degenerate():
		return "", false
	case l.Area >= c.opts.WallAreaThreshold:
		return ClassWall, true
	case l.Area >= c.opts.NoiseFloor && l.Aspect() <= c.opts.MaxAspect:
		return ClassCandidate, true
	default:
		return "", false
	}
}

// Add 检测实体是否闭合，计算度量并归类到 set，origin 为图纸中心
func (c *Classifier) Add(set *Set, e flatten.FlatEntity, origin core.Point) {
	points, closed := geom.Ring(e.Points, e.Closed, c.opts.Epsilon)
	if !closed {
		return
	}

	l := Measure(geom.Translate(points, core.Point{X: -origin.X, Y: -origin.Y}), e.Handle())

	class, ok := c.Classify(l)
	if !ok {
		if l.Degenerate() {
			set.Degenerate++
		} else {
			set.Noise++
		}
		return
	}

	l.Class = class
	if class == ClassWall {
		set.Walls = append(set.Walls, l)
	} else {
		set.Candidates = append(set.Candidates, l)
	}
}

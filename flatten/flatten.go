// Package flatten 将嵌套块展开为世界坐标下的扁平实体与文字标记。
package flatten

import (
	"math"
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/zooyer/dxfwin/core"
	"github.com/zooyer/dxfwin/drawing"
	"github.com/zooyer/dxfwin/geom"
	"github.com/zooyer/dxfwin/logging"
)

const DefaultMaxDepth = 10

// FlatEntity 展开后的实体，点位于统一的世界坐标系
type FlatEntity struct {
	Source *drawing.Entity
	Points []core.Point
	Closed bool
	Color  int
	Style  Style
	Bounds core.BBox
}

func (e FlatEntity) Kind() drawing.Kind { return e.Source.Kind }

func (e FlatEntity) Handle() string { return e.Source.Handle }

// TextMarker 文字标记，内容已转大写
type TextMarker struct {
	Text     string
	Position core.Point
	Handle   string
	Layer    string
}

type Options struct {
	MaxDepth       int
	CircleSegments int
	ArcSegments    int
}

func (o Options) withDefaults() Options {
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.CircleSegments < 3 {
		o.CircleSegments = geom.DefaultCircleSegments
	}
	if o.ArcSegments < 1 {
		o.ArcSegments = geom.DefaultArcSegments
	}

	return o
}

// Flattener 持有块表与图层表，一次识别使用一个实例
type Flattener struct {
	opts      Options
	blocks    map[string]*drawing.Block
	layers    map[string]*drawing.Layer
	upper     cases.Caser
	truncated int
	missing   int
}

// inherit 随块(BYBLOCK)属性来自外层插入
type inherit struct {
	color    int // <0 表示不在块内
	lineType string
}

var rootInherit = inherit{color: -1, lineType: defaultLineType}

func New(d *drawing.Drawing, opts Options) *Flattener {
	f := &Flattener{
		opts:  opts.withDefaults(),
		upper: cases.Upper(language.Und),
	}
	if d != nil {
		f.blocks, f.layers = d.Blocks, d.Layers
	}

	return f
}

// Truncated 因超过深度限制而未展开的插入数量
func (f *Flattener) Truncated() int { return f.truncated }

// Missing 引用了不存在块定义的插入数量
func (f *Flattener) Missing() int { return f.missing }

// Flatten 按变换 t 展开实体，depth 为当前嵌套深度(顶层为 0)
func (f *Flattener) Flatten(entities []drawing.Entity, t geom.Transform, depth int) ([]FlatEntity, []TextMarker) {
	return f.Cursor(entities, t, depth).Next(math.MaxInt)
}

// Count 展开后要访问的实体总数，插入本身也计 1 个。与 Cursor 的计数一致
func (f *Flattener) Count(entities []drawing.Entity, depth int) int {
	return f.count(entities, depth, make(map[countKey]int))
}

type countKey struct {
	block *drawing.Block
	depth int
}

func (f *Flattener) count(entities []drawing.Entity, depth int, seen map[countKey]int) int {
	n := len(entities)
	if depth >= f.opts.MaxDepth {
		return n
	}

	for i := range entities {
		e := &entities[i]
		if e.Kind != drawing.KindInsert {
			continue
		}
		block := f.block(e.Block)
		if block == nil {
			continue
		}

		key := countKey{block: block, depth: depth + 1}
		c, ok := seen[key]
		if !ok {
			c = f.count(block.Entities, depth+1, seen)
			seen[key] = c
		}
		n += c
	}

	return n
}

// frame 展开栈中的一层块
type frame struct {
	entities []drawing.Entity
	next     int
	t        geom.Transform
	depth    int
	parent   inherit
}

// Cursor 可分批推进的展开过程，块内实体同样逐个计数
type Cursor struct {
	f     *Flattener
	stack []frame
}

func (f *Flattener) Cursor(entities []drawing.Entity, t geom.Transform, depth int) *Cursor {
	return &Cursor{
		f:     f,
		stack: []frame{{entities: entities, t: t, depth: depth, parent: rootInherit}},
	}
}

// Done 所有实体都已访问
func (c *Cursor) Done() bool {
	c.pop()
	return len(c.stack) == 0
}

func (c *Cursor) pop() {
	for len(c.stack) > 0 {
		top := &c.stack[len(c.stack)-1]
		if top.next < len(top.entities) {
			return
		}
		c.stack = c.stack[:len(c.stack)-1]
	}
}

// Next 按深度优先顺序再访问至多 n 个实体，返回这一批产生的结果
func (c *Cursor) Next(n int) (flats []FlatEntity, markers []TextMarker) {
	for ; n > 0 && !c.Done(); n-- {
		top := &c.stack[len(c.stack)-1]
		e := &top.entities[top.next]
		top.next++

		if child, ok := c.f.visit(e, *top, &flats, &markers); ok {
			c.stack = append(c.stack, child)
		}
	}

	return flats, markers
}

// visit 处理一个实体，插入返回需要继续展开的块
func (f *Flattener) visit(e *drawing.Entity, at frame, flats *[]FlatEntity, markers *[]TextMarker) (frame, bool) {
	var t = at.t

	switch e.Kind {
	case drawing.KindText:
		f.addMarker(e, t, markers)
	case drawing.KindInsert:
		// 属性文字的位置已是插入后的坐标
		for j := range e.Attributes {
			f.addMarker(&e.Attributes[j], t, markers)
		}

		if at.depth >= f.opts.MaxDepth {
			// 超过深度静默截断，防止循环引用
			f.truncated++
			logging.ForService("flatten").Debug("insert depth limit reached",
				"block", e.Block, "handle", e.Handle, "depth", at.depth)
			return frame{}, false
		}

		block := f.block(e.Block)
		if block == nil {
			f.missing++
			return frame{}, false
		}

		var scale = e.Scale
		if scale == (core.Point{}) {
			scale = core.Point{X: 1, Y: 1}
		}
		child := t.Compose(geom.Transform{Offset: e.Position, Scale: scale, Rotation: e.Rotation})
		if block.Base != (core.Point{}) {
			child = child.Compose(geom.Transform{Offset: block.Base.Mul(core.Point{X: -1, Y: -1}), Scale: core.Point{X: 1, Y: 1}})
		}

		return frame{
			entities: block.Entities,
			t:        child,
			depth:    at.depth + 1,
			parent:   inherit{color: f.color(e, at.parent), lineType: f.lineType(e, at.parent)},
		}, true
	default:
		points, closed := f.points(e)
		if len(points) == 0 {
			return frame{}, false
		}

		var (
			world = t.ApplyAll(points)
			color = f.color(e, at.parent)
			style = ClassifyLineType(f.lineType(e, at.parent))
		)
		if style == StyleContinuous && IsGray(color) {
			style = StyleGray
		}

		*flats = append(*flats, FlatEntity{
			Source: e,
			Points: world,
			Closed: closed,
			Color:  color,
			Style:  style,
			Bounds: geom.Bounds(world),
		})
	}

	return frame{}, false
}

// points 局部坐标下的点序列
func (f *Flattener) points(e *drawing.Entity) ([]core.Point, bool) {
	switch e.Kind {
	case drawing.KindLine:
		return []core.Point{e.Start, e.End}, false
	case drawing.KindPolyline:
		return e.Vertices, e.Closed
	case drawing.KindCircle:
		if e.Radius <= 0 {
			return nil, false
		}
		return geom.Circle(e.Center, e.Radius, f.opts.CircleSegments), true
	case drawing.KindArc:
		if e.Radius <= 0 {
			return nil, false
		}
		return geom.Arc(e.Center, e.Radius, e.StartAngle, e.EndAngle, f.opts.ArcSegments), false
	default:
		return nil, false
	}
}

func (f *Flattener) addMarker(e *drawing.Entity, t geom.Transform, markers *[]TextMarker) {
	text := f.upper.String(CleanText(e.Text))
	if text == "" {
		return
	}

	*markers = append(*markers, TextMarker{
		Text:     text,
		Position: t.Apply(e.Position),
		Handle:   e.Handle,
		Layer:    e.Layer,
	})
}

func (f *Flattener) block(name string) *drawing.Block {
	if block, ok := f.blocks[name]; ok {
		return block
	}

	return f.blocks[strings.ToUpper(name)]
}

func (f *Flattener) layer(name string) *drawing.Layer {
	if layer, ok := f.layers[name]; ok {
		return layer
	}

	return f.layers[strings.ToUpper(name)]
}

// color 解析实际颜色: 随块取外层插入，随层取图层
func (f *Flattener) color(e *drawing.Entity, parent inherit) int {
	switch {
	case e.Color == drawing.ColorByBlock && parent.color >= 0:
		return parent.color
	case e.Color > 0 && e.Color < drawing.ColorByLayer:
		return e.Color
	}

	if layer := f.layer(e.Layer); layer != nil && layer.Color != 0 {
		// 负值表示图层关闭，取绝对值
		if layer.Color < 0 {
			return -layer.Color
		}
		return layer.Color
	}

	return defaultColor
}

func (f *Flattener) lineType(e *drawing.Entity, parent inherit) string {
	name := strings.ToUpper(strings.TrimSpace(e.LineType))

	switch name {
	case "BYBLOCK":
		return parent.lineType
	case "", "BYLAYER":
		if layer := f.layer(e.Layer); layer != nil && layer.LineType != "" {
			return strings.ToUpper(layer.LineType)
		}
		return defaultLineType
	default:
		return name
	}
}

var (
	reFormat = regexp.MustCompile(`\\[A-Za-z][^;\\{}]*;`)
	reBreak  = regexp.MustCompile(`\\[Pp~]`)
)

// CleanText 去除 MTEXT 格式控制符
func CleanText(s string) string {
	s = reBreak.ReplaceAllString(s, " ")
	s = reFormat.ReplaceAllString(s, "")
	s = strings.NewReplacer("{", "", "}", "").Replace(s)

	return strings.TrimSpace(s)
}

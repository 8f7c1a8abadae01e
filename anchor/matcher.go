// Package anchor 以文字编号为锚点，匹配包含它的最小闭合回路。
package anchor

import (
	"math"
	"sort"

	"github.com/zooyer/dxfwin/core"
	"github.com/zooyer/dxfwin/flatten"
	"github.com/zooyer/dxfwin/geom"
	"github.com/zooyer/dxfwin/loop"
)

type Kind string

const (
	KindWindow Kind = "window"
	KindDoor   Kind = "door"
)

const (
	DefaultPositionGrid = 10
	DefaultAreaGrid     = 50
)

type Options struct {
	Window         *Pattern
	Door           *Pattern // 可选
	PositionGrid   float64
	AreaGrid       float64
	TrackUnlabeled bool
}

func (o Options) withDefaults() Options {
	if o.Window == nil {
		o.Window = MustPattern(DefaultWindowPattern)
	}
	if o.PositionGrid <= 0 {
		o.PositionGrid = DefaultPositionGrid
	}
	if o.AreaGrid <= 0 {
		o.AreaGrid = DefaultAreaGrid
	}

	return o
}

// Fingerprint 量化后的 (中心, 面积)，作为同一洞口的去重键
type Fingerprint struct {
	X, Y, Area int64
}

func NewFingerprint(center core.Point, area, positionGrid, areaGrid float64) Fingerprint {
	return Fingerprint{
		X:    int64(math.Round(center.X / positionGrid)),
		Y:    int64(math.Round(center.Y / positionGrid)),
		Area: int64(math.Round(area / areaGrid)),
	}
}

// Match 一个编号与其匹配的回路
type Match struct {
	Label       string
	Kind        Kind
	Marker      flatten.TextMarker
	Loop        loop.Loop
	Fingerprint Fingerprint
}

type candidate struct {
	index int
	loop  loop.Loop
}

// Matcher 候选回路按面积升序排列，首个包含标记的即最小包含回路
type Matcher struct {
	opts       Options
	candidates []candidate
	seen       map[Fingerprint]struct{}
	labelled   []bool
	unmatched  int
	duplicates int
}

func New(candidates []loop.Loop, opts Options) *Matcher {
	m := &Matcher{
		opts:       opts.withDefaults(),
		candidates: make([]candidate, len(candidates)),
		seen:       make(map[Fingerprint]struct{}),
		labelled:   make([]bool, len(candidates)),
	}
	for i, l := range candidates {
		m.candidates[i] = candidate{index: i, loop: l}
	}

	// 稳定排序：面积相同时保持输入顺序
	sort.SliceStable(m.candidates, func(i, j int) bool {
		return m.candidates[i].loop.Area < m.candidates[j].loop.Area
	})

	return m
}

// Label 判断文字是否为洞口编号，窗优先于门
func (m *Matcher) Label(text string) (string, Kind, bool) {
	if label, ok := m.opts.Window.Find(text); ok {
		return label, KindWindow, true
	}
	if label, ok := m.opts.Door.Find(text); ok {
		return label, KindDoor, true
	}

	return "", "", false
}

// Match 为标记寻找最小包含回路并去重。未匹配或重复时返回 false
func (m *Matcher) Match(marker flatten.TextMarker) (Match, bool) {
	label, kind, ok := m.Label(marker.Text)
	if !ok {
		return Match{}, false
	}

	found := -1
	for i := range m.candidates {
		c := &m.candidates[i]
		if !c.loop.Bounds.Contains(marker.Position) || !geom.Contains(c.loop.Points, marker.Position) {
			continue
		}

		m.labelled[c.index] = true
		if found < 0 {
			found = i
		}
		if !m.opts.TrackUnlabeled {
			break
		}
	}

	if found < 0 {
		m.unmatched++
		return Match{}, false
	}

	var (
		l  = m.candidates[found].loop
		fp = NewFingerprint(l.Center(), l.Area, m.opts.PositionGrid, m.opts.AreaGrid)
	)
	if _, dup := m.seen[fp]; dup {
		m.duplicates++
		return Match{}, false
	}
	m.seen[fp] = struct{}{}

	return Match{
		Label:       label,
		Kind:        kind,
		Marker:      marker,
		Loop:        l,
		Fingerprint: fp,
	}, true
}

// Unmatched 编号未落在任何候选回路内的次数
func (m *Matcher) Unmatched() int { return m.unmatched }

// Duplicates 因指纹重复被跳过的次数
func (m *Matcher) Duplicates() int { return m.duplicates }

// Unlabeled 未包含任何编号的候选回路，按输入顺序返回。需开启 TrackUnlabeled
func (m *Matcher) Unlabeled() []loop.Loop {
	if !m.opts.TrackUnlabeled {
		return nil
	}

	var loops = make([]loop.Loop, len(m.candidates))
	for _, c := range m.candidates {
		loops[c.index] = c.loop
	}

	var out []loop.Loop
	for i, l := range loops {
		if !m.labelled[i] {
			out = append(out, l)
		}
	}

	return out
}

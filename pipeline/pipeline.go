// Package pipeline 串联展开、回路识别、编号匹配、特征分析与估算，分批处理并上报进度。
package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/zooyer/dxfwin/anchor"
	"github.com/zooyer/dxfwin/core"
	"github.com/zooyer/dxfwin/drawing"
	"github.com/zooyer/dxfwin/errors"
	"github.com/zooyer/dxfwin/estimate"
	"github.com/zooyer/dxfwin/feature"
	"github.com/zooyer/dxfwin/flatten"
	"github.com/zooyer/dxfwin/geom"
	"github.com/zooyer/dxfwin/logging"
	"github.com/zooyer/dxfwin/loop"
)

type Stage string

const (
	StageFlatten  Stage = "flatten"
	StageLoops    Stage = "loops"
	StageMatching Stage = "matching"
)

// 各阶段的进度区间
const (
	progressFlatten  = 40
	progressLoops    = 70
	progressMatching = 95
	progressDone     = 100
)

// OpeningRecord 一个识别出的洞口，点坐标相对图纸中心
type OpeningRecord struct {
	Label        string              `json:"label" yaml:"label"`
	Kind         anchor.Kind         `json:"kind" yaml:"kind"`
	Category     feature.Category    `json:"category" yaml:"category"`
	ShapeClass   feature.Shape       `json:"shapeClass" yaml:"shape_class"`
	OpeningType  feature.Orientation `json:"openingType" yaml:"opening_type"`
	Width        float64             `json:"width" yaml:"width"`
	Height       float64             `json:"height" yaml:"height"`
	Area         float64             `json:"area" yaml:"area"`
	Perimeter    float64             `json:"perimeter" yaml:"perimeter"`
	GlassArea    float64             `json:"glassArea" yaml:"glass_area"`
	FrameWeight  float64             `json:"frameWeight" yaml:"frame_weight"`
	Points       []core.Point        `json:"points" yaml:"points"`
	SourceHandle string              `json:"sourceHandle" yaml:"source_handle"`
	ArcRatio     float64             `json:"arcRatio" yaml:"arc_ratio"`
	SymmetryRate float64             `json:"symmetryRate" yaml:"symmetry_rate"`
}

// Stats 一次识别的计数
type Stats struct {
	TotalEntities int
	FlatEntities  int
	Markers       int
	Walls         int
	Candidates    int
	Noise         int
	Degenerate    int
	Records       int
	Unmatched     int
	Duplicates    int
	Truncated     int
	MissingBlocks int
}

// Result 一次成功识别的完整输出
type Result struct {
	Records          []OpeningRecord
	Bounds           core.BBox  // 世界坐标
	Center           core.Point // 世界坐标，Records 的点加上它即为绝对位置
	TotalEntityCount int
	FlatEntityCount  int
	Unlabeled        []loop.Loop
	Stats            Stats
}

// Recorder 接收阶段耗时与运行统计，由 metrics 实现
type Recorder interface {
	ObserveStage(stage Stage, d time.Duration)
	ObserveRun(stats Stats, d time.Duration, err error)
}

// Config 零值字段取各包的默认值: ScaleFactor 为 1，零值 Estimator 使用默认型材参数
type Config struct {
	ScaleFactor     float64
	BatchSize       int
	ReportUnlabeled bool
	Flatten         flatten.Options
	Loop            loop.Options
	Anchor          anchor.Options
	Feature         feature.Options
	Estimator       estimate.Estimator
}

type Option func(*Pipeline)

func WithRecorder(r Recorder) Option {
	return func(p *Pipeline) { p.recorder = r }
}

func WithLogger(l *slog.Logger) Option {
	return func(p *Pipeline) { p.logger = l }
}

// Pipeline 不持有跨次运行的状态，同一图纸的多次识别由调用方串行
type Pipeline struct {
	cfg      Config
	recorder Recorder
	logger   *slog.Logger
}

func New(cfg Config, opts ...Option) (*Pipeline, error) {
	if cfg.ScaleFactor == 0 {
		cfg.ScaleFactor = 1
	}
	if cfg.ScaleFactor < 0 {
		return nil, errors.Newf("scale factor must be positive, got %v", cfg.ScaleFactor).
			Component("pipeline").
			Category(errors.CategoryConfiguration).
			Build()
	}
	cfg.Anchor.TrackUnlabeled = cfg.ReportUnlabeled
	cfg.Estimator = cfg.Estimator.WithDefaults()

	p := &Pipeline{cfg: cfg}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = logging.ForService("pipeline")
	}

	return p, nil
}

func (p *Pipeline) Config() Config { return p.cfg }

// Run 执行一次完整识别。失败时不返回任何部分结果
func (p *Pipeline) Run(ctx context.Context, d *drawing.Drawing, progress Progress) (result *Result, err error) {
	var begin = time.Now()

	r := &run{
		p:          p,
		sched:      NewScheduler(p.cfg.BatchSize, progress),
		flattener:  flatten.New(d, p.cfg.Flatten),
		classifier: loop.New(p.cfg.Loop),
		analyzer:   feature.New(p.cfg.Feature),
	}

	defer func() {
		if p.recorder != nil {
			p.recorder.ObserveRun(r.stats, time.Since(begin), err)
		}
		if err != nil {
			result = nil
			p.logger.Warn("extraction failed", "error", err, "elapsed", time.Since(begin))
		}
	}()

	if err = d.Validate(); err != nil {
		return nil, err
	}
	r.stats.TotalEntities = d.Count()
	r.sched.Report(0)

	if err = r.stage(StageFlatten, func() error { return r.flatten(ctx, d.Entities) }); err != nil {
		return nil, err
	}
	if err = r.stage(StageLoops, func() error { return r.loops(ctx) }); err != nil {
		return nil, err
	}
	if err = r.stage(StageMatching, func() error { return r.match(ctx) }); err != nil {
		return nil, err
	}

	result = &Result{
		Records:          r.records,
		Bounds:           r.bounds,
		Center:           r.center,
		TotalEntityCount: r.stats.TotalEntities,
		FlatEntityCount:  r.stats.FlatEntities,
		Stats:            r.stats,
	}
	if p.cfg.ReportUnlabeled {
		result.Unlabeled = r.matcher.Unlabeled()
	}
	r.sched.Report(progressDone)

	p.logger.Info("extraction finished",
		"entities", r.stats.TotalEntities,
		"flat", r.stats.FlatEntities,
		"walls", r.stats.Walls,
		"candidates", r.stats.Candidates,
		"records", r.stats.Records,
		"elapsed", time.Since(begin))

	return result, nil
}

// run 一次识别的中间数据，运行结束即丢弃
type run struct {
	p          *Pipeline
	sched      *Scheduler
	flattener  *flatten.Flattener
	classifier *loop.Classifier
	analyzer   *feature.Analyzer
	matcher    *anchor.Matcher

	flats      []flatten.FlatEntity
	markers    []flatten.TextMarker
	bounds     core.BBox
	center     core.Point
	set        loop.Set
	indicators []feature.Indicator
	records    []OpeningRecord
	stats      Stats
}

func (r *run) stage(stage Stage, fn func() error) error {
	var begin = time.Now()
	err := fn()
	if r.p.recorder != nil {
		r.p.recorder.ObserveStage(stage, time.Since(begin))
	}
	r.p.logger.Debug("stage done", "stage", stage, "elapsed", time.Since(begin), "ok", err == nil)

	return err
}

// flatten 按展开后的实体数分批，大块内部也会让出调度，同时累计全局包围盒
func (r *run) flatten(ctx context.Context, entities []drawing.Entity) error {
	var (
		cursor = r.flattener.Cursor(entities, geom.Scaled(r.p.cfg.ScaleFactor), 0)
		total  = r.flattener.Count(entities, 0)
	)
	r.bounds = core.EmptyBBox()

	err := r.sched.Run(ctx, total, 0, progressFlatten, func(start, end int) {
		flats, markers := cursor.Next(end - start)
		for _, f := range flats {
			r.bounds = r.bounds.Union(f.Bounds)
		}
		r.flats = append(r.flats, flats...)
		r.markers = append(r.markers, markers...)
	})
	if err != nil {
		return err
	}

	if !r.bounds.IsEmpty() {
		r.center = r.bounds.Center()
	} else {
		r.bounds = core.BBox{}
	}

	r.stats.FlatEntities = len(r.flats)
	r.stats.Markers = len(r.markers)
	r.stats.Truncated = r.flattener.Truncated()
	r.stats.MissingBlocks = r.flattener.Missing()

	return nil
}

// loops 识别闭合回路，同时收集开启线的包围盒
func (r *run) loops(ctx context.Context) error {
	var offset = core.Point{X: -r.center.X, Y: -r.center.Y}

	err := r.sched.Run(ctx, len(r.flats), progressFlatten, progressLoops, func(start, end int) {
		for i := start; i < end; i++ {
			f := r.flats[i]
			if f.Style.IsIndicator() {
				r.indicators = append(r.indicators, feature.Indicator{
					Handle: f.Handle(),
					Bounds: f.Bounds.Translate(offset),
				})
			}
			r.classifier.Add(&r.set, f, r.center)
		}
	})
	if err != nil {
		return err
	}

	r.stats.Walls = len(r.set.Walls)
	r.stats.Candidates = len(r.set.Candidates)
	r.stats.Noise = r.set.Noise
	r.stats.Degenerate = r.set.Degenerate

	return nil
}

// match 以编号为锚点匹配回路并生成洞口记录
func (r *run) match(ctx context.Context) error {
	var (
		offset    = core.Point{X: -r.center.X, Y: -r.center.Y}
		estimator = r.p.cfg.Estimator
	)
	r.matcher = anchor.New(r.set.Candidates, r.p.cfg.Anchor)

	err := r.sched.Run(ctx, len(r.markers), progressLoops, progressMatching, func(start, end int) {
		for i := start; i < end; i++ {
			marker := r.markers[i]
			marker.Position = marker.Position.Add(offset)

			m, ok := r.matcher.Match(marker)
			if !ok {
				continue
			}

			var (
				l = m.Loop
				f = r.analyzer.Analyze(l, r.indicators, r.set.Walls)
			)
			r.records = append(r.records, OpeningRecord{
				Label:        m.Label,
				Kind:         m.Kind,
				Category:     f.Category,
				ShapeClass:   f.Shape,
				OpeningType:  f.Orientation,
				Width:        l.Width(),
				Height:       l.Height(),
				Area:         l.Area,
				Perimeter:    l.Perimeter,
				GlassArea:    estimator.GlassArea(l.Area, l.Perimeter),
				FrameWeight:  estimator.FrameWeight(l.Perimeter),
				Points:       append([]core.Point(nil), l.Points...),
				SourceHandle: l.Handle,
				ArcRatio:     f.ArcRatio,
				SymmetryRate: f.SymmetryRate,
			})
		}
	})
	if err != nil {
		return err
	}

	r.stats.Records = len(r.records)
	r.stats.Unmatched = r.matcher.Unmatched()
	r.stats.Duplicates = r.matcher.Duplicates()

	return nil
}

package pipeline

import (
	"context"
	"runtime"

	"github.com/zooyer/dxfwin/errors"
)

const DefaultBatchSize = 2000

// Progress 进度回调，同步调用，取值 0~100 且不递减
type Progress func(percent int)

// Scheduler 将大批量实体切分为固定大小的批次，批次之间让出调度并检查取消
type Scheduler struct {
	batchSize int
	progress  Progress
	last      int
}

func NewScheduler(batchSize int, progress Progress) *Scheduler {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	return &Scheduler{batchSize: batchSize, progress: progress, last: -1}
}

func (s *Scheduler) BatchSize() int { return s.batchSize }

// Last 最近一次上报的进度，未上报时为 -1
func (s *Scheduler) Last() int { return s.last }

// Report 上报进度，截断到 [0, 100] 且不回退
func (s *Scheduler) Report(percent int) {
	percent = min(max(percent, 0), 100)
	if percent <= s.last {
		return
	}

	s.last = percent
	if s.progress != nil {
		s.progress(percent)
	}
}

// Run 以批次处理 [0, n)，进度在 [from, to] 区间内线性推进。
// 只在批次边界让出调度和响应取消
func (s *Scheduler) Run(ctx context.Context, n, from, to int, batch func(start, end int)) error {
	if n <= 0 {
		if err := canceled(ctx); err != nil {
			return err
		}
		s.Report(to)
		return nil
	}

	for start := 0; start < n; start += s.batchSize {
		if err := canceled(ctx); err != nil {
			return err
		}

		end := min(start+s.batchSize, n)
		batch(start, end)
		s.Report(from + (to-from)*end/n)

		if end < n {
			runtime.Gosched()
		}
	}

	return nil
}

func canceled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return errors.New(err).
			Component("pipeline").
			Category(errors.CategoryCancellation).
			Build()
	}

	return nil
}

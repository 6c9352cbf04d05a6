package idgen

import (
	"context"
	"time"

	"github.com/ceyewan/centerid/metrics"
	"github.com/ceyewan/centerid/xerrors"
)

const (
	opNext   = "next"
	opLinear = "linear"
)

// instruments idgen 记录的指标
type instruments struct {
	allocations metrics.Counter
	gapSearches metrics.Counter
	duration    metrics.Histogram
}

func newInstruments(meter metrics.Meter) (*instruments, error) {
	allocations, err := meter.Counter("idgen_allocations_total", "ID 分配次数")
	if err != nil {
		return nil, err
	}
	gapSearches, err := meter.Counter("idgen_gap_searches_total", "区间回绕后的空隙搜索次数")
	if err != nil {
		return nil, err
	}
	duration, err := meter.Histogram("idgen_allocation_duration_seconds", "ID 分配耗时",
		metrics.WithUnit("s"),
		metrics.WithBuckets([]float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5}))
	if err != nil {
		return nil, err
	}
	return &instruments{
		allocations: allocations,
		gapSearches: gapSearches,
		duration:    duration,
	}, nil
}

func (i *instruments) observe(ctx context.Context, op string, start time.Time, err error) {
	outcome := metrics.Outcome(err)
	i.allocations.Inc(ctx,
		metrics.L(metrics.LabelOperation, op),
		metrics.L(metrics.LabelOutcome, outcome))
	i.duration.Record(ctx, time.Since(start).Seconds(),
		metrics.L(metrics.LabelOperation, op),
		metrics.L(metrics.LabelOutcome, outcome))
}

func (i *instruments) gapSearch(ctx context.Context, err error) {
	reason := "found"
	if err != nil {
		reason = xerrors.GetCode(err)
	}
	i.gapSearches.Inc(ctx,
		metrics.L(metrics.LabelOutcome, metrics.Outcome(err)),
		metrics.L(metrics.LabelReason, reason))
}

package idgen

import (
	"math/rand/v2"
	"time"

	"github.com/ceyewan/centerid/clog"
	"github.com/ceyewan/centerid/metrics"
)

// Option 组件初始化选项函数
type Option func(*options)

type options struct {
	logger clog.Logger
	meter  metrics.Meter
	draw   func(n int64) int64
	now    func() time.Time
}

// WithLogger 设置 Logger
func WithLogger(logger clog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithMeter 设置 Meter
func WithMeter(meter metrics.Meter) Option {
	return func(o *options) {
		if meter != nil {
			o.meter = meter
		}
	}
}

// WithCenterDraw 替换首次初始化时抽取中心 ID 的函数，draw(n) 应返回 [0, n) 内的值
func WithCenterDraw(draw func(n int64) int64) Option {
	return func(o *options) {
		if draw != nil {
			o.draw = draw
		}
	}
}

// WithClock 替换记录安装时间所用的时钟
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		if now != nil {
			o.now = now
		}
	}
}

func applyOptions(opts []Option) *options {
	o := &options{
		logger: clog.Discard(),
		meter:  metrics.Discard(),
		draw:   rand.Int64N,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	o.logger = o.logger.WithNamespace("idgen")
	return o
}

// Package metrics 提供基于 OpenTelemetry 的指标收集能力，通过 Prometheus 格式暴露。
//
// 快速开始：
//
//	meter, err := metrics.New(&metrics.Config{
//	    Enabled:     true,
//	    ServiceName: "centerid",
//	    Port:        9090,
//	    Path:        "/metrics",
//	})
//	if err != nil {
//	    return err
//	}
//	defer meter.Shutdown(ctx)
//
//	counter, _ := meter.Counter("idgen_allocations_total", "分配次数")
//	counter.Inc(ctx, metrics.L(metrics.LabelOutcome, metrics.OutcomeSuccess))
package metrics

import (
	"context"
	"net/http"
)

// Counter 计数器，只增不减，如分配次数、错误次数
type Counter interface {
	// Inc 将计数器增加 1
	Inc(ctx context.Context, labels ...Label)
	// Add 将计数器增加给定的值，负数会被忽略
	Add(ctx context.Context, val float64, labels ...Label)
}

// Gauge 仪表盘，记录可任意增减的瞬时值
type Gauge interface {
	Set(ctx context.Context, val float64, labels ...Label)
	Inc(ctx context.Context, labels ...Label)
	Dec(ctx context.Context, labels ...Label)
}

// Histogram 直方图，记录值的分布，如分配耗时
type Histogram interface {
	Record(ctx context.Context, val float64, labels ...Label)
}

// Meter 指标创建工厂
//
// 创建的指标可在多个 goroutine 中并发使用。
type Meter interface {
	Counter(name string, desc string, opts ...MetricOption) (Counter, error)
	Gauge(name string, desc string, opts ...MetricOption) (Gauge, error)
	Histogram(name string, desc string, opts ...MetricOption) (Histogram, error)

	// Handler 返回 Prometheus 格式的采集端点
	Handler() http.Handler

	// Shutdown 关闭 Meter，停止 HTTP 暴露并刷新所有指标
	Shutdown(ctx context.Context) error
}

// MetricOption 创建指标时的额外配置
type MetricOption func(*MetricOptions)

// MetricOptions 指标选项
type MetricOptions struct {
	// Unit 指标单位，使用 UCUM 单位代码，如 "s"、"By"
	Unit string
	// Buckets 直方图桶边界，为空时使用 SDK 默认值
	Buckets []float64
}

// WithUnit 设置指标的单位
func WithUnit(unit string) MetricOption {
	return func(o *MetricOptions) {
		o.Unit = unit
	}
}

// WithBuckets 设置直方图的桶边界，仅对 Histogram 生效
func WithBuckets(buckets []float64) MetricOption {
	return func(o *MetricOptions) {
		o.Buckets = append([]float64(nil), buckets...)
	}
}

func applyMetricOptions(opts []MetricOption) *MetricOptions {
	o := &MetricOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

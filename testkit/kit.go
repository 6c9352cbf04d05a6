// Package testkit 提供测试用的公共依赖：Logger、Meter、唯一 ID 与各类数据库连接器。
package testkit

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/ceyewan/centerid/clog"
	"github.com/ceyewan/centerid/metrics"
)

// Kit 包含通用的测试依赖
type Kit struct {
	Ctx    context.Context
	Logger clog.Logger
	Meter  metrics.Meter
}

// NewKit 返回一个包含默认依赖的测试工具包，Meter 在测试结束时关闭
func NewKit(t *testing.T) *Kit {
	meter := NewMeter()
	t.Cleanup(func() {
		_ = meter.Shutdown(context.Background())
	})
	return &Kit{
		Ctx:    context.Background(),
		Logger: NewLogger(),
		Meter:  meter,
	}
}

// NewLogger 返回一个用于测试的 logger，warn 以下级别不输出
func NewLogger() clog.Logger {
	cfg := clog.NewDevDefaultConfig("centerid")
	cfg.Level = "warn"
	logger, err := clog.New(cfg)
	if err != nil {
		return clog.Discard()
	}
	return logger
}

// NewMeter 返回一个用于测试的 meter，不监听端口，可通过 Handler() 采集
func NewMeter() metrics.Meter {
	meter, err := metrics.New(&metrics.Config{Enabled: true, ServiceName: "centerid-test"})
	if err != nil {
		return metrics.Discard()
	}
	return meter
}

// NewContext 返回一个带有超时的测试上下文，测试结束时自动取消
func NewContext(t *testing.T, timeout time.Duration) context.Context {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	t.Cleanup(cancel)
	return ctx
}

// NewID 返回一个唯一的测试 ID (UUID v4 前 8 位)，用于表名后缀等
func NewID() string {
	return uuid.New().String()[0:8]
}

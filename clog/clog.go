// Package clog 提供基于 slog 的结构化日志组件。
//
// 组件通过 WithLogger 注入 Logger，并用 WithNamespace 派生带命名空间的子 Logger。
// 未注入时使用 Discard() 返回的静默实现。
//
// 基本使用：
//
//	logger, _ := clog.New(&clog.Config{
//	    Level:  "info",
//	    Format: "console",
//	    Output: "stderr",
//	})
//	logger.Info("center bootstrapped", clog.Int64("center_id", 42))
//
// 带 Context 字段提取：
//
//	logger, _ := clog.New(clog.NewProdDefaultConfig("centerid"),
//	    clog.WithStandardContext(),
//	)
//	logger.InfoContext(ctx, "id allocated")
package clog

import "fmt"

// New 创建一个新的 Logger 实例
//
// config 为 nil 时使用开发环境默认配置。
func New(config *Config, opts ...Option) (Logger, error) {
	if config == nil {
		config = NewDevDefaultConfig("")
	}

	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return newLogger(config, applyOptions(opts...))
}

// Must 创建 Logger，失败时 panic。仅用于程序初始化。
func Must(config *Config, opts ...Option) Logger {
	logger, err := New(config, opts...)
	if err != nil {
		panic(err)
	}
	return logger
}

package connector

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ceyewan/centerid/clog"
	"github.com/ceyewan/centerid/xerrors"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// gormLogger 将 GORM 日志适配到 clog
type gormLogger struct {
	logger        clog.Logger
	level         logger.LogLevel
	slowThreshold time.Duration
}

func newGormLogger(log clog.Logger, cfg GormConfig) logger.Interface {
	level, _ := parseGormLogLevel(cfg.LogLevel)
	return &gormLogger{
		logger:        log.WithNamespace("gorm"),
		level:         level,
		slowThreshold: cfg.SlowThreshold,
	}
}

func parseGormLogLevel(s string) (logger.LogLevel, error) {
	switch strings.ToLower(s) {
	case "silent":
		return logger.Silent, nil
	case "error":
		return logger.Error, nil
	case "", "warn":
		return logger.Warn, nil
	case "info":
		return logger.Info, nil
	default:
		return logger.Warn, xerrors.Wrapf(ErrConfig, "unknown gorm log level %q", s)
	}
}

func (l *gormLogger) LogMode(level logger.LogLevel) logger.Interface {
	newLogger := *l
	newLogger.level = level
	return &newLogger
}

func (l *gormLogger) Info(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Info {
		l.logger.InfoContext(ctx, fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Warn(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Warn {
		l.logger.WarnContext(ctx, fmt.Sprintf(msg, data...))
	}
}

func (l *gormLogger) Error(ctx context.Context, msg string, data ...any) {
	if l.level >= logger.Error {
		l.logger.ErrorContext(ctx, fmt.Sprintf(msg, data...))
	}
}

// Trace 记录 SQL 执行日志，ErrRecordNotFound 不视为错误
func (l *gormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level <= logger.Silent {
		return
	}
	elapsed := time.Since(begin)

	switch {
	case err != nil && !errors.Is(err, gorm.ErrRecordNotFound) && l.level >= logger.Error:
		sql, rows := fc()
		l.logger.ErrorContext(ctx, "sql error",
			clog.Duration("duration", elapsed),
			clog.String("sql", sql),
			clog.Int64("rows", rows),
			clog.Error(err),
		)
	case l.slowThreshold > 0 && elapsed > l.slowThreshold && l.level >= logger.Warn:
		sql, rows := fc()
		l.logger.WarnContext(ctx, "slow sql",
			clog.Duration("duration", elapsed),
			clog.String("sql", sql),
			clog.Int64("rows", rows),
		)
	case l.level >= logger.Info:
		sql, rows := fc()
		l.logger.DebugContext(ctx, "sql",
			clog.Duration("duration", elapsed),
			clog.String("sql", sql),
			clog.Int64("rows", rows),
		)
	}
}

package clog

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// clogHandler 封装 slog.Handler，提供动态级别和 Flush 能力。
type clogHandler struct {
	slog.Handler
	levelVar *slog.LevelVar
	file     *os.File
}

// newHandler 构造顺序：writer -> handler options -> base handler -> wrapper。
func newHandler(config *Config, o *options) (*clogHandler, error) {
	w, file, err := resolveWriter(config, o)
	if err != nil {
		return nil, err
	}

	level, _ := ParseLevel(config.Level)
	levelVar := new(slog.LevelVar)
	levelVar.Set(level.slogLevel())

	opts := &slog.HandlerOptions{
		AddSource:   config.AddSource,
		Level:       levelVar,
		ReplaceAttr: newReplaceAttr(config),
	}

	var handler slog.Handler
	if strings.ToLower(config.Format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	return &clogHandler{Handler: handler, levelVar: levelVar, file: file}, nil
}

// resolveWriter 根据配置创建输出 writer，输出到文件时一并返回文件句柄。
func resolveWriter(config *Config, o *options) (io.Writer, *os.File, error) {
	switch strings.ToLower(config.Output) {
	case "stdout":
		return os.Stdout, nil, nil
	case "stderr":
		return os.Stderr, nil, nil
	case "buffer":
		if o.buffer != nil {
			return o.buffer, nil, nil
		}
		return nil, nil, fmt.Errorf("buffer output requires options.buffer to be set")
	default:
		f, err := os.OpenFile(config.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, nil, err
		}
		return f, f, nil
	}
}

// newReplaceAttr 统一处理 Level/Time/Source 字段。
func newReplaceAttr(config *Config) func(groups []string, a slog.Attr) slog.Attr {
	return func(groups []string, a slog.Attr) slog.Attr {
		if len(groups) > 0 {
			return a
		}
		switch a.Key {
		case slog.LevelKey:
			if level, ok := a.Value.Any().(slog.Level); ok {
				a.Value = slog.StringValue(levelName(level))
			}
		case slog.TimeKey:
			if a.Value.Kind() == slog.KindTime {
				a.Value = slog.StringValue(a.Value.Time().Format(timeFormat))
			}
		case slog.SourceKey:
			if source, ok := a.Value.Any().(*slog.Source); ok {
				fileName := trimSourcePath(source.File, config.SourceRoot)
				return slog.String("caller", fmt.Sprintf("%s:%d", fileName, source.Line))
			}
		}
		return a
	}
}

func levelName(level slog.Level) string {
	switch {
	case level <= slog.LevelDebug:
		return "DEBUG"
	case level <= slog.LevelInfo:
		return "INFO"
	case level <= slog.LevelWarn:
		return "WARN"
	case level <= slog.LevelError:
		return "ERROR"
	default:
		return "FATAL"
	}
}

func trimSourcePath(fileName, sourceRoot string) string {
	if sourceRoot == "" {
		return fileName
	}
	if rel, err := filepath.Rel(sourceRoot, fileName); err == nil && !strings.HasPrefix(rel, "..") {
		return rel
	}
	if idx := strings.Index(fileName, filepath.Base(sourceRoot)); idx != -1 {
		return fileName[idx:]
	}
	return fileName
}

// Flush 同步文件输出；标准输出和缓冲区无需处理。
func (h *clogHandler) Flush() {
	if h.file != nil {
		_ = h.file.Sync()
	}
}

package clog

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

type contextKey string

// withBuffer 将日志写入 buf，配合 Output: "buffer" 使用
func withBuffer(buf *bytes.Buffer) Option {
	return func(o *options) {
		o.buffer = buf
	}
}

// newBufferLogger 创建写入缓冲区的 json Logger
func newBufferLogger(t *testing.T, level string, opts ...Option) (Logger, *bytes.Buffer) {
	t.Helper()
	var buf bytes.Buffer
	opts = append(opts, withBuffer(&buf))
	logger, err := New(&Config{Level: level, Format: "json", Output: "buffer"}, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return logger, &buf
}

func decodeLines(t *testing.T, buf *bytes.Buffer) []map[string]any {
	t.Helper()
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(buf.String()), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("日志行不是合法 JSON: %q, err = %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		config  *Config
		wantErr bool
	}{
		{name: "nil 配置使用默认值", config: nil},
		{name: "json 格式", config: &Config{Level: "info", Format: "json", Output: "stdout"}},
		{name: "空字段填充默认值", config: &Config{}},
		{name: "非法级别", config: &Config{Level: "verbose"}, wantErr: true},
		{name: "非法格式", config: &Config{Format: "xml"}, wantErr: true},
		{name: "缓冲区未设置", config: &Config{Output: "buffer"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := New(tt.config)
			if (err != nil) != tt.wantErr {
				t.Fatalf("New() error = %v, wantErr %v", err, tt.wantErr)
			}
			if !tt.wantErr && logger == nil {
				t.Error("New() 成功时返回了 nil Logger")
			}
		})
	}
}

func TestDefaultConfigs(t *testing.T) {
	dev := NewDevDefaultConfig("/src/centerid")
	if dev.Level != "debug" || dev.Format != "console" || !dev.AddSource {
		t.Errorf("NewDevDefaultConfig() = %+v", dev)
	}
	prod := NewProdDefaultConfig("")
	if prod.Level != "info" || prod.Format != "json" {
		t.Errorf("NewProdDefaultConfig() = %+v", prod)
	}
}

func TestLoggerLevels(t *testing.T) {
	logger, buf := newBufferLogger(t, "debug")

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")

	entries := decodeLines(t, buf)
	want := []string{"DEBUG", "INFO", "WARN", "ERROR"}
	if len(entries) != len(want) {
		t.Fatalf("期望 %d 行日志，得到 %d", len(want), len(entries))
	}
	for i, entry := range entries {
		if entry["level"] != want[i] {
			t.Errorf("第 %d 行 level = %v，期望 %s", i, entry["level"], want[i])
		}
	}
}

func TestLoggerSetLevel(t *testing.T) {
	logger, buf := newBufferLogger(t, "info")

	logger.Debug("filtered")
	if err := logger.SetLevel(DebugLevel); err != nil {
		t.Fatalf("SetLevel() error = %v", err)
	}
	logger.WithNamespace("child").Debug("visible")

	entries := decodeLines(t, buf)
	if len(entries) != 1 {
		t.Fatalf("期望 1 行日志，得到 %d", len(entries))
	}
	if entries[0]["msg"] != "visible" {
		t.Errorf("msg = %v", entries[0]["msg"])
	}
}

func TestLoggerFields(t *testing.T) {
	logger, buf := newBufferLogger(t, "debug")

	logger.Info("allocated",
		String("table", "orders"),
		Int64("id", 42000000001),
		Bool("fresh", true),
		Error(nil),
		ErrorWithCode(errors.New("range exhausted"), "range_full"),
		ErrorCode(nil),
	)

	entries := decodeLines(t, buf)
	if len(entries) != 1 {
		t.Fatalf("期望 1 行日志，得到 %d", len(entries))
	}
	entry := entries[0]
	if entry["table"] != "orders" {
		t.Errorf("table = %v", entry["table"])
	}
	if entry["id"] != float64(42000000001) {
		t.Errorf("id = %v", entry["id"])
	}
	if _, ok := entry[""]; ok {
		t.Error("nil 错误不应输出空字段")
	}
	group, ok := entry["error"].(map[string]any)
	if !ok {
		t.Fatalf("error 字段应为嵌套对象，得到 %v", entry["error"])
	}
	if group["code"] != "range_full" || group["msg"] != "range exhausted" {
		t.Errorf("error = %v", group)
	}
}

func TestLoggerContextAndNamespace(t *testing.T) {
	logger, buf := newBufferLogger(t, "debug",
		WithNamespace("centerid"),
		WithContextField(contextKey("trace_id"), "trace_id"),
	)

	ctx := context.WithValue(context.Background(), contextKey("trace_id"), "trace-123")
	logger.WithNamespace("idgen").InfoContext(ctx, "bootstrap")

	entry := decodeLines(t, buf)[0]
	if entry["trace_id"] != "trace-123" {
		t.Errorf("trace_id = %v", entry["trace_id"])
	}
	if entry[NamespaceKey] != "centerid.idgen" {
		t.Errorf("namespace = %v", entry[NamespaceKey])
	}
}

func TestLoggerWithDoesNotMutateSiblings(t *testing.T) {
	logger, buf := newBufferLogger(t, "debug")

	base := logger.With(String("k1", "v1"), String("k2", "v2"), String("k3", "v3")).
		With(String("k4", "v4"))
	a := base.With(String("x", "A"))
	_ = base.With(String("x", "B"))

	a.Info("msg")

	entry := decodeLines(t, buf)[0]
	if entry["x"] != "A" {
		t.Fatalf("x = %v，期望 A", entry["x"])
	}
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    Level
		wantErr bool
	}{
		{"debug", DebugLevel, false},
		{"INFO", InfoLevel, false},
		{"Warn", WarnLevel, false},
		{"error", ErrorLevel, false},
		{"fatal", FatalLevel, false},
		{"trace", InfoLevel, true},
	}
	for _, tt := range tests {
		got, err := ParseLevel(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, %v", tt.in, got, err)
		}
	}
}

func TestDiscard(t *testing.T) {
	logger := Discard()
	logger.With(String("k", "v")).WithNamespace("ns").Info("nothing")
	if err := logger.SetLevel(DebugLevel); err != nil {
		t.Errorf("Discard().SetLevel() error = %v", err)
	}
	logger.Flush()
}

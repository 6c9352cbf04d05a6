package clog

import (
	"context"
	"log/slog"
	"strings"
)

// NamespaceKey 是日志中命名空间的字段名
const NamespaceKey = "namespace"

// appendContextFields 从 ctx 中提取配置的字段并追加到 attrs
func appendContextFields(ctx context.Context, o *options, attrs []slog.Attr) []slog.Attr {
	if ctx == nil || o == nil {
		return attrs
	}
	for _, cf := range o.contextFields {
		if val := ctx.Value(cf.Key); val != nil {
			attrs = append(attrs, slog.Any(cf.FieldName, val))
		}
	}
	return attrs
}

// appendNamespace 追加命名空间字段
func appendNamespace(o *options, attrs []slog.Attr) []slog.Attr {
	if o == nil || len(o.namespaceParts) == 0 {
		return attrs
	}
	return append(attrs, slog.String(NamespaceKey, strings.Join(o.namespaceParts, ".")))
}

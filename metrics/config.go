package metrics

import "github.com/ceyewan/centerid/xerrors"

// Config 指标系统配置
//
//	metrics:
//	  enabled: true
//	  service_name: "centerid"
//	  port: 9090
//	  path: "/metrics"
type Config struct {
	// Enabled 为 false 时 New 返回 noop Meter
	Enabled bool `mapstructure:"enabled" yaml:"enabled" json:"enabled"`

	// ServiceName 作为 Resource 的 service.name 属性
	ServiceName string `mapstructure:"service_name" yaml:"service_name" json:"service_name"`

	// Version 作为 Resource 的 service.version 属性
	Version string `mapstructure:"version" yaml:"version" json:"version"`

	// Port 大于 0 时启动 HTTP 服务器暴露 Path
	Port int    `mapstructure:"port" yaml:"port" json:"port"`
	Path string `mapstructure:"path" yaml:"path" json:"path"`
}

func (c *Config) setDefaults() {
	if c.ServiceName == "" {
		c.ServiceName = "centerid"
	}
	if c.Path == "" {
		c.Path = "/metrics"
	}
}

func (c *Config) validate() error {
	if c.Port < 0 || c.Port > 65535 {
		return xerrors.WithCode(xerrors.ErrInvalidInput, "metrics_port_out_of_range")
	}
	if c.Path[0] != '/' {
		return xerrors.WithCode(xerrors.ErrInvalidInput, "metrics_path_must_start_with_slash")
	}
	return nil
}

package config

import (
	"strings"

	"github.com/ceyewan/centerid/clog"
)

// Option 配置选项模式
type Option func(*Config)

// Config 加载器配置
type Config struct {
	Name      string         // 配置文件名称（不含扩展名）
	Paths     []string       // 配置文件搜索路径
	File      string         // 显式指定的配置文件，设置后忽略 Name/Paths 且文件必须存在
	FileType  string         // 配置文件类型 (yaml, json, etc.)
	EnvPrefix string         // 环境变量前缀
	Defaults  map[string]any // 默认值，同时让这些 key 可以被环境变量覆盖
	Logger    clog.Logger
}

// setDefaults 填充默认值
func (c *Config) setDefaults() {
	if c.Name == "" {
		c.Name = "config"
	}
	if c.Paths == nil {
		c.Paths = []string{".", "./config"}
	}
	if c.FileType == "" {
		c.FileType = "yaml"
	}
	if c.EnvPrefix == "" {
		c.EnvPrefix = "CENTERID"
	}
	c.EnvPrefix = strings.ToUpper(c.EnvPrefix)
	if c.Logger == nil {
		c.Logger = clog.Discard()
	}
}

// WithConfigName 设置配置文件名称（不带扩展名）
func WithConfigName(name string) Option {
	return func(c *Config) {
		c.Name = name
	}
}

// WithConfigPath 添加配置文件搜索路径
func WithConfigPath(path string) Option {
	return func(c *Config) {
		c.Paths = append(c.Paths, path)
	}
}

// WithConfigPaths 设置配置文件搜索路径（覆盖默认值）
func WithConfigPaths(paths ...string) Option {
	return func(c *Config) {
		c.Paths = paths
	}
}

// WithConfigFile 显式指定配置文件
func WithConfigFile(file string) Option {
	return func(c *Config) {
		c.File = file
	}
}

// WithConfigType 设置配置文件类型 (yaml, json, etc.)
func WithConfigType(typ string) Option {
	return func(c *Config) {
		c.FileType = typ
	}
}

// WithEnvPrefix 设置环境变量前缀
func WithEnvPrefix(prefix string) Option {
	return func(c *Config) {
		c.EnvPrefix = prefix
	}
}

// WithDefault 设置单个 key 的默认值
func WithDefault(key string, value any) Option {
	return func(c *Config) {
		if c.Defaults == nil {
			c.Defaults = make(map[string]any)
		}
		c.Defaults[key] = value
	}
}

// WithLogger 注入日志记录器，自动添加 "config" 命名空间
func WithLogger(logger clog.Logger) Option {
	return func(c *Config) {
		if logger != nil {
			c.Logger = logger.WithNamespace("config")
		}
	}
}

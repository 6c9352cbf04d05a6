// Package config 提供统一的配置加载能力，基于 Viper 实现。
//
// 配置优先级（高到低）：环境变量 > .env 文件 > 环境特定配置 > 基础配置 > 默认值。
//
// 基本使用：
//
//	loader := config.MustLoad(
//		config.WithConfigName("centerid"),
//		config.WithConfigPaths(".", "/etc/centerid"),
//		config.WithEnvPrefix("CENTERID"),
//	)
//
//	var cfg AppConfig
//	if err := loader.Unmarshal(&cfg); err != nil {
//		return err
//	}
//
// 环境变量按 "前缀_段_键" 映射，例如 CENTERID_DATABASE_DRIVER 覆盖 database.driver。
// 设置 CENTERID_ENV=prod 时会在基础配置之上合并 centerid.prod.yaml。
package config

import "context"

// Loader 定义配置加载器的核心行为
type Loader interface {
	// Load 从所有来源加载配置
	Load(ctx context.Context) error

	// Get 获取原始配置值
	Get(key string) any

	// Unmarshal 将整个配置反序列化到结构体
	Unmarshal(v any) error

	// UnmarshalKey 将指定 Key 的配置反序列化到结构体
	UnmarshalKey(key string, v any) error

	// Validate 验证当前配置的有效性
	Validate() error

	// ConfigFileUsed 返回实际读取的配置文件路径，未读取文件时为空
	ConfigFileUsed() string
}

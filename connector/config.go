package connector

import (
	"fmt"
	"strings"
	"time"

	"github.com/ceyewan/centerid/xerrors"
)

// GormConfig 三种数据库共享的连接池与 SQL 日志配置
type GormConfig struct {
	MaxIdleConns    int           `mapstructure:"max_idle_conns" yaml:"max_idle_conns"`       // 最大空闲连接数
	MaxOpenConns    int           `mapstructure:"max_open_conns" yaml:"max_open_conns"`       // 最大打开连接数
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" yaml:"conn_max_lifetime"` // 连接最大生命周期，0 表示不限

	LogLevel      string        `mapstructure:"log_level" yaml:"log_level"`           // SQL 日志级别：silent|error|warn|info (默认: warn)
	SlowThreshold time.Duration `mapstructure:"slow_threshold" yaml:"slow_threshold"` // 慢查询阈值 (默认: 200ms)
}

func (c *GormConfig) setDefaults(maxIdle, maxOpen int, lifetime time.Duration) {
	if c.MaxIdleConns == 0 {
		c.MaxIdleConns = maxIdle
	}
	if c.MaxOpenConns == 0 {
		c.MaxOpenConns = maxOpen
	}
	if c.ConnMaxLifetime == 0 {
		c.ConnMaxLifetime = lifetime
	}
	if c.LogLevel == "" {
		c.LogLevel = "warn"
	}
	if c.SlowThreshold == 0 {
		c.SlowThreshold = 200 * time.Millisecond
	}
}

func (c *GormConfig) validate() error {
	if c.MaxIdleConns < 0 || c.MaxOpenConns < 0 {
		return xerrors.Wrap(ErrConfig, "pool size must not be negative")
	}
	if _, err := parseGormLogLevel(c.LogLevel); err != nil {
		return err
	}
	return nil
}

// MySQLConfig MySQL 连接配置
type MySQLConfig struct {
	Name string `mapstructure:"name" yaml:"name"` // 连接器名称 (默认: "default")

	DSN      string `mapstructure:"dsn" yaml:"dsn"`           // 完整 DSN，提供时忽略 Host/Port 等字段
	Host     string `mapstructure:"host" yaml:"host"`         // [必填] 主机地址
	Port     int    `mapstructure:"port" yaml:"port"`         // 端口 (默认: 3306)
	Username string `mapstructure:"username" yaml:"username"` // [必填] 用户名
	Password string `mapstructure:"password" yaml:"password"`
	Database string `mapstructure:"database" yaml:"database"` // [必填] 数据库名
	Charset  string `mapstructure:"charset" yaml:"charset"`   // 字符集 (默认: "utf8mb4")

	GormConfig `mapstructure:",squash" yaml:",inline"`
}

func (c *MySQLConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "default"
	}
	if c.Port == 0 {
		c.Port = 3306
	}
	if c.Charset == "" {
		c.Charset = "utf8mb4"
	}
	c.GormConfig.setDefaults(10, 100, time.Hour)
}

func (c *MySQLConfig) validate() error {
	if c.DSN == "" {
		if c.Host == "" {
			return xerrors.Wrap(ErrConfig, "mysql host is required")
		}
		if c.Username == "" {
			return xerrors.Wrap(ErrConfig, "mysql username is required")
		}
		if c.Database == "" {
			return xerrors.Wrap(ErrConfig, "mysql database is required")
		}
		if c.Port <= 0 {
			return xerrors.Wrap(ErrConfig, "mysql port must be positive")
		}
	}
	return c.GormConfig.validate()
}

func (c *MySQLConfig) dsn() string {
	if c.DSN != "" {
		return c.DSN
	}
	return fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=True&loc=Local",
		c.Username, c.Password, c.Host, c.Port, c.Database, c.Charset)
}

// PostgreSQLConfig PostgreSQL 连接配置
type PostgreSQLConfig struct {
	Name string `mapstructure:"name" yaml:"name"`

	DSN      string `mapstructure:"dsn" yaml:"dsn"`
	Host     string `mapstructure:"host" yaml:"host"`
	Port     int    `mapstructure:"port" yaml:"port"` // 端口 (默认: 5432)
	Username string `mapstructure:"username" yaml:"username"`
	Password string `mapstructure:"password" yaml:"password"`
	Database string `mapstructure:"database" yaml:"database"`
	SSLMode  string `mapstructure:"ssl_mode" yaml:"ssl_mode"` // (默认: "disable")
	Timezone string `mapstructure:"timezone" yaml:"timezone"` // (默认: "UTC")

	GormConfig `mapstructure:",squash" yaml:",inline"`
}

func (c *PostgreSQLConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "default"
	}
	if c.Port == 0 {
		c.Port = 5432
	}
	if c.SSLMode == "" {
		c.SSLMode = "disable"
	}
	if c.Timezone == "" {
		c.Timezone = "UTC"
	}
	c.GormConfig.setDefaults(10, 100, time.Hour)
}

func (c *PostgreSQLConfig) validate() error {
	if c.DSN == "" {
		if c.Host == "" {
			return xerrors.Wrap(ErrConfig, "postgresql host is required")
		}
		if c.Username == "" {
			return xerrors.Wrap(ErrConfig, "postgresql username is required")
		}
		if c.Database == "" {
			return xerrors.Wrap(ErrConfig, "postgresql database is required")
		}
		if c.Port <= 0 {
			return xerrors.Wrap(ErrConfig, "postgresql port must be positive")
		}
	}
	return c.GormConfig.validate()
}

func (c *PostgreSQLConfig) dsn() string {
	if c.DSN != "" {
		return c.DSN
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s TimeZone=%s",
		c.Host, c.Port, c.Username, c.Password, c.Database, c.SSLMode, c.Timezone)
}

// SQLiteConfig SQLite 连接配置
//
// 内存数据库的全部数据保存在唯一的连接上，因此默认只保留一个连接且不过期。
type SQLiteConfig struct {
	Name string `mapstructure:"name" yaml:"name"`
	Path string `mapstructure:"path" yaml:"path"` // [必填] 文件路径或 "file:xxx?mode=memory&cache=shared"

	GormConfig `mapstructure:",squash" yaml:",inline"`
}

func (c *SQLiteConfig) setDefaults() {
	if c.Name == "" {
		c.Name = "default"
	}
	c.GormConfig.setDefaults(1, 1, 0)
}

func (c *SQLiteConfig) validate() error {
	if strings.TrimSpace(c.Path) == "" {
		return xerrors.Wrap(ErrConfig, "sqlite path is required")
	}
	return c.GormConfig.validate()
}

// DatabaseConfig 按 Driver 选择具体的数据库配置
//
//	database:
//	  driver: mysql
//	  mysql:
//	    host: 127.0.0.1
//	    username: root
//	    database: centerid
type DatabaseConfig struct {
	Driver     string            `mapstructure:"driver" yaml:"driver"` // mysql|postgresql|sqlite
	MySQL      *MySQLConfig      `mapstructure:"mysql" yaml:"mysql"`
	PostgreSQL *PostgreSQLConfig `mapstructure:"postgresql" yaml:"postgresql"`
	SQLite     *SQLiteConfig     `mapstructure:"sqlite" yaml:"sqlite"`
}

package idgen

import (
	"regexp"
	"time"

	"github.com/ceyewan/centerid/xerrors"
)

var prefixPattern = regexp.MustCompile(`^[A-Za-z0-9_]*$`)

// Config 生成器配置
//
//	idgen:
//	  table_prefix: "cid_"
//	  range: 1000000000
type Config struct {
	// TablePrefix 簿记表名前缀，只允许字母、数字和下划线
	TablePrefix string `mapstructure:"table_prefix" yaml:"table_prefix" json:"table_prefix"`

	// Range 每个中心的 ID 数量 (默认: DefaultRange)
	Range int64 `mapstructure:"range" yaml:"range" json:"range"`

	// CapacityCacheSize 字段容量缓存的最大条目数 (默认: 1024)
	CapacityCacheSize int `mapstructure:"capacity_cache_size" yaml:"capacity_cache_size" json:"capacity_cache_size"`

	// CapacityCacheTTL 字段容量缓存的过期时间 (默认: 10m)
	CapacityCacheTTL time.Duration `mapstructure:"capacity_cache_ttl" yaml:"capacity_cache_ttl" json:"capacity_cache_ttl"`
}

func (c *Config) setDefaults() {
	if c.Range == 0 {
		c.Range = DefaultRange
	}
	if c.CapacityCacheSize == 0 {
		c.CapacityCacheSize = 1024
	}
	if c.CapacityCacheTTL == 0 {
		c.CapacityCacheTTL = 10 * time.Minute
	}
}

func (c *Config) validate() error {
	if err := checkRange(c.Range); err != nil {
		return err
	}
	if !prefixPattern.MatchString(c.TablePrefix) {
		return xerrors.WithCode(ErrInvalidInput, "invalid_table_prefix")
	}
	if c.CapacityCacheSize < 0 || c.CapacityCacheTTL < 0 {
		return xerrors.WithCode(ErrInvalidInput, "invalid_capacity_cache")
	}
	return nil
}

// installationTable 安装记录表名
func (c *Config) installationTable() string {
	return c.TablePrefix + "installation"
}

// cursorTable 分配游标表名
func (c *Config) cursorTable() string {
	return c.TablePrefix + "allocation_cursor"
}

func (c *Config) cursorIndex() string {
	return c.TablePrefix + "allocation_cursor_key"
}

package connector

import (
	"strings"

	"github.com/ceyewan/centerid/xerrors"
)

// 支持的数据库驱动
const (
	DriverMySQL      = "mysql"
	DriverPostgreSQL = "postgresql"
	DriverSQLite     = "sqlite"
)

// NewDatabase 按 cfg.Driver 创建对应的数据库连接器
func NewDatabase(cfg *DatabaseConfig, opts ...Option) (DatabaseConnector, error) {
	if cfg == nil {
		return nil, xerrors.Wrap(ErrConfig, "database config is nil")
	}

	switch strings.ToLower(cfg.Driver) {
	case DriverMySQL:
		if cfg.MySQL == nil {
			return nil, xerrors.Wrap(ErrConfig, "database.mysql section is required")
		}
		return NewMySQL(cfg.MySQL, opts...)
	case DriverPostgreSQL, "postgres":
		if cfg.PostgreSQL == nil {
			return nil, xerrors.Wrap(ErrConfig, "database.postgresql section is required")
		}
		return NewPostgreSQL(cfg.PostgreSQL, opts...)
	case DriverSQLite:
		if cfg.SQLite == nil {
			return nil, xerrors.Wrap(ErrConfig, "database.sqlite section is required")
		}
		return NewSQLite(cfg.SQLite, opts...)
	default:
		return nil, xerrors.Wrapf(ErrConfig, "unsupported database driver %q", cfg.Driver)
	}
}

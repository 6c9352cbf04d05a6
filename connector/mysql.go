package connector

import (
	"github.com/ceyewan/centerid/xerrors"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type mysqlConnector struct {
	*gormConnector
}

// NewMySQL 创建 MySQL 连接器，实际连接在 Connect() 时建立
func NewMySQL(cfg *MySQLConfig, opts ...Option) (MySQLConnector, error) {
	if cfg == nil {
		return nil, xerrors.Wrap(ErrConfig, "mysql config is nil")
	}
	cfg.setDefaults()
	if err := cfg.validate(); err != nil {
		return nil, xerrors.Wrap(err, "invalid mysql config")
	}

	dsn := cfg.dsn()
	return &mysqlConnector{newGormConnector("mysql", "mysql", cfg.Name, cfg.GormConfig,
		func() gorm.Dialector { return mysql.Open(dsn) },
		applyOptions(opts),
	)}, nil
}

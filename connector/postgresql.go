package connector

import (
	"github.com/ceyewan/centerid/xerrors"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type postgresqlConnector struct {
	*gormConnector
}

// NewPostgreSQL 创建 PostgreSQL 连接器，实际连接在 Connect() 时建立
func NewPostgreSQL(cfg *PostgreSQLConfig, opts ...Option) (PostgreSQLConnector, error) {
	if cfg == nil {
		return nil, xerrors.Wrap(ErrConfig, "postgresql config is nil")
	}
	cfg.setDefaults()
	if err := cfg.validate(); err != nil {
		return nil, xerrors.Wrap(err, "invalid postgresql config")
	}

	dsn := cfg.dsn()
	return &postgresqlConnector{newGormConnector("postgresql", "postgres", cfg.Name, cfg.GormConfig,
		func() gorm.Dialector { return postgres.Open(dsn) },
		applyOptions(opts),
	)}, nil
}

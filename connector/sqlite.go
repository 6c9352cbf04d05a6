package connector

import (
	"github.com/ceyewan/centerid/xerrors"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

type sqliteConnector struct {
	*gormConnector
}

// NewSQLite 创建 SQLite 连接器，实际连接在 Connect() 时建立
func NewSQLite(cfg *SQLiteConfig, opts ...Option) (SQLiteConnector, error) {
	if cfg == nil {
		return nil, xerrors.Wrap(ErrConfig, "sqlite config is nil")
	}
	cfg.setDefaults()
	if err := cfg.validate(); err != nil {
		return nil, xerrors.Wrap(err, "invalid sqlite config")
	}

	path := cfg.Path
	return &sqliteConnector{newGormConnector("sqlite", "sqlite", cfg.Name, cfg.GormConfig,
		func() gorm.Dialector { return sqlite.Open(path) },
		applyOptions(opts),
	)}, nil
}

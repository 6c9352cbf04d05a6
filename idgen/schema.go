package idgen

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// EnsureSchema 创建缺失的簿记表
//
// 只创建不存在的表，不修改已有表结构。
func EnsureSchema(ctx context.Context, db *gorm.DB, cfg *Config) error {
	if db == nil {
		return ErrConnectorNil
	}
	if cfg == nil {
		return ErrConfigNil
	}
	cfg.setDefaults()
	if err := cfg.validate(); err != nil {
		return err
	}

	db = db.WithContext(ctx)
	migrator := db.Migrator()

	installTable := cfg.installationTable()
	if !migrator.HasTable(installTable) {
		if err := db.Table(installTable).Migrator().CreateTable(&installationRow{}); err != nil {
			return storageErr("create", installTable, err)
		}
	}

	cursorTable := cfg.cursorTable()
	if !migrator.HasTable(cursorTable) {
		err := db.Transaction(func(tx *gorm.DB) error {
			if err := tx.Table(cursorTable).Migrator().CreateTable(&cursorRow{}); err != nil {
				return err
			}
			return tx.Exec("CREATE UNIQUE INDEX ? ON ? (?, ?)",
				clause.Column{Name: cfg.cursorIndex()},
				clause.Table{Name: cursorTable},
				clause.Column{Name: "table_name"},
				clause.Column{Name: "where_clause"},
			).Error
		})
		if err != nil {
			return storageErr("create", cursorTable, err)
		}
	}
	return nil
}

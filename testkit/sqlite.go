package testkit

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ceyewan/centerid/connector"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewSQLiteConfig 返回 SQLite 内存数据库配置
//
// 每次调用使用不同的数据库名，测试之间互不可见。
func NewSQLiteConfig() *connector.SQLiteConfig {
	return &connector.SQLiteConfig{
		Name: "test-sqlite",
		Path: "file:" + NewID() + NewID() + "?mode=memory&cache=shared",
	}
}

// NewSQLiteConnector 获取 SQLite 连接器（内存数据库），生命周期由 t.Cleanup 管理
func NewSQLiteConnector(t *testing.T) connector.SQLiteConnector {
	return connectSQLite(t, NewSQLiteConfig())
}

// NewSQLiteDB 获取 GORM DB 实例（内存数据库）
func NewSQLiteDB(t *testing.T) *gorm.DB {
	return NewSQLiteConnector(t).GetClient()
}

// NewPersistentSQLiteConfig 返回文件 SQLite 配置，文件位于 t.TempDir()
func NewPersistentSQLiteConfig(t *testing.T) *connector.SQLiteConfig {
	return &connector.SQLiteConfig{
		Name: "test-sqlite-file",
		Path: filepath.Join(t.TempDir(), "test.db"),
	}
}

// NewPersistentSQLiteConnector 获取文件 SQLite 连接器
func NewPersistentSQLiteConnector(t *testing.T) connector.SQLiteConnector {
	return connectSQLite(t, NewPersistentSQLiteConfig(t))
}

func connectSQLite(t *testing.T, cfg *connector.SQLiteConfig) connector.SQLiteConnector {
	t.Helper()
	conn, err := connector.NewSQLite(cfg, connector.WithLogger(NewLogger()))
	require.NoError(t, err, "failed to create sqlite connector")

	require.NoError(t, conn.Connect(context.Background()), "failed to connect to sqlite")
	t.Cleanup(func() {
		_ = conn.Close()
	})
	return conn
}

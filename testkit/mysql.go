package testkit

import (
	"context"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mysql"
	"gorm.io/gorm"

	"github.com/ceyewan/centerid/connector"
)

// NewMySQLContainerConfig 使用 testcontainers 创建 MySQL 容器并返回配置
//
// 没有可用的容器环境时跳过测试；容器生命周期由 t.Cleanup 管理。
func NewMySQLContainerConfig(t *testing.T) *connector.MySQLConfig {
	testcontainers.SkipIfProviderIsNotHealthy(t)
	ctx := context.Background()

	container, err := mysql.Run(ctx,
		"mysql:8.0",
		mysql.WithDatabase("centerid_db"),
		mysql.WithUsername("centerid_user"),
		mysql.WithPassword("centerid_password"),
	)
	require.NoError(t, err, "failed to start MySQL container")
	t.Cleanup(func() {
		_ = container.Terminate(ctx)
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	mappedPort, err := container.MappedPort(ctx, "3306")
	require.NoError(t, err)
	port, err := strconv.Atoi(mappedPort.Port())
	require.NoError(t, err)

	return &connector.MySQLConfig{
		Name:     "testcontainer-mysql",
		Host:     host,
		Port:     port,
		Username: "centerid_user",
		Password: "centerid_password",
		Database: "centerid_db",
		GormConfig: connector.GormConfig{
			MaxIdleConns: 2,
			MaxOpenConns: 10,
		},
	}
}

// NewMySQLConnector 获取 MySQL 连接器（基于 testcontainers）
func NewMySQLConnector(t *testing.T) connector.MySQLConnector {
	cfg := NewMySQLContainerConfig(t)
	conn, err := connector.NewMySQL(cfg, connector.WithLogger(NewLogger()))
	require.NoError(t, err, "failed to create mysql connector")

	// 容器端口就绪后 MySQL 仍可能在初始化，重试直到连接成功
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()
	for {
		if err = conn.Connect(ctx); err == nil {
			break
		}
		select {
		case <-ctx.Done():
			require.NoError(t, err, "timeout waiting for mysql to be ready")
		case <-time.After(2 * time.Second):
		}
	}

	t.Cleanup(func() {
		_ = conn.Close()
	})
	return conn
}

// NewMySQLDB 获取 GORM DB 实例（基于 testcontainers）
func NewMySQLDB(t *testing.T) *gorm.DB {
	return NewMySQLConnector(t).GetClient()
}

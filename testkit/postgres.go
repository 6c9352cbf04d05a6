package testkit

import (
	"context"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"

	"github.com/ceyewan/centerid/connector"
)

// NewPostgreSQLContainerConfig 使用 testcontainers 创建 PostgreSQL 容器并返回配置
//
// 没有可用的容器环境时跳过测试；容器生命周期由 t.Cleanup 管理。
func NewPostgreSQLContainerConfig(t *testing.T) *connector.PostgreSQLConfig {
	testcontainers.SkipIfProviderIsNotHealthy(t)
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:17-alpine",
		postgres.WithDatabase("centerid_db"),
		postgres.WithUsername("centerid_user"),
		postgres.WithPassword("centerid_password"),
		postgres.BasicWaitStrategies(),
	)
	require.NoError(t, err, "failed to start PostgreSQL container")
	t.Cleanup(func() {
		_ = container.Terminate(ctx)
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	mappedPort, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)
	port, err := strconv.Atoi(mappedPort.Port())
	require.NoError(t, err)

	return &connector.PostgreSQLConfig{
		Name:     "testcontainer-postgresql",
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

// NewPostgreSQLConnector 获取 PostgreSQL 连接器（基于 testcontainers）
func NewPostgreSQLConnector(t *testing.T) connector.PostgreSQLConnector {
	cfg := NewPostgreSQLContainerConfig(t)
	conn, err := connector.NewPostgreSQL(cfg, connector.WithLogger(NewLogger()))
	require.NoError(t, err, "failed to create postgresql connector")

	require.NoError(t, conn.Connect(context.Background()), "failed to connect to postgresql")
	t.Cleanup(func() {
		_ = conn.Close()
	})
	return conn
}

// NewPostgreSQLDB 获取 GORM DB 实例（基于 testcontainers）
func NewPostgreSQLDB(t *testing.T) *gorm.DB {
	return NewPostgreSQLConnector(t).GetClient()
}

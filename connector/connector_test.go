package connector

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ceyewan/centerid/clog"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func memoryPath() string {
	return "file:" + uuid.NewString() + "?mode=memory&cache=shared"
}

func TestConfigDefaults(t *testing.T) {
	my := &MySQLConfig{Host: "127.0.0.1", Username: "root", Database: "centerid"}
	my.setDefaults()
	require.NoError(t, my.validate())
	assert.Equal(t, "default", my.Name)
	assert.Equal(t, 3306, my.Port)
	assert.Equal(t, "utf8mb4", my.Charset)
	assert.Equal(t, 100, my.MaxOpenConns)
	assert.Equal(t, "warn", my.LogLevel)
	assert.Equal(t, "root:@tcp(127.0.0.1:3306)/centerid?charset=utf8mb4&parseTime=True&loc=Local", my.dsn())

	pg := &PostgreSQLConfig{Host: "db", Username: "u", Password: "p", Database: "d"}
	pg.setDefaults()
	require.NoError(t, pg.validate())
	assert.Equal(t, 5432, pg.Port)
	assert.Equal(t, "host=db port=5432 user=u password=p dbname=d sslmode=disable TimeZone=UTC", pg.dsn())

	lite := &SQLiteConfig{Path: "test.db"}
	lite.setDefaults()
	require.NoError(t, lite.validate())
	assert.Equal(t, 1, lite.MaxOpenConns)
	assert.Equal(t, time.Duration(0), lite.ConnMaxLifetime)
}

func TestConfigValidation(t *testing.T) {
	tests := []struct {
		name string
		fn   func() error
	}{
		{"mysql 缺少 host", func() error { _, err := NewMySQL(&MySQLConfig{Username: "u", Database: "d"}); return err }},
		{"mysql nil 配置", func() error { _, err := NewMySQL(nil); return err }},
		{"postgresql 缺少数据库", func() error { _, err := NewPostgreSQL(&PostgreSQLConfig{Host: "h", Username: "u"}); return err }},
		{"sqlite 缺少路径", func() error { _, err := NewSQLite(&SQLiteConfig{}); return err }},
		{"sqlite 非法日志级别", func() error {
			_, err := NewSQLite(&SQLiteConfig{Path: "x.db", GormConfig: GormConfig{LogLevel: "loud"}})
			return err
		}},
		{"未知驱动", func() error { _, err := NewDatabase(&DatabaseConfig{Driver: "oracle"}); return err }},
		{"驱动缺少配置段", func() error { _, err := NewDatabase(&DatabaseConfig{Driver: "mysql"}); return err }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.fn()
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConfig)
		})
	}
}

func TestMySQLDSNOverride(t *testing.T) {
	conn, err := NewMySQL(&MySQLConfig{DSN: "root:pw@tcp(localhost:3306)/x"})
	require.NoError(t, err)
	assert.Equal(t, "mysql", conn.Dialect())
	assert.Nil(t, conn.GetClient())
}

func TestSQLiteLifecycle(t *testing.T) {
	ctx := context.Background()
	conn, err := NewDatabase(&DatabaseConfig{
		Driver: DriverSQLite,
		SQLite: &SQLiteConfig{Name: "lifecycle", Path: memoryPath()},
	})
	require.NoError(t, err)
	assert.Equal(t, "lifecycle", conn.Name())
	assert.Equal(t, "sqlite", conn.Dialect())

	// 连接前
	assert.Nil(t, conn.GetClient())
	assert.ErrorIs(t, conn.HealthCheck(ctx), ErrClientNil)
	assert.False(t, conn.IsHealthy())

	require.NoError(t, conn.Connect(ctx))
	db := conn.GetClient()
	require.NotNil(t, db)
	require.NoError(t, conn.Connect(ctx), "Connect 应当幂等")
	assert.Same(t, db, conn.GetClient())

	require.NoError(t, conn.HealthCheck(ctx))
	assert.True(t, conn.IsHealthy())

	var one int
	require.NoError(t, db.Raw("SELECT 1").Scan(&one).Error)
	assert.Equal(t, 1, one)

	require.NoError(t, conn.Close())
	require.NoError(t, conn.Close(), "Close 应当幂等")
	assert.Nil(t, conn.GetClient())
	assert.False(t, conn.IsHealthy())
}

func TestGormLoggerBridgesToClog(t *testing.T) {
	ctx := context.Background()
	logFile := filepath.Join(t.TempDir(), "sql.log")
	logger, err := clog.New(&clog.Config{Level: "debug", Format: "json", Output: logFile})
	require.NoError(t, err)

	conn, err := NewSQLite(&SQLiteConfig{
		Path:       memoryPath(),
		GormConfig: GormConfig{LogLevel: "info"},
	}, WithLogger(logger))
	require.NoError(t, err)
	require.NoError(t, conn.Connect(ctx))
	defer conn.Close()

	require.NoError(t, conn.GetClient().Exec("CREATE TABLE probe (id INTEGER)").Error)
	require.Error(t, conn.GetClient().Exec("SELECT * FROM missing_table").Error)
	logger.Flush()

	raw, err := os.ReadFile(logFile)
	require.NoError(t, err)
	out := string(raw)
	assert.Contains(t, out, "CREATE TABLE probe")
	assert.Contains(t, out, `"msg":"sql error"`)
	assert.Contains(t, out, `"namespace":"connector.gorm"`)
	assert.True(t, strings.Contains(out, `"connector":"sqlite"`))
}

func TestParseGormLogLevel(t *testing.T) {
	for _, s := range []string{"silent", "error", "warn", "info", "", "INFO"} {
		_, err := parseGormLogLevel(s)
		assert.NoError(t, err, s)
	}
	_, err := parseGormLogLevel("verbose")
	assert.ErrorIs(t, err, ErrConfig)
}

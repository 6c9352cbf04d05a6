package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseYAML = `
database:
  driver: sqlite
  sqlite:
    path: centerid.db
idgen:
  table_prefix: "cid_"
  range: 1000
`

type appConfig struct {
	Database struct {
		Driver string `mapstructure:"driver"`
		SQLite struct {
			Path string `mapstructure:"path"`
		} `mapstructure:"sqlite"`
	} `mapstructure:"database"`
	IDGen struct {
		TablePrefix string `mapstructure:"table_prefix"`
		Range       int64  `mapstructure:"range"`
	} `mapstructure:"idgen"`
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadFromSearchPath(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "centerid.yaml", baseYAML)

	loader, err := New(WithConfigName("centerid"), WithConfigPaths(dir), WithEnvPrefix("CIDTEST1"))
	require.NoError(t, err)
	require.NoError(t, loader.Load(context.Background()))

	assert.Equal(t, filepath.Join(dir, "centerid.yaml"), loader.ConfigFileUsed())
	assert.Equal(t, "sqlite", loader.Get("database.driver"))

	var cfg appConfig
	require.NoError(t, loader.Unmarshal(&cfg))
	assert.Equal(t, "centerid.db", cfg.Database.SQLite.Path)
	assert.Equal(t, int64(1000), cfg.IDGen.Range)

	var idgen struct {
		TablePrefix string `mapstructure:"table_prefix"`
	}
	require.NoError(t, loader.UnmarshalKey("idgen", &idgen))
	assert.Equal(t, "cid_", idgen.TablePrefix)
}

func TestEnvironmentOverrides(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "centerid.yaml", baseYAML)
	writeFile(t, dir, "centerid.prod.yaml", "idgen:\n  range: 5000\n")

	t.Setenv("CIDTEST2_ENV", "prod")
	t.Setenv("CIDTEST2_DATABASE_DRIVER", "mysql")

	loader, err := New(WithConfigFile(file), WithEnvPrefix("cidtest2"))
	require.NoError(t, err)
	require.NoError(t, loader.Load(context.Background()))

	var cfg appConfig
	require.NoError(t, loader.Unmarshal(&cfg))
	assert.Equal(t, "mysql", cfg.Database.Driver, "环境变量优先级最高")
	assert.Equal(t, int64(5000), cfg.IDGen.Range, "环境特定配置覆盖基础配置")
	assert.Equal(t, "cid_", cfg.IDGen.TablePrefix)
}

func TestDotEnv(t *testing.T) {
	dir := t.TempDir()
	file := writeFile(t, dir, "centerid.yaml", baseYAML)
	writeFile(t, dir, ".env", "CIDTEST3_IDGEN_TABLE_PREFIX=dotenv_\n")
	t.Cleanup(func() { os.Unsetenv("CIDTEST3_IDGEN_TABLE_PREFIX") })

	loader, err := New(WithConfigFile(file), WithEnvPrefix("CIDTEST3"))
	require.NoError(t, err)
	require.NoError(t, loader.Load(context.Background()))

	assert.Equal(t, "dotenv_", loader.Get("idgen.table_prefix"))
}

func TestDefaultsWithoutFile(t *testing.T) {
	t.Setenv("CIDTEST4_DATABASE_SQLITE_PATH", "/tmp/override.db")

	loader, err := New(
		WithConfigName("does-not-exist"),
		WithConfigPaths(t.TempDir()),
		WithEnvPrefix("CIDTEST4"),
		WithDefault("database.driver", "sqlite"),
		WithDefault("database.sqlite.path", "centerid.db"),
	)
	require.NoError(t, err)
	require.NoError(t, loader.Load(context.Background()))
	assert.Empty(t, loader.ConfigFileUsed())

	var cfg appConfig
	require.NoError(t, loader.Unmarshal(&cfg))
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "/tmp/override.db", cfg.Database.SQLite.Path)
}

func TestLoadErrors(t *testing.T) {
	t.Run("显式文件不存在", func(t *testing.T) {
		loader, err := New(WithConfigFile(filepath.Join(t.TempDir(), "missing.yaml")))
		require.NoError(t, err)
		err = loader.Load(context.Background())
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
	})

	t.Run("文件格式错误", func(t *testing.T) {
		file := writeFile(t, t.TempDir(), "broken.yaml", "database: [unterminated\n")
		loader, err := New(WithConfigFile(file))
		require.NoError(t, err)
		err = loader.Load(context.Background())
		require.Error(t, err)
		assert.True(t, IsInvalidInput(err))
	})

	t.Run("配置为空", func(t *testing.T) {
		loader, err := New(WithConfigName("none"), WithConfigPaths(t.TempDir()), WithEnvPrefix("CIDTEST5"))
		require.NoError(t, err)
		err = loader.Load(context.Background())
		assert.ErrorIs(t, err, ErrValidationFailed)
		assert.True(t, IsInvalidInput(err))
	})
}

func TestMustLoadPanics(t *testing.T) {
	assert.Panics(t, func() {
		MustLoad(WithConfigFile("/nonexistent/centerid.yaml"))
	})
}

func TestOptionsApply(t *testing.T) {
	cfg := &Config{}
	WithConfigName("centerid")(cfg)
	WithConfigPath("/etc/centerid")(cfg)
	WithConfigType("json")(cfg)
	WithEnvPrefix("app")(cfg)
	cfg.setDefaults()

	assert.Equal(t, "centerid", cfg.Name)
	assert.Equal(t, []string{"/etc/centerid"}, cfg.Paths)
	assert.Equal(t, "json", cfg.FileType)
	assert.Equal(t, "APP", cfg.EnvPrefix)
	assert.NotNil(t, cfg.Logger)
}

package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"github.com/ceyewan/centerid/clog"
	"github.com/ceyewan/centerid/xerrors"
)

// New 创建配置加载器，需要调用 Load 之后才能读取配置
func New(opts ...Option) (Loader, error) {
	cfg := &Config{}
	for _, o := range opts {
		o(cfg)
	}
	cfg.setDefaults()
	return &loader{v: viper.New(), cfg: cfg, logger: cfg.Logger}, nil
}

// MustLoad 创建并加载配置，失败时 panic。仅用于程序初始化。
func MustLoad(opts ...Option) Loader {
	l, err := New(opts...)
	if err != nil {
		panic(err)
	}
	if err := l.Load(context.Background()); err != nil {
		panic(err)
	}
	return l
}

// loader 实现 Loader 接口
type loader struct {
	v      *viper.Viper
	cfg    *Config
	logger clog.Logger
}

// Load 按优先级从低到高装配所有来源
func (l *loader) Load(ctx context.Context) error {
	for key, value := range l.cfg.Defaults {
		l.v.SetDefault(key, value)
	}

	l.v.SetEnvPrefix(l.cfg.EnvPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	l.v.AutomaticEnv()

	l.loadDotEnv()

	if err := l.readBaseConfig(); err != nil {
		return err
	}
	if err := l.mergeEnvironmentConfig(); err != nil {
		return err
	}

	return l.Validate()
}

func (l *loader) readBaseConfig() error {
	if l.cfg.File != "" {
		l.v.SetConfigFile(l.cfg.File)
		if err := l.v.ReadInConfig(); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return xerrors.Wrapf(xerrors.ErrNotFound, "config file %s", l.cfg.File)
			}
			return xerrors.Wrapf(xerrors.ErrInvalidInput, "read config file %s: %v", l.cfg.File, err)
		}
		l.logger.Debug("loaded config file", clog.String("file", l.v.ConfigFileUsed()))
		return nil
	}

	l.v.SetConfigName(l.cfg.Name)
	l.v.SetConfigType(l.cfg.FileType)
	for _, path := range l.cfg.Paths {
		l.v.AddConfigPath(path)
	}
	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return xerrors.Wrapf(xerrors.ErrInvalidInput, "read config %s: %v", l.cfg.Name, err)
		}
		l.logger.Debug("no configuration file found", clog.String("name", l.cfg.Name))
		return nil
	}
	l.logger.Debug("loaded config file", clog.String("file", l.v.ConfigFileUsed()))
	return nil
}

// loadDotEnv 加载工作目录与搜索路径下的 .env，已存在的环境变量不会被覆盖
func (l *loader) loadDotEnv() {
	candidates := []string{".env"}
	for _, path := range l.cfg.Paths {
		candidates = append(candidates, filepath.Join(path, ".env"))
	}
	if l.cfg.File != "" {
		candidates = append(candidates, filepath.Join(filepath.Dir(l.cfg.File), ".env"))
	}

	seen := make(map[string]bool, len(candidates))
	for _, file := range candidates {
		file = filepath.Clean(file)
		if seen[file] {
			continue
		}
		seen[file] = true
		if _, err := os.Stat(file); err != nil {
			continue
		}
		if err := godotenv.Load(file); err != nil {
			l.logger.Warn("failed to load .env file", clog.String("file", file), clog.Error(err))
			continue
		}
		l.logger.Debug("loaded .env file", clog.String("file", file))
	}
}

// mergeEnvironmentConfig 合并 <name>.<env>.<type>，env 取自 <PREFIX>_ENV
func (l *loader) mergeEnvironmentConfig() error {
	env := os.Getenv(fmt.Sprintf("%s_ENV", l.cfg.EnvPrefix))
	if env == "" {
		return nil
	}

	var file string
	if l.cfg.File != "" {
		ext := filepath.Ext(l.cfg.File)
		file = strings.TrimSuffix(l.cfg.File, ext) + "." + env + ext
	} else {
		for _, path := range l.cfg.Paths {
			candidate := filepath.Join(path, fmt.Sprintf("%s.%s.%s", l.cfg.Name, env, l.cfg.FileType))
			if _, err := os.Stat(candidate); err == nil {
				file = candidate
				break
			}
		}
	}
	if file == "" {
		l.logger.Debug("no environment configuration file found", clog.String("env", env))
		return nil
	}

	f, err := os.Open(file)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.logger.Debug("no environment configuration file found", clog.String("env", env))
			return nil
		}
		return xerrors.Wrapf(err, "open environment config %s", file)
	}
	defer f.Close()

	if ext := strings.TrimPrefix(filepath.Ext(file), "."); ext != "" {
		l.v.SetConfigType(ext)
	}
	if err := l.v.MergeConfig(f); err != nil {
		return xerrors.Wrapf(xerrors.ErrInvalidInput, "merge environment config %s: %v", file, err)
	}
	l.logger.Info("loaded environment configuration", clog.String("env", env), clog.String("file", file))
	return nil
}

func (l *loader) Get(key string) any {
	return l.v.Get(key)
}

func (l *loader) Unmarshal(v any) error {
	if err := l.v.Unmarshal(v); err != nil {
		return xerrors.Wrapf(xerrors.ErrInvalidInput, "unmarshal config: %v", err)
	}
	return nil
}

func (l *loader) UnmarshalKey(key string, v any) error {
	if err := l.v.UnmarshalKey(key, v); err != nil {
		return xerrors.Wrapf(xerrors.ErrInvalidInput, "unmarshal config key %s: %v", key, err)
	}
	return nil
}

// Validate 配置为空时返回 ErrValidationFailed
func (l *loader) Validate() error {
	if len(l.v.AllSettings()) == 0 {
		return xerrors.Wrap(ErrValidationFailed, "configuration is empty")
	}
	return nil
}

func (l *loader) ConfigFileUsed() string {
	return l.v.ConfigFileUsed()
}

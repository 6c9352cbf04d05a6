package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/ceyewan/centerid/clog"
	"github.com/ceyewan/centerid/config"
	"github.com/ceyewan/centerid/connector"
	"github.com/ceyewan/centerid/idgen"
	"github.com/ceyewan/centerid/metrics"
	"github.com/ceyewan/centerid/xerrors"
)

// appConfig 命令行读取的完整配置
type appConfig struct {
	Log      clog.Config              `mapstructure:"log" yaml:"log"`
	Database connector.DatabaseConfig `mapstructure:"database" yaml:"database"`
	IDGen    idgen.Config             `mapstructure:"idgen" yaml:"idgen"`
	Metrics  metrics.Config           `mapstructure:"metrics" yaml:"metrics"`
}

// defaults 同时声明了可以被 CENTERID_* 环境变量覆盖的 key
var defaults = map[string]any{
	"log.level":            "info",
	"log.format":           "console",
	"log.output":           "stderr",
	"database.driver":      connector.DriverSQLite,
	"database.sqlite.path": "centerid.db",
	"idgen.table_prefix":   "",
	"idgen.range":          idgen.DefaultRange,
	"metrics.enabled":      false,
	"metrics.service_name": "centerid",
	"metrics.port":         0,
}

// app 单次命令执行期间共享的依赖
type app struct {
	configFile string

	cfg    *appConfig
	logger clog.Logger
	meter  metrics.Meter
	conn   connector.DatabaseConnector
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "centerid",
		Short:         "center-partitioned id generator",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.load(cmd.Context())
		},
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			return a.close(cmd.Context())
		},
	}
	root.PersistentFlags().StringVarP(&a.configFile, "config", "c", "", "config file (default: ./centerid.yaml if present)")

	root.AddCommand(
		newInitCmd(a),
		newInfoCmd(a),
		newNextCmd(a),
		newLinearCmd(a),
		newCapacityCmd(a),
		newDecodeCmd(a),
	)
	return root
}

// load 读取配置并创建 Logger 与 Meter，数据库在首次使用时才连接
func (a *app) load(ctx context.Context) error {
	opts := []config.Option{
		config.WithConfigName("centerid"),
		config.WithConfigPaths(".", "/etc/centerid"),
		config.WithEnvPrefix("CENTERID"),
	}
	if a.configFile != "" {
		opts = append(opts, config.WithConfigFile(a.configFile))
	}
	for k, v := range defaults {
		opts = append(opts, config.WithDefault(k, v))
	}

	loader, err := config.New(opts...)
	if err != nil {
		return err
	}
	if err := loader.Load(ctx); err != nil {
		return err
	}

	cfg := &appConfig{}
	if err := loader.Unmarshal(cfg); err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := clog.New(&cfg.Log, clog.WithNamespace("centerid"))
	if err != nil {
		return err
	}
	a.logger = logger

	meter, err := metrics.New(&cfg.Metrics, metrics.WithLogger(logger))
	if err != nil {
		return err
	}
	a.meter = meter

	if used := loader.ConfigFileUsed(); used != "" {
		logger.Debug("config loaded", clog.String("file", used))
	}
	return nil
}

// database 连接配置中的数据库
func (a *app) database(ctx context.Context) (connector.DatabaseConnector, error) {
	if a.conn != nil {
		return a.conn, nil
	}
	conn, err := connector.NewDatabase(&a.cfg.Database, connector.WithLogger(a.logger))
	if err != nil {
		return nil, err
	}
	if err := conn.Connect(ctx); err != nil {
		return nil, err
	}
	a.conn = conn
	return conn, nil
}

// generator 连接数据库并初始化生成器
func (a *app) generator(ctx context.Context) (*idgen.Relational, error) {
	conn, err := a.database(ctx)
	if err != nil {
		return nil, err
	}
	return idgen.NewRelational(ctx, conn, &a.cfg.IDGen,
		idgen.WithLogger(a.logger),
		idgen.WithMeter(a.meter))
}

func (a *app) close(ctx context.Context) error {
	var errs []error
	if a.conn != nil {
		errs = append(errs, a.conn.Close())
		a.conn = nil
	}
	if a.meter != nil {
		errs = append(errs, a.meter.Shutdown(ctx))
	}
	if a.logger != nil {
		a.logger.Flush()
	}
	return xerrors.Combine(errs...)
}

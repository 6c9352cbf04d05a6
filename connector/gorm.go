package connector

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/ceyewan/centerid/clog"
	"github.com/ceyewan/centerid/xerrors"
	"gorm.io/gorm"
)

// gormConnector 是三种数据库连接器的公共实现，差异只在方言构造
type gormConnector struct {
	kind      string
	name      string
	dialect   string
	dialector func() gorm.Dialector
	pool      GormConfig
	logger    clog.Logger

	mu      sync.RWMutex
	db      *gorm.DB
	healthy atomic.Bool
}

func newGormConnector(kind, dialect, name string, pool GormConfig, dialector func() gorm.Dialector, o *options) *gormConnector {
	return &gormConnector{
		kind:      kind,
		name:      name,
		dialect:   dialect,
		dialector: dialector,
		pool:      pool,
		logger:    o.logger.With(clog.String("connector", kind), clog.String("name", name)),
	}
}

// Connect 建立连接，已连接时直接返回
func (c *gormConnector) Connect(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.db != nil {
		return nil
	}

	c.logger.Info("attempting to connect")

	db, err := gorm.Open(c.dialector(), &gorm.Config{
		Logger: newGormLogger(c.logger, c.pool),
	})
	if err != nil {
		c.logger.Error("failed to open connection", clog.Error(err))
		return xerrors.Wrapf(ErrConnection, "%s connector[%s]: %v", c.kind, c.name, err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		c.logger.Error("failed to get db instance", clog.Error(err))
		return xerrors.Wrapf(ErrConnection, "%s connector[%s]: failed to get db instance: %v", c.kind, c.name, err)
	}

	sqlDB.SetMaxIdleConns(c.pool.MaxIdleConns)
	sqlDB.SetMaxOpenConns(c.pool.MaxOpenConns)
	sqlDB.SetConnMaxLifetime(c.pool.ConnMaxLifetime)

	if err := sqlDB.PingContext(ctx); err != nil {
		_ = sqlDB.Close()
		c.logger.Error("failed to ping", clog.Error(err))
		return xerrors.Wrapf(ErrConnection, "%s connector[%s]: ping failed: %v", c.kind, c.name, err)
	}

	c.db = db
	c.healthy.Store(true)
	c.logger.Info("successfully connected")
	return nil
}

// Close 关闭连接，未连接时直接返回
func (c *gormConnector) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.healthy.Store(false)
	if c.db == nil {
		return nil
	}

	sqlDB, err := c.db.DB()
	if err != nil {
		c.logger.Error("failed to get db instance for closing", clog.Error(err))
		return err
	}
	if err := sqlDB.Close(); err != nil {
		c.logger.Error("failed to close connection", clog.Error(err))
		return err
	}

	c.db = nil
	c.logger.Info("connection closed")
	return nil
}

func (c *gormConnector) HealthCheck(ctx context.Context) error {
	db := c.GetClient()
	if db == nil {
		c.healthy.Store(false)
		return xerrors.Wrapf(ErrClientNil, "%s connector[%s]", c.kind, c.name)
	}

	sqlDB, err := db.DB()
	if err != nil {
		c.healthy.Store(false)
		return xerrors.Wrapf(ErrHealthCheck, "%s connector[%s]: %v", c.kind, c.name, err)
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		c.healthy.Store(false)
		c.logger.Warn("health check failed", clog.Error(err))
		return xerrors.Wrapf(ErrHealthCheck, "%s connector[%s]: %v", c.kind, c.name, err)
	}

	c.healthy.Store(true)
	return nil
}

func (c *gormConnector) IsHealthy() bool {
	return c.healthy.Load()
}

func (c *gormConnector) Name() string {
	return c.name
}

func (c *gormConnector) Dialect() string {
	return c.dialect
}

func (c *gormConnector) GetClient() *gorm.DB {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.db
}

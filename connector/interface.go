// Package connector 提供数据库连接管理能力，统一封装 MySQL、PostgreSQL 与 SQLite。
//
// 核心约定：
//   - NewXXX() 只校验配置，Connect() 时才建立连接，Connect() 可重复调用
//   - Connector 拥有底层连接的生命周期，谁创建谁负责 Close()
//   - 组件（如 idgen）仅借用 Connector，不调用 Close()
//
// 基本使用：
//
//	conn, err := connector.NewMySQL(&connector.MySQLConfig{
//		Host:     "127.0.0.1",
//		Username: "root",
//		Database: "centerid",
//	}, connector.WithLogger(logger))
//	if err != nil {
//		return err
//	}
//	defer conn.Close()
//
//	if err := conn.Connect(ctx); err != nil {
//		return err
//	}
//	db := conn.GetClient()
package connector

import (
	"context"

	"gorm.io/gorm"
)

// Connector 定义所有连接器的通用行为，方法均为并发安全。
type Connector interface {
	// Connect 建立连接，幂等。
	Connect(ctx context.Context) error

	// Close 关闭连接并释放资源，幂等。关闭后 GetClient() 返回 nil。
	Close() error

	// HealthCheck 发送测试请求检查连接，并更新 IsHealthy() 的缓存状态。
	//
	// 返回错误：
	//   - ErrClientNil: 未连接或已关闭
	//   - ErrHealthCheck: 检查失败
	HealthCheck(ctx context.Context) error

	// IsHealthy 返回最后一次检查的结果，不阻塞。
	IsHealthy() bool

	// Name 返回连接实例名称，用于日志标识。
	Name() string
}

// TypedConnector 提供类型安全的客户端访问。
type TypedConnector[T any] interface {
	Connector

	// GetClient 返回底层客户端，Connect() 之前或 Close() 之后返回零值。
	GetClient() T
}

// DatabaseConnector 基于 GORM 的关系型数据库连接器。
type DatabaseConnector interface {
	TypedConnector[*gorm.DB]

	// Dialect 返回方言名称：mysql、postgres 或 sqlite
	Dialect() string
}

// MySQLConnector MySQL 连接器。
type MySQLConnector interface {
	DatabaseConnector
}

// PostgreSQLConnector PostgreSQL 连接器。
type PostgreSQLConnector interface {
	DatabaseConnector
}

// SQLiteConnector SQLite 连接器，支持内存数据库和文件数据库。
type SQLiteConnector interface {
	DatabaseConnector
}

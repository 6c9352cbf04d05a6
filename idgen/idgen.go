// Package idgen 提供按中心分区的全局唯一 ID 生成器。
//
// 多个独立运行、偶尔同步数据的安装实例（中心）各自拥有互不相交的数值区间，
// 首次启动时随机抽取中心 ID，之后在各自区间内为每张表分配紧凑递增的 ID，
// 无需任何协调服务即可保证全局唯一。
//
// 基本使用：
//
//	gen, err := idgen.NewRelational(ctx, conn, &idgen.Config{TablePrefix: "cid_"},
//	    idgen.WithLogger(logger), idgen.WithMeter(meter))
//	if err != nil {
//	    return err
//	}
//
//	id, err := gen.NextID(ctx, "orders", "id")
//	// 在同一事务中使用 id 插入记录
//
// 同一张物理表上的多个逻辑序列通过 WithWhere 区分，
// 业务表不在簿记库中时通过 WithConn/WithPrefix 指定外部连接。
package idgen

import (
	"context"
	"time"

	"gorm.io/gorm"
)

// Generator 中心分区 ID 生成器
type Generator interface {
	// CenterID 返回本中心的 ID
	CenterID() int64

	// IsFreshInstall 仅在本次启动执行了初始化时返回 true
	IsFreshInstall() bool

	// InstallTimestamp 返回初始化时间，未初始化时返回 ErrNotInstalled
	InstallTimestamp() (time.Time, error)

	// NextID 为 table.column 分配本中心区间内的下一个可用 ID
	//
	// 返回错误：
	//   - ErrStorage: 数据库访问失败
	//   - ErrRangeExhausted: 区间已满或碎片化到无法使用
	//   - ErrInvalidInput: 表名或列名为空
	NextID(ctx context.Context, table, column string, opts ...NextOption) (int64, error)

	// FieldCapacity 返回字段可存储的最大长度，失败时返回 ErrMetadata
	FieldCapacity(ctx context.Context, table, field string) (int, error)
}

// NextOption NextID 的可选参数
type NextOption func(*nextOptions)

type nextOptions struct {
	conn   *gorm.DB
	prefix string
	where  *string
}

// WithConn 业务表位于簿记库之外时，指定查询已有 ID 的外部连接
//
// 外部连接只用于读取，生成器不会关闭它；游标仍记录在簿记库中。
func WithConn(db *gorm.DB) NextOption {
	return func(o *nextOptions) {
		o.conn = db
	}
}

// WithPrefix 外部库的表名前缀，查询已有 ID 时拼接在表名之前
func WithPrefix(prefix string) NextOption {
	return func(o *nextOptions) {
		o.prefix = prefix
	}
}

// WithWhere 限定逻辑序列的过滤条件，不同条件（包括不设置）各自维护独立游标
func WithWhere(where string) NextOption {
	return func(o *nextOptions) {
		o.where = &where
	}
}

func applyNextOptions(opts []NextOption) *nextOptions {
	o := &nextOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// dataTable 返回查询已有 ID 时使用的表名
func (o *nextOptions) dataTable(table string) string {
	return o.prefix + table
}

package idgen

import (
	"fmt"

	"github.com/ceyewan/centerid/xerrors"
)

var (
	// ErrStorage 底层数据库访问失败
	ErrStorage = xerrors.New("idgen: storage error")

	// ErrRangeExhausted 本中心区间内没有可用的 ID
	ErrRangeExhausted = xerrors.New("idgen: range exhausted")

	// ErrNotInstalled 尚未完成初始化
	ErrNotInstalled = xerrors.New("idgen: not installed")

	// ErrMetadata 表或字段元数据不可用
	ErrMetadata = xerrors.New("idgen: metadata unavailable")

	// ErrInvalidInput 无效的输入
	ErrInvalidInput = xerrors.New("idgen: invalid input")

	// ErrConnectorNil 连接器为空或未连接
	ErrConnectorNil = xerrors.New("idgen: connector is nil")

	// ErrConfigNil 配置为空
	ErrConfigNil = xerrors.New("idgen: config is nil")
)

// storageErr 包装数据库错误，附带操作与表名
func storageErr(op, table string, err error) error {
	return fmt.Errorf("%w: %s %s: %w", ErrStorage, op, table, err)
}

// metadataErr 附带表名与字段名的元数据错误
func metadataErr(code, table, field string) error {
	return xerrors.Wrapf(xerrors.WithCode(ErrMetadata, code), "%s.%s", table, field)
}

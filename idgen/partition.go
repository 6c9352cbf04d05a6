package idgen

import (
	"math"

	"github.com/ceyewan/centerid/xerrors"
)

// DefaultRange 每个中心分配的 ID 数量
//
// 所有需要交换数据的中心必须使用相同的值，已有数据后不可修改。
const DefaultRange int64 = 1_000_000_000

// Partition 中心 ID 与数值区间之间的映射
//
// 中心 c 拥有 [c*Range, (c+1)*Range) 区间内的全部 ID。
type Partition struct {
	Range int64
}

// MaxRange Range 的上限，保证最后一个中心的 MaxID 不溢出 int64
const MaxRange int64 = 3_037_000_499

// checkRange 校验 Range，中心从 [0, Range) 中抽取，因此 Range*Range 必须在 int64 之内
func checkRange(rng int64) error {
	if rng <= 0 {
		return xerrors.WithCode(ErrInvalidInput, "range_must_be_positive")
	}
	if rng > math.MaxInt64/rng {
		return xerrors.WithCode(ErrInvalidInput, "range_too_large")
	}
	return nil
}

// checkCenter 校验中心 ID 落在 [0, Range) 内
func (p Partition) checkCenter(c int64) error {
	if c < 0 || c >= p.Range {
		return xerrors.WithCode(ErrInvalidInput, "center_out_of_range")
	}
	return nil
}

// NewPartition 创建区间映射，rng <= 0 时使用 DefaultRange
func NewPartition(rng int64) Partition {
	if rng <= 0 {
		rng = DefaultRange
	}
	return Partition{Range: rng}
}

// CenterOf 返回 id 所属的中心，向下取整，负数 id 映射到负数中心
func (p Partition) CenterOf(id int64) int64 {
	c := id / p.Range
	if id%p.Range != 0 && id < 0 {
		c--
	}
	return c
}

// Offset 返回 id 在所属中心区间内的偏移量，范围 [0, Range)
func (p Partition) Offset(id int64) int64 {
	return id - p.MinID(p.CenterOf(id))
}

// MinID 中心 c 的最小 ID
func (p Partition) MinID(c int64) int64 {
	return c * p.Range
}

// MaxID 中心 c 的最大 ID
func (p Partition) MaxID(c int64) int64 {
	return (c+1)*p.Range - 1
}

// BelongsTo 判断 id 是否属于中心 c
func (p Partition) BelongsTo(id, c int64) bool {
	return p.CenterOf(id) == c
}

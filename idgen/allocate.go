package idgen

import (
	"context"

	"github.com/ceyewan/centerid/xerrors"
)

// MinGapWidth 回绕后可重用空隙的最小宽度
//
// 比它窄的最高空隙视为碎片，直接报告区间耗尽。
const MinGapWidth = 10

// slotSource 已占用 ID 的只读视图，所有查询限定在 [lo, hi]
type slotSource interface {
	// maxIn 返回区间内最大的已占用 ID，区间为空时 ok 为 false
	maxIn(ctx context.Context, lo, hi int64) (max int64, ok bool, err error)

	// scan 按顺序遍历区间内去重后的已占用 ID，fn 返回 false 时停止
	scan(ctx context.Context, lo, hi int64, desc bool, fn func(id int64) bool) error
}

// cursorStore 单个 (table, where) 的分配游标
type cursorStore interface {
	load(ctx context.Context) (next int64, ok bool, err error)
	store(ctx context.Context, next int64, exists bool) error
}

// allocation 一次分配的上下文
type allocation struct {
	lo, hi  int64
	slots   slotSource
	cursor  cursorStore
	onSweep func(err error)
}

// run 执行分配算法，返回本次分配的 ID 并把游标推进到下一个空闲位置
//
// 调用方负责串行化，两次调用不可并发访问同一游标。
func (a *allocation) run(ctx context.Context) (int64, error) {
	next, exists, err := a.cursor.load(ctx)
	if err != nil {
		return 0, err
	}
	candidate := int64(-1)
	if exists {
		candidate = next
	}

	if candidate < a.lo || candidate > a.hi {
		// 游标缺失或落在本中心区间之外，按当前数据重新计算
		max, ok, err := a.slots.maxIn(ctx, a.lo, a.hi)
		if err != nil {
			return 0, err
		}
		if ok {
			candidate = max + 1
		} else {
			candidate = a.lo
		}
		if candidate > a.hi {
			candidate, err = a.sweep(ctx)
			if a.onSweep != nil {
				a.onSweep(err)
			}
			if err != nil {
				return 0, err
			}
		}
		if err := a.cursor.store(ctx, candidate, exists); err != nil {
			return 0, err
		}
		exists = true
	}

	following, err := a.firstAbsent(ctx, candidate+1, a.hi)
	if err != nil {
		return 0, err
	}
	if following > a.hi {
		following, err = a.firstAbsent(ctx, a.lo, a.hi)
		if err != nil {
			return 0, err
		}
	}
	if following > a.hi || following == candidate {
		return 0, xerrors.WithCode(ErrRangeExhausted, "no_free_slot")
	}

	if err := a.cursor.store(ctx, following, exists); err != nil {
		return 0, err
	}
	return candidate, nil
}

// sweep 从区间顶部向下寻找最高的空隙，返回空隙起点
func (a *allocation) sweep(ctx context.Context) (int64, error) {
	expected := a.hi
	gapLo := int64(-1)
	err := a.slots.scan(ctx, a.lo, a.hi, true, func(id int64) bool {
		switch {
		case id > expected:
			return true
		case id == expected:
			expected--
			return true
		default:
			gapLo = id + 1
			return false
		}
	})
	if err != nil {
		return 0, err
	}

	if gapLo < 0 {
		if expected < a.lo {
			return 0, xerrors.WithCode(ErrRangeExhausted, "range_full")
		}
		gapLo = a.lo
	}
	gapHi := expected
	if gapHi == a.hi {
		// 顶部仍有空位，此时不会走到这里
		return a.lo, nil
	}
	if gapHi-gapLo+1 < MinGapWidth {
		return 0, xerrors.WithCode(ErrRangeExhausted, "range_fragmented")
	}
	return gapLo, nil
}

// firstAbsent 返回 [from, to] 中第一个未被占用的 ID，全部占用时返回 to+1
func (a *allocation) firstAbsent(ctx context.Context, from, to int64) (int64, error) {
	expected := from
	if from > to {
		return expected, nil
	}
	err := a.slots.scan(ctx, from, to, false, func(id int64) bool {
		switch {
		case id < expected:
			return true
		case id == expected:
			expected++
			return expected <= to
		default:
			return false
		}
	})
	if err != nil {
		return 0, err
	}
	return expected, nil
}

package idgen

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/ceyewan/centerid/xerrors"
)

// ========================================
// Memory 内存实现
// ========================================

// Memory 进程内的 Generator 实现，用于测试业务代码
//
// 每个 (table, where) 是一个独立的 ID 集合，分配规则与 Relational 相同。
// 分配出的 ID 不会自动记为已占用，需要调用 Occupy 模拟插入。
type Memory struct {
	mu          sync.Mutex
	partition   Partition
	centerID    int64
	installedAt time.Time

	sets       map[memoryKey]map[int64]struct{}
	cursors    map[memoryKey]int64
	capacities map[string]int
}

var _ Generator = (*Memory)(nil)

type memoryKey struct {
	table string
	where string
	isSet bool
}

func newMemoryKey(table string, where *string) memoryKey {
	if where == nil {
		return memoryKey{table: table}
	}
	return memoryKey{table: table, where: *where, isSet: true}
}

// NewMemory 创建指定中心的内存生成器，rng <= 0 时使用 DefaultRange
//
// centerID 必须落在 [0, rng) 内，rng 不能超过 MaxRange。
func NewMemory(centerID, rng int64) (*Memory, error) {
	p := NewPartition(rng)
	if err := checkRange(p.Range); err != nil {
		return nil, err
	}
	if err := p.checkCenter(centerID); err != nil {
		return nil, err
	}
	return &Memory{
		partition:   p,
		centerID:    centerID,
		installedAt: time.Now(),
		sets:        make(map[memoryKey]map[int64]struct{}),
		cursors:     make(map[memoryKey]int64),
		capacities:  make(map[string]int),
	}, nil
}

// Occupy 将 ID 记为已存在，where 为 nil 表示不带条件的序列
func (m *Memory) Occupy(table string, where *string, ids ...int64) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := newMemoryKey(table, where)
	set, ok := m.sets[key]
	if !ok {
		set = make(map[int64]struct{}, len(ids))
		m.sets[key] = set
	}
	for _, id := range ids {
		set[id] = struct{}{}
	}
}

// SetCapacity 设置 FieldCapacity 返回的字段容量
func (m *Memory) SetCapacity(table, field string, n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.capacities[strings.ToLower(table+"."+field)] = n
}

func (m *Memory) CenterID() int64 {
	return m.centerID
}

func (m *Memory) IsFreshInstall() bool {
	return true
}

func (m *Memory) InstallTimestamp() (time.Time, error) {
	return m.installedAt, nil
}

func (m *Memory) NextID(ctx context.Context, table, column string, opts ...NextOption) (int64, error) {
	if table == "" || column == "" {
		return 0, xerrors.WithCode(ErrInvalidInput, "table_and_column_required")
	}
	o := applyNextOptions(opts)
	// 占用集合按实际表名区分，游标与 Relational 一致按逻辑表名保存
	setKey := newMemoryKey(o.dataTable(table), o.where)
	cursorKey := newMemoryKey(table, o.where)

	m.mu.Lock()
	defer m.mu.Unlock()

	alloc := &allocation{
		lo:     m.partition.MinID(m.centerID),
		hi:     m.partition.MaxID(m.centerID),
		slots:  memorySlots(m.sets[setKey]),
		cursor: &memoryCursor{cursors: m.cursors, key: cursorKey},
	}
	return alloc.run(ctx)
}

func (m *Memory) FieldCapacity(_ context.Context, table, field string) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	n, ok := m.capacities[strings.ToLower(table+"."+field)]
	if !ok {
		return 0, metadataErr("field_not_found", table, field)
	}
	return n, nil
}

type memorySlots map[int64]struct{}

func (s memorySlots) maxIn(_ context.Context, lo, hi int64) (int64, bool, error) {
	max, ok := int64(0), false
	for id := range s {
		if id >= lo && id <= hi && (!ok || id > max) {
			max, ok = id, true
		}
	}
	return max, ok, nil
}

func (s memorySlots) scan(_ context.Context, lo, hi int64, desc bool, fn func(int64) bool) error {
	ids := make([]int64, 0, len(s))
	for id := range s {
		if id >= lo && id <= hi {
			ids = append(ids, id)
		}
	}
	slices.Sort(ids)
	if desc {
		slices.Reverse(ids)
	}
	for _, id := range ids {
		if !fn(id) {
			break
		}
	}
	return nil
}

type memoryCursor struct {
	cursors map[memoryKey]int64
	key     memoryKey
}

func (c *memoryCursor) load(context.Context) (int64, bool, error) {
	next, ok := c.cursors[c.key]
	return next, ok, nil
}

func (c *memoryCursor) store(_ context.Context, next int64, _ bool) error {
	c.cursors[c.key] = next
	return nil
}

package idgen

import (
	"context"
	"sync"
	"time"

	"github.com/maypok86/otter/v2"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ceyewan/centerid/clog"
	"github.com/ceyewan/centerid/connector"
	"github.com/ceyewan/centerid/xerrors"
)

// ========================================
// Relational 关系型数据库实现
// ========================================

// Relational 基于关系型数据库的中心分区 ID 生成器
//
// 安装记录与分配游标保存在簿记库中，NextID 与 NextLinearID 由实例内的互斥锁串行化。
// 同一簿记库只应有一个 Relational 实例负责分配。
type Relational struct {
	mu sync.Mutex

	db        *gorm.DB
	cfg       *Config
	partition Partition
	dialect   string

	centerID    int64
	installedAt time.Time
	installed   bool
	fresh       bool

	capacities *otter.Cache[string, int]
	logger     clog.Logger
	inst       *instruments
}

var _ Generator = (*Relational)(nil)

// installationRow 安装记录，表中至多一行
type installationRow struct {
	CenterID    int64     `gorm:"column:center_id;not null"`
	InstallDate time.Time `gorm:"column:install_date;not null"`
}

// cursorRow 分配游标，where_clause 为 NULL 的游标与任何非空条件互相独立
type cursorRow struct {
	Target      string  `gorm:"column:table_name;size:128;not null"`
	WhereClause *string `gorm:"column:where_clause;size:512"`
	NextID      int64   `gorm:"column:next_id;not null"`
}

// NewRelational 创建关系型生成器并完成初始化
//
// conn 必须已经 Connect，生成器只借用连接不负责关闭。
// 首次运行时在一个事务内抽取中心 ID、写入安装记录并清空遗留游标，
// 之后的运行直接读取已有的安装记录。簿记表需预先存在，见 EnsureSchema。
func NewRelational(ctx context.Context, conn connector.DatabaseConnector, cfg *Config, opts ...Option) (*Relational, error) {
	if conn == nil || conn.GetClient() == nil {
		return nil, ErrConnectorNil
	}
	if cfg == nil {
		return nil, ErrConfigNil
	}
	cfg.setDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	o := applyOptions(opts)

	inst, err := newInstruments(o.meter)
	if err != nil {
		return nil, xerrors.Wrap(err, "create idgen metrics")
	}

	capacities, err := otter.New(&otter.Options[string, int]{
		MaximumSize:      cfg.CapacityCacheSize,
		ExpiryCalculator: otter.ExpiryWriting[string, int](cfg.CapacityCacheTTL),
	})
	if err != nil {
		return nil, xerrors.Wrap(err, "create capacity cache")
	}

	db := conn.GetClient()
	r := &Relational{
		db:         db,
		cfg:        cfg,
		partition:  NewPartition(cfg.Range),
		dialect:    db.Dialector.Name(),
		capacities: capacities,
		logger:     o.logger,
		inst:       inst,
	}

	if err := r.bootstrap(ctx, o); err != nil {
		r.logger.Error("bootstrap failed", clog.Error(err))
		return nil, err
	}
	return r, nil
}

// checkCenter 已保存或新抽取的中心必须落在当前 Range 内
func (r *Relational) checkCenter(c int64) error {
	if err := r.partition.checkCenter(c); err != nil {
		return xerrors.Wrapf(err, "center %d, range %d", c, r.partition.Range)
	}
	return nil
}

// bootstrap 读取或创建安装记录
func (r *Relational) bootstrap(ctx context.Context, o *options) error {
	installTable := r.cfg.installationTable()
	cursorTable := r.cfg.cursorTable()

	var (
		record installationRow
		fresh  bool
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rows []installationRow
		if err := tx.Table(installTable).Limit(1).Find(&rows).Error; err != nil {
			return storageErr("read", installTable, err)
		}
		if len(rows) > 0 {
			record = rows[0]
			return r.checkCenter(record.CenterID)
		}

		record = installationRow{
			CenterID:    o.draw(r.partition.Range),
			InstallDate: o.now(),
		}
		if err := r.checkCenter(record.CenterID); err != nil {
			return err
		}
		if err := tx.Table(installTable).Create(&record).Error; err != nil {
			return storageErr("insert", installTable, err)
		}
		if err := tx.Exec("DELETE FROM ?", clause.Table{Name: cursorTable}).Error; err != nil {
			return storageErr("clear", cursorTable, err)
		}
		fresh = true
		return nil
	})
	if err != nil {
		return err
	}

	r.centerID = record.CenterID
	r.installedAt = record.InstallDate
	r.installed = true
	r.fresh = fresh

	if fresh {
		r.logger.Info("center installed",
			clog.Int64("center_id", r.centerID),
			clog.Time("install_date", r.installedAt))
	} else {
		r.logger.Debug("center loaded",
			clog.Int64("center_id", r.centerID),
			clog.Time("install_date", r.installedAt))
	}
	return nil
}

// CenterID 返回本中心的 ID
func (r *Relational) CenterID() int64 {
	return r.centerID
}

// IsFreshInstall 本实例启动时是否执行了首次初始化
func (r *Relational) IsFreshInstall() bool {
	return r.fresh
}

// InstallTimestamp 返回安装时间
func (r *Relational) InstallTimestamp() (time.Time, error) {
	if !r.installed {
		return time.Time{}, ErrNotInstalled
	}
	return r.installedAt, nil
}

// Partition 返回生成器使用的区间映射
func (r *Relational) Partition() Partition {
	return r.partition
}

// NextID 为 table.column 分配本中心区间内的下一个 ID
func (r *Relational) NextID(ctx context.Context, table, column string, opts ...NextOption) (id int64, err error) {
	if err := r.checkReady(table, column); err != nil {
		return 0, err
	}
	o := applyNextOptions(opts)

	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	defer func() {
		r.inst.observe(ctx, opNext, start, err)
	}()

	alloc := &allocation{
		lo:     r.partition.MinID(r.centerID),
		hi:     r.partition.MaxID(r.centerID),
		slots:  r.slots(o, table, column),
		cursor: &tableCursor{db: r.db, table: r.cfg.cursorTable(), target: table, where: o.where},
		onSweep: func(err error) {
			r.inst.gapSearch(ctx, err)
		},
	}
	id, err = alloc.run(ctx)
	if err != nil {
		if xerrors.Is(err, ErrRangeExhausted) {
			r.logger.WarnContext(ctx, "center range exhausted",
				clog.String("table", table),
				clog.String("column", column),
				clog.ErrorCode(err))
		}
		return 0, err
	}

	r.logger.DebugContext(ctx, "id allocated",
		clog.String("table", table),
		clog.Int64("id", id))
	return id, nil
}

// NextLinearID 为不按中心分区的表分配 ID
//
// 返回已有 ID 中缺失的最小非负整数，每次调用都会读取整列。
func (r *Relational) NextLinearID(ctx context.Context, table, column string, opts ...NextOption) (id int64, err error) {
	if err := r.checkReady(table, column); err != nil {
		return 0, err
	}
	o := applyNextOptions(opts)

	r.mu.Lock()
	defer r.mu.Unlock()

	start := time.Now()
	defer func() {
		r.inst.observe(ctx, opLinear, start, err)
	}()

	slots := r.slots(o, table, column)
	expected := int64(0)
	err = slots.scanFrom(ctx, 0, func(v int64) bool {
		switch {
		case v < expected:
			return true
		case v == expected:
			expected++
			return true
		default:
			return false
		}
	})
	if err != nil {
		return 0, err
	}
	return expected, nil
}

func (r *Relational) checkReady(table, column string) error {
	if !r.installed || r.db == nil {
		return ErrNotInstalled
	}
	if table == "" || column == "" {
		return xerrors.WithCode(ErrInvalidInput, "table_and_column_required")
	}
	return nil
}

// slots 已有 ID 的查询视图，指定外部连接时在外部连接上查询
func (r *Relational) slots(o *nextOptions, table, column string) *tableSlots {
	db := r.db
	if o.conn != nil {
		db = o.conn
	}
	return &tableSlots{
		db:     db,
		table:  o.dataTable(table),
		column: column,
		where:  o.where,
		logger: r.logger,
	}
}

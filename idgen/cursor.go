package idgen

import (
	"context"
	"database/sql"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ceyewan/centerid/clog"
)

// tableCursor 簿记库中的单个分配游标
type tableCursor struct {
	db     *gorm.DB
	table  string
	target string
	where  *string
}

func (c *tableCursor) filter() clause.Where {
	// Value 为 nil 时渲染为 IS NULL
	var where any
	if c.where != nil {
		where = *c.where
	}
	return clause.Where{Exprs: []clause.Expression{
		clause.Eq{Column: clause.Column{Name: "table_name"}, Value: c.target},
		clause.Eq{Column: clause.Column{Name: "where_clause"}, Value: where},
	}}
}

func (c *tableCursor) load(ctx context.Context) (int64, bool, error) {
	var rows []cursorRow
	err := c.db.WithContext(ctx).Table(c.table).Clauses(c.filter()).Limit(1).Find(&rows).Error
	if err != nil {
		return 0, false, storageErr("read cursor", c.target, err)
	}
	if len(rows) == 0 {
		return 0, false, nil
	}
	return rows[0].NextID, true, nil
}

func (c *tableCursor) store(ctx context.Context, next int64, exists bool) error {
	db := c.db.WithContext(ctx).Table(c.table)
	if !exists {
		row := &cursorRow{Target: c.target, WhereClause: c.where, NextID: next}
		if err := db.Create(row).Error; err != nil {
			return storageErr("insert cursor", c.target, err)
		}
		return nil
	}
	if err := db.Clauses(c.filter()).Update("next_id", next).Error; err != nil {
		return storageErr("update cursor", c.target, err)
	}
	return nil
}

// tableSlots 业务表中已有 ID 的查询
type tableSlots struct {
	db     *gorm.DB
	table  string
	column string
	where  *string
	logger clog.Logger
}

func (s *tableSlots) col() clause.Column {
	return clause.Column{Name: s.column}
}

func (s *tableSlots) query(ctx context.Context) *gorm.DB {
	q := s.db.WithContext(ctx).Table(s.table)
	if s.where != nil {
		q = q.Where("(" + *s.where + ")")
	}
	return q
}

func (s *tableSlots) maxIn(ctx context.Context, lo, hi int64) (int64, bool, error) {
	var max sql.NullInt64
	err := s.query(ctx).
		Select("MAX(?)", s.col()).
		Where("? BETWEEN ? AND ?", s.col(), lo, hi).
		Scan(&max).Error
	if err != nil {
		return 0, false, storageErr("select max", s.table, err)
	}
	return max.Int64, max.Valid, nil
}

func (s *tableSlots) scan(ctx context.Context, lo, hi int64, desc bool, fn func(int64) bool) error {
	q := s.query(ctx).
		Select("?", s.col()).
		Where("? BETWEEN ? AND ?", s.col(), lo, hi).
		Order(clause.OrderByColumn{Column: s.col(), Desc: desc})
	return s.each(q, fn)
}

// scanFrom 升序遍历所有 >= from 的 ID，不限定上界
func (s *tableSlots) scanFrom(ctx context.Context, from int64, fn func(int64) bool) error {
	q := s.query(ctx).
		Select("?", s.col()).
		Where("? >= ?", s.col(), from).
		Order(clause.OrderByColumn{Column: s.col()})
	return s.each(q, fn)
}

func (s *tableSlots) each(q *gorm.DB, fn func(int64) bool) error {
	rows, err := q.Rows()
	if err != nil {
		return storageErr("scan", s.table, err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			s.logger.Warn("close rows failed", clog.String("table", s.table), clog.Error(err))
		}
	}()

	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return storageErr("scan", s.table, err)
		}
		if !fn(id) {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return storageErr("scan", s.table, err)
	}
	return nil
}

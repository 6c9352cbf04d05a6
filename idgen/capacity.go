package idgen

import (
	"context"
	"database/sql"
	"regexp"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"github.com/ceyewan/centerid/clog"
	"github.com/ceyewan/centerid/xerrors"
)

const (
	dialectMySQL    = "mysql"
	dialectPostgres = "postgres"
	dialectSQLite   = "sqlite"
)

// columnQueries information_schema 查询，未指定 schema 时使用当前库
//
// postgres 的整数类型以二进制位数记录精度，只有十进制精度 (numeric_precision_radix = 10) 才作为容量。
var columnQueries = map[string]string{
	dialectMySQL: `SELECT column_name, COALESCE(character_maximum_length, numeric_precision)
FROM information_schema.columns
WHERE table_schema = COALESCE(NULLIF(?, ''), DATABASE()) AND LOWER(table_name) = LOWER(?)`,
	dialectPostgres: `SELECT column_name,
	COALESCE(character_maximum_length, CASE WHEN numeric_precision_radix = 10 THEN numeric_precision END)
FROM information_schema.columns
WHERE table_schema = COALESCE(NULLIF(?, ''), current_schema()::text) AND LOWER(table_name) = LOWER(?)`,
}

var declaredSize = regexp.MustCompile(`\(\s*(\d+)`)

// supportsIntrospection 方言是否支持字段容量查询
func supportsIntrospection(dialect string) bool {
	switch dialect {
	case dialectMySQL, dialectPostgres, dialectSQLite:
		return true
	}
	return false
}

// columnInfo 字段名与声明的容量，容量未知时 size.Valid 为 false
type columnInfo struct {
	name string
	size sql.NullInt64
}

// FieldCapacity 返回字段可存储的最大长度
//
// table 可以写作 SCHEMA.TABLE；字段名不区分大小写。成功的结果按实例缓存。
// 字符类型返回最大字符数，十进制数值类型返回十进制位数；
// postgres 的 INTEGER、BIGINT 等二进制精度类型没有可用的容量，返回 ErrMetadata。
func (r *Relational) FieldCapacity(ctx context.Context, table, field string) (int, error) {
	if r.db == nil {
		return 0, ErrNotInstalled
	}
	if table == "" || field == "" {
		return 0, xerrors.WithCode(ErrInvalidInput, "table_and_field_required")
	}
	if !supportsIntrospection(r.dialect) {
		return 0, metadataErr("introspection_unsupported", table, field)
	}

	schema, name := splitTable(table)
	key := strings.ToLower(schema + "." + name + "." + field)
	if n, ok := r.capacities.GetIfPresent(key); ok {
		return n, nil
	}

	columns, err := readColumns(ctx, r.db, r.logger, r.dialect, schema, name)
	if err != nil {
		r.logger.WarnContext(ctx, "read column metadata failed",
			clog.String("table", table), clog.Error(err))
		return 0, xerrors.Wrapf(xerrors.WithCode(ErrMetadata, "introspection_failed"), "%s: %v", table, err)
	}
	if len(columns) == 0 {
		return 0, metadataErr("table_not_found", table, field)
	}

	for _, col := range columns {
		if !strings.EqualFold(col.name, field) {
			continue
		}
		if !col.size.Valid || col.size.Int64 <= 0 {
			return 0, metadataErr("capacity_unknown", table, field)
		}
		n := int(col.size.Int64)
		r.capacities.Set(key, n)
		return n, nil
	}
	return 0, metadataErr("field_not_found", table, field)
}

// splitTable 拆分 SCHEMA.TABLE，未指定 schema 时返回空串
func splitTable(table string) (string, string) {
	if schema, name, ok := strings.Cut(table, "."); ok {
		return schema, name
	}
	return "", table
}

func readColumns(ctx context.Context, db *gorm.DB, logger clog.Logger, dialect, schema, table string) ([]columnInfo, error) {
	if dialect == dialectSQLite {
		return readSQLiteColumns(ctx, db, logger, schema, table)
	}

	rows, err := db.WithContext(ctx).Raw(columnQueries[dialect], schema, table).Rows()
	if err != nil {
		return nil, err
	}
	defer closeRows(rows, logger, table)

	var columns []columnInfo
	for rows.Next() {
		var col columnInfo
		if err := rows.Scan(&col.name, &col.size); err != nil {
			return nil, err
		}
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

// readSQLiteColumns 从 pragma_table_info 读取声明类型，解析 NAME(n) 中的 n
func readSQLiteColumns(ctx context.Context, db *gorm.DB, logger clog.Logger, schema, table string) ([]columnInfo, error) {
	if schema == "" {
		schema = "main"
	}
	rows, err := db.WithContext(ctx).
		Raw("SELECT name, type FROM pragma_table_info(?, ?)", table, schema).
		Rows()
	if err != nil {
		return nil, err
	}
	defer closeRows(rows, logger, table)

	var columns []columnInfo
	for rows.Next() {
		var name, declared string
		if err := rows.Scan(&name, &declared); err != nil {
			return nil, err
		}
		col := columnInfo{name: name}
		if m := declaredSize.FindStringSubmatch(declared); m != nil {
			if n, err := strconv.ParseInt(m[1], 10, 64); err == nil {
				col.size = sql.NullInt64{Int64: n, Valid: true}
			}
		}
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

func closeRows(rows *sql.Rows, logger clog.Logger, table string) {
	if err := rows.Close(); err != nil {
		logger.Warn("close rows failed", clog.String("table", table), clog.Error(err))
	}
}

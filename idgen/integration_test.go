package idgen

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceyewan/centerid/connector"
	"github.com/ceyewan/centerid/testkit"
	"github.com/ceyewan/centerid/xerrors"
)

// ========================================
// MySQL / PostgreSQL 集成测试（使用 testkit）
// ========================================

func TestRelational_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping container tests in short mode")
	}

	backends := []struct {
		name string
		conn func(t *testing.T) connector.DatabaseConnector
		// intDigits INTEGER 字段的十进制位数，0 表示没有可用容量
		intDigits int
	}{
		{"mysql", func(t *testing.T) connector.DatabaseConnector { return testkit.NewMySQLConnector(t) }, 10},
		{"postgres", func(t *testing.T) connector.DatabaseConnector { return testkit.NewPostgreSQLConnector(t) }, 0},
	}

	for _, backend := range backends {
		t.Run(backend.name, func(t *testing.T) {
			ctx := context.Background()
			conn := backend.conn(t)
			db := conn.GetClient()
			gen := newTestRelational(t, conn, 100, 3)
			assert.True(t, gen.IsFreshInstall())

			t.Run("分配与回绕", func(t *testing.T) {
				insertItems(t, db, nil, rangeIDs(300, 305)...)
				insertItems(t, db, nil, rangeIDs(320, 399)...)

				id, err := gen.NextID(ctx, "item", "id")
				require.NoError(t, err)
				assert.Equal(t, int64(306), id)
				insertItems(t, db, nil, id)

				id, err = gen.NextID(ctx, "item", "id")
				require.NoError(t, err)
				assert.Equal(t, int64(307), id)
			})

			t.Run("where 条件", func(t *testing.T) {
				one := 1
				insertItems(t, db, &one, 300, 301)
				id, err := gen.NextID(ctx, "item", "id", WithWhere("collection = 1"))
				require.NoError(t, err)
				assert.Equal(t, int64(302), id)
			})

			t.Run("空隙过窄", func(t *testing.T) {
				require.NoError(t, db.Exec("CREATE TABLE dense (id BIGINT NOT NULL)").Error)
				for _, r := range [][2]int64{{300, 305}, {309, 399}} {
					for _, id := range rangeIDs(r[0], r[1]) {
						require.NoError(t, db.Exec("INSERT INTO dense (id) VALUES (?)", id).Error)
					}
				}
				_, err := gen.NextID(ctx, "dense", "id")
				require.ErrorIs(t, err, ErrRangeExhausted)
				assert.Equal(t, "range_fragmented", xerrors.GetCode(err))
			})

			t.Run("字段容量", func(t *testing.T) {
				require.NoError(t, db.Exec("CREATE TABLE widget (id BIGINT, name VARCHAR(64), note TEXT, qty INTEGER, price NUMERIC(10,2))").Error)

				n, err := gen.FieldCapacity(ctx, "widget", "NAME")
				require.NoError(t, err)
				assert.Equal(t, 64, n)

				n, err = gen.FieldCapacity(ctx, "widget", "price")
				require.NoError(t, err)
				assert.Equal(t, 10, n)

				n, err = gen.FieldCapacity(ctx, "widget", "qty")
				if backend.intDigits == 0 {
					require.ErrorIs(t, err, ErrMetadata)
					assert.Equal(t, "capacity_unknown", xerrors.GetCode(err))
				} else {
					require.NoError(t, err)
					assert.Equal(t, backend.intDigits, n)
				}

				_, err = gen.FieldCapacity(ctx, "widget", "missing")
				assert.ErrorIs(t, err, ErrMetadata)

				_, err = gen.FieldCapacity(ctx, "no_such_table", "name")
				assert.ErrorIs(t, err, ErrMetadata)
			})

			t.Run("重复初始化", func(t *testing.T) {
				again, err := NewRelational(ctx, conn, &Config{TablePrefix: testPrefix, Range: 100}, fixedCenter(8))
				require.NoError(t, err)
				assert.Equal(t, int64(3), again.CenterID())
				assert.False(t, again.IsFreshInstall())
			})
		})
	}
}

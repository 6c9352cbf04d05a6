package idgen

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ceyewan/centerid/xerrors"
)

func TestPartition(t *testing.T) {
	p := NewPartition(100)

	tests := []struct {
		id     int64
		center int64
		offset int64
	}{
		{0, 0, 0},
		{99, 0, 99},
		{100, 1, 0},
		{342, 3, 42},
		{-1, -1, 99},
		{-100, -1, 0},
		{-101, -2, 99},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.center, p.CenterOf(tt.id), "CenterOf(%d)", tt.id)
		assert.Equal(t, tt.offset, p.Offset(tt.id), "Offset(%d)", tt.id)
		assert.True(t, p.BelongsTo(tt.id, tt.center))
		assert.False(t, p.BelongsTo(tt.id, tt.center+1))
	}

	t.Run("边界", func(t *testing.T) {
		for _, c := range []int64{-3, 0, 1, 42, 1 << 20} {
			assert.Equal(t, c, p.CenterOf(p.MinID(c)))
			assert.Equal(t, c, p.CenterOf(p.MaxID(c)))
			assert.Equal(t, c+1, p.CenterOf(p.MaxID(c)+1))
			assert.Equal(t, p.Range-1, p.MaxID(c)-p.MinID(c))
		}
	})

	t.Run("默认区间", func(t *testing.T) {
		d := NewPartition(0)
		assert.Equal(t, DefaultRange, d.Range)
		assert.Equal(t, int64(42_000_000_000), d.MinID(42))
		assert.Equal(t, int64(42_999_999_999), d.MaxID(42))
		assert.Equal(t, int64(42), d.CenterOf(42_000_000_007))
	})
}

func TestCheckRange(t *testing.T) {
	tests := []struct {
		rng  int64
		code string
	}{
		{1, ""},
		{DefaultRange, ""},
		{MaxRange, ""},
		{0, "range_must_be_positive"},
		{MaxRange + 1, "range_too_large"},
		{4_000_000_000, "range_too_large"},
	}
	for _, tt := range tests {
		err := checkRange(tt.rng)
		if tt.code == "" {
			assert.NoError(t, err, "checkRange(%d)", tt.rng)
			continue
		}
		require.ErrorIs(t, err, ErrInvalidInput)
		assert.Equal(t, tt.code, xerrors.GetCode(err), "checkRange(%d)", tt.rng)
	}

	p := NewPartition(MaxRange)
	last := MaxRange - 1
	assert.Positive(t, p.MaxID(last))
	assert.Less(t, p.MinID(last), p.MaxID(last))
	assert.True(t, p.BelongsTo(p.MaxID(last), last))
	assert.NoError(t, p.checkCenter(last))
	assert.Error(t, p.checkCenter(MaxRange))
}

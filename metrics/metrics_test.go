package metrics

import (
	"context"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/ceyewan/centerid/clog"
	"github.com/ceyewan/centerid/xerrors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m Meter) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		cfg      *Config
		wantErr  bool
		wantCode string
	}{
		{name: "nil 配置", cfg: nil, wantErr: true, wantCode: "metrics_config_nil"},
		{name: "禁用时返回 noop", cfg: &Config{}},
		{name: "最小配置", cfg: &Config{Enabled: true}},
		{name: "端口越界", cfg: &Config{Enabled: true, Port: 70000}, wantErr: true, wantCode: "metrics_port_out_of_range"},
		{name: "路径非法", cfg: &Config{Enabled: true, Path: "metrics"}, wantErr: true, wantCode: "metrics_path_must_start_with_slash"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New(tt.cfg, WithLogger(clog.Discard()))
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, xerrors.ErrInvalidInput)
				assert.Equal(t, tt.wantCode, xerrors.GetCode(err))
				return
			}
			require.NoError(t, err)
			require.NotNil(t, m)
			assert.NoError(t, m.Shutdown(context.Background()))
		})
	}
}

func TestMeterExportsPrometheus(t *testing.T) {
	ctx := context.Background()
	m, err := New(&Config{Enabled: true, ServiceName: "centerid-test"})
	require.NoError(t, err)
	defer m.Shutdown(ctx)

	counter, err := m.Counter("test_allocations_total", "allocations")
	require.NoError(t, err)
	counter.Inc(ctx, L(LabelOutcome, OutcomeSuccess))
	counter.Add(ctx, 2, L(LabelOutcome, OutcomeSuccess))
	counter.Add(ctx, -5, L(LabelOutcome, OutcomeSuccess))

	hist, err := m.Histogram("test_duration_seconds", "duration", WithUnit("s"), WithBuckets([]float64{0.1, 1}))
	require.NoError(t, err)
	hist.Record(ctx, 0.05)

	gauge, err := m.Gauge("test_cursor_count", "cursors")
	require.NoError(t, err)
	gauge.Set(ctx, 3)
	gauge.Inc(ctx)

	body := scrape(t, m)
	assert.Contains(t, body, "test_allocations_total")
	assert.Contains(t, body, `outcome="success"`)
	assert.Regexp(t, `test_allocations_total(\{[^}]*\})? 3`, body)
	assert.Contains(t, body, "test_duration_seconds_bucket")
	assert.Regexp(t, `test_cursor_count(\{[^}]*\})? 4`, body)
}

func TestMetersAreIsolated(t *testing.T) {
	ctx := context.Background()
	a, err := New(&Config{Enabled: true})
	require.NoError(t, err)
	defer a.Shutdown(ctx)
	b, err := New(&Config{Enabled: true})
	require.NoError(t, err)
	defer b.Shutdown(ctx)

	c, err := a.Counter("only_in_a_total", "a")
	require.NoError(t, err)
	c.Inc(ctx)

	assert.Contains(t, scrape(t, a), "only_in_a_total")
	assert.NotContains(t, scrape(t, b), "only_in_a_total")
}

func TestDiscard(t *testing.T) {
	ctx := context.Background()
	m := Discard()

	c, err := m.Counter("x_total", "x")
	require.NoError(t, err)
	c.Inc(ctx)
	h, err := m.Histogram("y", "y")
	require.NoError(t, err)
	h.Record(ctx, 1)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	assert.Equal(t, 404, rec.Code)
	assert.NoError(t, m.Shutdown(ctx))
}

func TestOutcome(t *testing.T) {
	assert.Equal(t, OutcomeSuccess, Outcome(nil))
	assert.Equal(t, OutcomeError, Outcome(xerrors.ErrNotFound))
}

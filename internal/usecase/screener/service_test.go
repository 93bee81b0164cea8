package screener

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AuroraDai/weihao/internal/domain/entity"
	"github.com/AuroraDai/weihao/internal/infra/finviz"
)

/* ───────── スタブ実装 ───────── */

type stubExporter struct {
	rows  []entity.ScreenerRow
	err   error
	calls int
}

func (s *stubExporter) FetchRows(_ context.Context) ([]entity.ScreenerRow, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.rows, nil
}

func makeRows(n int) []entity.ScreenerRow {
	rows := make([]entity.ScreenerRow, n)
	for i := range rows {
		rows[i] = entity.ScreenerRow{"Ticker": fmt.Sprintf("T%03d", i)}
	}
	return rows
}

/* ───────── テスト ───────── */

func TestRows_LazyFirstRefresh(t *testing.T) {
	exporter := &stubExporter{rows: makeRows(5)}
	svc := NewService(exporter, nil)

	rows, stale, err := svc.Rows(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, exporter.calls)
	assert.False(t, stale)
	assert.Len(t, rows, 5)
	assert.Equal(t, "T000", rows[0]["Ticker"])
}

func TestRows_AppliesLimit(t *testing.T) {
	svc := NewService(&stubExporter{rows: makeRows(250)}, nil)

	rows, _, err := svc.Rows(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, rows, 10)

	// Zero falls back to the default limit.
	rows, _, err = svc.Rows(context.Background(), 0)
	require.NoError(t, err)
	assert.Len(t, rows, DefaultLimit)
}

func TestRows_NoSnapshotAndUpstreamDown(t *testing.T) {
	svc := NewService(&stubExporter{err: errors.New("export unavailable")}, nil)

	_, _, err := svc.Rows(context.Background(), 10)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestRows_ExportNotConfigured(t *testing.T) {
	svc := NewService(&stubExporter{err: finviz.ErrExportNotConfigured}, nil)

	_, _, err := svc.Rows(context.Background(), 10)
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.NotErrorIs(t, err, ErrNoData)
}

func TestRefresh_KeepsSnapshotOnFailure(t *testing.T) {
	exporter := &stubExporter{rows: makeRows(3)}
	svc := NewService(exporter, nil)
	require.NoError(t, svc.Refresh(context.Background()))
	firstAt := svc.SnapshotAt()

	exporter.err = errors.New("export unavailable")
	assert.Error(t, svc.Refresh(context.Background()))

	// Old rows still serve and the snapshot time is unchanged.
	rows, _, err := svc.Rows(context.Background(), 10)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	assert.Equal(t, firstAt, svc.SnapshotAt())
}

func TestStartRefresher_InvalidSpec(t *testing.T) {
	svc := NewService(&stubExporter{}, nil)
	assert.Error(t, svc.StartRefresher(context.Background(), "not a cron spec"))
}

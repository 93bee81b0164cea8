// Package screener serves rows from the Finviz screener CSV export, backed
// by a periodically refreshed in-memory snapshot.
package screener

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/AuroraDai/weihao/internal/domain/entity"
	"github.com/AuroraDai/weihao/internal/infra/finviz"
	"github.com/AuroraDai/weihao/internal/observability/metrics"
)

// DefaultLimit is the number of rows returned when no limit is given.
const DefaultLimit = 100

// ErrNoData indicates the upstream export failed and no snapshot exists yet.
var ErrNoData = errors.New("no screener data available")

// ErrNotConfigured indicates the export URL was never set, so no screener
// data can ever be served. This is an operator error, not an upstream one.
var ErrNotConfigured = errors.New("screener export is not configured")

// Exporter downloads the current screener rows.
// The production implementation is infra/finviz.ExportClient.
type Exporter interface {
	FetchRows(ctx context.Context) ([]entity.ScreenerRow, error)
}

// Service caches screener rows and serves them with a row limit.
//
// The snapshot refreshes on a cron schedule; when the upstream export
// fails, the last good snapshot keeps serving (marked stale) so a Finviz
// outage does not take the endpoint down.
type Service struct {
	exporter Exporter
	logger   *slog.Logger

	mu         sync.RWMutex
	snapshot   []entity.ScreenerRow
	snapshotAt time.Time

	cron *cron.Cron
}

// NewService creates the screener service. The snapshot starts empty;
// call Refresh or StartRefresher to populate it.
func NewService(exporter Exporter, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		exporter: exporter,
		logger:   logger,
	}
}

// Rows returns up to limit rows from the snapshot, refreshing it first if
// it has never been populated. stale reports whether the rows come from an
// earlier snapshot because the latest refresh failed.
func (s *Service) Rows(ctx context.Context, limit int) (rows []entity.ScreenerRow, stale bool, err error) {
	if limit <= 0 {
		limit = DefaultLimit
	}

	s.mu.RLock()
	snapshot, at := s.snapshot, s.snapshotAt
	s.mu.RUnlock()

	if snapshot == nil {
		if err := s.Refresh(ctx); err != nil {
			if errors.Is(err, finviz.ErrExportNotConfigured) {
				return nil, false, fmt.Errorf("%w: %v", ErrNotConfigured, err)
			}
			return nil, false, fmt.Errorf("%w: %v", ErrNoData, err)
		}
		s.mu.RLock()
		snapshot, at = s.snapshot, s.snapshotAt
		s.mu.RUnlock()
	}

	stale = time.Since(at) > 2*time.Hour
	if limit > len(snapshot) {
		limit = len(snapshot)
	}
	return snapshot[:limit], stale, nil
}

// SnapshotAt returns the time of the last successful refresh.
func (s *Service) SnapshotAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotAt
}

// Refresh replaces the snapshot with freshly downloaded rows. On failure
// the previous snapshot is kept.
func (s *Service) Refresh(ctx context.Context) error {
	rows, err := s.exporter.FetchRows(ctx)
	if err != nil {
		metrics.RecordScreenerFetch("error")
		s.logger.Warn("screener refresh failed, keeping previous snapshot",
			slog.String("error", err.Error()))
		return err
	}

	s.mu.Lock()
	s.snapshot = rows
	s.snapshotAt = time.Now()
	s.mu.Unlock()

	metrics.RecordScreenerFetch("success")
	metrics.ScreenerSnapshotRows.Set(float64(len(rows)))
	s.logger.Info("screener snapshot refreshed",
		slog.Int("rows", len(rows)))
	return nil
}

// StartRefresher schedules periodic snapshot refreshes using the given
// cron spec (e.g. "@every 10m") and runs one refresh immediately in the
// background. Returns an error only for an invalid spec.
func (s *Service) StartRefresher(ctx context.Context, spec string) error {
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		refreshCtx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		_ = s.Refresh(refreshCtx)
	})
	if err != nil {
		return fmt.Errorf("invalid refresh schedule %q: %w", spec, err)
	}

	go func() {
		refreshCtx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()
		_ = s.Refresh(refreshCtx)
	}()

	c.Start()
	s.cron = c
	return nil
}

// StopRefresher stops the cron scheduler and waits for a running refresh
// to finish.
func (s *Service) StopRefresher() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

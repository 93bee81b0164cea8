// Package quote exposes normalized ticker snapshots scraped from Finviz.
package quote

import (
	"context"
	"errors"
	"fmt"

	"github.com/AuroraDai/weihao/internal/domain/entity"
	"github.com/AuroraDai/weihao/internal/infra/finviz"
	"github.com/AuroraDai/weihao/internal/observability/metrics"
)

// ErrTickerNotFound indicates the requested symbol has no quote page.
var ErrTickerNotFound = errors.New("ticker not found")

// Fetcher retrieves a raw quote snapshot for a normalized ticker.
// The production implementation is infra/finviz.Client.
type Fetcher interface {
	FetchQuote(ctx context.Context, ticker string) (*entity.Quote, error)
}

// Service validates ticker symbols and fetches their snapshots.
type Service struct {
	fetcher Fetcher
}

// NewService creates the quote service.
func NewService(fetcher Fetcher) *Service {
	return &Service{fetcher: fetcher}
}

// Get normalizes rawTicker and returns its snapshot. Invalid symbols fail
// with entity.ErrValidationFailed before any network traffic happens.
func (s *Service) Get(ctx context.Context, rawTicker string) (*entity.Quote, error) {
	ticker, err := entity.NormalizeTicker(rawTicker)
	if err != nil {
		return nil, err
	}

	q, err := s.fetcher.FetchQuote(ctx, ticker)
	if err != nil {
		metrics.RecordQuoteFetch("error")
		if errors.Is(err, finviz.ErrTickerNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrTickerNotFound, ticker)
		}
		return nil, fmt.Errorf("fetch quote for %s: %w", ticker, err)
	}

	metrics.RecordQuoteFetch("success")
	return q, nil
}

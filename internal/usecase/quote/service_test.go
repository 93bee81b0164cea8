package quote

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AuroraDai/weihao/internal/domain/entity"
	"github.com/AuroraDai/weihao/internal/infra/finviz"
)

/* ───────── スタブ実装 ───────── */

type stubFetcher struct {
	quote     *entity.Quote
	err       error
	gotTicker string
	calls     int
}

func (s *stubFetcher) FetchQuote(_ context.Context, ticker string) (*entity.Quote, error) {
	s.calls++
	s.gotTicker = ticker
	if s.err != nil {
		return nil, s.err
	}
	return s.quote, nil
}

/* ───────── テスト ───────── */

func TestGet_NormalizesTicker(t *testing.T) {
	fetcher := &stubFetcher{quote: &entity.Quote{Ticker: "AAPL"}}

	q, err := NewService(fetcher).Get(context.Background(), "aapl")
	require.NoError(t, err)
	assert.Equal(t, "AAPL", fetcher.gotTicker)
	assert.Equal(t, "AAPL", q.Ticker)
}

func TestGet_InvalidTickerSkipsFetch(t *testing.T) {
	fetcher := &stubFetcher{}

	_, err := NewService(fetcher).Get(context.Background(), "not a ticker")
	assert.ErrorIs(t, err, entity.ErrValidationFailed)
	assert.Equal(t, 0, fetcher.calls)
}

func TestGet_NotFound(t *testing.T) {
	fetcher := &stubFetcher{err: finviz.ErrTickerNotFound}

	_, err := NewService(fetcher).Get(context.Background(), "ZZZZ")
	assert.ErrorIs(t, err, ErrTickerNotFound)
}

func TestGet_UpstreamError(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("connection refused")}

	_, err := NewService(fetcher).Get(context.Background(), "AAPL")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrTickerNotFound)
}

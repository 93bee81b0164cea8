package quote

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AuroraDai/weihao/internal/domain/entity"
	"github.com/AuroraDai/weihao/internal/infra/finviz"
	quoteUC "github.com/AuroraDai/weihao/internal/usecase/quote"
)

/* ───────── スタブ実装 ───────── */

type stubFetcher struct {
	quote *entity.Quote
	err   error
}

func (s *stubFetcher) FetchQuote(_ context.Context, _ string) (*entity.Quote, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.quote, nil
}

/* ───────── テスト ───────── */

func TestGetHandler_Success(t *testing.T) {
	fetcher := &stubFetcher{quote: &entity.Quote{
		Ticker:       "AAPL",
		Fundamentals: map[string]string{"P/E": "28.50"},
		News:         []entity.NewsItem{{Title: "Earnings beat", Link: "https://example.com/a"}},
		ChartURL:     "https://finviz.com/chart.ashx?t=AAPL&ty=c&ta=1&p=d",
	}}
	handler := GetHandler{Svc: quoteUC.NewService(fetcher)}

	req := httptest.NewRequest(http.MethodGet, "/quote/AAPL", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var dto DTO
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&dto))
	assert.Equal(t, "AAPL", dto.Ticker)
	assert.Equal(t, "28.50", dto.Fundamentals["P/E"])
	require.Len(t, dto.News, 1)
	assert.Equal(t, "Earnings beat", dto.News[0].Title)
}

func TestGetHandler_InvalidTicker(t *testing.T) {
	handler := GetHandler{Svc: quoteUC.NewService(&stubFetcher{})}

	req := httptest.NewRequest(http.MethodGet, "/quote/not%20a%20ticker", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetHandler_NotFound(t *testing.T) {
	handler := GetHandler{Svc: quoteUC.NewService(&stubFetcher{err: finviz.ErrTickerNotFound})}

	req := httptest.NewRequest(http.MethodGet, "/quote/ZZZZ", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestGetHandler_MissingTicker(t *testing.T) {
	handler := GetHandler{Svc: quoteUC.NewService(&stubFetcher{})}

	req := httptest.NewRequest(http.MethodGet, "/quote/", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

package news

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AuroraDai/weihao/internal/domain/entity"
	hhttp "github.com/AuroraDai/weihao/internal/handler/http"
	"github.com/AuroraDai/weihao/internal/summarize"
	newsUC "github.com/AuroraDai/weihao/internal/usecase/news"
)

/* ───────── スタブ実装 ───────── */

type stubFetcher struct {
	article *entity.Article
	err     error
}

func (s *stubFetcher) FetchArticle(_ context.Context, _ string) (*entity.Article, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.article, nil
}

type stubTranslator struct{}

func (stubTranslator) Translate(_ context.Context, text, _, _ string) (string, error) {
	return "ZH:" + text, nil
}

func (stubTranslator) Name() string { return "stub" }

func newHandler(f *stubFetcher) SummaryHandler {
	svc := newsUC.NewService(f, stubTranslator{}, summarize.New(), 5, 500, nil)
	return SummaryHandler{Svc: svc}
}

/* ───────── テスト ───────── */

func TestSummaryHandler_Success(t *testing.T) {
	text := strings.Repeat("The market moved higher on strong earnings. ", 10)
	handler := newHandler(&stubFetcher{article: &entity.Article{
		Title: "Markets Rise",
		Text:  text,
	}})

	req := httptest.NewRequest(http.MethodGet, "/news/summary?url=https%3A%2F%2Fexample.com%2Fa", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var result newsUC.SummaryResult
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&result))
	assert.Equal(t, "Markets Rise", result.Title)
	assert.NotEmpty(t, result.SummaryEN)
	assert.True(t, strings.HasPrefix(result.SummaryZH, "ZH:"))
}

func TestSummaryHandler_MissingURL(t *testing.T) {
	handler := newHandler(&stubFetcher{})

	req := httptest.NewRequest(http.MethodGet, "/news/summary", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestSummaryHandler_FetchFailure(t *testing.T) {
	handler := newHandler(&stubFetcher{err: newsUC.ErrFetchFailed})

	req := httptest.NewRequest(http.MethodGet, "/news/summary?url=https%3A%2F%2Fexample.com%2Fa", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadGateway, rec.Code)

	var body map[string]string
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "article fetch failed", body["error"])
}

func TestRegister_SummaryEndpointIsRateLimited(t *testing.T) {
	handler := newHandler(&stubFetcher{article: &entity.Article{
		Title: "Markets Rise",
		Text:  strings.Repeat("The market moved higher on strong earnings. ", 10),
	}})

	mux := http.NewServeMux()
	Register(mux, handler.Svc, hhttp.NewRateLimiter(1, time.Minute))

	send := func() int {
		req := httptest.NewRequest(http.MethodGet, "/news/summary?url=https%3A%2F%2Fexample.com%2Fa", nil)
		rec := httptest.NewRecorder()
		mux.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusOK, send())
	assert.Equal(t, http.StatusTooManyRequests, send())
}

func TestSummaryHandler_BlockedURL(t *testing.T) {
	handler := newHandler(&stubFetcher{err: newsUC.ErrInvalidURL})

	req := httptest.NewRequest(http.MethodGet, "/news/summary?url=http%3A%2F%2F127.0.0.1%2Fsecret", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

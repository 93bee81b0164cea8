package news

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AuroraDai/weihao/internal/domain/entity"
	"github.com/AuroraDai/weihao/internal/summarize"
)

/* ───────── スタブ実装 ───────── */

type stubFetcher struct {
	article *entity.Article
	err     error
	gotURL  string
}

func (s *stubFetcher) FetchArticle(_ context.Context, articleURL string) (*entity.Article, error) {
	s.gotURL = articleURL
	if s.err != nil {
		return nil, s.err
	}
	return s.article, nil
}

type stubTranslator struct {
	out   string
	err   error
	calls int
}

func (s *stubTranslator) Translate(_ context.Context, text, _, _ string) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	if s.out != "" {
		return s.out, nil
	}
	return "ZH:" + text, nil
}

func (s *stubTranslator) Name() string { return "stub" }

/* ───────── テスト ───────── */

func longArticleText() string {
	sentences := []string{
		"The Federal Reserve held interest rates steady at its January meeting.",
		"Officials signaled that inflation needs to cool further before any cuts.",
		"Markets rallied strongly on the news as investors priced in easing.",
		"The central bank also noted that the labor market remains resilient.",
		"Analysts expect the first rate cut to arrive in the second half.",
		"Treasury yields fell across the curve following the announcement.",
		"Equity strategists raised their year-end targets in response.",
	}
	return strings.Join(sentences, " ")
}

func newTestService(f *stubFetcher, tr Translator) *Service {
	return NewService(f, tr, summarize.New(), 5, 500, nil)
}

func TestSummarize_FullPipeline(t *testing.T) {
	published := time.Date(2024, 1, 5, 13, 30, 0, 0, time.UTC)
	fetcher := &stubFetcher{article: &entity.Article{
		URL:         "https://example.com/article",
		Title:       "Fed Holds Rates Steady",
		Text:        longArticleText(),
		Excerpt:     "The Fed held rates.",
		Authors:     []string{"Jane Doe"},
		PublishedAt: &published,
	}}
	translator := &stubTranslator{}

	result, err := newTestService(fetcher, translator).Summarize(context.Background(), "https://example.com/article")
	require.NoError(t, err)

	assert.Equal(t, "https://example.com/article", result.URL)
	assert.Equal(t, "Fed Holds Rates Steady", result.Title)
	assert.NotEmpty(t, result.SummaryEN)
	assert.True(t, strings.HasPrefix(result.SummaryZH, "ZH:"))
	assert.Equal(t, []string{"Jane Doe"}, result.Authors)
	assert.Equal(t, "2024-01-05T13:30:00Z", result.PublishDate)
	assert.Equal(t, 1, translator.calls)
}

func TestSummarize_ShortArticleUsesExcerpt(t *testing.T) {
	fetcher := &stubFetcher{article: &entity.Article{
		Title:   "Brief",
		Text:    "Too short for extraction.",
		Excerpt: "A short note about markets.",
	}}

	result, err := newTestService(fetcher, &stubTranslator{}).Summarize(context.Background(), "https://example.com/x")
	require.NoError(t, err)
	assert.Equal(t, "A short note about markets.", result.SummaryEN)
}

func TestSummarize_EmptyExtractionFallsBackToMessage(t *testing.T) {
	fetcher := &stubFetcher{article: &entity.Article{Title: "Empty"}}

	result, err := newTestService(fetcher, &stubTranslator{}).Summarize(context.Background(), "https://example.com/x")
	require.NoError(t, err)
	assert.Equal(t, "Unable to generate summary for this article.", result.SummaryEN)
}

func TestSummarize_TranslationFailureDegradesToEnglish(t *testing.T) {
	fetcher := &stubFetcher{article: &entity.Article{
		Title: "Fed Holds Rates Steady",
		Text:  longArticleText(),
	}}
	translator := &stubTranslator{err: errors.New("quota exceeded")}

	result, err := newTestService(fetcher, translator).Summarize(context.Background(), "https://example.com/x")
	require.NoError(t, err)
	assert.Equal(t, result.SummaryEN, result.SummaryZH)
}

func TestSummarize_NilTranslator(t *testing.T) {
	fetcher := &stubFetcher{article: &entity.Article{Text: longArticleText()}}

	result, err := newTestService(fetcher, nil).Summarize(context.Background(), "https://example.com/x")
	require.NoError(t, err)
	assert.Equal(t, result.SummaryEN, result.SummaryZH)
}

func TestSummarize_FetchFailure(t *testing.T) {
	fetcher := &stubFetcher{err: ErrFetchFailed}

	_, err := newTestService(fetcher, &stubTranslator{}).Summarize(context.Background(), "https://example.com/x")
	assert.ErrorIs(t, err, ErrFetchFailed)
}

func TestSummarize_ResolvesRelativeURL(t *testing.T) {
	fetcher := &stubFetcher{article: &entity.Article{Text: longArticleText()}}
	svc := newTestService(fetcher, &stubTranslator{})

	_, err := svc.Summarize(context.Background(), "/news/this.ashx?id=7")
	require.NoError(t, err)
	assert.Equal(t, "https://finviz.com/news/this.ashx?id=7", fetcher.gotURL)

	_, err = svc.Summarize(context.Background(), "news/other.ashx")
	require.NoError(t, err)
	assert.Equal(t, "https://finviz.com/news/other.ashx", fetcher.gotURL)
}

func TestSummarize_SummaryIsCapped(t *testing.T) {
	// One enormous terminator-free wall comes back from the summarizer
	// unchanged, so the word cap has to do the trimming.
	long := strings.Repeat("word ", 1200)
	fetcher := &stubFetcher{article: &entity.Article{Text: long}}

	svc := NewService(fetcher, nil, summarize.New(), 5, 50, nil)
	result, err := svc.Summarize(context.Background(), "https://example.com/x")
	require.NoError(t, err)
	assert.LessOrEqual(t, len(strings.Fields(result.SummaryEN)), 51)
}

func TestSummarize_EmptyURL(t *testing.T) {
	_, err := newTestService(&stubFetcher{}, nil).Summarize(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrInvalidURL)
}

// Package news implements the article summary pipeline: fetch the page,
// extract readable text, build an extractive English summary, and attach a
// Chinese translation.
package news

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/AuroraDai/weihao/internal/observability/metrics"
	"github.com/AuroraDai/weihao/internal/summarize"
)

const (
	// extractiveThreshold is the minimum extracted text length (in bytes)
	// before the frequency summarizer runs. Shorter articles fall back to
	// the page excerpt.
	extractiveThreshold = 200

	// unavailableSummary is returned when nothing usable was extracted.
	unavailableSummary = "Unable to generate summary for this article."

	finvizOrigin = "https://finviz.com"
)

// SummaryResult is the outcome of summarizing one article.
type SummaryResult struct {
	URL         string   `json:"url"`
	Title       string   `json:"title"`
	SummaryEN   string   `json:"summary_en"`
	SummaryZH   string   `json:"summary_zh"`
	Authors     []string `json:"authors"`
	PublishDate string   `json:"publish_date,omitempty"`
}

// Service orchestrates the summary pipeline.
//
// Degradation rules:
//   - extraction produced < extractiveThreshold bytes: use the excerpt
//   - nothing extracted at all: the summary is a fixed unavailable message
//   - translation failure: SummaryZH falls back to the English summary
//
// Only the article fetch itself is a hard failure.
type Service struct {
	fetcher      ArticleFetcher
	translator   Translator
	summarizer   *summarize.Summarizer
	maxSentences int
	maxWords     int
	logger       *slog.Logger
}

// NewService builds the news summary service. maxSentences and maxWords
// fall back to the summarize package defaults when non-positive.
func NewService(fetcher ArticleFetcher, translator Translator, summarizer *summarize.Summarizer, maxSentences, maxWords int, logger *slog.Logger) *Service {
	if maxSentences <= 0 {
		maxSentences = summarize.DefaultMaxSentences
	}
	if maxWords <= 0 {
		maxWords = summarize.DefaultMaxWords
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		fetcher:      fetcher,
		translator:   translator,
		summarizer:   summarizer,
		maxSentences: maxSentences,
		maxWords:     maxWords,
		logger:       logger,
	}
}

// Summarize runs the full pipeline for the article at rawURL.
// Finviz-relative links (as they appear in quote page news tables) are
// resolved against the Finviz origin before fetching.
func (s *Service) Summarize(ctx context.Context, rawURL string) (*SummaryResult, error) {
	articleURL := resolveURL(rawURL)
	if articleURL == "" {
		return nil, fmt.Errorf("%w: empty URL", ErrInvalidURL)
	}

	article, err := s.fetcher.FetchArticle(ctx, articleURL)
	if err != nil {
		return nil, fmt.Errorf("fetch article: %w", err)
	}

	start := time.Now()
	summaryEN, mode := s.buildSummary(article.Text, article.Excerpt)
	metrics.RecordSummary(mode, time.Since(start))

	result := &SummaryResult{
		URL:       articleURL,
		Title:     article.Title,
		SummaryEN: summaryEN,
		SummaryZH: s.translate(ctx, summaryEN),
		Authors:   article.Authors,
	}
	if article.PublishedAt != nil {
		result.PublishDate = article.PublishedAt.Format(time.RFC3339)
	}

	return result, nil
}

// buildSummary picks the summary source and caps it at the word limit.
// The returned mode labels the path taken for metrics.
func (s *Service) buildSummary(text, excerpt string) (summary, mode string) {
	switch {
	case len(text) > extractiveThreshold:
		summary, mode = s.summarizer.Summarize(text, s.maxSentences), "extractive"
	case strings.TrimSpace(excerpt) != "":
		summary, mode = excerpt, "excerpt"
	case strings.TrimSpace(text) != "":
		summary, mode = text, "excerpt"
	default:
		return unavailableSummary, "fallback"
	}

	if strings.TrimSpace(summary) == "" {
		return unavailableSummary, "fallback"
	}
	return summarize.CapWords(summary, s.maxWords), mode
}

// translate renders the English summary in Chinese. Translation failures
// degrade to the English text rather than failing the request.
func (s *Service) translate(ctx context.Context, summaryEN string) string {
	if s.translator == nil {
		return summaryEN
	}

	zh, err := s.translator.Translate(ctx, summaryEN, "en", "zh-CN")
	if err != nil {
		s.logger.Warn("translation failed, returning english summary",
			slog.String("provider", s.translator.Name()),
			slog.String("error", err.Error()))
		metrics.RecordTranslation(s.translator.Name(), "error")
		return summaryEN
	}

	metrics.RecordTranslation(s.translator.Name(), "success")
	return zh
}

// resolveURL makes Finviz-relative news links absolute.
func resolveURL(rawURL string) string {
	rawURL = strings.TrimSpace(rawURL)
	if rawURL == "" {
		return ""
	}
	if strings.HasPrefix(rawURL, "http://") || strings.HasPrefix(rawURL, "https://") {
		return rawURL
	}
	if strings.HasPrefix(rawURL, "/") {
		return finvizOrigin + rawURL
	}
	return finvizOrigin + "/" + rawURL
}

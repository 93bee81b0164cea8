// Package fetcher retrieves article pages and extracts their readable
// content with the Mozilla Readability algorithm.
package fetcher

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-shiori/go-readability"

	"github.com/AuroraDai/weihao/internal/domain/entity"
	"github.com/AuroraDai/weihao/internal/observability/metrics"
	"github.com/AuroraDai/weihao/internal/resilience/circuitbreaker"
	"github.com/AuroraDai/weihao/internal/usecase/news"
)

// ReadabilityFetcher implements news.ArticleFetcher using go-readability.
//
// Security features:
//   - SSRF prevention via URL validation, re-applied on every redirect
//   - Size limiting to prevent memory exhaustion
//   - Timeout protection against slow servers
//   - Circuit breaker to prevent cascading failures
//
// Thread safety: ReadabilityFetcher is safe for concurrent use.
type ReadabilityFetcher struct {
	client         *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	config         ArticleFetchConfig
}

// NewReadabilityFetcher creates an article fetcher with the given
// configuration.
func NewReadabilityFetcher(config ArticleFetchConfig) *ReadabilityFetcher {
	fetcher := &ReadabilityFetcher{
		circuitBreaker: circuitbreaker.New(circuitbreaker.ArticleFetchConfig()),
		config:         config,
	}

	fetcher.client = &http.Client{
		Timeout: 30 * time.Second,
		Transport: &http.Transport{
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
		},
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			if len(via) >= fetcher.config.MaxRedirects {
				return fmt.Errorf("%w: %d redirects", news.ErrTooManyRedirects, len(via))
			}
			// リダイレクト先も毎回SSRF検証する
			if err := entity.ValidateURL(req.URL.String(), fetcher.config.DenyPrivateIPs); err != nil {
				return fmt.Errorf("redirect target validation failed: %w", err)
			}
			return nil
		},
	}

	return fetcher
}

// Breaker exposes the article fetch circuit breaker for health reporting.
func (f *ReadabilityFetcher) Breaker() *circuitbreaker.CircuitBreaker {
	return f.circuitBreaker
}

// FetchArticle downloads the page at articleURL and returns the extracted
// article: title, plain text body, excerpt, byline authors, and publish
// date when the page exposes one.
func (f *ReadabilityFetcher) FetchArticle(ctx context.Context, articleURL string) (*entity.Article, error) {
	if err := entity.ValidateURL(articleURL, f.config.DenyPrivateIPs); err != nil {
		return nil, fmt.Errorf("%w: %v", news.ErrInvalidURL, err)
	}

	result, err := f.circuitBreaker.Execute(func() (interface{}, error) {
		return f.doFetch(ctx, articleURL)
	})
	if err != nil {
		return nil, err
	}

	return result.(*entity.Article), nil
}

func (f *ReadabilityFetcher) doFetch(ctx context.Context, articleURL string) (*entity.Article, error) {
	start := time.Now()
	defer func() {
		metrics.ArticleFetchDuration.Observe(time.Since(start).Seconds())
	}()

	reqCtx, cancel := context.WithTimeout(ctx, f.config.Timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, articleURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", news.ErrInvalidURL, err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; FinvizProxy/1.0)")

	resp, err := f.client.Do(req)
	if err != nil {
		if reqCtx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("%w: request exceeded %v", news.ErrTimeout, f.config.Timeout)
		}
		// Unwrap redirect validation errors so errors.Is keeps working.
		if urlErr, ok := err.(*url.Error); ok && urlErr.Err != nil {
			return nil, fmt.Errorf("%w: %v", news.ErrFetchFailed, urlErr.Err)
		}
		return nil, fmt.Errorf("%w: %v", news.ErrFetchFailed, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: HTTP %d", news.ErrFetchFailed, resp.StatusCode)
	}

	limitedReader := io.LimitReader(resp.Body, f.config.MaxBodySize+1)
	htmlBytes, err := io.ReadAll(limitedReader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", news.ErrFetchFailed, err)
	}
	if int64(len(htmlBytes)) > f.config.MaxBodySize {
		return nil, fmt.Errorf("%w: response exceeds %d bytes", news.ErrBodyTooLarge, f.config.MaxBodySize)
	}

	// Use the final URL after redirects so relative links resolve correctly.
	parsedURL, err := url.Parse(articleURL)
	if err != nil {
		parsedURL = nil
	}
	if resp.Request != nil && resp.Request.URL != nil {
		parsedURL = resp.Request.URL
	}

	extracted, err := readability.FromReader(bytes.NewReader(htmlBytes), parsedURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", news.ErrExtractionFailed, err)
	}

	text := extracted.TextContent
	if strings.TrimSpace(text) == "" && strings.TrimSpace(extracted.Excerpt) == "" {
		return nil, fmt.Errorf("%w: no readable content found", news.ErrExtractionFailed)
	}

	article := &entity.Article{
		URL:         articleURL,
		Title:       extracted.Title,
		Text:        strings.TrimSpace(text),
		Excerpt:     strings.TrimSpace(extracted.Excerpt),
		Authors:     splitByline(extracted.Byline),
		PublishedAt: extracted.PublishedTime,
	}

	return article, nil
}

// splitByline turns a readability byline like "Jane Doe and John Smith"
// into individual author names.
func splitByline(byline string) []string {
	byline = strings.TrimSpace(byline)
	if byline == "" {
		return nil
	}

	normalized := strings.NewReplacer(" and ", ",", " & ", ",").Replace(byline)
	parts := strings.Split(normalized, ",")

	var authors []string
	for _, p := range parts {
		if name := strings.TrimSpace(p); name != "" {
			authors = append(authors, name)
		}
	}
	return authors
}

// Package finviz implements the Finviz collaborators: the quote page scraper
// and the screener CSV export client. All outbound traffic is rate limited
// and runs through circuit breaker and retry.
package finviz

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"github.com/AuroraDai/weihao/internal/domain/entity"
	"github.com/AuroraDai/weihao/internal/resilience/circuitbreaker"
	"github.com/AuroraDai/weihao/internal/resilience/retry"
)

const (
	defaultBaseURL   = "https://finviz.com"
	defaultUserAgent = "Mozilla/5.0 (compatible; FinvizProxy/1.0)"
	maxBodySize      = 5 * 1024 * 1024 // 5MB
)

// ErrTickerNotFound indicates Finviz has no page for the requested symbol.
var ErrTickerNotFound = errors.New("ticker not found")

// Config holds the settings for the quote scraper.
type Config struct {
	// BaseURL is the Finviz origin (overridable for tests).
	BaseURL string

	// Timeout is the per-request timeout.
	Timeout time.Duration

	// RequestsPerSecond caps sustained outbound request rate. Finviz
	// throttles scrapers, so the default is deliberately low.
	RequestsPerSecond float64

	// Burst is the token bucket burst size.
	Burst int
}

// DefaultConfig returns the production scraper configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:           defaultBaseURL,
		Timeout:           15 * time.Second,
		RequestsPerSecond: 1.0,
		Burst:             3,
	}
}

// Client scrapes ticker snapshots from Finviz quote pages.
// Safe for concurrent use.
type Client struct {
	baseURL        string
	httpClient     *http.Client
	limiter        *rate.Limiter
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	timeout        time.Duration
}

// NewClient creates a quote scraper with the given configuration.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = defaultBaseURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	if cfg.RequestsPerSecond <= 0 {
		cfg.RequestsPerSecond = 1.0
	}
	if cfg.Burst <= 0 {
		cfg.Burst = 1
	}

	return &Client{
		baseURL: strings.TrimSuffix(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter:        rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		circuitBreaker: circuitbreaker.New(circuitbreaker.QuoteScrapeConfig()),
		retryConfig:    retry.ScrapeConfig(),
		timeout:        cfg.Timeout,
	}
}

// Breaker exposes the scrape circuit breaker for health reporting.
func (c *Client) Breaker() *circuitbreaker.CircuitBreaker {
	return c.circuitBreaker
}

// FetchQuote scrapes the quote page for ticker and returns the normalized
// snapshot: fundamentals table, news list, and a derived chart URL.
// The ticker must already be normalized (see entity.NormalizeTicker).
func (c *Client) FetchQuote(ctx context.Context, ticker string) (*entity.Quote, error) {
	// Outbound rate limit applies before retry so retries also pay for tokens.
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limit wait: %w", err)
	}

	var quote *entity.Quote
	retryErr := retry.WithBackoff(ctx, c.retryConfig, func() error {
		cbResult, err := c.circuitBreaker.Execute(func() (interface{}, error) {
			return c.doFetch(ctx, ticker)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("finviz quote circuit breaker open, request rejected",
					slog.String("ticker", ticker),
					slog.String("state", c.circuitBreaker.State().String()))
			}
			return err
		}
		quote = cbResult.(*entity.Quote)
		return nil
	})
	if retryErr != nil {
		return nil, retryErr
	}
	return quote, nil
}

// doFetch performs one scrape attempt without retry or circuit breaker.
func (c *Client) doFetch(ctx context.Context, ticker string) (*entity.Quote, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	quoteURL := fmt.Sprintf("%s/quote.ashx?t=%s&p=d", c.baseURL, url.QueryEscape(ticker))
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, quoteURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch quote page: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode == http.StatusNotFound {
		return nil, ErrTickerNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return nil, &retry.HTTPError{StatusCode: resp.StatusCode, Message: resp.Status}
	}

	doc, err := goquery.NewDocumentFromReader(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("parse quote page: %w", err)
	}

	fundamentals := parseFundamentals(doc)
	if len(fundamentals) == 0 {
		// Finviz serves a search page instead of a 404 for unknown symbols.
		return nil, ErrTickerNotFound
	}

	return &entity.Quote{
		Ticker:       ticker,
		Fundamentals: fundamentals,
		News:         c.parseNews(doc),
		ChartURL:     fmt.Sprintf("%s/chart.ashx?t=%s&ty=c&ta=1&p=d", c.baseURL, url.QueryEscape(ticker)),
	}, nil
}

// parseFundamentals walks the snapshot table, whose cells alternate between
// field label and field value. This is the single normalization step for the
// quote record: labels are trimmed, values kept verbatim.
func parseFundamentals(doc *goquery.Document) map[string]string {
	fundamentals := make(map[string]string)

	doc.Find("table.snapshot-table2 tr").Each(func(_ int, row *goquery.Selection) {
		cells := row.Find("td")
		for i := 0; i+1 < cells.Length(); i += 2 {
			label := strings.TrimSpace(cells.Eq(i).Text())
			value := strings.TrimSpace(cells.Eq(i + 1).Text())
			if label == "" {
				continue
			}
			fundamentals[label] = value
		}
	})

	return fundamentals
}

// parseNews extracts the headline rows attached to the ticker. Rows for the
// same day omit the date part, so the last seen date is carried forward.
func (c *Client) parseNews(doc *goquery.Document) []entity.NewsItem {
	var items []entity.NewsItem
	lastDate := ""

	doc.Find("table#news-table tr").Each(func(_ int, row *goquery.Selection) {
		link := row.Find("a")
		if link.Length() == 0 {
			return
		}

		stamp := strings.TrimSpace(row.Find("td").First().Text())
		if parts := strings.Fields(stamp); len(parts) == 2 {
			lastDate = parts[0]
		} else if lastDate != "" {
			stamp = lastDate + " " + stamp
		}

		href, _ := link.First().Attr("href")
		items = append(items, entity.NewsItem{
			Date:   stamp,
			Title:  strings.TrimSpace(link.First().Text()),
			Link:   c.resolveLink(href),
			Source: strings.Trim(strings.TrimSpace(row.Find("span").Last().Text()), "()"),
		})
	})

	return items
}

// resolveLink turns Finviz-relative news links into absolute URLs.
func (c *Client) resolveLink(href string) string {
	if href == "" || strings.HasPrefix(href, "http://") || strings.HasPrefix(href, "https://") {
		return href
	}
	if strings.HasPrefix(href, "/") {
		return c.baseURL + href
	}
	return c.baseURL + "/" + href
}

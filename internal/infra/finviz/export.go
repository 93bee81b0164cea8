package finviz

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/sony/gobreaker"

	"github.com/AuroraDai/weihao/internal/domain/entity"
	"github.com/AuroraDai/weihao/internal/resilience/circuitbreaker"
	"github.com/AuroraDai/weihao/internal/resilience/retry"
)

// maxExportSize bounds the screener CSV download. Elite exports of wide
// screens run to a few MB; anything beyond this is treated as abuse.
const maxExportSize = 20 * 1024 * 1024 // 20MB

// ErrExportNotConfigured indicates no export URL was provided at startup.
var ErrExportNotConfigured = errors.New("screener export URL not configured")

// ExportClient downloads the pre-built screener CSV export and decodes it
// into row maps keyed by the CSV header.
type ExportClient struct {
	exportURL      string
	httpClient     *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	timeout        time.Duration
}

// NewExportClient creates a screener export client. The exportURL carries
// the screener filters and the auth token, so it is treated as a secret and
// never logged.
func NewExportClient(exportURL string, timeout time.Duration) *ExportClient {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &ExportClient{
		exportURL: exportURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		circuitBreaker: circuitbreaker.New(circuitbreaker.ExportFetchConfig()),
		retryConfig:    retry.ScrapeConfig(),
		timeout:        timeout,
	}
}

// Breaker exposes the export circuit breaker for health reporting.
func (c *ExportClient) Breaker() *circuitbreaker.CircuitBreaker {
	return c.circuitBreaker
}

// FetchRows downloads the export CSV and returns one map per data row.
func (c *ExportClient) FetchRows(ctx context.Context) ([]entity.ScreenerRow, error) {
	if c.exportURL == "" {
		return nil, ErrExportNotConfigured
	}

	var rows []entity.ScreenerRow
	retryErr := retry.WithBackoff(ctx, c.retryConfig, func() error {
		cbResult, err := c.circuitBreaker.Execute(func() (interface{}, error) {
			return c.doFetch(ctx)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("screener export circuit breaker open, request rejected",
					slog.String("state", c.circuitBreaker.State().String()))
			}
			return err
		}
		rows = cbResult.([]entity.ScreenerRow)
		return nil
	})
	if retryErr != nil {
		return nil, retryErr
	}
	return rows, nil
}

func (c *ExportClient) doFetch(ctx context.Context) ([]entity.ScreenerRow, error) {
	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, c.exportURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", defaultUserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch export: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, &retry.HTTPError{StatusCode: resp.StatusCode, Message: resp.Status}
	}

	return decodeRows(io.LimitReader(resp.Body, maxExportSize))
}

// decodeRows reads a header-first CSV stream into row maps. Short records
// are tolerated (missing trailing cells become empty strings); the header
// itself is required.
func decodeRows(r io.Reader) ([]entity.ScreenerRow, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, errors.New("export CSV is empty")
		}
		return nil, fmt.Errorf("read CSV header: %w", err)
	}

	var rows []entity.ScreenerRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read CSV record: %w", err)
		}

		row := make(entity.ScreenerRow, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = record[i]
			} else {
				row[col] = ""
			}
		}
		rows = append(rows, row)
	}

	return rows, nil
}

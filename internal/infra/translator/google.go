package translator

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/sony/gobreaker"
	"golang.org/x/sync/errgroup"

	"github.com/AuroraDai/weihao/internal/resilience/circuitbreaker"
	"github.com/AuroraDai/weihao/internal/resilience/retry"
)

const (
	defaultGoogleEndpoint = "https://translate.googleapis.com/translate_a/single"
	googleMaxResponseSize = 2 * 1024 * 1024 // 2MB
)

// GoogleConfig holds settings for the Google Translate adapter.
type GoogleConfig struct {
	// Endpoint is the translate_a/single URL (overridable for tests).
	Endpoint string

	// Timeout is the per-request timeout.
	Timeout time.Duration

	// Parallelism bounds concurrent chunk translations for long inputs.
	Parallelism int
}

// Google translates text through the public Google Translate web endpoint.
// No API key is required, which makes it the default provider; the endpoint
// is unofficial, so failures are expected and callers must degrade.
//
// Thread safety: Google is safe for concurrent use.
type Google struct {
	endpoint       string
	httpClient     *http.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	parallelism    int
	timeout        time.Duration
}

// NewGoogle creates the Google Translate adapter.
func NewGoogle(cfg GoogleConfig) *Google {
	if cfg.Endpoint == "" {
		cfg.Endpoint = defaultGoogleEndpoint
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Parallelism <= 0 {
		cfg.Parallelism = 4
	}

	return &Google{
		endpoint: cfg.Endpoint,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		circuitBreaker: circuitbreaker.New(circuitbreaker.TranslateConfig("google")),
		retryConfig:    retry.TranslateConfig(),
		parallelism:    cfg.Parallelism,
		timeout:        cfg.Timeout,
	}
}

// Name implements news.Translator.
func (g *Google) Name() string { return "google" }

// Translate converts text from source to target. Long inputs are split on
// sentence boundaries and the chunks are translated concurrently, then
// rejoined in the original order.
func (g *Google) Translate(ctx context.Context, text, source, target string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", nil
	}

	chunks := splitChunks(text, maxChunkRunes)
	if len(chunks) == 1 {
		return g.translateChunk(ctx, chunks[0], source, target)
	}

	translated := make([]string, len(chunks))
	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(g.parallelism)

	for i, chunk := range chunks {
		group.Go(func() error {
			out, err := g.translateChunk(groupCtx, chunk, source, target)
			if err != nil {
				return fmt.Errorf("chunk %d/%d: %w", i+1, len(chunks), err)
			}
			translated[i] = out
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return "", err
	}

	return strings.Join(translated, ""), nil
}

// translateChunk translates one chunk through circuit breaker and retry.
func (g *Google) translateChunk(ctx context.Context, chunk, source, target string) (string, error) {
	var result string

	retryErr := retry.WithBackoff(ctx, g.retryConfig, func() error {
		cbResult, err := g.circuitBreaker.Execute(func() (interface{}, error) {
			return g.doTranslate(ctx, chunk, source, target)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("google translate circuit breaker open, request rejected",
					slog.String("state", g.circuitBreaker.State().String()))
			}
			return err
		}
		result = cbResult.(string)
		return nil
	})
	if retryErr != nil {
		return "", fmt.Errorf("google translate failed after retries: %w", retryErr)
	}

	return result, nil
}

func (g *Google) doTranslate(ctx context.Context, chunk, source, target string) (string, error) {
	reqCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	params := url.Values{}
	params.Set("client", "gtx")
	params.Set("sl", source)
	params.Set("tl", target)
	params.Set("dt", "t")
	params.Set("q", chunk)

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, g.endpoint+"?"+params.Encode(), nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("translate request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return "", &retry.HTTPError{StatusCode: resp.StatusCode, Message: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, googleMaxResponseSize))
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	return decodeGoogleResponse(body)
}

// decodeGoogleResponse parses the translate_a/single payload. The response
// is a nested JSON array where element [0] holds segment pairs of the form
// [translated, original, ...]; the translated parts are concatenated.
func decodeGoogleResponse(body []byte) (string, error) {
	var payload []json.RawMessage
	if err := json.Unmarshal(body, &payload); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(payload) == 0 {
		return "", errors.New("empty translate response")
	}

	var segments [][]json.RawMessage
	if err := json.Unmarshal(payload[0], &segments); err != nil {
		return "", fmt.Errorf("decode segments: %w", err)
	}

	var out strings.Builder
	for _, seg := range segments {
		if len(seg) == 0 {
			continue
		}
		var piece string
		if err := json.Unmarshal(seg[0], &piece); err != nil {
			continue
		}
		out.WriteString(piece)
	}

	if out.Len() == 0 {
		return "", errors.New("translate response contained no text")
	}
	return out.String(), nil
}

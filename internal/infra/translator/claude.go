package translator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/sony/gobreaker"

	"github.com/AuroraDai/weihao/internal/resilience/circuitbreaker"
	"github.com/AuroraDai/weihao/internal/resilience/retry"
)

// Claude implements news.Translator using Anthropic's Claude API.
// It includes circuit breaker and retry logic for improved reliability.
type Claude struct {
	client         anthropic.Client
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
	model          string
	maxTokens      int
	timeout        time.Duration
}

// NewClaude creates a Claude translator with the given API key.
func NewClaude(apiKey string) *Claude {
	return &Claude{
		client:         anthropic.NewClient(option.WithAPIKey(apiKey)),
		circuitBreaker: circuitbreaker.New(circuitbreaker.TranslateConfig("claude")),
		retryConfig:    retry.TranslateConfig(),
		model:          string(anthropic.ModelClaudeSonnet4_5_20250929),
		maxTokens:      2048,
		timeout:        60 * time.Second,
	}
}

// Name implements news.Translator.
func (c *Claude) Name() string { return "claude" }

// Translate converts text from source to target language.
func (c *Claude) Translate(ctx context.Context, text, source, target string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	var result string

	retryErr := retry.WithBackoff(ctx, c.retryConfig, func() error {
		cbResult, err := c.circuitBreaker.Execute(func() (interface{}, error) {
			return c.doTranslate(ctx, text, source, target)
		})
		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("claude translate circuit breaker open, request rejected",
					slog.String("state", c.circuitBreaker.State().String()))
				return fmt.Errorf("claude api unavailable: circuit breaker open")
			}
			return err
		}
		result = cbResult.(string)
		return nil
	})
	if retryErr != nil {
		return "", fmt.Errorf("claude translate failed after retries: %w", retryErr)
	}

	return result, nil
}

func (c *Claude) doTranslate(ctx context.Context, text, source, target string) (string, error) {
	start := time.Now()

	prompt := fmt.Sprintf(
		"Translate the following text from %s to %s. Output only the translation:\n%s",
		source, target, text)

	message, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(c.model),
		MaxTokens: int64(c.maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(
				anthropic.NewTextBlock(prompt),
			),
		},
	})

	duration := time.Since(start)

	if err != nil {
		slog.ErrorContext(ctx, "translation failed",
			slog.String("provider", "claude"),
			slog.Duration("duration", duration),
			slog.String("error", err.Error()))
		return "", fmt.Errorf("claude api error: %w", err)
	}

	if len(message.Content) == 0 {
		return "", fmt.Errorf("claude api returned empty response")
	}

	textBlock, ok := message.Content[0].AsAny().(anthropic.TextBlock)
	if !ok {
		return "", fmt.Errorf("claude api returned unexpected response type")
	}

	slog.DebugContext(ctx, "translation completed",
		slog.String("provider", "claude"),
		slog.Duration("duration", duration))

	return textBlock.Text, nil
}

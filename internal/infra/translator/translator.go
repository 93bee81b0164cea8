// Package translator provides machine translation implementations used to
// render article summaries in Chinese. It includes a Google Translate web
// endpoint adapter plus OpenAI and Claude adapters, all with circuit breaker
// and retry logic.
package translator

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/AuroraDai/weihao/internal/usecase/news"
)

// maxChunkRunes is the largest text slice sent in a single translation
// request. The Google web endpoint rejects long query strings, so larger
// inputs are split on sentence boundaries and translated per chunk.
const maxChunkRunes = 4500

// New creates the translator selected by TRANSLATOR_PROVIDER.
//
// Supported providers:
//   - "google" (default): Google Translate web endpoint, no API key needed
//   - "openai": OpenAI chat completion, requires OPENAI_API_KEY
//   - "claude": Anthropic Claude, requires ANTHROPIC_API_KEY
func New() (news.Translator, error) {
	provider := strings.ToLower(strings.TrimSpace(os.Getenv("TRANSLATOR_PROVIDER")))
	switch provider {
	case "", "google":
		return NewGoogle(GoogleConfig{}), nil
	case "openai":
		apiKey := os.Getenv("OPENAI_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY is required for the openai translator")
		}
		return NewOpenAI(apiKey), nil
	case "claude":
		apiKey := os.Getenv("ANTHROPIC_API_KEY")
		if apiKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY is required for the claude translator")
		}
		return NewClaude(apiKey), nil
	default:
		return nil, fmt.Errorf("unknown TRANSLATOR_PROVIDER %q", provider)
	}
}

// splitChunks breaks text into pieces of at most maxRunes runes, preferring
// to cut after sentence terminators so each request keeps whole sentences.
func splitChunks(text string, maxRunes int) []string {
	if utf8.RuneCountInString(text) <= maxRunes {
		return []string{text}
	}

	var chunks []string
	var current strings.Builder
	currentRunes := 0

	flush := func() {
		if current.Len() > 0 {
			chunks = append(chunks, current.String())
			current.Reset()
			currentRunes = 0
		}
	}

	for _, sentence := range splitSentences(text) {
		n := utf8.RuneCountInString(sentence)
		if currentRunes+n > maxRunes {
			flush()
		}
		// A single oversized sentence is hard-split by rune count.
		for n > maxRunes {
			runes := []rune(sentence)
			chunks = append(chunks, string(runes[:maxRunes]))
			sentence = string(runes[maxRunes:])
			n = utf8.RuneCountInString(sentence)
		}
		current.WriteString(sentence)
		currentRunes += n
	}
	flush()

	return chunks
}

// splitSentences cuts text after sentence terminators followed by space,
// keeping the delimiter with the preceding piece.
func splitSentences(text string) []string {
	var parts []string
	start := 0
	runes := []rune(text)

	for i := 0; i < len(runes)-1; i++ {
		switch runes[i] {
		case '.', '!', '?':
			if runes[i+1] == ' ' || runes[i+1] == '\n' || runes[i+1] == '\t' {
				parts = append(parts, string(runes[start:i+2]))
				start = i + 2
			}
		}
	}
	if start < len(runes) {
		parts = append(parts, string(runes[start:]))
	}
	return parts
}

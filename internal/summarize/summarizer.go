// Package summarize implements frequency-based extractive summarization and
// word-boundary-safe truncation for article text. Sentences are scored by the
// document-wide frequency of their words (stopwords excluded) and the top
// scorers are returned in original document order.
package summarize

import (
	"regexp"
	"sort"
	"strings"
	"unicode"

	"github.com/neurosnap/sentences"
	"github.com/neurosnap/sentences/english"
)

// DefaultMaxSentences is the sentence ceiling used when the caller passes a
// non-positive value.
const DefaultMaxSentences = 5

// fallbackBoundary approximates sentence boundaries when the Punkt tokenizer
// is unavailable.
var fallbackBoundary = regexp.MustCompile(`[^.!?]+[.!?]+["')\]]*\s*`)

// Summarizer produces extractive summaries of English text. The zero value is
// not usable; construct with New. A Summarizer holds only the immutable
// sentence tokenizer, so it is safe for concurrent use and no state survives
// across calls.
type Summarizer struct {
	tokenizer *sentences.DefaultSentenceTokenizer
}

// New returns a Summarizer backed by the Punkt English sentence tokenizer.
// If the tokenizer training data cannot be loaded, the Summarizer still works
// and degrades to the regexp-based fallback split on every call.
func New() *Summarizer {
	tok, err := english.NewSentenceTokenizer(nil)
	if err != nil {
		// Degraded mode: Summarize falls back to naive truncation.
		return &Summarizer{}
	}
	return &Summarizer{tokenizer: tok}
}

// Summarize returns an extractive summary of text containing at most
// maxSentences sentences, in their original order. If the document has no
// more than maxSentences sentences the input is returned unchanged.
//
// Summarize never fails: any internal error degrades to naive truncation
// (the first maxSentences sentences, or whitespace chunks when no sentence
// boundary exists). This is the terminal error boundary for the operation.
func (s *Summarizer) Summarize(text string, maxSentences int) (out string) {
	if maxSentences <= 0 {
		maxSentences = DefaultMaxSentences
	}

	defer func() {
		if recover() != nil {
			out = s.naiveTruncate(text, maxSentences)
		}
	}()

	if s.tokenizer == nil {
		return s.naiveTruncate(text, maxSentences)
	}

	sents := s.splitSentences(text)
	if len(sents) <= maxSentences {
		return text
	}

	freq := wordFrequencies(text)
	scores := make([]sentenceScore, len(sents))
	for i, sent := range sents {
		scores[i] = sentenceScore{index: i, score: scoreSentence(sent, freq)}
	}

	// Rank by score descending. Ties break toward the earlier sentence: the
	// sort is stable and the input is already in document order.
	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].score > scores[j].score
	})

	selected := scores[:maxSentences]
	sort.Slice(selected, func(i, j int) bool {
		return selected[i].index < selected[j].index
	})

	parts := make([]string, 0, len(selected))
	for _, sc := range selected {
		parts = append(parts, strings.TrimSpace(sents[sc.index]))
	}
	return strings.Join(parts, " ")
}

type sentenceScore struct {
	index int
	score int
}

// splitSentences tokenizes text into sentences using the Punkt tokenizer.
func (s *Summarizer) splitSentences(text string) []string {
	tokens := s.tokenizer.Tokenize(text)
	out := make([]string, 0, len(tokens))
	for _, t := range tokens {
		if strings.TrimSpace(t.Text) == "" {
			continue
		}
		out = append(out, t.Text)
	}
	return out
}

// wordFrequencies builds the document-wide frequency table over normalized
// words, excluding stopwords. The table is built fresh per call.
func wordFrequencies(text string) map[string]int {
	freq := make(map[string]int)
	for _, w := range tokenizeWords(text) {
		if IsStopword(w) {
			continue
		}
		freq[w]++
	}
	return freq
}

// scoreSentence sums the frequency table entries for every word occurrence in
// the sentence. Words outside the table (including stopwords) contribute 0;
// a word appearing twice contributes its frequency twice.
func scoreSentence(sentence string, freq map[string]int) int {
	score := 0
	for _, w := range tokenizeWords(sentence) {
		score += freq[w]
	}
	return score
}

// tokenizeWords lower-cases the text and returns its maximal alphanumeric
// runs. Punctuation-only tokens disappear, so only scoreable words remain.
func tokenizeWords(text string) []string {
	lower := strings.ToLower(text)
	return strings.FieldsFunc(lower, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsNumber(r)
	})
}

// naiveTruncate is the fallback when sentence tokenization is unavailable:
// the first maxSentences regexp-delimited sentences joined by spaces, or the
// first maxSentences whitespace chunks when no boundary exists at all.
func (s *Summarizer) naiveTruncate(text string, maxSentences int) string {
	sents := fallbackBoundary.FindAllString(text, -1)
	if len(sents) == 0 {
		fields := strings.Fields(text)
		if len(fields) > maxSentences {
			fields = fields[:maxSentences]
		}
		return strings.Join(fields, " ")
	}
	if len(sents) > maxSentences {
		sents = sents[:maxSentences]
	}
	for i, sent := range sents {
		sents[i] = strings.TrimSpace(sent)
	}
	return strings.Join(sents, " ")
}

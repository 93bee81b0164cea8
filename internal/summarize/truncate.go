package summarize

import (
	"regexp"
	"strings"
)

// DefaultMaxWords is the word ceiling applied to user-facing summaries.
const DefaultMaxWords = 500

// Ellipsis marks a summary that was cut short.
const Ellipsis = "..."

// sentenceEnd matches a Latin sentence terminator followed by whitespace.
var sentenceEnd = regexp.MustCompile(`[.!?]\s+`)

// CapWords enforces a word-count ceiling on a summary without ever ending
// mid-sentence. Text with at most maxWords whitespace-delimited words is
// returned unchanged. Otherwise the first maxWords words are kept and the
// result is cut back to the last sentence terminator inside that window,
// with an ellipsis appended; if no terminator exists inside the window the
// ellipsis is appended to the bare word cut.
//
// CapWords is idempotent and never increases the word count.
func CapWords(s string, maxWords int) string {
	if maxWords <= 0 {
		maxWords = DefaultMaxWords
	}

	words := strings.Fields(s)
	if len(words) <= maxWords {
		return s
	}

	truncated := strings.Join(words[:maxWords], " ")

	// Cut at the last complete sentence inside the word window.
	ends := sentenceEnd.FindAllStringIndex(truncated, -1)
	if len(ends) == 0 {
		return truncated + Ellipsis
	}
	last := ends[len(ends)-1]
	return strings.TrimRight(truncated[:last[1]], " \t\n") + Ellipsis
}

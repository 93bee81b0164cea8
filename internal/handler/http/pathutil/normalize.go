// Package pathutil normalizes request paths for metric labels.
package pathutil

import "strings"

// NormalizePath collapses per-symbol path segments into placeholders so
// metric label cardinality stays bounded.
//
// Examples:
//
//	/quote/AAPL      -> /quote/:ticker
//	/quote/BRK.B     -> /quote/:ticker
//	/screener        -> /screener
//	/news/summary    -> /news/summary
func NormalizePath(path string) string {
	if rest, ok := strings.CutPrefix(path, "/quote/"); ok && rest != "" {
		return "/quote/:ticker"
	}
	return path
}

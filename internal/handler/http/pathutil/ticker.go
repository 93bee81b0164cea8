package pathutil

import (
	"errors"
	"strings"
)

// ErrInvalidTicker is returned when the ticker segment of a URL path is
// missing or contains further path segments.
var ErrInvalidTicker = errors.New("invalid ticker")

// ExtractTicker extracts the ticker segment from a URL path.
// It removes the specified prefix and rejects empty or nested remainders.
// The returned value is the raw segment; symbol validation happens in the
// quote service.
//
// Example:
//
//	ticker, err := ExtractTicker("/quote/AAPL", "/quote/")
//	// Returns: "AAPL", nil
func ExtractTicker(path, prefix string) (string, error) {
	ticker := strings.TrimPrefix(path, prefix)
	if ticker == "" || strings.Contains(ticker, "/") {
		return "", ErrInvalidTicker
	}
	return ticker, nil
}

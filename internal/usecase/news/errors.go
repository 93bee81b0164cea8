package news

import "errors"

// Sentinel errors for the article summary pipeline. Handlers map these to
// HTTP status codes; infra implementations wrap them so callers can use
// errors.Is without depending on the concrete fetcher.
var (
	// ErrInvalidURL indicates the article URL is malformed or blocked.
	ErrInvalidURL = errors.New("invalid article URL")

	// ErrFetchFailed indicates the upstream article could not be retrieved.
	ErrFetchFailed = errors.New("article fetch failed")

	// ErrTimeout indicates the fetch exceeded its deadline.
	ErrTimeout = errors.New("article fetch timeout")

	// ErrTooManyRedirects indicates the redirect chain exceeded the limit.
	ErrTooManyRedirects = errors.New("too many redirects")

	// ErrBodyTooLarge indicates the response exceeded the size limit.
	ErrBodyTooLarge = errors.New("response body too large")

	// ErrExtractionFailed indicates readability found no usable content.
	ErrExtractionFailed = errors.New("content extraction failed")
)

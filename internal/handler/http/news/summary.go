// Package news provides the HTTP handler for article summarization.
package news

import (
	"errors"
	"net/http"

	hhttp "github.com/AuroraDai/weihao/internal/handler/http"
	"github.com/AuroraDai/weihao/internal/handler/http/respond"
	newsUC "github.com/AuroraDai/weihao/internal/usecase/news"
)

// SummaryHandler serves GET /news/summary?url=...: fetches the article,
// extracts its text, and returns English and Chinese summaries.
type SummaryHandler struct{ Svc *newsUC.Service }

func (h SummaryHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	articleURL := r.URL.Query().Get("url")
	if articleURL == "" {
		respond.SafeError(w, http.StatusBadRequest, errors.New("url query parameter is required"))
		return
	}

	result, err := h.Svc.Summarize(r.Context(), articleURL)
	if err != nil {
		code := http.StatusBadGateway
		if errors.Is(err, newsUC.ErrInvalidURL) {
			code = http.StatusBadRequest
		}
		respond.SafeErrorV2(w, code,
			respond.NewAppError(code, userMessage(err), err))
		return
	}

	respond.JSON(w, http.StatusOK, result)
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, newsUC.ErrInvalidURL):
		return "invalid article URL"
	case errors.Is(err, newsUC.ErrBodyTooLarge):
		return "article too large to process"
	case errors.Is(err, newsUC.ErrExtractionFailed):
		return "could not extract readable content from article"
	default:
		return "article fetch failed"
	}
}

// Register registers the news HTTP handlers with the given mux.
// Summarization fans out to article fetch and translation, so the endpoint
// carries its own rate limit on top of the global one.
func Register(mux *http.ServeMux, svc *newsUC.Service, summaryRateLimiter *hhttp.RateLimiter) {
	mux.Handle("GET /news/summary", summaryRateLimiter.Limit(SummaryHandler{Svc: svc}))
}

package news

import (
	"context"

	"github.com/AuroraDai/weihao/internal/domain/entity"
)

// ArticleFetcher retrieves an article and extracts its readable content.
//
// Implementations must:
//   - Validate the URL before fetching (SSRF prevention)
//   - Respect context cancellation and timeouts
//   - Wrap failures in the package sentinel errors where applicable
//
// The production implementation is infra/fetcher.ReadabilityFetcher.
type ArticleFetcher interface {
	// FetchArticle downloads the page at articleURL and returns the
	// extracted article. The returned entity always has Text or Excerpt
	// populated; an empty extraction is an ErrExtractionFailed.
	FetchArticle(ctx context.Context, articleURL string) (*entity.Article, error)
}

// Translator converts text between languages. Implementations fail with an
// error rather than returning partial output; the service decides how to
// degrade.
type Translator interface {
	// Translate converts text from the source language to the target
	// language, given as ISO codes ("en", "zh-CN").
	Translate(ctx context.Context, text, source, target string) (string, error)

	// Name identifies the backing provider for logs and metrics.
	Name() string
}

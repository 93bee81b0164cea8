// Package quote provides HTTP handlers for ticker snapshot endpoints.
package quote

import (
	"errors"
	"net/http"

	"github.com/AuroraDai/weihao/internal/domain/entity"
	"github.com/AuroraDai/weihao/internal/handler/http/pathutil"
	"github.com/AuroraDai/weihao/internal/handler/http/respond"
	quoteUC "github.com/AuroraDai/weihao/internal/usecase/quote"
)

// GetHandler serves GET /quote/{ticker}: the fundamentals table, recent
// news headlines, and a chart URL for one symbol.
type GetHandler struct{ Svc *quoteUC.Service }

func (h GetHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ticker, err := pathutil.ExtractTicker(r.URL.Path, "/quote/")
	if err != nil {
		respond.SafeError(w, http.StatusBadRequest, err)
		return
	}

	q, err := h.Svc.Get(r.Context(), ticker)
	if err != nil {
		code := http.StatusBadGateway
		switch {
		case errors.Is(err, entity.ErrValidationFailed), errors.Is(err, entity.ErrInvalidInput):
			code = http.StatusBadRequest
		case errors.Is(err, quoteUC.ErrTickerNotFound):
			code = http.StatusNotFound
		}
		respond.SafeErrorV2(w, code, err)
		return
	}

	out := DTO{
		Ticker:       q.Ticker,
		Fundamentals: q.Fundamentals,
		News:         q.News,
		ChartURL:     q.ChartURL,
	}

	respond.JSON(w, http.StatusOK, out)
}

// Package screener provides HTTP handlers for the screener export endpoint.
package screener

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/AuroraDai/weihao/internal/handler/http/respond"
	screenerUC "github.com/AuroraDai/weihao/internal/usecase/screener"
)

// maxLimit bounds the limit query parameter.
const maxLimit = 1000

// ListHandler serves GET /screener: rows from the most recent screener
// snapshot, trimmed to the requested limit.
type ListHandler struct{ Svc *screenerUC.Service }

func (h ListHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	limit := screenerUC.DefaultLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 || parsed > maxLimit {
			respond.SafeError(w, http.StatusBadRequest,
				errors.New("limit must be an integer between 1 and 1000"))
			return
		}
		limit = parsed
	}

	rows, stale, err := h.Svc.Rows(r.Context(), limit)
	if err != nil {
		// A missing export URL is a deployment problem, not a Finviz outage.
		code := http.StatusBadGateway
		msg := "screener data unavailable"
		if errors.Is(err, screenerUC.ErrNotConfigured) {
			code = http.StatusInternalServerError
			msg = "screener export is not configured"
		}
		respond.SafeErrorV2(w, code, respond.NewAppError(code, msg, err))
		return
	}

	out := ListResponse{
		Rows:  rows,
		Count: len(rows),
		Stale: stale,
	}
	if at := h.Svc.SnapshotAt(); !at.IsZero() {
		out.RefreshedAt = at.UTC().Format(time.RFC3339)
	}

	respond.JSON(w, http.StatusOK, out)
}

package quote

import (
	"net/http"

	quoteUC "github.com/AuroraDai/weihao/internal/usecase/quote"
)

// Register registers the quote HTTP handlers with the given mux.
// Authentication is applied globally by the Authz middleware.
func Register(mux *http.ServeMux, svc *quoteUC.Service) {
	mux.Handle("GET /quote/", GetHandler{Svc: svc})
}

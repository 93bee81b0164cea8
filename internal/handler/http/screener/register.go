package screener

import (
	"net/http"

	screenerUC "github.com/AuroraDai/weihao/internal/usecase/screener"
)

// Register registers the screener HTTP handlers with the given mux.
func Register(mux *http.ServeMux, svc *screenerUC.Service) {
	mux.Handle("GET /screener", ListHandler{Svc: svc})
}

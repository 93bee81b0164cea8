package middleware

import (
	"net/http"
	"strings"
)

// CSP policies per surface. The API returns JSON only, so everything is
// denied; the dashboard serves inline-styled HTML and calls back into the
// same origin.
const (
	strictCSP    = "default-src 'none'; frame-ancestors 'none'"
	dashboardCSP = "default-src 'self'; style-src 'self' 'unsafe-inline'; script-src 'self' 'unsafe-inline'; connect-src 'self'; img-src 'self' https://finviz.com; frame-ancestors 'none'"
)

// CSPConfig holds configuration for the CSP middleware.
type CSPConfig struct {
	// Enabled controls whether CSP headers are applied.
	Enabled bool

	// ReportOnly switches to Content-Security-Policy-Report-Only so
	// violations are reported but not enforced. Useful when adjusting the
	// dashboard policy.
	ReportOnly bool
}

// CSP returns middleware that sets Content-Security-Policy headers.
// Paths under /dashboard get the relaxed dashboard policy; everything else
// gets the strict JSON-API policy.
func CSP(cfg CSPConfig) func(http.Handler) http.Handler {
	header := "Content-Security-Policy"
	if cfg.ReportOnly {
		header = "Content-Security-Policy-Report-Only"
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !cfg.Enabled {
				next.ServeHTTP(w, r)
				return
			}

			policy := strictCSP
			if strings.HasPrefix(r.URL.Path, "/dashboard") {
				policy = dashboardCSP
			}

			w.Header().Set(header, policy)
			next.ServeHTTP(w, r)
		})
	}
}

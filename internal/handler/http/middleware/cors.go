// Package middleware holds reusable HTTP middleware: CORS handling and
// Content-Security-Policy headers.
package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/AuroraDai/weihao/pkg/config"
)

// OriginValidator decides whether a request origin may use CORS.
type OriginValidator interface {
	IsAllowed(origin string) bool
}

// CORSConfig holds the configuration for CORS middleware.
type CORSConfig struct {
	// AllowedMethods specifies which HTTP methods are allowed in CORS requests.
	AllowedMethods []string

	// AllowedHeaders specifies which request headers are allowed in CORS requests.
	AllowedHeaders []string

	// AllowCredentials must be true for JWT Bearer token authentication.
	AllowCredentials bool

	// MaxAge specifies how long preflight results can be cached (in seconds).
	MaxAge int

	// Validator is the origin validation strategy.
	Validator OriginValidator
}

// LoadCORSConfig builds the CORS configuration from environment variables.
//
// Environment variables:
//   - CORS_ALLOWED_ORIGINS: comma-separated origin whitelist (required to
//     enable cross-origin access; empty list denies all origins)
//   - CORS_ALLOWED_METHODS: comma-separated (default: GET,POST,OPTIONS)
//   - CORS_ALLOWED_HEADERS: comma-separated (default: Content-Type,Authorization,X-Request-ID)
//   - CORS_MAX_AGE: seconds (default: 86400)
func LoadCORSConfig() (*CORSConfig, error) {
	origins := config.GetEnvStringList("CORS_ALLOWED_ORIGINS", nil)
	for _, origin := range origins {
		if origin != "" && !strings.HasPrefix(origin, "http://") && !strings.HasPrefix(origin, "https://") {
			return nil, fmt.Errorf("invalid CORS origin %q: must start with http:// or https://", origin)
		}
	}

	return &CORSConfig{
		AllowedMethods:   config.GetEnvStringList("CORS_ALLOWED_METHODS", []string{"GET", "POST", "OPTIONS"}),
		AllowedHeaders:   config.GetEnvStringList("CORS_ALLOWED_HEADERS", []string{"Content-Type", "Authorization", "X-Request-ID"}),
		AllowCredentials: true,
		MaxAge:           config.GetEnvInt("CORS_MAX_AGE", 86400),
		Validator:        NewWhitelistValidator(origins),
	}, nil
}

// CORS returns middleware that validates request origins and sets CORS
// headers for allowed ones.
//
// Behavior:
//   - Empty Origin header (same-origin request): skip CORS processing
//   - Disallowed origin: log and continue without CORS headers; the browser
//     blocks the response
//   - Allowed origin + OPTIONS: answer the preflight with 204
//   - Allowed origin + other methods: set headers and pass through
func CORS(cfg CORSConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			if !cfg.Validator.IsAllowed(origin) {
				slog.Warn("CORS: origin not allowed",
					slog.String("origin", origin),
					slog.String("path", r.URL.Path),
					slog.String("method", r.Method),
					slog.String("remote_addr", r.RemoteAddr))
				next.ServeHTTP(w, r)
				return
			}

			// 資格情報付きリクエストのためオリジンをそのまま返す
			w.Header().Set("Access-Control-Allow-Origin", origin)
			if cfg.AllowCredentials {
				w.Header().Set("Access-Control-Allow-Credentials", "true")
			}

			if r.Method == http.MethodOptions {
				w.Header().Set("Access-Control-Allow-Methods", strings.Join(cfg.AllowedMethods, ", "))
				w.Header().Set("Access-Control-Allow-Headers", strings.Join(cfg.AllowedHeaders, ", "))
				w.Header().Set("Access-Control-Max-Age", strconv.Itoa(cfg.MaxAge))
				w.WriteHeader(http.StatusNoContent)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// WhitelistValidator implements exact-match origin validation.
// Origins are normalized to lowercase without trailing slashes.
type WhitelistValidator struct {
	allowedOrigins []string
}

// NewWhitelistValidator creates a validator from the given origin list.
// Empty entries are dropped.
func NewWhitelistValidator(origins []string) *WhitelistValidator {
	normalized := make([]string, 0, len(origins))
	for _, origin := range origins {
		origin = strings.TrimSpace(origin)
		if origin == "" {
			continue
		}
		origin = strings.TrimSuffix(strings.ToLower(origin), "/")
		normalized = append(normalized, origin)
	}

	return &WhitelistValidator{allowedOrigins: normalized}
}

// IsAllowed checks if the given origin is in the whitelist.
func (v *WhitelistValidator) IsAllowed(origin string) bool {
	if origin == "" {
		return false
	}

	origin = strings.TrimSuffix(strings.ToLower(strings.TrimSpace(origin)), "/")
	for _, allowed := range v.allowedOrigins {
		if origin == allowed {
			return true
		}
	}
	return false
}

package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/AuroraDai/weihao/internal/handler/http/respond"
	authservice "github.com/AuroraDai/weihao/internal/service/auth"
)

type ctxKey string

const ctxSession ctxKey = "session"

// Authz requires a valid JWT session token on every method of protected
// endpoints. Public endpoints (health, metrics, token issuance, dashboard
// assets) pass through unauthenticated.
func Authz(authService *authservice.Service) func(http.Handler) http.Handler {
	secret := []byte(os.Getenv("JWT_SECRET"))

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if authService.IsPublicEndpoint(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			subject, err := validateJWT(r.Header.Get("Authorization"), secret)
			if err != nil {
				respond.SafeError(w, http.StatusUnauthorized, fmt.Errorf("unauthorized: %w", err))
				return
			}

			ctx := context.WithValue(r.Context(), ctxSession, subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromContext returns the authenticated session subject, or an empty
// string for unauthenticated (public endpoint) requests.
func SessionFromContext(ctx context.Context) string {
	if sub, ok := ctx.Value(ctxSession).(string); ok {
		return sub
	}
	return ""
}

func validateJWT(authz string, secret []byte) (string, error) {
	const prefix = "Bearer "
	if !strings.HasPrefix(authz, prefix) {
		return "", errors.New("missing bearer token")
	}
	tokenString := strings.TrimPrefix(authz, prefix)
	tok, err := jwt.Parse(tokenString, func(t *jwt.Token) (interface{}, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, errors.New("unexpected signing method")
		}
		return secret, nil
	})
	if err != nil || !tok.Valid {
		return "", errors.New("invalid token")
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("invalid claims")
	}
	if exp, ok := claims["exp"].(float64); !ok || int64(exp) < time.Now().Unix() {
		return "", errors.New("token expired")
	}
	sub, ok := claims["sub"].(string)
	if !ok {
		return "", errors.New("invalid sub claim")
	}
	return sub, nil
}

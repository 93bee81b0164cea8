// Package http provides HTTP handlers and middleware for the proxy API:
// quote, screener, and news summary endpoints, health checks, metrics, and
// authentication wiring.
package http

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/AuroraDai/weihao/internal/resilience/circuitbreaker"
)

// HealthResponse represents the JSON response for health check endpoints.
type HealthResponse struct {
	Status    string                 `json:"status"`    // "healthy" or "unhealthy"
	Timestamp string                 `json:"timestamp"` // ISO 8601 format
	Checks    map[string]CheckStatus `json:"checks"`    // Status of each check item
	Version   string                 `json:"version"`   // Application version
}

// CheckStatus represents the status of a single health check.
type CheckStatus struct {
	Status  string                 `json:"status"`            // "healthy", "degraded", or "unhealthy"
	Message string                 `json:"message,omitempty"` // Optional status message
	Details map[string]interface{} `json:"details,omitempty"` // Optional additional details
}

// SnapshotInfo reports the state of the screener snapshot cache.
type SnapshotInfo interface {
	// SnapshotAt returns the time of the last successful refresh; the zero
	// time means no snapshot has been loaded yet.
	SnapshotAt() time.Time
}

// HealthHandler handles health check endpoint requests. The service keeps
// no database; health reflects the screener snapshot freshness and the
// state of the upstream circuit breakers.
type HealthHandler struct {
	Version string

	// Screener reports snapshot freshness (optional).
	Screener SnapshotInfo

	// Breakers are the upstream circuit breakers to report. Open breakers
	// are informational: the service still responds, requests to that
	// upstream fail fast.
	Breakers []*circuitbreaker.CircuitBreaker

	// TranslatorName identifies the active translation provider.
	TranslatorName string
}

// ServeHTTP reports the application health status. Upstream outages show as
// "degraded"; the endpoint returns 200 as long as the process itself can
// serve, so a Finviz outage does not make orchestrators restart the proxy.
func (h *HealthHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	checks := make(map[string]CheckStatus)

	if h.Screener != nil {
		checks["screener_snapshot"] = h.checkSnapshot()
	}
	if len(h.Breakers) > 0 {
		checks["upstreams"] = h.checkBreakers()
	}
	if h.TranslatorName != "" {
		checks["translator"] = CheckStatus{
			Status:  "healthy",
			Details: map[string]interface{}{"provider": h.TranslatorName},
		}
	}

	response := HealthResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
		Version:   h.Version,
	}

	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("Cache-Control", "no-cache, no-store, must-revalidate")
	w.WriteHeader(http.StatusOK)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		log.Printf("health: failed to encode response: %v", err)
	}
}

func (h *HealthHandler) checkSnapshot() CheckStatus {
	at := h.Screener.SnapshotAt()
	if at.IsZero() {
		return CheckStatus{
			Status:  "degraded",
			Message: "no snapshot loaded yet",
		}
	}

	age := time.Since(at)
	details := map[string]interface{}{
		"refreshed_at": at.UTC().Format(time.RFC3339),
		"age_seconds":  int(age.Seconds()),
	}
	if age > 2*time.Hour {
		return CheckStatus{
			Status:  "degraded",
			Message: "snapshot is stale",
			Details: details,
		}
	}
	return CheckStatus{Status: "healthy", Details: details}
}

func (h *HealthHandler) checkBreakers() CheckStatus {
	details := make(map[string]interface{}, len(h.Breakers))
	anyOpen := false
	for _, cb := range h.Breakers {
		state := cb.State().String()
		details[cb.Name()] = state
		if cb.IsOpen() {
			anyOpen = true
		}
	}

	if anyOpen {
		return CheckStatus{
			Status:  "degraded",
			Message: "one or more upstream circuit breakers open",
			Details: details,
		}
	}
	return CheckStatus{Status: "healthy", Details: details}
}

// LiveHandler handles liveness probe requests with a lightweight check.
type LiveHandler struct{}

// ServeHTTP always returns 200 OK if the application can respond.
func (h *LiveHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("alive")); err != nil {
		log.Printf("alive: failed to write response: %v", err)
	}
}

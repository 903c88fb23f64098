package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"
)

// Checker probes the dependencies the pricing API needs to serve traffic.
type Checker interface {
	PingDB(ctx context.Context, timeout time.Duration) error
	PingCache(ctx context.Context, timeout time.Duration) error
}

// Handler exposes liveness and readiness endpoints.
type Handler struct {
	Checker      Checker
	Version      string
	DBTimeout    time.Duration
	CacheTimeout time.Duration
}

// Live reports process liveness.
func (h Handler) Live(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// Ready reports readiness. The database is required; the promotion cache is
// not, because the repositories serve reads without it. A cache failure is
// surfaced as "degraded" while the endpoint still returns 200.
func (h Handler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.Checker == nil {
		http.Error(w, "dependencies unavailable", http.StatusServiceUnavailable)
		return
	}
	ctx := r.Context()

	status := "ok"
	dbStatus := "ok"
	if err := h.Checker.PingDB(ctx, h.dbTimeout()); err != nil {
		dbStatus = err.Error()
		status = "unavailable"
	}
	cacheStatus := "ok"
	if err := h.Checker.PingCache(ctx, h.cacheTimeout()); err != nil {
		cacheStatus = err.Error()
		if status == "ok" {
			status = "degraded"
		}
	}

	body := map[string]string{
		"status": status,
		"db":     dbStatus,
		"cache":  cacheStatus,
	}
	if h.Version != "" {
		body["version"] = h.Version
	}

	w.Header().Set("Content-Type", "application/json")
	if status == "unavailable" {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	_ = json.NewEncoder(w).Encode(body)
}

func (h Handler) dbTimeout() time.Duration {
	if h.DBTimeout <= 0 {
		return 500 * time.Millisecond
	}
	return h.DBTimeout
}

func (h Handler) cacheTimeout() time.Duration {
	if h.CacheTimeout <= 0 {
		return 300 * time.Millisecond
	}
	return h.CacheTimeout
}

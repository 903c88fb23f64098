package health_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/noah-isme/backend-reward/internal/health"
)

type stubChecker struct {
	dbErr    error
	cacheErr error
}

func (s stubChecker) PingDB(context.Context, time.Duration) error    { return s.dbErr }
func (s stubChecker) PingCache(context.Context, time.Duration) error { return s.cacheErr }

func ready(t *testing.T, h health.Handler) (int, map[string]string) {
	t.Helper()
	rr := httptest.NewRecorder()
	h.Ready(rr, httptest.NewRequest(http.MethodGet, "/healthz/ready", nil))
	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	return rr.Code, body
}

func TestLive(t *testing.T) {
	rr := httptest.NewRecorder()
	health.Handler{}.Live(rr, httptest.NewRequest(http.MethodGet, "/healthz/live", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "ok", rr.Body.String())
}

func TestReadyAllHealthy(t *testing.T) {
	code, body := ready(t, health.Handler{Checker: stubChecker{}, Version: "1.4.0"})
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "ok", body["status"])
	require.Equal(t, "1.4.0", body["version"])
}

func TestReadyCacheDownIsDegradedNot503(t *testing.T) {
	code, body := ready(t, health.Handler{Checker: stubChecker{cacheErr: errors.New("redis down")}})
	require.Equal(t, http.StatusOK, code)
	require.Equal(t, "degraded", body["status"])
	require.Equal(t, "redis down", body["cache"])
}

func TestReadyDatabaseDownIs503(t *testing.T) {
	code, body := ready(t, health.Handler{Checker: stubChecker{dbErr: errors.New("pool closed")}})
	require.Equal(t, http.StatusServiceUnavailable, code)
	require.Equal(t, "unavailable", body["status"])
	require.Equal(t, "pool closed", body["db"])
}

func TestReadyWithoutChecker(t *testing.T) {
	rr := httptest.NewRecorder()
	health.Handler{}.Ready(rr, httptest.NewRequest(http.MethodGet, "/healthz/ready", nil))
	require.Equal(t, http.StatusServiceUnavailable, rr.Code)
}

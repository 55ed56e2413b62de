package router

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/api-sage/brokerage-ledger/src/internal/logger"
)

type pingRoutes struct{}

func (pingRoutes) RegisterRoutes(r chi.Router) {
	r.Get("/ping", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
}

func (pingRoutes) RegisterPublicRoutes(r chi.Router) {
	r.Get("/open", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
}

func denyAll(http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})
}

func get(t *testing.T, h http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, nil))
	return rr
}

func TestRouter_AuthOnlyGuardsProtectedRoutes(t *testing.T) {
	h := New(Options{
		AuthMiddleware: denyAll,
		Gatherer:       prometheus.NewRegistry(),
		Public:         []PublicRouteRegistrar{pingRoutes{}},
		Protected:      []RouteRegistrar{pingRoutes{}},
	})

	assert.Equal(t, http.StatusUnauthorized, get(t, h, "/ping").Code)
	assert.Equal(t, http.StatusNoContent, get(t, h, "/open").Code)
	assert.Equal(t, http.StatusOK, get(t, h, "/health").Code)
	assert.Equal(t, http.StatusOK, get(t, h, "/metrics").Code)
}

func TestRouter_HealthReportsStoreFailure(t *testing.T) {
	logger.SetOutput(io.Discard)
	h := New(Options{
		Gatherer: prometheus.NewRegistry(),
		Health:   func(context.Context) error { return errors.New("dial tcp: refused") },
	})

	rr := get(t, h, "/health")

	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.JSONEq(t, `{"status":"unavailable"}`, rr.Body.String())
}

func TestRouter_ServesOpenAPIDocument(t *testing.T) {
	h := New(Options{Gatherer: prometheus.NewRegistry()})

	rr := get(t, h, "/swagger/openapi.json")
	require.Equal(t, http.StatusOK, rr.Code)

	var doc struct {
		Paths map[string]any `json:"paths"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &doc))
	for _, path := range []string{"/users/save", "/movements/deposit", "/transactions/buy", "/accounts/{id}/status", "/wallet/{stockId}/quantity", "/stocks", "/stocks/{symbol}"} {
		assert.Contains(t, doc.Paths, path)
	}

	assert.Equal(t, http.StatusOK, get(t, h, "/swagger/").Code)
}

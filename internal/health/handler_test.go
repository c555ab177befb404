// AngelaMos | 2026
// handler_test.go

package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func get(h *Handler, path string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	h.RegisterRoutes(r)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, path, nil))
	return rec
}

func TestReadiness(t *testing.T) {
	ok := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("refused") })

	tests := []struct {
		name   string
		checks []NamedChecker
		want   int
		status string
	}{
		{"no checks", nil, http.StatusOK, "ok"},
		{"all healthy", []NamedChecker{{Name: "file", Checker: ok}, {Name: "redis", Checker: ok}}, http.StatusOK, "ok"},
		{"store down", []NamedChecker{{Name: "postgres", Checker: down}, {Name: "redis", Checker: ok}}, http.StatusServiceUnavailable, "unavailable"},
		{"optional down", []NamedChecker{{Name: "postgres", Checker: ok}, {Name: "redis", Checker: down, Optional: true}}, http.StatusOK, "degraded"},
		{"missing checker", []NamedChecker{{Name: "mongo"}}, http.StatusServiceUnavailable, "unavailable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(NewHandler(tt.checks...), "/readyz")
			assert.Equal(t, tt.want, rec.Code)

			var resp ReadinessResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.status, resp.Status)
			assert.Len(t, resp.Checks, len(tt.checks))
		})
	}
}

func TestShutdownFlipsProbes(t *testing.T) {
	h := NewHandler()

	assert.Equal(t, http.StatusOK, get(h, "/livez").Code)

	h.SetReady(false)
	assert.Equal(t, http.StatusServiceUnavailable, get(h, "/readyz").Code)
	assert.Equal(t, http.StatusOK, get(h, "/healthz").Code)

	h.SetShutdown(true)
	assert.Equal(t, http.StatusServiceUnavailable, get(h, "/healthz").Code)
	assert.Equal(t, http.StatusServiceUnavailable, get(h, "/readyz").Code)
}

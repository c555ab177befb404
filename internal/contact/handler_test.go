// AngelaMos | 2026
// handler_test.go

package contact

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alwaysdemon/storefront/internal/core"
	"github.com/alwaysdemon/storefront/internal/middleware"
)

type stubVerifier map[string]*middleware.Identity

func (s stubVerifier) Validate(_ context.Context, token string) (*middleware.Identity, error) {
	if id, ok := s[token]; ok {
		return id, nil
	}
	return nil, fmt.Errorf("stub: %w", core.ErrTokenInvalid)
}

func TestContactsScenario(t *testing.T) {
	svc, _ := newTestService(t)
	verifier := stubVerifier{
		"admin": {UserID: "1", Role: middleware.RoleAdmin},
		"user":  {UserID: "2", Role: middleware.RoleUser},
	}

	r := chi.NewRouter()
	NewHandler(svc).RegisterRoutes(r, middleware.Authenticator(verifier), middleware.RequireAdmin)

	put := func(token, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPut, "/contacts", bytes.NewBufferString(body))
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusUnauthorized, put("", `{"whatsapp":"1"}`).Code)
	assert.Equal(t, http.StatusForbidden, put("user", `{"whatsapp":"1"}`).Code)
	require.Equal(t, http.StatusOK, put("admin", `{"whatsapp":"123"}`).Code)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/contacts", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var env struct {
		Data Settings `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "123", env.Data.WhatsApp)
	assert.Equal(t, "always_demon", env.Data.Instagram)
	assert.Equal(t, "always_demon", env.Data.Telegram)
}

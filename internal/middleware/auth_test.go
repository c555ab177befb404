// AngelaMos | 2026
// auth_test.go

package middleware

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alwaysdemon/storefront/internal/core"
)

type stubVerifier map[string]*Identity

func (s stubVerifier) Validate(_ context.Context, token string) (*Identity, error) {
	if id, ok := s[token]; ok {
		return id, nil
	}
	return nil, fmt.Errorf("stub: %w", core.ErrTokenInvalid)
}

var testVerifier = stubVerifier{
	"admin-token": {UserID: "1", Username: "admin", Role: RoleAdmin},
	"user-token":  {UserID: "2", Username: "alice", Role: RoleUser},
}

func okHandler(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
}

func TestAuthorize(t *testing.T) {
	admin := &Identity{UserID: "1", Role: RoleAdmin}
	user := &Identity{UserID: "2", Role: RoleUser}

	tests := []struct {
		name     string
		identity *Identity
		required string
		want     error
	}{
		{"anonymous public", nil, "", nil},
		{"anonymous user requirement", nil, RoleUser, nil},
		{"anonymous admin", nil, RoleAdmin, core.ErrUnauthorized},
		{"user admin", user, RoleAdmin, core.ErrForbidden},
		{"admin admin", admin, RoleAdmin, nil},
		{"user public", user, "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Authorize(tt.identity, tt.required)
			if tt.want == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestIdentityIsAdminNilSafe(t *testing.T) {
	var id *Identity
	assert.False(t, id.IsAdmin())
	assert.True(t, (&Identity{Role: RoleAdmin}).IsAdmin())
}

func adminChain() http.Handler {
	return Authenticator(testVerifier)(RequireAdmin(http.HandlerFunc(okHandler)))
}

func TestAdminChainStatusCodes(t *testing.T) {
	tests := []struct {
		name   string
		header string
		want   int
	}{
		{"no token", "", http.StatusUnauthorized},
		{"malformed header", "Token admin-token", http.StatusUnauthorized},
		{"unknown token", "Bearer nope", http.StatusUnauthorized},
		{"non-admin token", "Bearer user-token", http.StatusForbidden},
		{"admin token", "Bearer admin-token", http.StatusOK},
		{"lowercase scheme", "bearer admin-token", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodDelete, "/products/1", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			adminChain().ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRequireAdminWithoutAuthenticator(t *testing.T) {
	rec := httptest.NewRecorder()
	RequireAdmin(http.HandlerFunc(okHandler)).
		ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticatorStoresIdentity(t *testing.T) {
	var got *Identity
	h := Authenticator(testVerifier)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = GetIdentity(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.Header.Set("Authorization", "Bearer user-token")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, got)
	assert.Equal(t, "alice", got.Username)
	assert.Equal(t, "2", GetUserID(WithIdentity(context.Background(), got)))
}

func TestAuthenticatorStoreFailureIsInternal(t *testing.T) {
	failing := verifierFunc(func(context.Context, string) (*Identity, error) {
		return nil, fmt.Errorf("connection refused")
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer anything")
	rec := httptest.NewRecorder()
	Authenticator(failing)(http.HandlerFunc(okHandler)).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

type verifierFunc func(context.Context, string) (*Identity, error)

func (f verifierFunc) Validate(ctx context.Context, token string) (*Identity, error) {
	return f(ctx, token)
}

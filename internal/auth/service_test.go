// AngelaMos | 2026
// service_test.go

package auth_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alwaysdemon/storefront/internal/auth"
	"github.com/alwaysdemon/storefront/internal/config"
	"github.com/alwaysdemon/storefront/internal/core"
	"github.com/alwaysdemon/storefront/internal/middleware"
	"github.com/alwaysdemon/storefront/internal/user"
)

type fixture struct {
	users   *user.Service
	issuer  auth.TokenIssuer
	service *auth.Service
	router  chi.Router
}

func newFixture(t *testing.T, strategy string) *fixture {
	t.Helper()

	fs, err := core.NewFileStore(filepath.Join(t.TempDir(), "database.json"))
	require.NoError(t, err)

	users := user.NewService(user.NewFileRepository(fs))

	cfg := &config.Config{
		Auth: config.AuthConfig{TokenStrategy: strategy},
		JWT: config.JWTConfig{
			Secret:            "test-secret-that-is-long-enough-for-hs256",
			AccessTokenExpire: time.Hour,
			Issuer:            "storefront",
			Audience:          "storefront-api",
		},
	}

	issuer, err := auth.NewIssuer(cfg, users)
	require.NoError(t, err)

	svc := auth.NewService(users, issuer)

	r := chi.NewRouter()
	auth.NewHandler(svc).RegisterRoutes(r, middleware.Authenticator(issuer))

	return &fixture{users: users, issuer: issuer, service: svc, router: r}
}

func (f *fixture) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

type envelope[T any] struct {
	Success bool `json:"success"`
	Data    T    `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()

	var env envelope[T]
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestSignupLoginScenario(t *testing.T) {
	for _, strategy := range []string{config.TokenStrategyJWT, config.TokenStrategyOpaque} {
		t.Run(strategy, func(t *testing.T) {
			f := newFixture(t, strategy)

			rec := f.do(t, http.MethodPost, "/auth/signup", "", map[string]string{
				"username": "alice",
				"email":    "alice@x.com",
				"password": "secret1",
			})
			require.Equal(t, http.StatusCreated, rec.Code)
			signup := decode[auth.AuthResponse](t, rec)
			require.NotEmpty(t, signup.Data.Token)
			assert.Equal(t, middleware.RoleUser, signup.Data.User.Role)
			assert.Equal(t, "Account created successfully!", signup.Data.Message)

			rec = f.do(t, http.MethodPost, "/auth/login", "", map[string]string{
				"username": "alice",
				"password": "secret1",
			})
			require.Equal(t, http.StatusOK, rec.Code)
			login := decode[auth.AuthResponse](t, rec)
			assert.Equal(t, signup.Data.User.ID, login.Data.User.ID)

			rec = f.do(t, http.MethodPost, "/auth/login", "", map[string]string{
				"username": "alice",
				"password": "wrong",
			})
			require.Equal(t, http.StatusUnauthorized, rec.Code)
			failed := decode[any](t, rec)
			require.NotNil(t, failed.Error)
			assert.Equal(t, auth.InvalidCredentialsMessage, failed.Error.Message)

			rec = f.do(t, http.MethodGet, "/auth/me", login.Data.Token, nil)
			require.Equal(t, http.StatusOK, rec.Code)
			me := decode[auth.MeResponse](t, rec)
			assert.Equal(t, "alice", me.Data.User.Username)
		})
	}
}

func TestLoginFailuresAreIndistinguishable(t *testing.T) {
	f := newFixture(t, config.TokenStrategyJWT)

	rec := f.do(t, http.MethodPost, "/auth/signup", "", map[string]string{
		"username": "alice",
		"email":    "alice@x.com",
		"password": "secret1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	wrongPassword := f.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "alice",
		"password": "nope",
	})
	unknownUser := f.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "mallory",
		"password": "nope",
	})

	assert.Equal(t, http.StatusUnauthorized, wrongPassword.Code)
	assert.Equal(t, wrongPassword.Code, unknownUser.Code)
	assert.JSONEq(t, wrongPassword.Body.String(), unknownUser.Body.String())
}

func TestLoginByEmailIgnoresCase(t *testing.T) {
	f := newFixture(t, config.TokenStrategyJWT)

	rec := f.do(t, http.MethodPost, "/auth/signup", "", map[string]string{
		"username": "Alice",
		"email":    "Alice@X.com",
		"password": "secret1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodPost, "/auth/login", "", map[string]string{
		"username": "alice@x.com",
		"password": "secret1",
	})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestSignupConflicts(t *testing.T) {
	f := newFixture(t, config.TokenStrategyJWT)

	rec := f.do(t, http.MethodPost, "/auth/signup", "", map[string]string{
		"username": "alice",
		"email":    "alice@x.com",
		"password": "secret1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = f.do(t, http.MethodPost, "/auth/signup", "", map[string]string{
		"username": "ALICE",
		"email":    "other@x.com",
		"password": "secret1",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "Username already taken")

	rec = f.do(t, http.MethodPost, "/auth/signup", "", map[string]string{
		"username": "bob",
		"email":    "alice@x.com",
		"password": "secret1",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Contains(t, rec.Body.String(), "Email already registered")
}

func TestSignupValidation(t *testing.T) {
	f := newFixture(t, config.TokenStrategyJWT)

	tests := []struct {
		name string
		body map[string]string
	}{
		{"short username", map[string]string{"username": "al", "email": "a@x.com", "password": "secret1"}},
		{"bad email", map[string]string{"username": "alice", "email": "nope", "password": "secret1"}},
		{"short password", map[string]string{"username": "alice", "email": "a@x.com", "password": "123"}},
		{"blank username", map[string]string{"username": "     ", "email": "blank@x.com", "password": "secret1"}},
		{"padded short username", map[string]string{"username": "  al  ", "email": "al@x.com", "password": "secret1"}},
		{"padded blank email", map[string]string{"username": "alice", "email": "   ", "password": "secret1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := f.do(t, http.MethodPost, "/auth/signup", "", tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			_, err := f.users.GetByLogin(context.Background(), tt.body["email"])
			assert.ErrorIs(t, err, core.ErrNotFound)
		})
	}
}

func TestSignupStoresTrimmedFields(t *testing.T) {
	f := newFixture(t, config.TokenStrategyJWT)

	rec := f.do(t, http.MethodPost, "/auth/signup", "", map[string]string{
		"username": "  alice  ",
		"email":    " Alice@X.com ",
		"password": "secret1",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	stored, err := f.users.GetByLogin(context.Background(), "alice@x.com")
	require.NoError(t, err)
	assert.Equal(t, "alice", stored.Username)
	assert.Equal(t, "alice@x.com", stored.Email)
}

func TestServiceSignupRejectsShortTrimmedUsername(t *testing.T) {
	f := newFixture(t, config.TokenStrategyJWT)

	for _, name := range []string{"     ", "  al  "} {
		_, err := f.service.Signup(context.Background(), auth.SignupRequest{
			Username: name,
			Email:    "short@x.com",
			Password: "secret1",
		})
		assert.ErrorIs(t, err, core.ErrInvalidInput, name)
	}
}

func TestLoginRequiresBothFields(t *testing.T) {
	f := newFixture(t, config.TokenStrategyJWT)

	rec := f.do(t, http.MethodPost, "/auth/login", "", map[string]string{"username": "alice"})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "Username and password are required.")
}

func TestOpaqueLoginRotatesToken(t *testing.T) {
	f := newFixture(t, config.TokenStrategyOpaque)
	ctx := context.Background()

	first, err := f.service.Signup(ctx, auth.SignupRequest{
		Username: "alice",
		Email:    "alice@x.com",
		Password: "secret1",
	})
	require.NoError(t, err)
	assert.Nil(t, first.ExpiresAt)

	second, err := f.service.Login(ctx, auth.LoginRequest{Username: "alice", Password: "secret1"})
	require.NoError(t, err)

	_, err = f.issuer.Validate(ctx, first.Token)
	assert.ErrorIs(t, err, core.ErrTokenInvalid)

	id, err := f.issuer.Validate(ctx, second.Token)
	require.NoError(t, err)
	assert.Equal(t, first.User.ID, id.UserID)
}

func TestEnsureAdminIsIdempotent(t *testing.T) {
	f := newFixture(t, config.TokenStrategyJWT)
	ctx := context.Background()

	bootstrap := config.BootstrapConfig{AdminUsername: "admin", AdminPassword: "admin123"}

	created, err := f.service.EnsureAdmin(ctx, bootstrap)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = f.service.EnsureAdmin(ctx, bootstrap)
	require.NoError(t, err)
	assert.False(t, created)

	resp, err := f.service.Login(ctx, auth.LoginRequest{Username: "admin", Password: "admin123"})
	require.NoError(t, err)
	assert.Equal(t, middleware.RoleAdmin, resp.User.Role)
}

func TestEnsureAdminDisabledWithoutPassword(t *testing.T) {
	f := newFixture(t, config.TokenStrategyJWT)

	created, err := f.service.EnsureAdmin(context.Background(), config.BootstrapConfig{AdminUsername: "admin"})
	require.NoError(t, err)
	assert.False(t, created)

	count, err := f.users.Count(context.Background())
	require.NoError(t, err)
	assert.Zero(t, count)
}

type flakyIssuer struct {
	auth.TokenIssuer
	failures int
}

func (f *flakyIssuer) Issue(
	ctx context.Context,
	identity middleware.Identity,
) (string, *time.Time, error) {
	if f.failures > 0 {
		f.failures--
		return "", nil, errors.New("signing key unavailable")
	}
	return f.TokenIssuer.Issue(ctx, identity)
}

func TestSignupIssueFailureLeavesLoginableAccount(t *testing.T) {
	f := newFixture(t, config.TokenStrategyJWT)
	ctx := context.Background()
	svc := auth.NewService(f.users, &flakyIssuer{TokenIssuer: f.issuer, failures: 1})

	req := auth.SignupRequest{Username: "alice", Email: "alice@x.com", Password: "secret1"}

	_, err := svc.Signup(ctx, req)
	require.Error(t, err)

	_, err = svc.Signup(ctx, req)
	assert.ErrorIs(t, err, auth.ErrUsernameTaken)

	resp, err := svc.Login(ctx, auth.LoginRequest{Username: "alice", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.Token)
}

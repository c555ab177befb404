// AngelaMos | 2026
// app_test.go

package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alwaysdemon/storefront/internal/app"
	"github.com/alwaysdemon/storefront/internal/config"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()

	return &config.Config{
		App: config.AppConfig{Name: "storefront-test", Environment: "test"},
		Server: config.ServerConfig{
			ReadTimeout:  time.Second,
			WriteTimeout: time.Second,
		},
		Store: config.StoreConfig{
			Driver:   config.StoreFile,
			FilePath: filepath.Join(t.TempDir(), "database.json"),
		},
		Auth: config.AuthConfig{TokenStrategy: config.TokenStrategyJWT},
		JWT: config.JWTConfig{
			Secret:            "test-secret-that-is-long-enough-for-hs256",
			AccessTokenExpire: time.Hour,
			Issuer:            "storefront",
			Audience:          "storefront-api",
		},
		Bootstrap: config.BootstrapConfig{
			AdminUsername: "owner",
			AdminEmail:    "owner@example.com",
			AdminPassword: "owner-password",
			OnStartup:     true,
		},
		Catalog: config.CatalogConfig{
			PlaceholderImage: "https://via.placeholder.com/400",
			DefaultCategory:  "General",
			SeedDefaults:     true,
		},
		Contacts: config.ContactsConfig{
			WhatsApp:  "+1234567890",
			Instagram: "always_demon",
			Telegram:  "always_demon",
		},
		Inquiries: config.InquiriesConfig{MaxEntries: 100},
		CORS: config.CORSConfig{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
			AllowedHeaders: []string{"Authorization", "Content-Type"},
			MaxAge:         300,
		},
		Metrics: config.MetricsConfig{Enabled: true, Path: "/metrics"},
	}
}

type harness struct {
	t      *testing.T
	router chi.Router
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	ctx := context.Background()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	application, err := app.New(ctx, testConfig(t), logger)
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.Close(context.Background()) })

	require.NoError(t, application.Provision(ctx))

	r := chi.NewRouter()
	application.Mount(r)

	return &harness{t: t, router: r}
}

func (h *harness) do(method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.router.ServeHTTP(rec, req)
	return rec
}

func (h *harness) login(username, password string) string {
	h.t.Helper()

	body, err := json.Marshal(map[string]string{"username": username, "password": password})
	require.NoError(h.t, err)

	rec := h.do(http.MethodPost, "/api/auth/login", "", string(body))
	require.Equal(h.t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(h.t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotEmpty(h.t, resp.Data.Token)
	return resp.Data.Token
}

func TestCatalogSeededAndMirroredUnderAPI(t *testing.T) {
	h := newHarness(t)

	root := h.do(http.MethodGet, "/products", "", "")
	api := h.do(http.MethodGet, "/api/products", "", "")

	require.Equal(t, http.StatusOK, root.Code)
	require.Equal(t, http.StatusOK, api.Code)
	assert.JSONEq(t, root.Body.String(), api.Body.String())

	var resp struct {
		Success bool              `json:"success"`
		Data    []json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(api.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.NotEmpty(t, resp.Data)
}

func TestPreflightAnsweredEverywhere(t *testing.T) {
	h := newHarness(t)

	for _, path := range []string{"/api/products", "/api/inquiries", "/nowhere"} {
		req := httptest.NewRequest(http.MethodOptions, path, nil)
		req.Header.Set("Origin", "https://shop.example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		h.router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code, path)
		assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"), path)
	}
}

func TestAdminFlow(t *testing.T) {
	h := newHarness(t)

	signup := h.do(http.MethodPost, "/api/auth/signup", "",
		`{"username":"shopper","email":"shopper@example.com","password":"hunter22"}`)
	require.Equal(t, http.StatusCreated, signup.Code, signup.Body.String())

	userToken := h.login("shopper", "hunter22")
	adminToken := h.login("owner", "owner-password")

	create := `{"name":"Demon Hoodie","price":59.99}`
	assert.Equal(t, http.StatusUnauthorized, h.do(http.MethodPost, "/api/products", "", create).Code)
	assert.Equal(t, http.StatusForbidden, h.do(http.MethodPost, "/api/products", userToken, create).Code)
	assert.Equal(t, http.StatusCreated, h.do(http.MethodPost, "/api/products", adminToken, create).Code)

	inq := h.do(http.MethodPost, "/api/inquiries", "", `{"productName":"Demon Hoodie","platform":"telegram"}`)
	require.Equal(t, http.StatusCreated, inq.Code)

	stats := h.do(http.MethodGet, "/api/admin/stats", adminToken, "")
	require.Equal(t, http.StatusOK, stats.Code, stats.Body.String())

	var dashboard struct {
		Data struct {
			Catalog struct {
				Users               int            `json:"users"`
				Inquiries           int            `json:"inquiries"`
				InquiriesByPlatform map[string]int `json:"inquiriesByPlatform"`
			} `json:"catalog"`
			Store struct {
				Driver  string `json:"driver"`
				Healthy bool   `json:"healthy"`
			} `json:"store"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(stats.Body.Bytes(), &dashboard))
	assert.Equal(t, 2, dashboard.Data.Catalog.Users)
	assert.Equal(t, 1, dashboard.Data.Catalog.Inquiries)
	assert.Equal(t, 1, dashboard.Data.Catalog.InquiriesByPlatform["telegram"])
	assert.Equal(t, config.StoreFile, dashboard.Data.Store.Driver)
	assert.True(t, dashboard.Data.Store.Healthy)

	assert.Equal(t, http.StatusForbidden, h.do(http.MethodGet, "/api/admin/stats", userToken, "").Code)
}

func TestMetricsAndHealth(t *testing.T) {
	h := newHarness(t)

	h.do(http.MethodGet, "/api/contacts", "", "")

	rec := h.do(http.MethodGet, "/metrics", "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "storefront_http_requests_total")

	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/healthz", "", "").Code)
	assert.Equal(t, http.StatusOK, h.do(http.MethodGet, "/readyz", "", "").Code)
}

func TestUnknownRouteAndMethod(t *testing.T) {
	h := newHarness(t)

	rec := h.do(http.MethodGet, "/api/nothing-here", "", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), `"success":false`)

	rec = h.do(http.MethodPatch, "/api/contacts", "", "")
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

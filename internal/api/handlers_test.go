package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"regportal/internal/auth"
	"regportal/internal/cleanup"
	"regportal/internal/company"
	"regportal/internal/email"
	"regportal/internal/models"
	"regportal/internal/ratelimit"
	"regportal/internal/storage"
)

type testServer struct {
	router *mux.Router
	store  *storage.MemoryStorage
	config *models.Config
}

func newTestServer(t *testing.T, mutate ...func(*models.Config)) *testServer {
	t.Helper()

	config := models.NewDefaultConfig()
	config.Security.BcryptCost = 4
	for _, fn := range mutate {
		fn(config)
	}

	store := storage.NewMemoryStorage()
	sender := email.NewLogSender(config.Email.From)
	composer := email.NewComposer(config.App.Name, config.App.BaseURL)
	authService := auth.NewService(store, sender, composer, config.Security)
	companyService := company.NewService(store)
	sweeper := cleanup.NewSweeper(store, config.Security.CleanupInterval)

	handlers := NewHandlers(authService, companyService, sweeper, store, config)

	var registry *ratelimit.Registry
	if config.Security.RateLimit.Enabled {
		registry = ratelimit.NewRegistry(
			config.Security.RateLimit.MaxEntries,
			config.Security.RateLimit.SweepInterval,
			config.Security.RateLimit.MaxWindow,
		)
		t.Cleanup(registry.Close)
	}

	return &testServer{
		router: SetupRoutes(handlers, config, registry),
		store:  store,
		config: config,
	}
}

func (ts *testServer) do(t *testing.T, method, path string, body interface{}, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	ts.router.ServeHTTP(w, req)
	return w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder, dst interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), dst))
}

func (ts *testServer) registerAndVerify(t *testing.T, emailAddr string) {
	t.Helper()
	w := ts.do(t, "POST", "/api/v1/auth/register", map[string]string{
		"name": "Anna", "email": emailAddr, "password": "correct-horse",
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	token, err := ts.store.FindToken(context.Background(), emailAddr, models.TokenTypeEmailVerification)
	require.NoError(t, err)

	w = ts.do(t, "POST", "/api/v1/auth/verify-email", map[string]string{"token": token.Token}, nil)
	require.Equal(t, http.StatusOK, w.Code)
}

func (ts *testServer) login(t *testing.T, emailAddr string) string {
	t.Helper()
	w := ts.do(t, "POST", "/api/v1/auth/login", map[string]string{
		"email": emailAddr, "password": "correct-horse",
	}, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp models.LoginResponse
	decodeBody(t, w, &resp)
	require.NotEmpty(t, resp.Token)
	return resp.Token
}

func TestHealthCheck(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, "GET", "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	var resp models.HealthCheckResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, models.StatusHealthy, resp.Status)
	assert.Equal(t, models.StatusHealthy, resp.Components["storage"].Status)
}

func TestRegistrationFlow(t *testing.T) {
	ts := newTestServer(t)

	t.Run("register", func(t *testing.T) {
		w := ts.do(t, "POST", "/api/v1/auth/register", map[string]string{
			"name": "Anna", "email": "Anna@Example.com", "password": "correct-horse",
		}, nil)
		require.Equal(t, http.StatusCreated, w.Code)

		var resp models.RegisterResponse
		decodeBody(t, w, &resp)
		assert.False(t, resp.EmailFailed)

		// Email is stored lowercased.
		_, err := ts.store.GetUserByEmail(context.Background(), "anna@example.com")
		assert.NoError(t, err)
	})

	t.Run("duplicate registration conflicts", func(t *testing.T) {
		w := ts.do(t, "POST", "/api/v1/auth/register", map[string]string{
			"name": "Anna", "email": "anna@example.com", "password": "correct-horse",
		}, nil)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("short password rejected", func(t *testing.T) {
		w := ts.do(t, "POST", "/api/v1/auth/register", map[string]string{
			"name": "B", "email": "b@example.com", "password": "short",
		}, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("malformed json rejected", func(t *testing.T) {
		req := httptest.NewRequest("POST", "/api/v1/auth/register", bytes.NewBufferString("{broken"))
		w := httptest.NewRecorder()
		ts.router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("login before verification rejected", func(t *testing.T) {
		w := ts.do(t, "POST", "/api/v1/auth/login", map[string]string{
			"email": "anna@example.com", "password": "correct-horse",
		}, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("verify with malformed token rejected", func(t *testing.T) {
		w := ts.do(t, "POST", "/api/v1/auth/verify-email", map[string]string{"token": "not-hex"}, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("verify and login", func(t *testing.T) {
		token, err := ts.store.FindToken(context.Background(), "anna@example.com", models.TokenTypeEmailVerification)
		require.NoError(t, err)

		w := ts.do(t, "POST", "/api/v1/auth/verify-email", map[string]string{"token": token.Token}, nil)
		require.Equal(t, http.StatusOK, w.Code)

		ts.login(t, "anna@example.com")
	})
}

func TestPasswordResetFlow(t *testing.T) {
	ts := newTestServer(t)
	ts.registerAndVerify(t, "anna@example.com")
	ctx := context.Background()

	t.Run("unknown email gets the same response", func(t *testing.T) {
		known := ts.do(t, "POST", "/api/v1/auth/forgot-password", map[string]string{"email": "anna@example.com"}, nil)
		unknown := ts.do(t, "POST", "/api/v1/auth/forgot-password", map[string]string{"email": "ghost@example.com"}, nil)
		assert.Equal(t, http.StatusOK, known.Code)
		assert.Equal(t, http.StatusOK, unknown.Code)
		assert.JSONEq(t, known.Body.String(), unknown.Body.String())
	})

	t.Run("reset with issued token", func(t *testing.T) {
		token, err := ts.store.FindToken(ctx, "anna@example.com", models.TokenTypePasswordReset)
		require.NoError(t, err)

		w := ts.do(t, "POST", "/api/v1/auth/reset-password", map[string]string{
			"token": token.Token, "password": "new-password-1",
		}, nil)
		require.Equal(t, http.StatusOK, w.Code)

		// Old password no longer works, new one does.
		old := ts.do(t, "POST", "/api/v1/auth/login", map[string]string{
			"email": "anna@example.com", "password": "correct-horse",
		}, nil)
		assert.Equal(t, http.StatusUnauthorized, old.Code)
		fresh := ts.do(t, "POST", "/api/v1/auth/login", map[string]string{
			"email": "anna@example.com", "password": "new-password-1",
		}, nil)
		assert.Equal(t, http.StatusOK, fresh.Code)

		// Token was consumed.
		again := ts.do(t, "POST", "/api/v1/auth/reset-password", map[string]string{
			"token": token.Token, "password": "new-password-2",
		}, nil)
		assert.Equal(t, http.StatusBadRequest, again.Code)
	})
}

func TestSessionEndpoints(t *testing.T) {
	ts := newTestServer(t)
	ts.registerAndVerify(t, "anna@example.com")
	token := ts.login(t, "anna@example.com")
	authz := map[string]string{"Authorization": "Bearer " + token}

	t.Run("me requires a session", func(t *testing.T) {
		w := ts.do(t, "GET", "/api/v1/auth/me", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})

	t.Run("me returns the profile", func(t *testing.T) {
		w := ts.do(t, "GET", "/api/v1/auth/me", nil, authz)
		require.Equal(t, http.StatusOK, w.Code)

		var info models.UserInfo
		decodeBody(t, w, &info)
		assert.Equal(t, "anna@example.com", info.Email)
		assert.True(t, info.Verified)
	})

	t.Run("locale update", func(t *testing.T) {
		w := ts.do(t, "PUT", "/api/v1/auth/locale", map[string]string{"locale": "en"}, authz)
		require.Equal(t, http.StatusOK, w.Code)

		w = ts.do(t, "PUT", "/api/v1/auth/locale", map[string]string{"locale": "de"}, authz)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("logout invalidates the session", func(t *testing.T) {
		w := ts.do(t, "POST", "/api/v1/auth/logout", nil, authz)
		require.Equal(t, http.StatusOK, w.Code)

		w = ts.do(t, "GET", "/api/v1/auth/me", nil, authz)
		assert.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

func seedCompanies(t *testing.T, ts *testServer) {
	t.Helper()
	ctx := context.Background()
	seed := []*models.Company{
		{ID: "c-1", Name: "Rīgas Piens", RegistrationNumber: "40003456789", TaxNumber: "LV40003456789",
			Owners: []models.Owner{{Name: "Jānis Bērziņš", SharePercentage: 100}}},
		{ID: "c-2", Name: "Liepājas Papīrs", RegistrationNumber: "40009876543", TaxNumber: "LV40009876543"},
	}
	for _, c := range seed {
		require.NoError(t, ts.store.SaveCompany(ctx, c))
	}
}

func TestCompanyEndpoints(t *testing.T) {
	ts := newTestServer(t)
	seedCompanies(t, ts)

	t.Run("search", func(t *testing.T) {
		w := ts.do(t, "GET", "/api/v1/companies/search?q=rigas", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp models.SearchResponse
		decodeBody(t, w, &resp)
		require.Len(t, resp.Results, 1)
		assert.Equal(t, "c-1", resp.Results[0].ID)
		require.Len(t, resp.Results[0].Owners, 1)
	})

	t.Run("short query returns empty list", func(t *testing.T) {
		w := ts.do(t, "GET", "/api/v1/companies/search?q=r", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp models.SearchResponse
		decodeBody(t, w, &resp)
		assert.Empty(t, resp.Results)
	})

	t.Run("detail", func(t *testing.T) {
		w := ts.do(t, "GET", "/api/v1/companies/c-1", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp models.CompanyResponse
		decodeBody(t, w, &resp)
		assert.Equal(t, "Rīgas Piens", resp.Company.Name)
	})

	t.Run("detail not found", func(t *testing.T) {
		w := ts.do(t, "GET", "/api/v1/companies/ghost", nil, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("compare", func(t *testing.T) {
		w := ts.do(t, "POST", "/api/v1/companies/compare", map[string][]string{
			"company_ids": {"c-1", "c-2"},
		}, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp models.CompareResponse
		decodeBody(t, w, &resp)
		assert.Len(t, resp.Companies, 2)
	})

	t.Run("compare with missing ids", func(t *testing.T) {
		w := ts.do(t, "POST", "/api/v1/companies/compare", map[string][]string{
			"company_ids": {"c-1", "ghost"},
		}, nil)
		require.Equal(t, http.StatusNotFound, w.Code)

		var resp models.CompareErrorResponse
		decodeBody(t, w, &resp)
		assert.Equal(t, []string{"ghost"}, resp.MissingIDs)
	})

	t.Run("compare needs at least two ids", func(t *testing.T) {
		w := ts.do(t, "POST", "/api/v1/companies/compare", map[string][]string{
			"company_ids": {"c-1"},
		}, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("batch skips unknown ids", func(t *testing.T) {
		w := ts.do(t, "POST", "/api/v1/companies/batch", map[string][]string{
			"company_ids": {"c-1", "ghost", "c-2"},
		}, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp models.BatchResponse
		decodeBody(t, w, &resp)
		assert.Len(t, resp.Companies, 2)
	})
}

func TestCronCleanup(t *testing.T) {
	t.Run("open when no secret configured", func(t *testing.T) {
		ts := newTestServer(t)
		w := ts.do(t, "POST", "/api/v1/cron/cleanup", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp models.CleanupResponse
		decodeBody(t, w, &resp)
		assert.True(t, resp.Success)
	})

	t.Run("guarded when secret configured", func(t *testing.T) {
		ts := newTestServer(t, func(c *models.Config) {
			c.Security.CronSecret = "s3cret"
		})

		w := ts.do(t, "POST", "/api/v1/cron/cleanup", nil, nil)
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = ts.do(t, "POST", "/api/v1/cron/cleanup", nil, map[string]string{"Authorization": "Bearer wrong"})
		assert.Equal(t, http.StatusUnauthorized, w.Code)

		w = ts.do(t, "POST", "/api/v1/cron/cleanup", nil, map[string]string{"Authorization": "Bearer s3cret"})
		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("reports removal counts", func(t *testing.T) {
		ts := newTestServer(t)
		ctx := context.Background()
		require.NoError(t, ts.store.CreateVerificationToken(ctx, &models.VerificationToken{
			Identifier: "a@example.com", Token: "dead",
			Type: models.TokenTypeEmailVerification, Expires: time.Now().Add(-time.Hour),
		}))

		w := ts.do(t, "POST", "/api/v1/cron/cleanup", nil, nil)
		require.Equal(t, http.StatusOK, w.Code)

		var resp models.CleanupResponse
		decodeBody(t, w, &resp)
		assert.Equal(t, int64(1), resp.Results.Tokens)
	})
}

func TestMaintenanceMode(t *testing.T) {
	ts := newTestServer(t, func(c *models.Config) {
		c.App.SiteEnabled = false
	})
	seedCompanies(t, ts)

	w := ts.do(t, "GET", "/api/v1/companies/search?q=rigas", nil, nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	var resp models.ErrorResponse
	decodeBody(t, w, &resp)
	assert.Equal(t, models.ErrorCodeServiceUnavailable, resp.Code)

	// Health stays reachable for orchestrators.
	w = ts.do(t, "GET", "/health", nil, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimitIntegration(t *testing.T) {
	ts := newTestServer(t)

	headers := map[string]string{"X-Forwarded-For": "203.0.113.7"}
	var last *httptest.ResponseRecorder
	for i := 0; i < ratelimit.RuleRegister.MaxRequests+1; i++ {
		last = ts.do(t, "POST", "/api/v1/auth/register", map[string]string{
			"name": "X", "email": "x@example.com", "password": "password123",
		}, headers)
	}
	assert.Equal(t, http.StatusTooManyRequests, last.Code)
	assert.NotEmpty(t, last.Header().Get("Retry-After"))

	// A different client is unaffected.
	w := ts.do(t, "POST", "/api/v1/auth/register", map[string]string{
		"name": "Y", "email": "y@example.com", "password": "password123",
	}, map[string]string{"X-Forwarded-For": "198.51.100.9"})
	assert.Equal(t, http.StatusCreated, w.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, "DELETE", "/api/v1/companies/search", nil, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

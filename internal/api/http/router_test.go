package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/sales-dashboard/internal/api/http/handlers"
	"github.com/spec-kit/sales-dashboard/internal/auth"
	"github.com/spec-kit/sales-dashboard/internal/cache"
	"github.com/spec-kit/sales-dashboard/internal/config"
	"github.com/spec-kit/sales-dashboard/internal/events"
	"github.com/spec-kit/sales-dashboard/internal/observability"
	"github.com/spec-kit/sales-dashboard/internal/repository"
	"github.com/spec-kit/sales-dashboard/internal/service"
	"github.com/spec-kit/sales-dashboard/internal/store"
)

type testEnv struct {
	app       *fiber.App
	store     *store.MemoryStore
	portfolio *service.PortfolioService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	mem := store.NewMemoryStore()
	mem.Seed("Users",
		[]string{"staff_id", "username", "branch", "role", "allowed_sources", "is_active", "created_at"},
		[]string{"1001", "Sok Dara", "Head Office", "rm", "all", "TRUE", ""},
		[]string{"1002", "Chan Thy", "Siem Reap", "rm", "Telegram", "TRUE", ""},
		[]string{"1003", "Gone Person", "Siem Reap", "rm", "all", "FALSE", ""},
	)
	mem.Seed("retail_data",
		[]string{"Name", "Sender_Name", "Source_Channel", "Tel", "Business", "Amount", "Potential"},
		[]string{"A", "X", "Telegram", "012", "Grocery", "100", "H"},
		[]string{"B", "X", "Facebook", "098", "Cafe", "50", "M"},
		[]string{"", "X", "Telegram", "", "", "", ""},
		[]string{"C", "Zana MAM", "Telegram", "", "", "", ""},
	)
	mem.Seed("plan",
		[]string{"start", "end", "date", "activity", "location", "num_customers",
			"customer_name", "customer_contact", "customer_business", "staff_id", "submitted_at"},
	)

	logger := zap.NewNop()
	metrics := observability.NewMetrics()
	dispatcher := events.NewInMemoryDispatcher(logger)

	directory := service.NewDirectoryService(
		repository.NewUserRepository(mem, "Users"),
		cache.NewMemoryCache(), 5*time.Minute, dispatcher, metrics)
	authService := service.NewAuthService(
		config.AuthConfig{JWTSecret: "test-secret", AccessTokenTTLMinutes: 60},
		directory, dispatcher)
	portfolio := service.NewPortfolioService(
		repository.NewPortfolioRepository(mem, "retail_data"),
		cache.NewMemoryCache(), 2*time.Minute, dispatcher, metrics)
	plans := service.NewPlanService(
		repository.NewPlanRepository(mem, "plan"), dispatcher, time.UTC)
	analytics := service.NewAnalyticsService(portfolio)

	app := fiber.New()
	RegisterMiddlewares(app, logger, metrics, 5*time.Second)
	RegisterRoutes(app, RouteConfig{
		Health:         handlers.NewHealthHandler("sales-dashboard", "test", nil, nil),
		Auth:           handlers.NewAuthHandler(authService, directory, portfolio, logger),
		Portfolio:      handlers.NewPortfolioHandler(portfolio),
		Plan:           handlers.NewPlanHandler(plans),
		Analytics:      handlers.NewAnalyticsHandler(analytics),
		AuthMiddleware: auth.NewAuthMiddleware(authService.TokenManager(), directory),
	})

	return &testEnv{app: app, store: mem, portfolio: portfolio}
}

func (e *testEnv) request(t *testing.T, method, path, token string, body any) (*http.Response, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)

	var decoded map[string]any
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}
	return resp, decoded
}

func (e *testEnv) login(t *testing.T, staffID string) string {
	t.Helper()
	resp, body := e.request(t, http.MethodPost, "/auth/login", "", fiber.Map{"staff_id": staffID})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]any)
	token := data["auth"].(map[string]any)["token"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.request(t, http.MethodGet, "/health/live", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "alive", body["status"])

	resp, body = env.request(t, http.MethodGet, "/health/ready", "", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "ready", body["status"])
}

func TestLogin_ReturnsUserTokenAndPortfolio(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.request(t, http.MethodPost, "/auth/login", "", fiber.Map{"staff_id": "1001"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]any)
	user := data["user"].(map[string]any)
	assert.Equal(t, "1001", user["staff_id"])
	assert.Equal(t, "Sok Dara", user["username"])

	records := data["portfolio"].([]any)
	assert.Len(t, records, 2, "blank names and excluded senders are already gone")
	assert.NotContains(t, data, "warning")
}

func TestLogin_PortfolioOutageDegradesToWarning(t *testing.T) {
	env := newTestEnv(t)

	// Warm the directory snapshot so only the portfolio fetch fails.
	env.login(t, "1001")
	env.portfolio.Invalidate(context.Background())
	env.store.FailWith = store.ErrStoreUnavailable

	resp, body := env.request(t, http.MethodPost, "/auth/login", "", fiber.Map{"staff_id": "1001"})
	require.Equal(t, http.StatusOK, resp.StatusCode, "portfolio failure never fails the login")

	data := body["data"].(map[string]any)
	assert.NotEmpty(t, data["warning"])
	assert.Empty(t, data["portfolio"])
	assert.NotEmpty(t, data["auth"].(map[string]any)["token"])
}

func TestLogin_RejectsUnknownAndInactive(t *testing.T) {
	env := newTestEnv(t)

	for _, staffID := range []string{"9999", "1003"} {
		resp, body := env.request(t, http.MethodPost, "/auth/login", "", fiber.Map{"staff_id": staffID})
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
		errBody := body["error"].(map[string]any)
		assert.Equal(t, "staff ID not found or inactive account", errBody["message"])
	}
}

func TestRegisterThenLogin(t *testing.T) {
	env := newTestEnv(t)

	resp, body := env.request(t, http.MethodPost, "/auth/register", "", fiber.Map{
		"staff_id":        "2002",
		"username":        "Vanna Kim",
		"branch":          "Head Office",
		"role":            "bm",
		"allowed_sources": "Telegram",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	data := body["data"].(map[string]any)
	assert.Equal(t, "2002", data["staff_id"])

	token := env.login(t, "2002")
	assert.NotEmpty(t, token)

	resp, _ = env.request(t, http.MethodPost, "/auth/register", "", fiber.Map{
		"staff_id": "2002",
		"username": "Someone Else",
		"branch":   "Branch",
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestPortfolio_RequiresSession(t *testing.T) {
	env := newTestEnv(t)

	resp, _ := env.request(t, http.MethodGet, "/portfolio", "", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = env.request(t, http.MethodGet, "/portfolio", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestPortfolio_ScopedBySources(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "1002")

	resp, body := env.request(t, http.MethodGet, "/portfolio", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	records := body["data"].([]any)
	require.Len(t, records, 1)
	record := records[0].(map[string]any)
	assert.Equal(t, "Telegram", record["Source_Channel"])

	meta := body["meta"].(map[string]any)
	assert.Equal(t, float64(1), meta["count"])
}

func TestPortfolio_QueryRefinements(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "1001")

	resp, body := env.request(t, http.MethodGet, "/portfolio?potential=M", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	records := body["data"].([]any)
	require.Len(t, records, 1)
	assert.Equal(t, "B", records[0].(map[string]any)["Name"])

	resp, body = env.request(t, http.MethodGet, "/portfolio?q=grocery", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	records = body["data"].([]any)
	require.Len(t, records, 1)
	assert.Equal(t, "A", records[0].(map[string]any)["Name"])
}

func TestPlanTemplateAndSubmit(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "1001")

	resp, body := env.request(t, http.MethodGet, "/plan/template", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	data := body["data"].(map[string]any)
	tasks := data["tasks"].([]any)
	require.Len(t, tasks, 3)
	next := data["next"].(map[string]any)
	assert.Equal(t, "17:00", next["start_time"])

	resp, body = env.request(t, http.MethodPost, "/plan", token, fiber.Map{
		"date": "2025-06-02",
		"tasks": []fiber.Map{{
			"start_time": "08:00",
			"end_time":   "12:00",
			"activity":   "Field visit",
			"customers": []fiber.Map{
				{"name": "A", "contact": "012", "biz": "Grocery"},
				{"name": "B", "contact": "098", "biz": "Cafe"},
			},
		}},
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	assert.Equal(t, float64(2), body["data"].(map[string]any)["rows_written"])
	assert.Equal(t, 2, env.store.RowCount("plan"))
}

func TestPlanSubmit_RejectsEmptyPlan(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "1001")

	resp, body := env.request(t, http.MethodPost, "/plan", token, fiber.Map{"tasks": []fiber.Map{}})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "VALIDATION_FAILED", body["error"].(map[string]any)["code"])
}

func TestAnalyticsSummary(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "1002")

	resp, body := env.request(t, http.MethodGet, "/analytics/summary", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	data := body["data"].(map[string]any)
	assert.Equal(t, float64(1), data["total"])
	byChannel := data["by_channel"].(map[string]any)
	assert.Equal(t, float64(1), byChannel["Telegram"])
	assert.NotContains(t, byChannel, "Facebook", "aggregates never leak hidden rows")
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	token := env.login(t, "1001")

	resp, body := env.request(t, http.MethodPost, "/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, true, body["data"].(map[string]any)["logged_out"])
}

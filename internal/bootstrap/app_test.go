package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"acen-backend/internal/shared/config"
	"acen-backend/internal/users"
)

func testConfig() config.Config {
	return config.Config{
		Env:                "dev",
		AdherenceThreshold: 0.6,
		TrendWindow:        7,
		SuggestDefaultTop:  3,
		JWTSecret:          "test-secret",
		AllowUserHeader:    true,
	}
}

type client struct {
	t      *testing.T
	router *gin.Engine
	user   string
	apiKey string
}

func (c client) do(method, url string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		require.NoError(c.t, err)
	}
	req := httptest.NewRequest(method, url, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	if c.user != "" {
		req.Header.Set("X-User-Id", c.user)
	}
	if c.apiKey != "" {
		req.Header.Set("X-API-Key", c.apiKey)
	}
	resp := httptest.NewRecorder()
	c.router.ServeHTTP(resp, req)
	return resp
}

func (c client) createID(url string, body any) int64 {
	c.t.Helper()
	resp := c.do(http.MethodPost, url, body)
	require.Equal(c.t, http.StatusCreated, resp.Code, resp.Body.String())
	var out struct {
		ID int64 `json:"id"`
	}
	require.NoError(c.t, json.Unmarshal(resp.Body.Bytes(), &out))
	return out.ID
}

func TestBuildRejectsMissingDatabaseOutsideDev(t *testing.T) {
	cfg := testConfig()
	cfg.Env = "production"
	_, err := Build(cfg)
	assert.Error(t, err)
}

func TestBuildRejectsInvalidThreshold(t *testing.T) {
	cfg := testConfig()
	cfg.AdherenceThreshold = 1.5
	_, err := Build(cfg)
	assert.Error(t, err)
}

func TestHealthReportsMemoryStorage(t *testing.T) {
	app, err := Build(testConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	resp := client{t: t, router: app.Router}.do(http.MethodGet, "/api/v1/health", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.JSONEq(t, `{"ok":true,"storage":"memory"}`, resp.Body.String())
}

func TestFeedbackFlowOverHTTP(t *testing.T) {
	app, err := Build(testConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	anon := client{t: t, router: app.Router}
	resp := anon.do(http.MethodPost, "/api/v1/users", map[string]string{"id": "u1", "username": "ana"})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	key, err := app.APIKeysService.Create(context.Background(), "tests")
	require.NoError(t, err)

	keyless := client{t: t, router: app.Router, user: "u1"}
	resp = keyless.do(http.MethodPost, "/api/v1/calendars", map[string]string{"name": "Morning"})
	require.Equal(t, http.StatusUnauthorized, resp.Code)
	assert.Contains(t, resp.Body.String(), "API key required")

	u1 := client{t: t, router: app.Router, user: "u1", apiKey: key.Key}
	calID := u1.createID("/api/v1/calendars", map[string]string{"name": "Morning"})
	u1.createID("/api/v1/dates", map[string]any{
		"calendarId": calID, "scheduledDate": "2024-01-01", "scheduleDone": 1, "scheduleTotal": 4,
	})
	u1.createID("/api/v1/dates", map[string]any{
		"calendarId": calID, "scheduledDate": "2024-01-02", "scheduleDone": 2, "scheduleTotal": 4,
	})
	u1.createID("/api/v1/products", map[string]string{"name": "Calm Gel", "tags": "soothing"})

	cal := strconv.FormatInt(calID, 10)
	resp = u1.do(http.MethodGet, "/api/v1/evaluate?calendar_id="+cal+"&start=2024-01-01&end=2024-01-02", nil)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())

	resp = u1.do(http.MethodPost, "/api/v1/feedback/generate?calendar_id="+cal+"&start=2024-01-01&end=2024-01-02", nil)
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())
	var result struct {
		FeedbackID    int64   `json:"feedbackId"`
		SuggestionIDs []int64 `json:"suggestionIds"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &result))
	require.Len(t, result.SuggestionIDs, 1)

	resp = u1.do(http.MethodGet, "/api/v1/feedback/suggest?feedback_id="+strconv.FormatInt(result.FeedbackID, 10), nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), "improve routine adherence")

	stranger := client{t: t, router: app.Router, user: "ghost"}
	resp = stranger.do(http.MethodGet, "/api/v1/calendars", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

func TestBearerTokenIdentity(t *testing.T) {
	cfg := testConfig()
	cfg.AllowUserHeader = false
	app, err := Build(cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	_, err = app.UsersService.Create(context.Background(), users.CreateInput{ID: "u9", Username: "bo"})
	require.NoError(t, err)
	token, err := app.Signer.Sign("u9", "bo")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	app.Router.ServeHTTP(resp, req)
	require.Equal(t, http.StatusOK, resp.Code, resp.Body.String())
	assert.Contains(t, resp.Body.String(), `"username":"bo"`)

	resp = client{t: t, router: app.Router, user: "u9"}.do(http.MethodGet, "/api/v1/me", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.Code)
}

func TestTemplatesAndUserAdminOverHTTP(t *testing.T) {
	app, err := Build(testConfig())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.Close() })

	key, err := app.APIKeysService.Create(context.Background(), "tests")
	require.NoError(t, err)
	admin := client{t: t, router: app.Router, apiKey: key.Key}
	resp := admin.do(http.MethodPost, "/api/v1/users", map[string]string{"id": "u1", "username": "ana"})
	require.Equal(t, http.StatusCreated, resp.Code, resp.Body.String())

	u1 := client{t: t, router: app.Router, user: "u1", apiKey: key.Key}
	tplID := u1.createID("/api/v1/templates", map[string]any{
		"name": "Morning", "schedules": []map[string]any{{"title": "Cleanse"}},
	})
	calID := u1.createID("/api/v1/calendars", map[string]string{"name": "Morning"})
	dateID := u1.createID("/api/v1/dates", map[string]any{
		"calendarId": calID, "scheduledDate": "2024-01-01", "templateId": tplID,
	})

	resp = u1.do(http.MethodPost, "/api/v1/dates", map[string]any{
		"calendarId": calID, "scheduledDate": "2024-01-02", "templateId": tplID + 100,
	})
	assert.Equal(t, http.StatusBadRequest, resp.Code)

	dateURL := "/api/v1/dates/" + strconv.FormatInt(dateID, 10)
	resp = u1.do(http.MethodGet, dateURL, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"templateId":`+strconv.FormatInt(tplID, 10))

	resp = u1.do(http.MethodDelete, "/api/v1/templates/"+strconv.FormatInt(tplID, 10), nil)
	require.Equal(t, http.StatusNoContent, resp.Code)
	resp = u1.do(http.MethodGet, dateURL, nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.NotContains(t, resp.Body.String(), "templateId")

	resp = admin.do(http.MethodGet, "/api/v1/users", nil)
	require.Equal(t, http.StatusOK, resp.Code)
	assert.Contains(t, resp.Body.String(), `"username":"ana"`)

	resp = admin.do(http.MethodDelete, "/api/v1/users/u1", nil)
	assert.Equal(t, http.StatusNoContent, resp.Code)
	resp = admin.do(http.MethodDelete, "/api/v1/users/u1", nil)
	assert.Equal(t, http.StatusNotFound, resp.Code)
}

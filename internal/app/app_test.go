package app_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"go-gin-taskhub/internal/app"
	"go-gin-taskhub/internal/core/config"
	"go-gin-taskhub/internal/domain"
	"go-gin-taskhub/internal/transport/http/router"
)

func init() { gin.SetMode(gin.TestMode) }

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

type harness struct {
	t     *testing.T
	api   http.Handler
	admin http.Handler
}

func testConfig() *config.Config {
	return &config.Config{
		JWT:      config.JWT{Secret: "test-secret", Issuer: "taskhub", AccessTokenTTLMin: 120},
		Password: config.Password{BcryptCost: 4},
		DB:       config.DB{Driver: "memory", AutoMigrate: true},
		CORS:     config.CORS{AllowOrigins: []string{"http://localhost:5173"}},
		Seed:     config.Seed{Enabled: true, Name: "Admin", Email: "admin@example.com", Password: "Admin123!"},
	}
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	a, err := app.Build(testConfig(), zaptest.NewLogger(t))
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	require.NoError(t, a.Bootstrap(context.Background()))
	return &harness{
		t:     t,
		api:   router.NewAPIEngine(a.RouterDeps(), a.Registry),
		admin: router.NewAdminEngine(a.RouterDeps(), a.Registry),
	}
}

func (h *harness) call(engine http.Handler, method, path, token string, body any) envelope {
	h.t.Helper()
	var rd *bytes.Reader
	if body != nil {
		b, err := json.Marshal(body)
		require.NoError(h.t, err)
		rd = bytes.NewReader(b)
	} else {
		rd = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	require.Equal(h.t, http.StatusOK, w.Code, w.Body.String())
	var env envelope
	require.NoError(h.t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func (h *harness) apiCall(method, path, token string, body any) envelope {
	return h.call(h.api, method, path, token, body)
}

func (h *harness) login(email, pw string) string {
	h.t.Helper()
	env := h.apiCall(http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": email, "password": pw})
	require.Equal(h.t, 0, env.Code, env.Msg)
	var out struct {
		Token string `json:"token"`
	}
	require.NoError(h.t, json.Unmarshal(env.Data, &out))
	return out.Token
}

func (h *harness) register(name string, role domain.Role) uint {
	h.t.Helper()
	env := h.apiCall(http.MethodPost, "/api/v1/auth/register", "", gin.H{
		"name": name, "email": name + "@example.com", "password": "pw-" + name, "role": role,
	})
	require.Equal(h.t, 0, env.Code, env.Msg)
	var out struct {
		ID uint `json:"id"`
	}
	require.NoError(h.t, json.Unmarshal(env.Data, &out))
	return out.ID
}

func decode[T any](t *testing.T, env envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(env.Data, &v))
	return v
}

func TestTaskFlow_RoleGates(t *testing.T) {
	h := newHarness(t)
	admin := h.login("admin@example.com", "Admin123!")
	anaID := h.register("ana", domain.RoleEmployee)
	boID := h.register("bo", domain.RoleEmployee)
	h.register("sue", domain.RoleSupervisor)
	ana := h.login("ana@example.com", "pw-ana")
	bo := h.login("bo@example.com", "pw-bo")
	sue := h.login("sue@example.com", "pw-sue")

	// Employees cannot create.
	env := h.apiCall(http.MethodPost, "/api/v1/tasks", ana, gin.H{"title": "x", "assignedUserId": anaID})
	assert.Equal(t, 403, env.Code)

	env = h.apiCall(http.MethodPost, "/api/v1/tasks", admin, gin.H{"title": "Write report", "assignedUserId": anaID})
	require.Equal(t, 0, env.Code, env.Msg)
	created := decode[domain.Task](t, env)
	assert.Equal(t, domain.StatusPending, created.Status)
	assert.Equal(t, "ana", created.AssignedUserName)

	env = h.apiCall(http.MethodPost, "/api/v1/tasks", sue, gin.H{"title": "Plan", "assignedUserId": boID})
	require.Equal(t, 0, env.Code, env.Msg)

	env = h.apiCall(http.MethodPost, "/api/v1/tasks", sue, gin.H{"title": "Ghost", "assignedUserId": 999})
	assert.Equal(t, 422, env.Code)

	// Listing is filtered for employees only.
	assert.Len(t, decode[[]domain.Task](t, h.apiCall(http.MethodGet, "/api/v1/tasks", ana, nil)), 1)
	assert.Len(t, decode[[]domain.Task](t, h.apiCall(http.MethodGet, "/api/v1/tasks", bo, nil)), 1)
	assert.Len(t, decode[[]domain.Task](t, h.apiCall(http.MethodGet, "/api/v1/tasks", sue, nil)), 2)
	assert.EqualValues(t, 2, decode[struct{ Count int64 }](t, h.apiCall(http.MethodGet, "/api/v1/tasks/count", admin, nil)).Count)
	assert.EqualValues(t, 1, decode[struct{ Count int64 }](t, h.apiCall(http.MethodGet, "/api/v1/tasks/count", ana, nil)).Count)

	path := fmt.Sprintf("/api/v1/tasks/%d", created.ID)
	assert.Equal(t, 0, h.apiCall(http.MethodGet, path, ana, nil).Code)
	assert.Equal(t, 403, h.apiCall(http.MethodGet, path, bo, nil).Code)
	assert.Equal(t, 404, h.apiCall(http.MethodGet, "/api/v1/tasks/999", admin, nil).Code)
	assert.Equal(t, 400, h.apiCall(http.MethodGet, "/api/v1/tasks/abc", admin, nil).Code)

	// Status: own only for employees; unknown values rejected.
	assert.Equal(t, 0, h.apiCall(http.MethodPatch, path+"/status", ana, gin.H{"status": "InProgress"}).Code)
	assert.Equal(t, 403, h.apiCall(http.MethodPatch, path+"/status", bo, gin.H{"status": "Completed"}).Code)
	assert.Equal(t, 422, h.apiCall(http.MethodPatch, path+"/status", ana, gin.H{"status": "Archived"}).Code)
	got := decode[domain.Task](t, h.apiCall(http.MethodGet, path, ana, nil))
	assert.Equal(t, domain.StatusInProgress, got.Status)

	// Full update and reassignment are for Admin and Supervisor.
	upd := gin.H{"title": "Final report", "status": "Completed", "assignedUserId": anaID}
	assert.Equal(t, 403, h.apiCall(http.MethodPut, path, ana, upd).Code)
	assert.Equal(t, 0, h.apiCall(http.MethodPut, path, sue, upd).Code)
	assert.Equal(t, 403, h.apiCall(http.MethodPatch, path+"/assignee", ana, gin.H{"assignedUserId": boID}).Code)
	assert.Equal(t, 422, h.apiCall(http.MethodPatch, path+"/assignee", sue, gin.H{"assignedUserId": 999}).Code)
	assert.Equal(t, 0, h.apiCall(http.MethodPatch, path+"/assignee", sue, gin.H{"assignedUserId": boID}).Code)
	got = decode[domain.Task](t, h.apiCall(http.MethodGet, path, bo, nil))
	assert.Equal(t, "Final report", got.Title)
	assert.Equal(t, boID, got.AssignedUserID)

	// Only Admin deletes.
	assert.Equal(t, 403, h.apiCall(http.MethodDelete, path, sue, nil).Code)
	assert.Equal(t, 0, h.apiCall(http.MethodDelete, path, admin, nil).Code)
	assert.Equal(t, 0, h.apiCall(http.MethodDelete, path, admin, nil).Code, "repeat delete is a no-op")
}

func TestUpdateStatus_BlankLeavesStatusUnchanged(t *testing.T) {
	h := newHarness(t)
	admin := h.login("admin@example.com", "Admin123!")
	anaID := h.register("ana", domain.RoleEmployee)
	h.register("bo", domain.RoleEmployee)
	ana := h.login("ana@example.com", "pw-ana")
	bo := h.login("bo@example.com", "pw-bo")

	env := h.apiCall(http.MethodPost, "/api/v1/tasks", admin, gin.H{"title": "Audit", "status": "Completed", "assignedUserId": anaID})
	require.Equal(t, 0, env.Code, env.Msg)
	path := fmt.Sprintf("/api/v1/tasks/%d", decode[domain.Task](t, env).ID)

	for _, blank := range []string{"", "   "} {
		assert.Equal(t, 422, h.apiCall(http.MethodPatch, path+"/status", admin, gin.H{"status": blank}).Code, "admin %q", blank)
		assert.Equal(t, 422, h.apiCall(http.MethodPatch, path+"/status", ana, gin.H{"status": blank}).Code, "owner %q", blank)
		// Ownership is decided before the value is looked at.
		assert.Equal(t, 403, h.apiCall(http.MethodPatch, path+"/status", bo, gin.H{"status": blank}).Code, "stranger %q", blank)
	}
	assert.Equal(t, 422, h.apiCall(http.MethodPatch, path+"/status", admin, gin.H{}).Code)

	got := decode[domain.Task](t, h.apiCall(http.MethodGet, path, admin, nil))
	assert.Equal(t, domain.StatusCompleted, got.Status)
}

func TestAuthEndpoints(t *testing.T) {
	h := newHarness(t)
	h.register("ana", domain.RoleEmployee)

	env := h.apiCall(http.MethodPost, "/api/v1/auth/register", "", gin.H{"name": "x", "email": "ana@example.com", "password": "p"})
	assert.Equal(t, 409, env.Code)

	wrong := h.apiCall(http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "ana@example.com", "password": "bad"})
	ghost := h.apiCall(http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "ghost@example.com", "password": "bad"})
	assert.Equal(t, 401, wrong.Code)
	assert.Equal(t, wrong, ghost)

	assert.Equal(t, 400, h.apiCall(http.MethodPost, "/api/v1/auth/login", "", gin.H{"email": "ana@example.com"}).Code)

	assert.Equal(t, 401, h.apiCall(http.MethodGet, "/api/v1/me", "", nil).Code)
	assert.Equal(t, 401, h.apiCall(http.MethodGet, "/api/v1/me", "garbage", nil).Code)

	ana := h.login("ana@example.com", "pw-ana")
	me := decode[map[string]any](t, h.apiCall(http.MethodGet, "/api/v1/me", ana, nil))
	assert.Equal(t, "ana@example.com", me["email"])
	assert.Equal(t, "Employee", me["role"])
	assert.NotContains(t, me, "passwordHash")
}

func TestUserEndpoints(t *testing.T) {
	h := newHarness(t)
	admin := h.login("admin@example.com", "Admin123!")
	anaID := h.register("ana", domain.RoleEmployee)
	h.register("sue", domain.RoleSupervisor)
	ana := h.login("ana@example.com", "pw-ana")
	sue := h.login("sue@example.com", "pw-sue")

	// Public API user listing: Admin and Supervisor.
	assert.Len(t, decode[[]map[string]any](t, h.apiCall(http.MethodGet, "/api/v1/users", sue, nil)), 3)
	assert.Equal(t, 403, h.apiCall(http.MethodGet, "/api/v1/users", ana, nil).Code)

	// Admin process requires an Admin token.
	assert.Equal(t, 403, h.call(h.admin, http.MethodGet, "/admin/v1/users", sue, nil).Code)
	assert.Equal(t, 401, h.call(h.admin, http.MethodGet, "/admin/v1/users", "", nil).Code)

	env := h.call(h.admin, http.MethodGet, "/admin/v1/users/count", admin, nil)
	assert.EqualValues(t, 3, decode[struct{ Count int64 }](t, env).Count)

	env = h.call(h.admin, http.MethodPost, "/admin/v1/users", admin, gin.H{"name": "Bo", "email": "bo@example.com", "password": "pw", "role": "Supervisor"})
	require.Equal(t, 0, env.Code, env.Msg)
	bo := decode[struct {
		ID   uint
		Role string
	}](t, env)
	assert.Equal(t, "Supervisor", bo.Role)

	path := fmt.Sprintf("/admin/v1/users/%d", bo.ID)
	assert.Equal(t, 0, h.call(h.admin, http.MethodPut, path, admin, gin.H{"name": "Bo B", "email": "bo@example.com", "role": "Employee"}).Code)
	assert.Equal(t, 400, h.call(h.admin, http.MethodPut, path, admin, gin.H{"name": "Bo B", "email": "bo@example.com"}).Code)
	assert.Equal(t, 409, h.call(h.admin, http.MethodPut, path, admin, gin.H{"name": "Bo B", "email": "ana@example.com", "role": "Employee"}).Code)
	got := decode[map[string]any](t, h.call(h.admin, http.MethodGet, path, admin, nil))
	assert.Equal(t, "Bo B", got["name"])
	assert.Equal(t, "Employee", got["role"])

	// A referenced user cannot be deleted.
	require.Equal(t, 0, h.apiCall(http.MethodPost, "/api/v1/tasks", admin, gin.H{"title": "t", "assignedUserId": anaID}).Code)
	assert.Equal(t, 409, h.call(h.admin, http.MethodDelete, fmt.Sprintf("/admin/v1/users/%d", anaID), admin, nil).Code)
	assert.Equal(t, 0, h.call(h.admin, http.MethodGet, fmt.Sprintf("/admin/v1/users/%d", anaID), admin, nil).Code)

	assert.Equal(t, 0, h.call(h.admin, http.MethodDelete, path, admin, nil).Code)
	assert.Equal(t, 404, h.call(h.admin, http.MethodGet, path, admin, nil).Code)
	assert.Equal(t, 0, h.call(h.admin, http.MethodDelete, "/admin/v1/users/999", admin, nil).Code)
}

func TestHealthAndMetrics(t *testing.T) {
	h := newHarness(t)
	for _, engine := range []http.Handler{h.api, h.admin} {
		w := httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.JSONEq(t, `{"ok":1}`, w.Body.String())

		w = httptest.NewRecorder()
		engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "http_requests_total")
	}
}

func TestBootstrap_SeedsOnce(t *testing.T) {
	a, err := app.Build(testConfig(), nil)
	require.NoError(t, err)
	defer a.Close()

	ctx := context.Background()
	require.NoError(t, a.Bootstrap(ctx))
	created, err := a.SeedAdmin(ctx)
	require.NoError(t, err)
	assert.False(t, created)
	n, err := a.Users.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
	assert.NoError(t, a.Ready())
}

func TestBuild_UnsupportedDriver(t *testing.T) {
	cfg := testConfig()
	cfg.DB.Driver = "oracle"
	_, err := app.Build(cfg, nil)
	assert.Error(t, err)
}

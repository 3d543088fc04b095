package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"usercenter/internal/core/cache"
	"usercenter/internal/core/config"
	"usercenter/internal/repo"
)

type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	cfg := &config.Config{
		App:        config.App{Name: "usercenter", Env: "test"},
		JWT:        config.JWT{Secret: "test-secret", Issuer: "usercenter", AccessTokenTTLMin: 10},
		DB:         config.DB{Driver: "sqlite", DSN: filepath.Join(t.TempDir(), "app_test.db"), LogLevel: "silent"},
		Cache:      config.Cache{Driver: "memory", TTLSec: 60},
		Pagination: config.Pagination{MaxLimit: 50, DefaultLimit: 2},
	}
	l := zap.NewNop()
	db, err := OpenDB(cfg, l)
	require.NoError(t, err)
	require.NoError(t, repo.Migrate(db))

	a := Wire(cfg, l, db, cache.NewMemory(time.Minute))
	t.Cleanup(a.Close)
	return a
}

func call(t *testing.T, h http.Handler, method, path, token string, body any) envelope {
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
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var out envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out), w.Body.String())
	return out
}

func decode[T any](t *testing.T, e envelope) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(e.Data, &v))
	return v
}

type loginData struct {
	Token string `json:"token"`
}

type managerData struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Status    string `json:"status"`
}

type listData struct {
	Items []managerData `json:"items"`
	Total int64         `json:"total"`
}

func adminToken(t *testing.T, a *App, h http.Handler) string {
	t.Helper()
	_, err := a.SeedAdmin(context.Background(), SeedAdminInput{
		FirstName: "Root", LastName: "Admin", Email: "root@x.com", Username: "root", Password: "password1",
	})
	require.NoError(t, err)

	res := call(t, h, http.MethodPost, "/admin/v1/auth/login", "", map[string]string{"username": "root", "password": "password1"})
	require.Equal(t, 0, res.Code, res.Msg)
	tok := decode[loginData](t, res).Token
	require.NotEmpty(t, tok)
	return tok
}

func TestHealthAndMetrics(t *testing.T) {
	a := newTestApp(t)
	h := a.AdminEngine()

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}

func TestMetricsCountEnvelopeCodes(t *testing.T) {
	a := newTestApp(t)
	h := a.AdminEngine()

	res := call(t, h, http.MethodGet, "/admin/v1/managers", "", nil)
	require.Equal(t, 401, res.Code)

	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Contains(t, w.Body.String(),
		`usercenter_http_requests_total{code="401",engine="admin",method="GET",route="/admin/v1/managers"}`)
}

func TestAdminRequiresAdminToken(t *testing.T) {
	a := newTestApp(t)
	admin := a.AdminEngine()
	api := a.APIEngine()

	res := call(t, admin, http.MethodGet, "/admin/v1/managers", "", nil)
	assert.Equal(t, 401, res.Code)

	reg := call(t, api, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "grace", "email": "grace@x.com", "password": "password1",
	})
	require.Equal(t, 0, reg.Code, reg.Msg)
	userTok := decode[loginData](t, reg).Token

	res = call(t, admin, http.MethodGet, "/admin/v1/managers", userTok, nil)
	assert.Equal(t, 403, res.Code)
}

func TestAdminManagerLifecycle(t *testing.T) {
	a := newTestApp(t)
	h := a.AdminEngine()
	tok := adminToken(t, a, h)

	res := call(t, h, http.MethodPost, "/admin/v1/managers", tok, map[string]string{
		"firstName": "Ann", "lastName": "Archer", "email": "a@x.com",
	})
	require.Equal(t, 0, res.Code, res.Msg)
	ann := decode[managerData](t, res)
	assert.Equal(t, "active", ann.Status)

	res = call(t, h, http.MethodPost, "/admin/v1/managers", tok, map[string]string{
		"firstName": "Bob", "lastName": "Baker", "email": "b@x.com",
	})
	require.Equal(t, 0, res.Code, res.Msg)
	bob := decode[managerData](t, res)

	res = call(t, h, http.MethodPost, "/admin/v1/managers", tok, map[string]string{
		"firstName": "Dup", "lastName": "Dup", "email": "a@x.com",
	})
	assert.Equal(t, 409, res.Code)

	res = call(t, h, http.MethodPost, "/admin/v1/managers", tok, map[string]string{"firstName": "NoEmail"})
	assert.Equal(t, 400, res.Code)

	// root + ann + bob；默认 limit 为 2
	res = call(t, h, http.MethodGet, "/admin/v1/managers", tok, nil)
	require.Equal(t, 0, res.Code, res.Msg)
	list := decode[listData](t, res)
	assert.EqualValues(t, 3, list.Total)
	assert.Len(t, list.Items, 2)

	res = call(t, h, http.MethodGet, "/admin/v1/managers?q=ann%20arch&limit=10", tok, nil)
	require.Equal(t, 0, res.Code, res.Msg)
	list = decode[listData](t, res)
	require.Len(t, list.Items, 1)
	assert.Equal(t, ann.ID, list.Items[0].ID)

	res = call(t, h, http.MethodGet, "/admin/v1/managers?skip=-1&limit=10", tok, nil)
	assert.Equal(t, 400, res.Code)

	res = call(t, h, http.MethodPut, "/admin/v1/managers/"+ann.ID, tok, map[string]string{"firstName": "Z"})
	require.Equal(t, 0, res.Code, res.Msg)
	upd := decode[managerData](t, res)
	assert.Equal(t, "Z", upd.FirstName)
	assert.Equal(t, "Archer", upd.LastName)

	res = call(t, h, http.MethodPost, "/admin/v1/managers/batch/delete", tok, map[string][]string{"ids": {ann.ID, bob.ID}})
	require.Equal(t, 0, res.Code, res.Msg)

	res = call(t, h, http.MethodGet, "/admin/v1/managers/"+ann.ID, tok, nil)
	assert.Equal(t, 404, res.Code)

	res = call(t, h, http.MethodPost, "/admin/v1/managers/"+ann.ID+"/restore", tok, nil)
	require.Equal(t, 0, res.Code, res.Msg)

	res = call(t, h, http.MethodGet, "/admin/v1/managers?limit=10", tok, nil)
	require.Equal(t, 0, res.Code, res.Msg)
	assert.EqualValues(t, 2, decode[listData](t, res).Total)

	res = call(t, h, http.MethodGet, "/admin/v1/managers?limit=10&with_deleted=true", tok, nil)
	require.Equal(t, 0, res.Code, res.Msg)
	assert.EqualValues(t, 3, decode[listData](t, res).Total)

	res = call(t, h, http.MethodDelete, "/admin/v1/managers/"+bob.ID+"/purge", tok, nil)
	require.Equal(t, 0, res.Code, res.Msg)
	res = call(t, h, http.MethodPost, "/admin/v1/managers/"+bob.ID+"/restore", tok, nil)
	assert.Equal(t, 404, res.Code)
}

func TestAdminRolesAndUsers(t *testing.T) {
	a := newTestApp(t)
	admin := a.AdminEngine()
	api := a.APIEngine()
	tok := adminToken(t, a, admin)

	res := call(t, admin, http.MethodPost, "/admin/v1/roles", tok, map[string]string{"name": "support"})
	require.Equal(t, 0, res.Code, res.Msg)
	role := decode[managerData](t, res)

	res = call(t, admin, http.MethodGet, "/admin/v1/roles/all", tok, nil)
	require.Equal(t, 0, res.Code, res.Msg)
	var roles []struct {
		Name string `json:"name"`
	}
	require.NoError(t, json.Unmarshal(res.Data, &roles))
	assert.Len(t, roles, 2, "admin + support")

	reg := call(t, api, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "grace", "email": "grace@x.com", "password": "password1",
	})
	require.Equal(t, 0, reg.Code, reg.Msg)
	userTok := decode[loginData](t, reg).Token

	me := call(t, api, http.MethodGet, "/api/v1/me", userTok, nil)
	require.Equal(t, 0, me.Code, me.Msg)
	var profile struct {
		User struct {
			ID    string `json:"id"`
			Email string `json:"email"`
		} `json:"user"`
	}
	require.NoError(t, json.Unmarshal(me.Data, &profile))
	assert.Equal(t, "grace@x.com", profile.User.Email)
	uid := profile.User.ID

	res = call(t, admin, http.MethodPut, "/admin/v1/users/"+uid+"/role", tok, map[string]string{"roleId": role.ID})
	require.Equal(t, 0, res.Code, res.Msg)

	res = call(t, admin, http.MethodPost, "/admin/v1/users/"+uid+"/ban", tok, nil)
	require.Equal(t, 0, res.Code, res.Msg)

	login := call(t, api, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "grace", "password": "password1"})
	assert.Equal(t, 401, login.Code)

	res = call(t, admin, http.MethodPost, "/admin/v1/users/"+uid+"/unban", tok, nil)
	require.Equal(t, 0, res.Code, res.Msg)
	login = call(t, api, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "grace", "password": "password1"})
	assert.Equal(t, 0, login.Code, login.Msg)
}

func TestChangePasswordOverHTTP(t *testing.T) {
	a := newTestApp(t)
	api := a.APIEngine()

	reg := call(t, api, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "grace", "email": "grace@x.com", "password": "password1",
	})
	require.Equal(t, 0, reg.Code, reg.Msg)
	tok := decode[loginData](t, reg).Token

	res := call(t, api, http.MethodPut, "/api/v1/me/password", tok, map[string]string{"oldPassword": "nope", "newPassword": "password2"})
	assert.Equal(t, 401, res.Code)

	res = call(t, api, http.MethodPut, "/api/v1/me/password", tok, map[string]string{"oldPassword": "password1", "newPassword": "password2"})
	require.Equal(t, 0, res.Code, res.Msg)

	login := call(t, api, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "grace", "password": "password2"})
	assert.Equal(t, 0, login.Code, login.Msg)

	dup := call(t, api, http.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "grace", "email": "other@x.com", "password": "password1",
	})
	assert.Equal(t, 409, dup.Code)
}

package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Nahomatnafu/dj-event-management/internal/config"
	"github.com/Nahomatnafu/dj-event-management/internal/repository"
	"github.com/Nahomatnafu/dj-event-management/internal/security"
	"github.com/Nahomatnafu/dj-event-management/internal/service"
)

var testParams = security.Argon2Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16}

func init() {
	gin.SetMode(gin.TestMode)
}

type testAPI struct {
	router   *gin.Engine
	accounts *service.AccountService
}

func newTestAPI(t *testing.T, deps Dependencies) *testAPI {
	t.Helper()
	store := repository.NewMemoryStore()
	logger := zerolog.Nop()
	cfg := &config.AppConfig{
		Environment: "test",
		Security:    config.SecurityConfig{TokenSecret: "handler-secret", TokenTTL: time.Hour},
	}

	accounts := service.NewAccountService(store.Accounts(), logger).WithHasher(func(pw string) ([]byte, error) {
		return security.HashPasswordWithParams(pw, testParams)
	})
	codec := security.NewTokenCodec(cfg.Security.TokenSecret, cfg.Security.TokenTTL)
	deps.Sessions = service.NewSessionService(store.Accounts(), codec, cfg.Security, logger)
	deps.Accounts = accounts
	deps.HourLogs = service.NewHourLogService(store.HourLogs(), logger)

	router := gin.New()
	NewHandlerSet(logger, cfg, deps).Register(router.Group("/api"))
	return &testAPI{router: router, accounts: accounts}
}

func (a *testAPI) seed(t *testing.T, email, role, category string) {
	t.Helper()
	_, err := a.accounts.Create(context.Background(), service.CreateAccountInput{
		Email: email, Password: "password123", Name: email, Role: role, ServiceCategory: category,
	})
	if err != nil {
		t.Fatal(err)
	}
}

func (a *testAPI) do(t *testing.T, method, path, token string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func (a *testAPI) login(t *testing.T, email string) string {
	t.Helper()
	rec := a.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": email, "password": "password123"})
	if rec.Code != http.StatusOK {
		t.Fatalf("login %s: %d %s", email, rec.Code, rec.Body)
	}
	var resp struct {
		Token string `json:"token"`
	}
	decode(t, rec, &resp)
	return resp.Token
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode %s: %v", rec.Body, err)
	}
}

func TestLoginResponses(t *testing.T) {
	api := newTestAPI(t, Dependencies{})
	api.seed(t, "staff@example.com", "staff", "DJ")

	rec := api.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "staff@example.com", "password": "password123"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d", rec.Code)
	}
	var ok struct {
		Token string       `json:"token"`
		User  userResponse `json:"user"`
	}
	decode(t, rec, &ok)
	if ok.Token == "" || ok.User.Email != "staff@example.com" || ok.User.ServiceCategory == nil {
		t.Fatalf("unexpected body %s", rec.Body)
	}
	if bytes.Contains(rec.Body.Bytes(), []byte("argon2")) {
		t.Fatal("password hash must never be serialized")
	}

	rec = api.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "staff@example.com", "password": "wrong-one"})
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("wrong password: %d", rec.Code)
	}

	rec = api.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "staff@example.com"})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("missing password: %d", rec.Code)
	}
}

func TestAuthenticationAndRoles(t *testing.T) {
	api := newTestAPI(t, Dependencies{})
	api.seed(t, "admin@example.com", "admin", "")
	api.seed(t, "staff@example.com", "staff", "DJ")
	staff := api.login(t, "staff@example.com")
	admin := api.login(t, "admin@example.com")

	cases := []struct {
		name   string
		method string
		path   string
		token  string
		body   any
		want   int
	}{
		{"session without token", http.MethodGet, "/api/auth/session", "", nil, http.StatusUnauthorized},
		{"session with legacy token", http.MethodGet, "/api/auth/session", "MTox", nil, http.StatusUnauthorized},
		{"session as staff", http.MethodGet, "/api/auth/session", staff, nil, http.StatusOK},
		{"list users as staff", http.MethodGet, "/api/users", staff, nil, http.StatusForbidden},
		{"create user as staff", http.MethodPost, "/api/users", staff, map[string]string{}, http.StatusForbidden},
		{"review as staff", http.MethodPatch, "/api/hour-logs/1", staff, map[string]string{"status": "approved"}, http.StatusForbidden},
		{"list users as admin", http.MethodGet, "/api/users", admin, nil, http.StatusOK},
		{"list logs as staff", http.MethodGet, "/api/hour-logs", staff, nil, http.StatusOK},
		{"review missing log", http.MethodPatch, "/api/hour-logs/42", admin, map[string]string{"status": "approved"}, http.StatusNotFound},
		{"review with bad id", http.MethodPatch, "/api/hour-logs/abc", admin, map[string]string{"status": "approved"}, http.StatusBadRequest},
		{"list logs with bad staff id", http.MethodGet, "/api/hour-logs?staffId=x", admin, nil, http.StatusBadRequest},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := api.do(t, tc.method, tc.path, tc.token, tc.body)
			if rec.Code != tc.want {
				t.Fatalf("status %d, want %d: %s", rec.Code, tc.want, rec.Body)
			}
		})
	}
}

func TestCreateAndUpdateUser(t *testing.T) {
	api := newTestAPI(t, Dependencies{})
	api.seed(t, "admin@example.com", "admin", "")
	admin := api.login(t, "admin@example.com")

	rec := api.do(t, http.MethodPost, "/api/users", admin, map[string]any{
		"email": "new@example.com", "password": "password123", "name": "New", "role": "staff", "serviceCategory": "DJ",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create: %d %s", rec.Code, rec.Body)
	}
	var created struct {
		User userResponse `json:"user"`
	}
	decode(t, rec, &created)

	rec = api.do(t, http.MethodPost, "/api/users", admin, map[string]any{
		"email": "NEW@example.com", "password": "password123", "name": "Dup", "role": "staff",
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("duplicate: %d", rec.Code)
	}

	rec = api.do(t, http.MethodPost, "/api/users", admin, map[string]any{
		"email": "x@example.com", "password": "short", "name": "X", "role": "staff",
	})
	var verr errorResponse
	decode(t, rec, &verr)
	if rec.Code != http.StatusBadRequest || verr.Field != "password" {
		t.Fatalf("validation: %d %+v", rec.Code, verr)
	}

	path := "/api/users/" + strconv.FormatInt(created.User.ID, 10)
	rec = api.do(t, http.MethodPatch, path, admin, map[string]any{"serviceCategory": nil, "name": "Renamed"})
	if rec.Code != http.StatusOK {
		t.Fatalf("update: %d %s", rec.Code, rec.Body)
	}
	var updated struct {
		User userResponse `json:"user"`
	}
	decode(t, rec, &updated)
	if updated.User.ServiceCategory != nil || updated.User.Name != "Renamed" || updated.User.Role != "staff" {
		t.Fatalf("unexpected update %+v", updated.User)
	}

	rec = api.do(t, http.MethodPatch, "/api/users/999", admin, map[string]any{"name": "Ghost"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("missing user: %d", rec.Code)
	}
}

func TestDeactivatedAccountLosesAccess(t *testing.T) {
	api := newTestAPI(t, Dependencies{})
	api.seed(t, "admin@example.com", "admin", "")
	api.seed(t, "staff@example.com", "staff", "")
	admin := api.login(t, "admin@example.com")
	staff := api.login(t, "staff@example.com")

	var list struct {
		Users []userResponse `json:"users"`
	}
	decode(t, api.do(t, http.MethodGet, "/api/users", admin, nil), &list)
	var staffID int64
	for _, u := range list.Users {
		if u.Email == "staff@example.com" {
			staffID = u.ID
		}
	}

	rec := api.do(t, http.MethodPatch, "/api/users/"+strconv.FormatInt(staffID, 10), admin, map[string]string{"status": "inactive"})
	if rec.Code != http.StatusOK {
		t.Fatalf("deactivate: %d", rec.Code)
	}

	if rec := api.do(t, http.MethodGet, "/api/auth/session", staff, nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("existing token must stop working: %d", rec.Code)
	}
	rec = api.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{"email": "staff@example.com", "password": "password123"})
	if rec.Code != http.StatusForbidden {
		t.Fatalf("inactive login: %d", rec.Code)
	}
}

type stubPinger struct{ err error }

func (p stubPinger) Ping(context.Context) error { return p.err }

func TestHealth(t *testing.T) {
	api := newTestAPI(t, Dependencies{Database: stubPinger{}, Cache: stubPinger{err: errors.New("down")}})
	rec := api.do(t, http.MethodGet, "/api/healthz", "", nil)
	var resp healthResponse
	decode(t, rec, &resp)
	if rec.Code != http.StatusOK || resp.Database != "ok" || resp.Cache != "error" {
		t.Fatalf("unexpected health %d %+v", rec.Code, resp)
	}

	api = newTestAPI(t, Dependencies{})
	decode(t, api.do(t, http.MethodGet, "/api/healthz", "", nil), &resp)
	if resp.Database != "disabled" || resp.Cache != "disabled" {
		t.Fatalf("unconfigured backends: %+v", resp)
	}
}

func TestNullableString(t *testing.T) {
	var req updateAccountRequest
	if err := json.Unmarshal([]byte(`{"name":"x"}`), &req); err != nil {
		t.Fatal(err)
	}
	if req.ServiceCategory.Set {
		t.Fatal("absent field must not be marked set")
	}
	if err := json.Unmarshal([]byte(`{"serviceCategory":null}`), &req); err != nil {
		t.Fatal(err)
	}
	if !req.ServiceCategory.Set || req.ServiceCategory.Value != nil {
		t.Fatalf("explicit null: %+v", req.ServiceCategory)
	}
}

package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vetpharma/backend/internal/config"
	"github.com/vetpharma/backend/internal/domain"
)

// 2025-03-12 是周三
var fixedNow = time.Date(2025, time.March, 12, 10, 0, 0, 0, time.UTC)

func newTestHandler(t *testing.T) *Handler {
	t.Helper()

	cfg := &config.Config{}
	cfg.JWT.Secret = "test-secret"
	cfg.JWT.Expiration = 3600
	cfg.Server.AllowedOrigins = []string{"http://localhost:5173"}
	cfg.Compliance.MaxHoursWithoutBreak = 8
	cfg.Compliance.MaxWeeklyHours = 40
	cfg.Compliance.MaxShiftHours = 10
	cfg.Compliance.MinRestHours = 11

	h, err := NewHandler(cfg, nil, nil, nil)
	require.NoError(t, err)
	h.now = func() time.Time { return fixedNow }
	h.RegisterRoutes()

	return h
}

func loginCookie(t *testing.T, h *Handler, role domain.Role) *http.Cookie {
	t.Helper()

	token, expiration, err := h.signToken(&domain.User{ID: 42, Role: role})
	require.NoError(t, err)
	return &http.Cookie{Name: tokenCookieName, Value: token, Expires: expiration}
}

type envelope[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    T      `json:"data"`
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) envelope[T] {
	t.Helper()

	var resp envelope[T]
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	return resp
}

func TestAuth_MissingCookie(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.Mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/compliance", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	resp := decode[any](t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "用户未登录", resp.Message)
}

func TestAuth_InvalidToken(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodGet, "/compliance", nil)
	req.AddCookie(&http.Cookie{Name: tokenCookieName, Value: "not-a-jwt"})
	rec := httptest.NewRecorder()
	h.Mux.ServeHTTP(rec, req)

	resp := decode[any](t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "无效的令牌", resp.Message)
}

func TestAuth_TokenSignedWithOtherSecret(t *testing.T) {
	h := newTestHandler(t)
	other := newTestHandler(t)
	other.config.JWT.Secret = "other-secret"

	req := httptest.NewRequest(http.MethodGet, "/compliance", nil)
	req.AddCookie(loginCookie(t, other, domain.RoleManager))
	rec := httptest.NewRecorder()
	h.Mux.ServeHTTP(rec, req)

	assert.Equal(t, "无效的令牌", decode[any](t, rec).Message)
}

func TestRequiredRole(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/medications", strings.NewReader(`{}`))
	req.AddCookie(loginCookie(t, h, domain.RoleStaff))
	rec := httptest.NewRecorder()
	h.Mux.ServeHTTP(rec, req)

	resp := decode[any](t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "权限不足", resp.Message)
}

func TestPreviewCompliance(t *testing.T) {
	h := newTestHandler(t)

	body := `{
		"weekStart": "2025-03-10",
		"employeeName": "Anna",
		"shifts": {
			"2025-03-10": {"startTime": "08:00", "endTime": "17:00", "notes": "", "breaks": []},
			"2025-03-14": {"startTime": "16:00", "endTime": "23:00", "notes": "", "breaks": []}
		},
		"rules": [{"weekday": 5, "startTime": "18:00", "endTime": "22:00"}]
	}`

	req := httptest.NewRequest(http.MethodPost, "/compliance/preview", strings.NewReader(body))
	req.AddCookie(loginCookie(t, h, domain.RoleStaff))
	rec := httptest.NewRecorder()
	h.Mux.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[domain.WeekSummary](t, rec)
	require.True(t, resp.Success, resp.Message)

	// 周一 9 小时，周五 7 小时加 4 小时双倍
	assert.Equal(t, "Anna", resp.Data.EmployeeName)
	assert.Equal(t, "20.00", resp.Data.TotalHours)
	require.Len(t, resp.Data.Hints, 1)
	assert.Equal(t, domain.ViolationNoBreak, resp.Data.Hints[0].Kind)
	assert.Equal(t, domain.SeverityWarning, resp.Data.Hints[0].Severity)
	assert.Equal(t, "2025-03-10", resp.Data.Hints[0].Day)
}

func TestPreviewCompliance_ValidationMessageIsTranslated(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/compliance/preview", strings.NewReader(`{"rules": []}`))
	req.AddCookie(loginCookie(t, h, domain.RoleStaff))
	rec := httptest.NewRecorder()
	h.Mux.ServeHTTP(rec, req)

	resp := decode[any](t, rec)
	assert.False(t, resp.Success)
	assert.Contains(t, resp.Message, "必填字段")
}

func TestPreviewCompliance_InvalidWeekStart(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodPost, "/compliance/preview", strings.NewReader(`{"weekStart": "10.03.2025", "employeeName": "Anna", "rules": []}`))
	req.AddCookie(loginCookie(t, h, domain.RoleStaff))
	rec := httptest.NewRecorder()
	h.Mux.ServeHTTP(rec, req)

	resp := decode[any](t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "日期 10.03.2025 格式错误，应为 YYYY-MM-DD", resp.Message)
}

func TestPreviewCompliance_RejectsInvalidShift(t *testing.T) {
	h := newTestHandler(t)

	body := `{
		"weekStart": "2025-03-10",
		"employeeName": "Anna",
		"shifts": {"2025-03-11": {"startTime": "08:00", "notes": "", "breaks": []}},
		"rules": []
	}`

	req := httptest.NewRequest(http.MethodPost, "/compliance/preview", strings.NewReader(body))
	req.AddCookie(loginCookie(t, h, domain.RoleStaff))
	rec := httptest.NewRecorder()
	h.Mux.ServeHTTP(rec, req)

	resp := decode[any](t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "2025-03-11: 开始时间和结束时间必须同时填写", resp.Message)
}

func TestWeekDays_DefaultsToCurrentMonday(t *testing.T) {
	h := newTestHandler(t)

	days, err := h.weekDays("")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"2025-03-10", "2025-03-11", "2025-03-12", "2025-03-13",
		"2025-03-14", "2025-03-15", "2025-03-16",
	}, days)

	days, err = h.weekDays("2025-03-15")
	require.NoError(t, err)
	assert.Equal(t, "2025-03-15", days[0])
	assert.Equal(t, "2025-03-21", days[6])
}

func TestRequestID(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.Mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))
	generated := rec.Header().Get(requestIDHeader)
	_, err := uuid.Parse(generated)
	assert.NoError(t, err)

	id := uuid.NewString()
	req := httptest.NewRequest(http.MethodPost, "/auth/logout", nil)
	req.Header.Set(requestIDHeader, id)
	rec = httptest.NewRecorder()
	h.Mux.ServeHTTP(rec, req)
	assert.Equal(t, id, rec.Header().Get(requestIDHeader))
}

func TestLogoutClearsCookie(t *testing.T) {
	h := newTestHandler(t)

	rec := httptest.NewRecorder()
	h.Mux.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/auth/logout", nil))

	resp := decode[any](t, rec)
	assert.True(t, resp.Success)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, tokenCookieName, cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
}

func TestRecovererReturnsEnvelope(t *testing.T) {
	h := newTestHandler(t)

	mux := chi.NewRouter()
	mux.Use(h.recoverer)
	mux.Get("/panic", func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	rec := httptest.NewRecorder()
	mux.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/panic", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decode[any](t, rec)
	assert.False(t, resp.Success)
	assert.Equal(t, "服务器内部错误", resp.Message)
}

func TestCORSPreflight(t *testing.T) {
	h := newTestHandler(t)

	req := httptest.NewRequest(http.MethodOptions, "/compliance/preview", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	rec := httptest.NewRecorder()
	h.Mux.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

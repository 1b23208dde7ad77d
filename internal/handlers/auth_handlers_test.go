package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"proprental/internal/middleware"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAuthServer() *echo.Echo {
	e := echo.New()
	h := NewAuthHandlers("admin", "s3cret", "test-signing-key")
	e.POST("/admin/login", h.Login)
	e.POST("/admin/logout", h.Logout)
	e.GET("/admin/ping", func(c echo.Context) error {
		return c.String(http.StatusOK, "pong")
	}, middleware.AdminJWT("test-signing-key"))
	return e
}

func postLogin(e *echo.Echo, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/admin/login", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestLogin_SetsSessionCookie(t *testing.T) {
	e := newAuthServer()

	rec := postLogin(e, `{"username":"admin","password":"s3cret"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	cookie := cookies[0]
	assert.Equal(t, middleware.AuthCookieName, cookie.Name)
	assert.NotEmpty(t, cookie.Value)
	assert.True(t, cookie.HttpOnly)
}

func TestLogin_WrongCredentialsRejected(t *testing.T) {
	e := newAuthServer()

	assert.Equal(t, http.StatusUnauthorized, postLogin(e, `{"username":"admin","password":"wrong"}`).Code)
	assert.Equal(t, http.StatusUnauthorized, postLogin(e, `{"username":"eve","password":"s3cret"}`).Code)
}

func TestAdminRoutes_RequireSessionCookie(t *testing.T) {
	e := newAuthServer()

	// echo-jwt answers a missing token with 400 and a bad one with 401.
	req := httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.AddCookie(&http.Cookie{Name: middleware.AuthCookieName, Value: "not-a-jwt"})
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	login := postLogin(e, `{"username":"admin","password":"s3cret"}`)
	require.Len(t, login.Result().Cookies(), 1)

	req = httptest.NewRequest(http.MethodGet, "/admin/ping", nil)
	req.AddCookie(login.Result().Cookies()[0])
	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}

func TestLogout_ExpiresCookie(t *testing.T) {
	e := newAuthServer()

	req := httptest.NewRequest(http.MethodPost, "/admin/logout", nil)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Empty(t, cookies[0].Value)
	assert.Negative(t, cookies[0].MaxAge)
}

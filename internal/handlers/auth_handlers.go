package handlers

import (
	"crypto/subtle"
	"net/http"
	"time"

	"proprental/internal/common"
	"proprental/internal/middleware"

	"github.com/labstack/echo/v4"
)

// AuthHandlers handles admin session login and logout
type AuthHandlers struct {
	username  string
	password  string
	jwtSecret string
}

func NewAuthHandlers(username, password, jwtSecret string) *AuthHandlers {
	return &AuthHandlers{username: username, password: password, jwtSecret: jwtSecret}
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Login verifies the admin credentials and sets the session cookie
func (h *AuthHandlers) Login(c echo.Context) error {
	var req LoginRequest
	if err := c.Bind(&req); err != nil {
		return common.SendClientError(c, "Invalid request format")
	}

	userOK := subtle.ConstantTimeCompare([]byte(req.Username), []byte(h.username)) == 1
	passOK := subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.password)) == 1
	if !userOK || !passOK {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid credentials")
	}

	token, err := middleware.NewAdminToken(req.Username, h.jwtSecret)
	if err != nil {
		return common.SendServerError(c, "Failed to create session")
	}

	c.SetCookie(&http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(middleware.SessionDuration),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	return c.JSON(http.StatusOK, map[string]string{"message": "Logged in"})
}

// Logout clears the session cookie
func (h *AuthHandlers) Logout(c echo.Context) error {
	c.SetCookie(&http.Cookie{
		Name:     middleware.AuthCookieName,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return c.JSON(http.StatusOK, map[string]string{"message": "Logged out"})
}

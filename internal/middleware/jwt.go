package middleware

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
)

// AuthCookieName is the httpOnly cookie carrying the admin session token.
const AuthCookieName = "auth"

// SessionDuration bounds how long an admin login stays valid.
const SessionDuration = 8 * time.Hour

// AdminClaims is the JWT payload issued at login.
type AdminClaims struct {
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// NewAdminToken issues a signed session token for the admin user.
func NewAdminToken(username, secret string) (string, error) {
	claims := &AdminClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(SessionDuration)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(secret))
}

// AdminJWT returns the echo middleware protecting admin routes. The token is
// read from the auth cookie, not an Authorization header, because the admin
// frontend relies on httpOnly cookie sessions.
func AdminJWT(secret string) echo.MiddlewareFunc {
	return echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(secret),
		TokenLookup: "cookie:" + AuthCookieName,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(AdminClaims)
		},
	})
}

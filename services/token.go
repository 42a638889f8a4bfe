package services

import (
	"net/http"
	"time"

	"main/config"
	"main/model"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const (
	TokenIssuer    = "notesapp"
	AuthCookieName = "access_token"
)

// GenerateToken signs an access token carrying the acting identity.
func GenerateToken(cfg *config.Config, user *model.User) (string, error) {
	now := time.Now()
	claims := jwt.MapClaims{
		"user_id":    user.UserID,
		"email":      user.Email,
		"first_name": user.FirstName,
		"last_name":  user.LastName,
		"iss":        TokenIssuer,
		"iat":        now.Unix(),
		"exp":        now.Add(cfg.JWTExpiry).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(cfg.JWTSecret))
}

// SetAuthCookie attaches the signed token as an http-only, same-site-strict
// cookie with the same lifetime as the token itself.
func SetAuthCookie(c *gin.Context, cfg *config.Config, token string) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(AuthCookieName, token, int(cfg.JWTExpiry.Seconds()), "/", "", cfg.CookieSecure, true)
}

// ClearAuthCookie expires the auth cookie on logout.
func ClearAuthCookie(c *gin.Context, cfg *config.Config) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(AuthCookieName, "", -1, "/", "", cfg.CookieSecure, true)
}

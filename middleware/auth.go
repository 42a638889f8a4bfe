package middleware

import (
	"errors"
	"fmt"

	"main/config"
	"main/services"
	"main/utils"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware guards protected routes. The access token travels in the
// http-only cookie set at login; a missing, expired, revoked or otherwise
// invalid token aborts with 401 before the handler runs.
func AuthMiddleware(cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(services.AuthCookieName)
		if err != nil || tokenString == "" {
			utils.Unauthorized(c, "authentication required")
			c.Abort()
			return
		}

		if services.IsTokenBlacklisted(tokenString) {
			utils.Unauthorized(c, "token has been revoked")
			c.Abort()
			return
		}

		token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(cfg.JWTSecret), nil
		})
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				utils.Unauthorized(c, "token has expired")
			} else {
				utils.Unauthorized(c, "invalid token")
			}
			c.Abort()
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)
		if !ok || !token.Valid {
			utils.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}

		if iss, _ := claims["iss"].(string); iss != services.TokenIssuer {
			utils.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}

		userID, _ := claims["user_id"].(string)
		if userID == "" {
			utils.Unauthorized(c, "invalid token")
			c.Abort()
			return
		}

		c.Set("user_id", userID)
		if email, ok := claims["email"].(string); ok {
			c.Set("email", email)
		}

		c.Next()
	}
}

// UserID returns the authenticated user's id from the request context.
func UserID(c *gin.Context) string {
	id, _ := c.Get("user_id")
	userID, _ := id.(string)
	return userID
}

package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tanwk/gondotrack/internal/auth"
)

// SessionCookieName is the cookie carrying the signed session token
const SessionCookieName = "token"

// Context keys set by SessionAuth
const (
	ContextUserID = "user_id"
	ContextEmail  = "user_email"
)

// SessionAuth gates protected routes on a valid session cookie. It fails
// closed: a missing, malformed, badly signed or expired token all produce
// the same 401 so the response is not an oracle.
func SessionAuth(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, err := c.Cookie(SessionCookieName)
		if err != nil || tokenString == "" {
			unauthenticated(c)
			return
		}

		claims, err := auth.ParseSession(tokenString, secret)
		if err != nil {
			unauthenticated(c)
			return
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Next()
	}
}

// AdminAuth gates admin routes on the X-Admin-Token header
func AdminAuth(adminToken string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := c.GetHeader("X-Admin-Token")

		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   "authentication_error",
				"message": "Admin token required",
			})
			c.Abort()
			return
		}

		if token != adminToken {
			c.JSON(http.StatusForbidden, gin.H{
				"error":   "authentication_error",
				"message": "Invalid admin token",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

func unauthenticated(c *gin.Context) {
	c.JSON(http.StatusUnauthorized, gin.H{
		"error":   "authentication_error",
		"message": "Authentication required",
	})
	c.Abort()
}

// UserID returns the authenticated user's ID from the request context
func UserID(c *gin.Context) int64 {
	id, _ := c.Get(ContextUserID)
	v, _ := id.(int64)
	return v
}

// UserEmail returns the authenticated user's email from the request context
func UserEmail(c *gin.Context) string {
	email, _ := c.Get(ContextEmail)
	v, _ := email.(string)
	return v
}

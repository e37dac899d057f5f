package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// AdminCookie holds the admin session token
const AdminCookie = "admin_token"

// TokenClaims is what a validated admin token carries
type TokenClaims struct {
	Subject   string
	ExpiresAt time.Time
}

// TokenValidator is an interface for validating JWT tokens
type TokenValidator interface {
	ValidateToken(token string) (*TokenClaims, error)
}

// AdminAuth requires a valid admin token cookie. Requests without one are
// sent to loginPath. A nil validator lets every request through.
func AdminAuth(validator TokenValidator, loginPath string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if validator == nil {
			c.Next()
			return
		}

		token, err := c.Cookie(AdminCookie)
		if err != nil || token == "" {
			c.Redirect(http.StatusSeeOther, loginPath)
			c.Abort()
			return
		}

		claims, err := validator.ValidateToken(token)
		if err != nil {
			c.SetCookie(AdminCookie, "", -1, "/", "", false, true)
			c.Redirect(http.StatusSeeOther, loginPath)
			c.Abort()
			return
		}

		c.Set("admin_subject", claims.Subject)
		c.Next()
	}
}

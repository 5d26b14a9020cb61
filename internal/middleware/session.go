package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// Paths the session gate redirects to.
const (
	LoginPath     = "/login"
	DashboardPath = "/dashboard"
)

// SessionGate guards the HTML pages. Requests without a valid session are
// redirected to the login page and a stale cookie is dropped.
func SessionGate(auth tokenValidator, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := Token(c, cookieName)
		if err == nil {
			if claims, verr := auth.ValidateToken(token); verr == nil {
				c.Set(ContextUserKey, claims)
				c.Next()
				return
			}
			ClearSession(c, cookieName)
		}
		c.Redirect(http.StatusFound, LoginPath)
		c.Abort()
	}
}

// GuestOnly sends signed-in users away from the login and register pages.
func GuestOnly(auth tokenValidator, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := Token(c, cookieName)
		if err == nil {
			if _, verr := auth.ValidateToken(token); verr == nil {
				c.Redirect(http.StatusFound, DashboardPath)
				c.Abort()
				return
			}
		}
		c.Next()
	}
}

// SetSession stores the session token in an HttpOnly cookie.
func SetSession(c *gin.Context, cookieName, token string, maxAge int, secure bool) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookieName, token, maxAge, "/", "", secure, true)
}

// ClearSession expires the session cookie.
func ClearSession(c *gin.Context, cookieName string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookieName, "", -1, "/", "", false, true)
}

package middleware

import (
	"net/http"

	"fleetmove/internal/auth"
	"fleetmove/internal/domain"

	"github.com/gin-gonic/gin"
)

const authKey = "auth"

// Auth verifies the bearer token and stores the caller in the context.
// With no secret configured it passes every request through.
func Auth(tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !tokens.Enabled() {
			c.Next()
			return
		}
		raw := auth.BearerToken(c.GetHeader("Authorization"))
		if raw == "" {
			abortUnauthorized(c, "missing bearer token")
			return
		}
		claims, err := tokens.Parse(raw)
		if err != nil {
			abortUnauthorized(c, "invalid or expired token")
			return
		}
		c.Set(authKey, domain.RequestContext{
			UserID:   domain.ID(claims.UserID),
			Role:     claims.Role,
			DriverID: domain.ID(claims.DriverID),
		})
		c.Next()
	}
}

// RequireRole rejects authenticated callers whose role is not listed.
// Requests that passed Auth without a token (auth disabled) are let through.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := map[string]bool{}
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		rc, ok := GetAuth(c)
		if ok && !allowed[rc.Role] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"message":    "forbidden",
				"code":       "forbidden",
				"request_id": GetRequestID(c),
			})
			return
		}
		c.Next()
	}
}

// GetAuth returns the authenticated caller, if any.
func GetAuth(c *gin.Context) (domain.RequestContext, bool) {
	v, ok := c.Get(authKey)
	if !ok {
		return domain.RequestContext{}, false
	}
	rc, ok := v.(domain.RequestContext)
	return rc, ok
}

func abortUnauthorized(c *gin.Context, msg string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"message":    msg,
		"code":       "unauthorized",
		"request_id": GetRequestID(c),
	})
}

package api

import (
	"net/http"
	"strings"

	"qr-table-service/internal/auth"
	"qr-table-service/internal/models"

	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

// RequireAuth resolves the session cookie (or bearer header) into an
// explicit session object on the request context. Handlers pass the
// resolved identity into core operations; nothing downstream reads the
// cookie again.
func RequireAuth(tokens *auth.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := ""
		if cookie, err := c.Cookie(auth.CookieName); err == nil {
			token = cookie
		}
		if token == "" {
			header := c.GetHeader("Authorization")
			if strings.HasPrefix(header, "Bearer ") {
				token = strings.TrimPrefix(header, "Bearer ")
			}
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}

		session, err := tokens.Verify(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired session"})
			return
		}

		c.Set(sessionKey, session)
		c.Next()
	}
}

// RequireRole gates a route to the given staff roles.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		session := CurrentSession(c)
		if session == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		for _, role := range roles {
			if session.Role == role {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
	}
}

// CurrentSession returns the resolved session, or nil on public routes.
func CurrentSession(c *gin.Context) *auth.Session {
	if v, ok := c.Get(sessionKey); ok {
		if s, ok := v.(*auth.Session); ok {
			return s
		}
	}
	return nil
}

// tenantID resolves the tenant for a request: the session's restaurant on
// staff routes, the restaurant_id query parameter on the public QR flow.
func tenantID(c *gin.Context) string {
	if s := CurrentSession(c); s != nil {
		return s.RestaurantID
	}
	return c.Query("restaurant_id")
}

// requireTenant aborts with 400 when no tenant can be resolved.
func requireTenant(c *gin.Context) (string, bool) {
	id := tenantID(c)
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "restaurant_id is required"})
		return "", false
	}
	return id, true
}

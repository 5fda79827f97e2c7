package middleware

import (
	"net/http"
	"strings"

	"github.com/fotonatura/portfolio-api/api/common"
	"github.com/fotonatura/portfolio-api/internal/auth"
	"github.com/gin-gonic/gin"
)

const (
	ContextUserIDKey = "user_id"
	ContextRoleKey   = "role"

	// TokenCookieName session cookie set at login
	TokenCookieName = "token"
)

// extractToken pulls the session token out of the request. The cookie is
// canonical; the Authorization header is a back-compat shim for clients
// predating cookie sessions.
func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(TokenCookieName); err == nil && cookie != "" {
		return cookie
	}

	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		return ""
	}
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return ""
	}
	return parts[1]
}

// Authenticate validates the session token and attaches the decoded
// identity to the request context. Missing, malformed, tampered and
// expired tokens are all rejected the same way.
func Authenticate(jwtService *auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			common.RespondError(c, http.StatusUnauthorized, "Authentication required")
			c.Abort()
			return
		}

		claims, err := jwtService.ExtractClaims(token)
		if err != nil {
			common.RespondError(c, http.StatusUnauthorized, "Invalid or expired token")
			c.Abort()
			return
		}

		c.Set(ContextUserIDKey, claims.UserID)
		c.Set(ContextRoleKey, claims.Role)

		c.Next()
	}
}

// RequireRole gates a route on the authenticated role. Must be registered
// after Authenticate.
func RequireRole(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get(ContextRoleKey)
		if !exists {
			common.RespondError(c, http.StatusForbidden, "Access denied. Role information not found.")
			c.Abort()
			return
		}

		role, ok := roleVal.(string)
		if !ok {
			common.RespondError(c, http.StatusInternalServerError, "Internal error: invalid role type in context.")
			c.Abort()
			return
		}

		for _, allowed := range allowedRoles {
			if role == allowed {
				c.Next()
				return
			}
		}

		common.RespondError(c, http.StatusForbidden, "Access denied. You do not have the required role to access this resource.")
		c.Abort()
	}
}

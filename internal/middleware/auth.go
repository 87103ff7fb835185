package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/inkpress/core/internal/pkg/jwt"
	"github.com/inkpress/core/internal/pkg/response"
	"github.com/inkpress/core/internal/pkg/sessions"
)

const (
	ContextKeyUserID = "user_id"
	ContextKeyRole   = "role"
	ContextKeyJTI    = "jti"
)

const unauthorizedMsg = "Missing or invalid token"

// Auth returns the middleware guarding every protected request. The
// check order is fixed: bearer extraction, signature+expiry, revocation
// tombstone, then context attachment plus a best-effort last-active
// touch. A store failure during the tombstone check rejects the request;
// revocation enforcement never fails open.
func Auth(registry *sessions.Registry, ledger *sessions.Ledger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			response.Unauthorized(c, unauthorizedMsg)
			return
		}

		claims, err := jwt.Parse(token)
		if err != nil {
			response.Unauthorized(c, unauthorizedMsg)
			return
		}

		revoked, err := ledger.IsRevoked(c.Request.Context(), claims.JTI())
		if err != nil || revoked {
			// A revoked token is indistinguishable from an invalid one.
			response.Unauthorized(c, unauthorizedMsg)
			return
		}

		c.Set(ContextKeyUserID, claims.UserID)
		c.Set(ContextKeyRole, claims.Role)
		c.Set(ContextKeyJTI, claims.JTI())

		registry.Touch(c.Request.Context(), claims.UserID, claims.JTI())
		c.Next()
	}
}

// RequireRole restricts a route to the enumerated roles. Runs after
// Auth; there is no hierarchy between roles, membership is literal.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		role := CurrentRole(c)
		if role == "" {
			response.Unauthorized(c, unauthorizedMsg)
			return
		}
		if _, ok := allowed[role]; !ok {
			response.Forbidden(c, "Insufficient access")
			return
		}
		c.Next()
	}
}

// CurrentUserID extracts the authenticated user ID from context.
func CurrentUserID(c *gin.Context) string {
	v, _ := c.Get(ContextKeyUserID)
	id, _ := v.(string)
	return id
}

// CurrentRole extracts the authenticated role claim from context.
func CurrentRole(c *gin.Context) string {
	v, _ := c.Get(ContextKeyRole)
	role, _ := v.(string)
	return role
}

// CurrentJTI extracts the authenticated token's jti from context.
func CurrentJTI(c *gin.Context) string {
	v, _ := c.Get(ContextKeyJTI)
	jti, _ := v.(string)
	return jti
}

// IsAuthenticated returns true if the request carries a valid token.
func IsAuthenticated(c *gin.Context) bool {
	return CurrentUserID(c) != ""
}

func extractToken(c *gin.Context) string {
	if token := NormalizeToken(c.GetHeader("Authorization")); token != "" {
		return token
	}
	return NormalizeToken(c.Query("token"))
}

// NormalizeToken trims spaces and strips optional Bearer prefix.
func NormalizeToken(raw string) string {
	token := strings.TrimSpace(raw)
	if token == "" {
		return ""
	}
	if strings.HasPrefix(strings.ToLower(token), "bearer ") {
		return strings.TrimSpace(token[7:])
	}
	return token
}

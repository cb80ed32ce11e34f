package middleware

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ikkim/phonedesk-backend/internal/app/model"
	"github.com/ikkim/phonedesk-backend/internal/authz"
	apperrors "github.com/ikkim/phonedesk-backend/internal/errors"
)

// AuthContextKey gin context key for the resolved *authz.AuthContext
const AuthContextKey = "auth_context"

// SessionResolver turns a session token into the caller's context.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*authz.AuthContext, error)
}

type AuthMiddleware struct {
	resolver   SessionResolver
	cookieName string
}

func NewAuthMiddleware(resolver SessionResolver, cookieName string) *AuthMiddleware {
	return &AuthMiddleware{
		resolver:   resolver,
		cookieName: cookieName,
	}
}

// Authenticate requires a valid session cookie. Request headers never grant identity.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		token, err := c.Cookie(m.cookieName)
		if err != nil || token == "" {
			log.Debug("Missing session cookie", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			apperrors.Unauthorized(c, "로그인이 필요합니다")
			c.Abort()
			return
		}

		auth, err := m.resolver.Resolve(c.Request.Context(), token)
		if err != nil || auth == nil {
			fields := map[string]interface{}{
				"path": c.Request.URL.Path,
			}
			if err != nil {
				fields["error"] = err.Error()
			}
			log.Warn("Session validation failed", fields)
			apperrors.RespondWithError(c, http.StatusUnauthorized, apperrors.AuthSessionInvalid, "로그인이 만료되었거나 유효하지 않습니다")
			c.Abort()
			return
		}

		c.Set(AuthContextKey, auth)

		log.Debug("User authenticated successfully", map[string]interface{}{
			"profile_id": auth.ID,
			"role":       auth.Role,
		})

		c.Next()
	}
}

// RequireRole checks the authenticated role. Must run after Authenticate.
func (m *AuthMiddleware) RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		log := GetLoggerFromContext(c)

		auth, ok := GetAuthContext(c)
		if !ok {
			log.Warn("Role information not found in context", map[string]interface{}{
				"path": c.Request.URL.Path,
			})
			apperrors.RespondWithError(c, http.StatusForbidden, apperrors.AuthzRoleNotFound, "권한 정보를 찾을 수 없습니다")
			c.Abort()
			return
		}

		for _, r := range roles {
			if auth.Role == r {
				c.Next()
				return
			}
		}

		log.Warn("Insufficient permissions", map[string]interface{}{
			"profile_id":     auth.ID,
			"role":           auth.Role,
			"required_roles": roles,
			"path":           c.Request.URL.Path,
		})
		apperrors.Forbidden(c, "접근 권한이 없습니다")
		c.Abort()
	}
}

// GetAuthContext returns the caller set by Authenticate.
func GetAuthContext(c *gin.Context) (*authz.AuthContext, bool) {
	v, exists := c.Get(AuthContextKey)
	if !exists {
		return nil, false
	}
	auth, ok := v.(*authz.AuthContext)
	return auth, ok && auth != nil
}

package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"acen-backend/internal/shared/auth"
	"acen-backend/internal/shared/server/respond"
)

const (
	userIDKey     = "userId"
	userIDHeader  = "X-User-Id"
	bearerPrefix  = "Bearer "
	authErrorCode = "unauthorized"
)

// TokenVerifier validates bearer tokens.
type TokenVerifier interface {
	Verify(token string) (auth.Claims, error)
}

// UserLookup reports whether a user id is registered.
type UserLookup interface {
	Exists(ctx context.Context, userID string) (bool, error)
}

// AuthConfig controls how callers are identified.
type AuthConfig struct {
	// Tokens verifies "Authorization: Bearer" tokens. Nil disables bearer auth.
	Tokens TokenVerifier
	// AllowHeaderIdentity accepts the X-User-Id header when no bearer token is sent.
	AllowHeaderIdentity bool
	// Users rejects identities that are not registered. Nil skips the check.
	Users UserLookup
}

// Auth resolves the caller identity and stores it in context.
func Auth(cfg AuthConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		userID, ok := resolveIdentity(c, cfg)
		if !ok {
			return
		}

		if cfg.Users != nil {
			exists, err := cfg.Users.Exists(c.Request.Context(), userID)
			if err != nil {
				respond.Internal(c, "failed to resolve user", err)
				return
			}
			if !exists {
				respond.Error(c, http.StatusNotFound, "user_not_found", "user not found", nil)
				return
			}
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

func resolveIdentity(c *gin.Context, cfg AuthConfig) (string, bool) {
	header := strings.TrimSpace(c.GetHeader("Authorization"))
	if header != "" {
		if cfg.Tokens == nil || !strings.HasPrefix(header, bearerPrefix) {
			respond.Error(c, http.StatusUnauthorized, authErrorCode, "missing or invalid token", nil)
			return "", false
		}
		claims, err := cfg.Tokens.Verify(strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix)))
		if err != nil {
			respond.Error(c, http.StatusUnauthorized, authErrorCode, "missing or invalid token", nil)
			return "", false
		}
		return claims.Sub, true
	}

	if cfg.AllowHeaderIdentity {
		if id := strings.TrimSpace(c.GetHeader(userIDHeader)); id != "" {
			return id, true
		}
	}

	respond.Error(c, http.StatusUnauthorized, authErrorCode, "missing identity", nil)
	return "", false
}

// UserIDFromContext fetches the user ID set by the auth middleware.
func UserIDFromContext(c *gin.Context) string {
	if c == nil {
		return ""
	}
	return c.GetString(userIDKey)
}

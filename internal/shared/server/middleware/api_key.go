package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"acen-backend/internal/apikeys"
	"acen-backend/internal/shared/server/respond"
)

const apiKeyHeader = "X-API-Key"

// APIKeyChecker validates a raw API key.
type APIKeyChecker interface {
	Check(ctx context.Context, key string) error
}

// RequireAPIKey guards mutating routes with the X-API-Key header.
func RequireAPIKey(checker APIKeyChecker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if checker == nil {
			c.Next()
			return
		}
		err := checker.Check(c.Request.Context(), strings.TrimSpace(c.GetHeader(apiKeyHeader)))
		switch {
		case err == nil:
			c.Next()
		case errors.Is(err, apikeys.ErrMissingKey):
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "API key required", nil)
		case errors.Is(err, apikeys.ErrInvalidKey):
			respond.Error(c, http.StatusUnauthorized, "unauthorized", "Invalid API key", nil)
		default:
			respond.Internal(c, "failed to verify API key", err)
		}
	}
}

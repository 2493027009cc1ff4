package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"acen-backend/internal/shared/server/respond"
	"acen-backend/internal/shared/telemetry"
)

// Recovery converts panics into a 500 error envelope.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			telemetry.Error("panic.recovered", map[string]any{
				"request_id": RequestIDFromContext(c),
				"panic":      rec,
				"stack":      string(debug.Stack()),
				"path":       c.Request.URL.Path,
			})
			respond.Error(c, http.StatusInternalServerError, "internal_error", "Unexpected server error", nil)
		}()
		c.Next()
	}
}

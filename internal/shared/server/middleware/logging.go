package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"acen-backend/internal/shared/telemetry"
)

// Context keys handlers may set to enrich the request log line.
const (
	CalendarIDKey = "calendarId"
	FeedbackIDKey = "feedbackId"
)

// Logging emits a structured log per request.
func Logging() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		start := time.Now()
		c.Next()
		latency := time.Since(start)

		calendarID, _ := c.Get(CalendarIDKey)
		feedbackID, _ := c.Get(FeedbackIDKey)

		telemetry.Info("request.complete", map[string]any{
			"request_id":  RequestIDFromContext(c),
			"method":      c.Request.Method,
			"path":        c.FullPath(),
			"status":      c.Writer.Status(),
			"duration_ms": float64(latency.Microseconds()) / 1000.0,
			"user_id":     UserIDFromContext(c),
			"calendar_id": calendarID,
			"feedback_id": feedbackID,
			"client_ip":   c.ClientIP(),
		})
	}
}

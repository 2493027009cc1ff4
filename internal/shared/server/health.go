package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"acen-backend/internal/services/health"
	"acen-backend/internal/shared/server/respond"
)

// registerHealthRoutes attaches the /health endpoint.
func registerHealthRoutes(rg *gin.RouterGroup, svc *health.Service) {
	rg.GET("/health", func(c *gin.Context) {
		status, ok := svc.Status(c.Request.Context())
		code := http.StatusOK
		if !ok {
			code = http.StatusServiceUnavailable
		}
		respond.JSON(c, code, status)
	})
}

package server

import (
	"github.com/gin-gonic/gin"

	"acen-backend/internal/calendars"
	"acen-backend/internal/dates"
	"acen-backend/internal/evaluator"
	"acen-backend/internal/feedback"
	"acen-backend/internal/products"
	"acen-backend/internal/services/health"
	"acen-backend/internal/shared/metrics"
	"acen-backend/internal/shared/server/middleware"
	"acen-backend/internal/templates"
	"acen-backend/internal/users"
)

// RouterDeps carries the handlers and guards mounted by NewRouter.
type RouterDeps struct {
	CORSAllowOrigin []string
	Auth            middleware.AuthConfig
	APIKeys         middleware.APIKeyChecker
	GenerateLimiter *middleware.RateLimiter
	Health          *health.Service
	UserHandler     *users.Handler
	CalendarHandler *calendars.Handler
	DateHandler     *dates.Handler
	ProductHandler  *products.Handler
	TemplateHandler *templates.Handler
	EvaluateHandler *evaluator.Handler
	FeedbackHandler *feedback.Handler
}

// NewRouter constructs the Gin engine with middleware and routes registered.
func NewRouter(deps RouterDeps) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()

	r.Use(
		middleware.RequestID(),
		middleware.Logging(),
		middleware.Recovery(),
		middleware.CORS(deps.CORSAllowOrigin),
	)
	r.GET("/metrics", metrics.Handler())

	api := r.Group("/api/v1")
	registerHealthRoutes(api, deps.Health)

	apiKey := middleware.RequireAPIKey(deps.APIKeys)
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterPublicRoutes(api, apiKey)
	}

	protected := api.Group("")
	protected.Use(middleware.Auth(deps.Auth))
	if deps.UserHandler != nil {
		deps.UserHandler.RegisterRoutes(protected)
	}
	if deps.CalendarHandler != nil {
		deps.CalendarHandler.RegisterRoutes(protected, apiKey)
	}
	if deps.DateHandler != nil {
		deps.DateHandler.RegisterRoutes(protected, apiKey)
	}
	if deps.ProductHandler != nil {
		deps.ProductHandler.RegisterRoutes(protected, apiKey)
	}
	if deps.TemplateHandler != nil {
		deps.TemplateHandler.RegisterRoutes(protected, apiKey)
	}
	if deps.EvaluateHandler != nil {
		deps.EvaluateHandler.RegisterRoutes(protected)
	}
	if deps.FeedbackHandler != nil {
		guards := []gin.HandlerFunc{apiKey}
		if deps.GenerateLimiter != nil {
			guards = append(guards, middleware.RateLimit(deps.GenerateLimiter))
		}
		deps.FeedbackHandler.RegisterRoutes(protected, guards...)
	}

	return r
}

// Addr normalizes the listen address.
func Addr(port string) string {
	if port == "" {
		return ":8080"
	}
	if port[0] == ':' {
		return port
	}
	return ":" + port
}

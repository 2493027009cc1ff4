package feedback

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"acen-backend/internal/dates"
	"acen-backend/internal/evaluator"
	"acen-backend/internal/shared/server/middleware"
	"acen-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc        *Service
	DefaultTop int
}

func NewHandler(svc *Service, defaultTop int) *Handler {
	if defaultTop <= 0 {
		defaultTop = 3
	}
	return &Handler{Svc: svc, DefaultTop: defaultTop}
}

// RegisterRoutes mounts feedback routes; guards run before generation.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, guards ...gin.HandlerFunc) {
	rg.POST("/feedback/generate", append(append([]gin.HandlerFunc{}, guards...), h.generate)...)
	rg.GET("/feedback/suggest", h.suggest)
	rg.GET("/feedback/:date_id", h.listForDate)
}

func (h *Handler) generate(c *gin.Context) {
	q, ok := evaluator.BindQuery(c)
	if !ok {
		return
	}
	result, generated, err := h.Svc.Generate(c.Request.Context(), q)
	if err != nil {
		evaluator.WriteError(c, err, "failed to generate feedback")
		return
	}
	if !generated {
		respond.Error(c, http.StatusNotFound, "no_data", "No data available for feedback", nil)
		return
	}
	c.Set(middleware.FeedbackIDKey, result.FeedbackID)
	respond.Created(c, result)
}

func (h *Handler) suggest(c *gin.Context) {
	feedbackID, err := strconv.ParseInt(c.Query("feedback_id"), 10, 64)
	if err != nil || feedbackID <= 0 {
		respond.Validation(c, "feedback_id must be a positive integer")
		return
	}
	top := h.DefaultTop
	if raw := c.Query("top"); raw != "" {
		top, err = strconv.Atoi(raw)
		if err != nil || top < 1 {
			respond.Validation(c, "top must be at least 1")
			return
		}
	}
	c.Set(middleware.FeedbackIDKey, feedbackID)

	items, err := h.Svc.Suggestions(c.Request.Context(), feedbackID, top, middleware.UserIDFromContext(c))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "Feedback not found", nil)
			return
		}
		respond.Internal(c, "failed to list suggestions", err)
		return
	}
	respond.OK(c, gin.H{"items": items})
}

func (h *Handler) listForDate(c *gin.Context) {
	dateID, err := strconv.ParseInt(c.Param("date_id"), 10, 64)
	if err != nil || dateID <= 0 {
		respond.Validation(c, "invalid date id")
		return
	}
	items, err := h.Svc.ListForDate(c.Request.Context(), dateID, middleware.UserIDFromContext(c))
	if err != nil {
		if errors.Is(err, dates.ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "Date not found", nil)
			return
		}
		respond.Internal(c, "failed to list feedback", err)
		return
	}
	respond.OK(c, gin.H{"items": items})
}

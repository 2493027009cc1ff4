package calendars

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"acen-backend/internal/shared/server/middleware"
	"acen-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes mounts calendar routes; guards run before mutating handlers.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, guards ...gin.HandlerFunc) {
	rg.GET("/calendars", h.list)
	rg.GET("/calendars/:id", h.get)
	rg.POST("/calendars", append(append([]gin.HandlerFunc{}, guards...), h.create)...)
}

func (h *Handler) create(c *gin.Context) {
	var in CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Validation(c, "invalid request body")
		return
	}
	cal, err := h.Svc.Create(c.Request.Context(), middleware.UserIDFromContext(c), in)
	if err != nil {
		if errors.Is(err, ErrInvalidInput) {
			respond.Validation(c, err.Error())
			return
		}
		respond.Internal(c, "failed to create calendar", err)
		return
	}
	c.Set(middleware.CalendarIDKey, cal.ID)
	respond.Created(c, cal)
}

func (h *Handler) get(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respond.Validation(c, "invalid calendar id")
		return
	}
	c.Set(middleware.CalendarIDKey, id)
	cal, err := h.Svc.GetOwned(c.Request.Context(), id, middleware.UserIDFromContext(c))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "calendar_not_found", "Calendar not found", nil)
			return
		}
		respond.Internal(c, "failed to load calendar", err)
		return
	}
	respond.OK(c, cal)
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.Svc.ListByUser(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		respond.Internal(c, "failed to list calendars", err)
		return
	}
	if items == nil {
		items = []Calendar{}
	}
	respond.OK(c, gin.H{"items": items})
}

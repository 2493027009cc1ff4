package dates

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"acen-backend/internal/calendars"
	"acen-backend/internal/shared/server/middleware"
	"acen-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes mounts date routes; guards run before mutating handlers.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, guards ...gin.HandlerFunc) {
	guarded := func(fn gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, guards...), fn)
	}
	rg.GET("/dates", h.list)
	rg.GET("/dates/:id", h.get)
	rg.POST("/dates", guarded(h.create)...)
	rg.PATCH("/dates/:id", guarded(h.update)...)
	rg.POST("/dates/:id/model-results", guarded(h.addModelResult)...)
}

func (h *Handler) create(c *gin.Context) {
	var in CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Validation(c, "invalid request body")
		return
	}
	c.Set(middleware.CalendarIDKey, in.CalendarID)
	entry, err := h.Svc.Create(c.Request.Context(), middleware.UserIDFromContext(c), in)
	if err != nil {
		writeError(c, err, "failed to create date entry")
		return
	}
	respond.Created(c, toResponse(entry))
}

func (h *Handler) update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in UpdateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Validation(c, "invalid request body")
		return
	}
	entry, err := h.Svc.Update(c.Request.Context(), middleware.UserIDFromContext(c), id, in)
	if err != nil {
		writeError(c, err, "failed to update date entry")
		return
	}
	respond.OK(c, toResponse(entry))
}

func (h *Handler) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	entry, err := h.Svc.GetOwned(c.Request.Context(), id, middleware.UserIDFromContext(c))
	if err != nil {
		writeError(c, err, "failed to load date entry")
		return
	}
	respond.OK(c, toResponse(entry))
}

func (h *Handler) list(c *gin.Context) {
	calendarID, err := strconv.ParseInt(c.Query("calendar_id"), 10, 64)
	if err != nil || calendarID <= 0 {
		respond.Validation(c, "calendar_id is required")
		return
	}
	start, err := ParseDate(c.Query("start"))
	if err != nil {
		respond.Validation(c, "start must be YYYY-MM-DD")
		return
	}
	end, err := ParseDate(c.Query("end"))
	if err != nil {
		respond.Validation(c, "end must be YYYY-MM-DD")
		return
	}
	c.Set(middleware.CalendarIDKey, calendarID)

	entries, err := h.Svc.ListByRange(c.Request.Context(), middleware.UserIDFromContext(c), calendarID, start, end)
	if err != nil {
		writeError(c, err, "failed to list date entries")
		return
	}
	respond.OK(c, gin.H{"items": toResponses(entries)})
}

func (h *Handler) addModelResult(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var in ModelResultInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Validation(c, "invalid request body")
		return
	}
	result, err := h.Svc.AddModelResult(c.Request.Context(), middleware.UserIDFromContext(c), id, in)
	if err != nil {
		writeError(c, err, "failed to record model result")
		return
	}
	respond.Created(c, result)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respond.Validation(c, "invalid date id")
		return 0, false
	}
	return id, true
}

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Validation(c, err.Error())
	case errors.Is(err, ErrInvalidRange):
		respond.Validation(c, "start must be before end")
	case errors.Is(err, calendars.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "calendar_not_found", "Calendar not found", nil)
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "Date not found", nil)
	default:
		respond.Internal(c, fallback, err)
	}
}

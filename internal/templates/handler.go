package templates

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"acen-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes mounts template and schedule routes; guards run before
// mutating handlers.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, guards ...gin.HandlerFunc) {
	guarded := func(fn gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, guards...), fn)
	}
	rg.GET("/templates", h.list)
	rg.GET("/templates/:id", h.get)
	rg.POST("/templates", guarded(h.create)...)
	rg.PATCH("/templates/:id", guarded(h.update)...)
	rg.DELETE("/templates/:id", guarded(h.delete)...)
	rg.POST("/templates/:id/schedules", guarded(h.createSchedule)...)
	rg.PATCH("/templates/:id/schedules/:schedule_id", guarded(h.updateSchedule)...)
	rg.DELETE("/templates/:id/schedules/:schedule_id", guarded(h.deleteSchedule)...)
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.Svc.List(c.Request.Context())
	if err != nil {
		respond.Internal(c, "failed to list templates", err)
		return
	}
	if items == nil {
		items = []Template{}
	}
	respond.OK(c, gin.H{"items": items})
}

func (h *Handler) get(c *gin.Context) {
	id, ok := pathID(c, "id", "invalid template id")
	if !ok {
		return
	}
	t, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "failed to load template")
		return
	}
	respond.OK(c, t)
}

func (h *Handler) create(c *gin.Context) {
	var in CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Validation(c, "invalid request body")
		return
	}
	t, err := h.Svc.Create(c.Request.Context(), in)
	if err != nil {
		writeError(c, err, "failed to create template")
		return
	}
	respond.Created(c, t)
}

func (h *Handler) update(c *gin.Context) {
	id, ok := pathID(c, "id", "invalid template id")
	if !ok {
		return
	}
	var patch Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respond.Validation(c, "invalid request body")
		return
	}
	t, err := h.Svc.Update(c.Request.Context(), id, patch)
	if err != nil {
		writeError(c, err, "failed to update template")
		return
	}
	respond.OK(c, t)
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := pathID(c, "id", "invalid template id")
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err, "failed to delete template")
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) createSchedule(c *gin.Context) {
	id, ok := pathID(c, "id", "invalid template id")
	if !ok {
		return
	}
	var in ScheduleInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Validation(c, "invalid request body")
		return
	}
	sch, err := h.Svc.AddSchedule(c.Request.Context(), id, in)
	if err != nil {
		writeError(c, err, "failed to create schedule")
		return
	}
	respond.Created(c, sch)
}

func (h *Handler) updateSchedule(c *gin.Context) {
	templateID, scheduleID, ok := scheduleIDs(c)
	if !ok {
		return
	}
	var patch SchedulePatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respond.Validation(c, "invalid request body")
		return
	}
	sch, err := h.Svc.UpdateSchedule(c.Request.Context(), templateID, scheduleID, patch)
	if err != nil {
		writeError(c, err, "failed to update schedule")
		return
	}
	respond.OK(c, sch)
}

func (h *Handler) deleteSchedule(c *gin.Context) {
	templateID, scheduleID, ok := scheduleIDs(c)
	if !ok {
		return
	}
	if err := h.Svc.DeleteSchedule(c.Request.Context(), templateID, scheduleID); err != nil {
		writeError(c, err, "failed to delete schedule")
		return
	}
	c.Status(http.StatusNoContent)
}

func scheduleIDs(c *gin.Context) (int64, int64, bool) {
	templateID, ok := pathID(c, "id", "invalid template id")
	if !ok {
		return 0, 0, false
	}
	scheduleID, ok := pathID(c, "schedule_id", "invalid schedule id")
	if !ok {
		return 0, 0, false
	}
	return templateID, scheduleID, true
}

func pathID(c *gin.Context, param, msg string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(param), 10, 64)
	if err != nil || id <= 0 {
		respond.Validation(c, msg)
		return 0, false
	}
	return id, true
}

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Validation(c, err.Error())
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "Template not found", nil)
	case errors.Is(err, ErrScheduleNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "Schedule not found", nil)
	default:
		respond.Internal(c, fallback, err)
	}
}

package evaluator

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"acen-backend/internal/dates"
	"acen-backend/internal/shared/server/middleware"
	"acen-backend/internal/shared/server/respond"
)

type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/evaluate", h.evaluate)
}

func (h *Handler) evaluate(c *gin.Context) {
	q, ok := BindQuery(c)
	if !ok {
		return
	}
	result, err := h.Svc.Evaluate(c.Request.Context(), q)
	if err != nil {
		WriteError(c, err, "failed to evaluate range")
		return
	}
	respond.OK(c, result)
}

// BindQuery reads calendar_id, start and end query parameters for the caller.
// On failure it writes a validation error and returns false.
func BindQuery(c *gin.Context) (Query, bool) {
	calendarID, err := strconv.ParseInt(strings.TrimSpace(c.Query("calendar_id")), 10, 64)
	if err != nil || calendarID <= 0 {
		respond.Validation(c, "calendar_id must be a positive integer")
		return Query{}, false
	}
	c.Set(middleware.CalendarIDKey, calendarID)

	start, err := dates.ParseDate(strings.TrimSpace(c.Query("start")))
	if err != nil {
		respond.Validation(c, "start must be YYYY-MM-DD")
		return Query{}, false
	}
	end, err := dates.ParseDate(strings.TrimSpace(c.Query("end")))
	if err != nil {
		respond.Validation(c, "end must be YYYY-MM-DD")
		return Query{}, false
	}
	if start.After(end) {
		respond.Validation(c, "start must be before end")
		return Query{}, false
	}
	return Query{
		CalendarID: calendarID,
		Start:      start,
		End:        end,
		UserID:     middleware.UserIDFromContext(c),
	}, true
}

// WriteError maps evaluation errors onto the HTTP error envelope.
func WriteError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrInvalidRange):
		respond.Validation(c, "start must be before end")
	case errors.Is(err, ErrCalendarNotAccessible):
		respond.Error(c, http.StatusNotFound, "calendar_not_found", "Calendar not found", nil)
	default:
		respond.Internal(c, fallback, err)
	}
}

package users

import (
	"errors"
	"net/http"

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

// RegisterPublicRoutes mounts the user administration routes, which run
// before identity resolution; guards run before every handler.
func (h *Handler) RegisterPublicRoutes(rg *gin.RouterGroup, guards ...gin.HandlerFunc) {
	guarded := func(fn gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, guards...), fn)
	}
	rg.GET("/users", guarded(h.list)...)
	rg.POST("/users", guarded(h.create)...)
	rg.DELETE("/users/:id", guarded(h.delete)...)
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/me", h.me)
}

func (h *Handler) create(c *gin.Context) {
	var in CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Validation(c, "invalid request body")
		return
	}
	user, err := h.Svc.Create(c.Request.Context(), in)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Validation(c, err.Error())
		case errors.Is(err, ErrUsernameTaken):
			respond.Error(c, http.StatusConflict, "conflict", "user already exists", nil)
		default:
			respond.Internal(c, "failed to create user", err)
		}
		return
	}
	respond.Created(c, user)
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.Svc.List(c.Request.Context())
	if err != nil {
		respond.Internal(c, "failed to list users", err)
		return
	}
	if items == nil {
		items = []User{}
	}
	respond.OK(c, gin.H{"items": items})
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.Svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "User not found", nil)
			return
		}
		respond.Internal(c, "failed to delete user", err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) me(c *gin.Context) {
	user, err := h.Svc.GetByID(c.Request.Context(), middleware.UserIDFromContext(c))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "user not found", nil)
			return
		}
		respond.Internal(c, "failed to load user", err)
		return
	}
	respond.OK(c, user)
}

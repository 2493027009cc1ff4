package products

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

// RegisterRoutes mounts product routes; guards run before mutating handlers.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, guards ...gin.HandlerFunc) {
	guarded := func(fn gin.HandlerFunc) []gin.HandlerFunc {
		return append(append([]gin.HandlerFunc{}, guards...), fn)
	}
	rg.GET("/products", h.list)
	rg.GET("/products/:id", h.get)
	rg.POST("/products", guarded(h.create)...)
	rg.PATCH("/products/:id", guarded(h.update)...)
	rg.DELETE("/products/:id", guarded(h.delete)...)
}

func (h *Handler) list(c *gin.Context) {
	items, err := h.Svc.List(c.Request.Context(), c.Query("tag"))
	if err != nil {
		respond.Internal(c, "failed to list products", err)
		return
	}
	if items == nil {
		items = []Product{}
	}
	respond.OK(c, gin.H{"items": items})
}

func (h *Handler) get(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	prod, err := h.Svc.Get(c.Request.Context(), id)
	if err != nil {
		writeError(c, err, "failed to load product")
		return
	}
	respond.OK(c, prod)
}

func (h *Handler) create(c *gin.Context) {
	var in CreateInput
	if err := c.ShouldBindJSON(&in); err != nil {
		respond.Validation(c, "invalid request body")
		return
	}
	prod, err := h.Svc.Create(c.Request.Context(), in)
	if err != nil {
		writeError(c, err, "failed to create product")
		return
	}
	respond.Created(c, prod)
}

func (h *Handler) update(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var patch Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		respond.Validation(c, "invalid request body")
		return
	}
	prod, err := h.Svc.Update(c.Request.Context(), id, patch)
	if err != nil {
		writeError(c, err, "failed to update product")
		return
	}
	respond.OK(c, prod)
}

func (h *Handler) delete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Svc.Delete(c.Request.Context(), id); err != nil {
		writeError(c, err, "failed to delete product")
		return
	}
	c.Status(http.StatusNoContent)
}

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respond.Validation(c, "invalid product id")
		return 0, false
	}
	return id, true
}

func writeError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, ErrInvalidInput):
		respond.Validation(c, err.Error())
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "Product not found", nil)
	default:
		respond.Internal(c, fallback, err)
	}
}

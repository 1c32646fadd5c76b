package handler

import (
	"context"
	"slices"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/supermercado/backend/internal/domain/shared"
)

// CRUDService is the surface every master data service exposes. C and U are
// the create and update payloads, R the response.
type CRUDService[C, U, R any] interface {
	List(ctx context.Context, filter shared.Filter) (shared.Paginated[R], error)
	GetByID(ctx context.Context, id uuid.UUID) (*R, error)
	Create(ctx context.Context, req C) (*R, error)
	Update(ctx context.Context, id uuid.UUID, req U) (*R, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// CRUDHandler serves list, get, create, update and delete for one resource
type CRUDHandler[C, U, R any] struct {
	BaseHandler
	service CRUDService[C, U, R]
}

// NewCRUDHandler creates a handler where create and update share a payload
func NewCRUDHandler[Req, R any](service CRUDService[Req, Req, R]) *CRUDHandler[Req, Req, R] {
	return &CRUDHandler[Req, Req, R]{service: service}
}

// NewSplitCRUDHandler creates a handler with distinct create and update payloads
func NewSplitCRUDHandler[C, U, R any](service CRUDService[C, U, R]) *CRUDHandler[C, U, R] {
	return &CRUDHandler[C, U, R]{service: service}
}

// Register mounts the five routes on group
func (h *CRUDHandler[C, U, R]) Register(group *gin.RouterGroup, writeGuards ...gin.HandlerFunc) {
	group.GET("", h.List)
	group.GET("/:id", h.GetByID)
	group.POST("", slices.Concat(writeGuards, []gin.HandlerFunc{h.Create})...)
	group.PUT("/:id", slices.Concat(writeGuards, []gin.HandlerFunc{h.Update})...)
	group.DELETE("/:id", slices.Concat(writeGuards, []gin.HandlerFunc{h.Delete})...)
}

// List returns a page of records
func (h *CRUDHandler[C, U, R]) List(c *gin.Context) {
	filter, ok := h.listFilter(c)
	if !ok {
		return
	}
	page, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// GetByID returns one record or 404
func (h *CRUDHandler[C, U, R]) GetByID(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	record, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// Create validates the payload and creates a record
func (h *CRUDHandler[C, U, R]) Create(c *gin.Context) {
	var req C
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	record, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Created(c, record)
}

// Update replaces a record
func (h *CRUDHandler[C, U, R]) Update(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	var req U
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}
	record, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, record)
}

// Delete removes a record
func (h *CRUDHandler[C, U, R]) Delete(c *gin.Context) {
	id, ok := h.parseID(c)
	if !ok {
		return
	}
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

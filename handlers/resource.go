// Package handlers exposes the resource services over HTTP.
package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/egor/backoffice/logger"
	"github.com/egor/backoffice/middleware"
	"github.com/egor/backoffice/models"
	"github.com/egor/backoffice/query"
	"github.com/egor/backoffice/service"
	"github.com/egor/backoffice/validation"
)

// Resource is the part of a service every resource route shares. V is the
// list/write view, D the detail view and S the stats shape.
type Resource[V, D, S any] interface {
	List(ctx context.Context, filters query.Filters, scope models.Scope) service.Page[V]
	GetByID(ctx context.Context, id uuid.UUID, scope models.Scope) (D, error)
	Update(ctx context.Context, id uuid.UUID, patch validation.Payload, scope models.Scope) (*V, error)
	Delete(ctx context.Context, id uuid.UUID, scope models.Scope) (*service.Deleted, error)
	Stats(ctx context.Context, scope models.Scope) S
}

// createFunc runs a create for the authenticated requester. Entities differ
// in how the owner is picked, so each handler brings its own.
type createFunc func(ctx context.Context, r models.Requester, payload validation.Payload) (any, error)

// ResourceHandler serves list, stats, get, create, patch and delete for one
// entity under a router group.
type ResourceHandler[V, D, S any] struct {
	entity string
	svc    Resource[V, D, S]
	create createFunc
	log    logger.Logger
}

func (h *ResourceHandler[V, D, S]) Register(rg *gin.RouterGroup) {
	rg.GET("", h.List)
	rg.POST("", h.Create)
	rg.GET("/stats", h.Stats)
	rg.GET("/:id", h.Get)
	rg.PATCH("/:id", h.Update)
	rg.DELETE("/:id", h.Delete)
}

func (h *ResourceHandler[V, D, S]) List(c *gin.Context) {
	r := requester(c)
	page := h.svc.List(c.Request.Context(), filtersFrom(c), models.ScopeFor(r))
	if page.Items == nil {
		page.Items = []V{}
	}
	c.JSON(http.StatusOK, page)
}

func (h *ResourceHandler[V, D, S]) Stats(c *gin.Context) {
	r := requester(c)
	c.JSON(http.StatusOK, h.svc.Stats(c.Request.Context(), models.ScopeFor(r)))
}

func (h *ResourceHandler[V, D, S]) Get(c *gin.Context) {
	id, ok := h.id(c)
	if !ok {
		return
	}
	v, err := h.svc.GetByID(c.Request.Context(), id, models.ScopeFor(requester(c)))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *ResourceHandler[V, D, S]) Create(c *gin.Context) {
	payload, ok := bindPayload(c)
	if !ok {
		return
	}
	v, err := h.create(c.Request.Context(), requester(c), payload)
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusCreated, v)
}

func (h *ResourceHandler[V, D, S]) Update(c *gin.Context) {
	id, ok := h.id(c)
	if !ok {
		return
	}
	patch, ok := bindPayload(c)
	if !ok {
		return
	}
	v, err := h.svc.Update(c.Request.Context(), id, patch, models.ScopeFor(requester(c)))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *ResourceHandler[V, D, S]) Delete(c *gin.Context) {
	id, ok := h.id(c)
	if !ok {
		return
	}
	v, err := h.svc.Delete(c.Request.Context(), id, models.ScopeFor(requester(c)))
	if err != nil {
		respondError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

// id parses the :id param. A malformed id cannot name a record, so it gets
// the same not-found answer as an unknown one.
func (h *ResourceHandler[V, D, S]) id(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		respondError(c, h.log, models.NotFound(h.entity))
		return uuid.Nil, false
	}
	return id, true
}

func requester(c *gin.Context) models.Requester {
	r, _ := middleware.RequesterFrom(c)
	return r
}

// filtersFrom flattens the query string; the first value of a key wins.
func filtersFrom(c *gin.Context) query.Filters {
	values := c.Request.URL.Query()
	filters := make(query.Filters, len(values))
	for k, v := range values {
		if len(v) > 0 {
			filters[k] = v[0]
		}
	}
	return filters
}

func bindPayload(c *gin.Context) (validation.Payload, bool) {
	var payload validation.Payload
	if err := c.ShouldBindJSON(&payload); err != nil || payload == nil {
		badRequest(c, "request body must be a JSON object")
		return nil, false
	}
	return payload, true
}

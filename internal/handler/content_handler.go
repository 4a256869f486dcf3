package handler

import (
	"errors"
	"net/http"
	"strconv"

	"backend/internal/middleware"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/internal/validation"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ContentHandler serves the tenant content routes. Every route sits behind the
// API-key access-control middleware, which resolves the service and has
// already decided the caller may use this HTTP verb.
type ContentHandler struct {
	contentService service.ContentService
	services       repository.ServiceRepository
	roles          repository.RoleRepository
}

func NewContentHandler(contentService service.ContentService, services repository.ServiceRepository, roles repository.RoleRepository) *ContentHandler {
	return &ContentHandler{
		contentService: contentService,
		services:       services,
		roles:          roles,
	}
}

func (h *ContentHandler) RegisterRoutes(router *gin.RouterGroup) {
	scoped := router.Group("/service/:service_id", middleware.RequireServicePermission(h.services, h.roles))
	{
		scoped.POST("/content_types", h.CreateContentType)
		scoped.GET("/content_types/:content_type_id", h.GetContentType)
		scoped.POST("/:content_type_id/fields", h.CreateField)
		scoped.POST("/:content_type_id/content_items", h.CreateContentItem)
		scoped.GET("/:content_type_id/content_items", h.ListContentItems)
		scoped.GET("/content_items/:content_item_id", h.GetContentItem)
		scoped.PATCH("/content_items/:content_item_id", h.UpdateContentItem)
		scoped.DELETE("/content_items/:content_item_id", h.DeleteContentItem)
	}
}

// CreateContentType defines a new schema
// @Summary      Create content type
// @Tags         content
// @Accept       json
// @Produce      json
// @Param        x-api-key   header    string                            true  "Service API key"
// @Param        service_id  path      string                            true  "Service id"
// @Param        payload     body      service.CreateContentTypeRequest  true  "Content type name"
// @Success      201         {object}  response.Response{data=service.ContentTypeResponse}
// @Failure      400         {object}  response.Response
// @Failure      403         {object}  response.Response
// @Router       /service/{service_id}/content_types [post]
func (h *ContentHandler) CreateContentType(c *gin.Context) {
	svc, ok := middleware.ServiceFromContext(c)
	if !ok {
		c.JSON(http.StatusForbidden, response.Error(http.StatusForbidden, "access denied"))
		return
	}

	var req service.CreateContentTypeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	contentType, err := h.contentService.CreateContentType(c.Request.Context(), svc.ID, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, contentType))
}

// GetContentType returns a schema with its fields
// @Summary      Get content type
// @Tags         content
// @Produce      json
// @Param        x-api-key        header    string  true  "Service API key"
// @Param        service_id       path      string  true  "Service id"
// @Param        content_type_id  path      int     true  "Content type id"
// @Success      200              {object}  response.Response{data=service.ContentTypeResponse}
// @Failure      404              {object}  response.Response
// @Router       /service/{service_id}/content_types/{content_type_id} [get]
func (h *ContentHandler) GetContentType(c *gin.Context) {
	svc, ok := middleware.ServiceFromContext(c)
	if !ok {
		c.JSON(http.StatusForbidden, response.Error(http.StatusForbidden, "access denied"))
		return
	}

	contentTypeID, ok := h.contentTypeID(c)
	if !ok {
		return
	}

	contentType, err := h.contentService.GetContentType(c.Request.Context(), svc.ID, contentTypeID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, contentType))
}

// CreateField adds a typed field to a content type
// @Summary      Create field
// @Tags         content
// @Accept       json
// @Produce      json
// @Param        x-api-key        header    string                      true  "Service API key"
// @Param        service_id       path      string                      true  "Service id"
// @Param        content_type_id  path      int                         true  "Content type id"
// @Param        payload          body      service.CreateFieldRequest  true  "Field definition"
// @Success      201              {object}  response.Response{data=service.FieldResponse}
// @Failure      400              {object}  response.Response
// @Failure      404              {object}  response.Response
// @Router       /service/{service_id}/{content_type_id}/fields [post]
func (h *ContentHandler) CreateField(c *gin.Context) {
	svc, ok := middleware.ServiceFromContext(c)
	if !ok {
		c.JSON(http.StatusForbidden, response.Error(http.StatusForbidden, "access denied"))
		return
	}

	contentTypeID, ok := h.contentTypeID(c)
	if !ok {
		return
	}

	var req service.CreateFieldRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	field, err := h.contentService.CreateField(c.Request.Context(), svc.ID, contentTypeID, req)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, field))
}

// CreateContentItem stores a validated document
// @Summary      Create content item
// @Description  Validates the document against the content type's schema.
// @Description  Unknown keys are dropped; a type mismatch or missing required
// @Description  field rejects the whole document.
// @Tags         content
// @Accept       json
// @Produce      json
// @Param        x-api-key        header    string                            true  "Service API key"
// @Param        service_id       path      string                            true  "Service id"
// @Param        content_type_id  path      int                               true  "Content type id"
// @Param        payload          body      service.CreateContentItemRequest  true  "Document"
// @Success      201              {object}  response.Response{data=service.ContentItemResponse}
// @Failure      400              {object}  response.Response
// @Failure      404              {object}  response.Response
// @Router       /service/{service_id}/{content_type_id}/content_items [post]
func (h *ContentHandler) CreateContentItem(c *gin.Context) {
	svc, ok := middleware.ServiceFromContext(c)
	if !ok {
		c.JSON(http.StatusForbidden, response.Error(http.StatusForbidden, "access denied"))
		return
	}

	contentTypeID, ok := h.contentTypeID(c)
	if !ok {
		return
	}

	var req service.CreateContentItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}
	if req.Data == nil {
		req.Data = map[string]interface{}{}
	}

	item, err := h.contentService.CreateContentItem(c.Request.Context(), svc.ID, contentTypeID, req.Data)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, item))
}

// ListContentItems returns the items of a content type
// @Summary      List content items
// @Tags         content
// @Produce      json
// @Param        x-api-key        header    string  true   "Service API key"
// @Param        service_id       path      string  true   "Service id"
// @Param        content_type_id  path      int     true   "Content type id"
// @Param        page             query     int     false  "Page"
// @Param        limit            query     int     false  "Page size"
// @Success      200              {object}  response.Response
// @Failure      404              {object}  response.Response
// @Router       /service/{service_id}/{content_type_id}/content_items [get]
func (h *ContentHandler) ListContentItems(c *gin.Context) {
	svc, ok := middleware.ServiceFromContext(c)
	if !ok {
		c.JSON(http.StatusForbidden, response.Error(http.StatusForbidden, "access denied"))
		return
	}

	contentTypeID, ok := h.contentTypeID(c)
	if !ok {
		return
	}

	params := pagination.Parse(c)

	items, total, err := h.contentService.ListContentItems(c.Request.Context(), svc.ID, contentTypeID, params.Offset, params.Limit)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"items": items,
		"total": total,
		"page":  params.Page,
		"limit": params.Limit,
	}))
}

// GetContentItem fetches one document by id
// @Summary      Get content item
// @Tags         content
// @Produce      json
// @Param        x-api-key        header    string  true  "Service API key"
// @Param        service_id       path      string  true  "Service id"
// @Param        content_item_id  path      string  true  "Content item id"
// @Success      200              {object}  response.Response{data=service.ContentItemResponse}
// @Failure      404              {object}  response.Response
// @Router       /service/{service_id}/content_items/{content_item_id} [get]
func (h *ContentHandler) GetContentItem(c *gin.Context) {
	svc, ok := middleware.ServiceFromContext(c)
	if !ok {
		c.JSON(http.StatusForbidden, response.Error(http.StatusForbidden, "access denied"))
		return
	}

	itemID, ok := h.contentItemID(c)
	if !ok {
		return
	}

	item, err := h.contentService.GetContentItem(c.Request.Context(), svc.ID, itemID)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// UpdateContentItem replaces a document after validating it
// @Summary      Update content item
// @Tags         content
// @Accept       json
// @Produce      json
// @Param        x-api-key        header    string                            true  "Service API key"
// @Param        service_id       path      string                            true  "Service id"
// @Param        content_item_id  path      string                            true  "Content item id"
// @Param        payload          body      service.CreateContentItemRequest  true  "Document"
// @Success      200              {object}  response.Response{data=service.ContentItemResponse}
// @Failure      400              {object}  response.Response
// @Failure      404              {object}  response.Response
// @Router       /service/{service_id}/content_items/{content_item_id} [patch]
func (h *ContentHandler) UpdateContentItem(c *gin.Context) {
	svc, ok := middleware.ServiceFromContext(c)
	if !ok {
		c.JSON(http.StatusForbidden, response.Error(http.StatusForbidden, "access denied"))
		return
	}

	itemID, ok := h.contentItemID(c)
	if !ok {
		return
	}

	var req service.CreateContentItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	item, err := h.contentService.UpdateContentItem(c.Request.Context(), svc.ID, itemID, req.Data)
	if err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, item))
}

// DeleteContentItem removes a document
// @Summary      Delete content item
// @Tags         content
// @Produce      json
// @Param        x-api-key        header    string  true  "Service API key"
// @Param        service_id       path      string  true  "Service id"
// @Param        content_item_id  path      string  true  "Content item id"
// @Success      200              {object}  response.Response
// @Failure      404              {object}  response.Response
// @Router       /service/{service_id}/content_items/{content_item_id} [delete]
func (h *ContentHandler) DeleteContentItem(c *gin.Context) {
	svc, ok := middleware.ServiceFromContext(c)
	if !ok {
		c.JSON(http.StatusForbidden, response.Error(http.StatusForbidden, "access denied"))
		return
	}

	itemID, ok := h.contentItemID(c)
	if !ok {
		return
	}

	if err := h.contentService.DeleteContentItem(c.Request.Context(), svc.ID, itemID); err != nil {
		h.respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response.Message(http.StatusOK, "content item deleted"))
}

func (h *ContentHandler) contentTypeID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("content_type_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "content_type_id must be an integer"))
		return 0, false
	}
	return id, true
}

func (h *ContentHandler) contentItemID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("content_item_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "content_item_id must be a UUID"))
		return uuid.Nil, false
	}
	return id, true
}

// respondError maps service errors onto the status-code convention: 400 for
// validation problems, 404 for absent entities, 500 only for storage failures.
func (h *ContentHandler) respondError(c *gin.Context, err error) {
	var fieldErr *validation.FieldError
	switch {
	case errors.As(err, &fieldErr):
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, fieldErr.Error()))
	case errors.Is(err, service.ErrEmptyDocument),
		errors.Is(err, service.ErrInvalidFieldType),
		errors.Is(err, service.ErrDuplicateField):
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
	case errors.Is(err, service.ErrContentTypeNotFound),
		errors.Is(err, service.ErrContentItemNotFound):
		c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
	default:
		logrus.WithError(err).Error("content operation failed")
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "internal server error"))
	}
}

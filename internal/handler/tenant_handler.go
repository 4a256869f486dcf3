package handler

import (
	"errors"
	"net/http"

	"backend/internal/middleware"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/pkg/pagination"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// TenantHandler serves the session-protected service management routes.
type TenantHandler struct {
	tenantService service.TenantService
	auditService  service.AuditService
	sessions      repository.SessionRepository
	cookieName    string
}

func NewTenantHandler(tenantService service.TenantService, auditService service.AuditService, sessions repository.SessionRepository, cookieName string) *TenantHandler {
	return &TenantHandler{
		tenantService: tenantService,
		auditService:  auditService,
		sessions:      sessions,
		cookieName:    cookieName,
	}
}

func (h *TenantHandler) RegisterRoutes(router *gin.RouterGroup) {
	requireSession := middleware.RequireSession(h.sessions, h.cookieName)

	router.POST("/service", requireSession, h.CreateService)

	services := router.Group("/services", requireSession)
	{
		services.POST("/:service_id/roles", h.CreateRole)
		services.DELETE("/:service_id", h.DeleteService)
	}

	router.GET("/audit", requireSession, h.ListAudit)
}

// CreateService registers a tenant
// @Summary      Create service
// @Description  Registers a new service and returns its id and API key. An
// @Description  Admin role holding every permission is created alongside it.
// @Tags         services
// @Accept       json
// @Produce      json
// @Param        payload  body      service.CreateServiceRequest  true  "Service name"
// @Success      201      {object}  response.Response{data=service.ServiceCredentials}
// @Failure      400      {object}  response.Response
// @Failure      403      {object}  response.Response
// @Router       /service [post]
func (h *TenantHandler) CreateService(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusForbidden, response.Error(http.StatusForbidden, "please log in"))
		return
	}

	var req service.CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	credentials, err := h.tenantService.CreateService(c.Request.Context(), userID, req)
	if err != nil {
		logrus.WithError(err).Error("failed to create service")
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "failed to create service"))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, credentials))
}

// CreateRole adds a role to a service
// @Summary      Create role
// @Description  Creates a role with the given permission grants and returns
// @Description  the role API key. Permissions are fixed at creation time.
// @Tags         services
// @Accept       json
// @Produce      json
// @Param        service_id  path      string                     true  "Service id"
// @Param        payload     body      service.CreateRoleRequest  true  "Role name and permissions"
// @Success      201         {object}  response.Response{data=service.RoleCredentials}
// @Failure      400         {object}  response.Response
// @Failure      404         {object}  response.Response
// @Router       /services/{service_id}/roles [post]
func (h *TenantHandler) CreateRole(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusForbidden, response.Error(http.StatusForbidden, "please log in"))
		return
	}

	var req service.CreateRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	credentials, err := h.tenantService.CreateRole(c.Request.Context(), userID, c.Param("service_id"), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidPermission):
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		case errors.Is(err, service.ErrServiceNotFound):
			c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
		default:
			logrus.WithError(err).Error("failed to create role")
			c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "failed to create role"))
		}
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, credentials))
}

// DeleteService removes a tenant and everything it owns
// @Summary      Delete service
// @Tags         services
// @Produce      json
// @Param        service_id  path      string  true  "Service id"
// @Success      200         {object}  response.Response
// @Failure      404         {object}  response.Response
// @Router       /services/{service_id} [delete]
func (h *TenantHandler) DeleteService(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusForbidden, response.Error(http.StatusForbidden, "please log in"))
		return
	}

	if err := h.tenantService.DeleteService(c.Request.Context(), userID, c.Param("service_id")); err != nil {
		if errors.Is(err, service.ErrServiceNotFound) {
			c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
			return
		}
		logrus.WithError(err).Error("failed to delete service")
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "failed to delete service"))
		return
	}

	c.JSON(http.StatusOK, response.Message(http.StatusOK, "service deleted"))
}

// ListAudit returns the admin action trail
// @Summary      List audit log
// @Tags         audit
// @Produce      json
// @Param        page   query     int  false  "Page"
// @Param        limit  query     int  false  "Page size"
// @Success      200    {object}  response.Response
// @Router       /audit [get]
func (h *TenantHandler) ListAudit(c *gin.Context) {
	params := pagination.Parse(c)

	entries, total, err := h.auditService.List(c.Request.Context(), params.Offset, params.Limit)
	if err != nil {
		logrus.WithError(err).Error("failed to list audit entries")
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "failed to list audit entries"))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, gin.H{
		"entries": entries,
		"total":   total,
		"page":    params.Page,
		"limit":   params.Limit,
	}))
}

package middleware

import (
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// APIKeyHeader is the header tenant callers authenticate with.
const APIKeyHeader = "x-api-key"

// Context keys set by the middlewares for downstream handlers.
const (
	ContextServiceKey = "service"
	ContextUserIDKey  = "userID"
)

// SetSessionCookie installs the session cookie: Secure, HttpOnly,
// SameSite=Strict, path "/".
func SetSessionCookie(c *gin.Context, name, token string, ttl time.Duration, secure bool) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(name, token, int(ttl.Seconds()), "/", "", secure, true)
}

// ClearSessionCookie expires the session cookie.
func ClearSessionCookie(c *gin.Context, name string, secure bool) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(name, "", -1, "/", "", secure, true)
}

// RequireSession guards admin routes. The cookie carries an opaque token that
// is re-read from storage on every request, so a session invalidated by a
// later login (or expired) is rejected immediately.
func RequireSession(sessions repository.SessionRepository, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "please log in"))
			return
		}

		session, err := sessions.FindByToken(c.Request.Context(), token)
		if err != nil {
			// Lookup miss and lookup failure both deny; never grant on error.
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "please log in"))
			return
		}

		if time.Now().After(session.ExpiresAt) {
			if err := sessions.DeleteByToken(c.Request.Context(), token); err != nil {
				logrus.WithError(err).Warn("failed to delete expired session")
			}
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "session expired, please log in again"))
			return
		}

		c.Set(ContextUserIDKey, session.UserID)
		c.Next()
	}
}

// RequireServicePermission guards tenant content routes. It resolves the
// service from the path, checks the API key and then checks that some role of
// the service grants the permission matching the HTTP verb. Storage errors
// during key or permission resolution deny access rather than surfacing a 5xx.
func RequireServicePermission(services repository.ServiceRepository, roles repository.RoleRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		apiKey := strings.TrimSpace(c.GetHeader(APIKeyHeader))
		if apiKey == "" {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "API key is missing"))
			return
		}

		serviceID := c.Param("service_id")
		service, err := services.FindByID(c.Request.Context(), serviceID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.AbortWithStatusJSON(http.StatusNotFound, response.Error(http.StatusNotFound, "service not found"))
				return
			}
			logrus.WithError(err).WithField("service_id", serviceID).Error("service lookup failed")
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "access denied"))
			return
		}

		if subtle.ConstantTimeCompare([]byte(service.APIKey), []byte(apiKey)) != 1 {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "invalid API key"))
			return
		}

		permission, ok := model.PermissionForMethod(c.Request.Method)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "method not allowed for this service"))
			return
		}

		granted, err := roles.ServiceHasPermission(c.Request.Context(), service.ID, permission)
		if err != nil {
			logrus.WithError(err).WithFields(logrus.Fields{
				"service_id": service.ID,
				"permission": permission,
			}).Error("permission lookup failed")
			granted = false
		}
		if !granted {
			c.AbortWithStatusJSON(http.StatusForbidden, response.Error(http.StatusForbidden, "method not allowed for this service"))
			return
		}

		c.Set(ContextServiceKey, service)
		c.Next()
	}
}

// ServiceFromContext returns the service resolved by RequireServicePermission.
func ServiceFromContext(c *gin.Context) (*model.Service, bool) {
	v, exists := c.Get(ContextServiceKey)
	if !exists {
		return nil, false
	}
	service, ok := v.(*model.Service)
	return service, ok
}

// UserIDFromContext returns the user id resolved by RequireSession.
func UserIDFromContext(c *gin.Context) (uuid.UUID, bool) {
	v, exists := c.Get(ContextUserIDKey)
	if !exists {
		return uuid.Nil, false
	}
	id, ok := v.(uuid.UUID)
	return id, ok
}

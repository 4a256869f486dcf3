package handler

import (
	"errors"
	"net/http"

	"backend/internal/config"
	"backend/internal/middleware"
	"backend/internal/service"
	"backend/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	authService service.AuthService
	session     config.SessionConfig
}

func NewAuthHandler(authService service.AuthService, session config.SessionConfig) *AuthHandler {
	return &AuthHandler{authService: authService, session: session}
}

// RegisterRoutes binds the auth endpoints. These are the only unauthenticated
// routes in the API.
func (h *AuthHandler) RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/login", h.Login)
		auth.POST("/forgot", h.ForgotPassword)
		auth.GET("/logout", h.Logout)
	}
}

// Register creates an admin account
// @Summary      Register admin user
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.RegisterRequest  true  "Account details"
// @Success      201      {object}  response.Response
// @Failure      400      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	if err := h.authService.Register(c.Request.Context(), req); err != nil {
		switch {
		case errors.Is(err, service.ErrUsernameTaken), errors.Is(err, service.ErrEmailTaken):
			c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, err.Error()))
		default:
			logrus.WithError(err).Error("registration failed")
			c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "failed to create account"))
		}
		return
	}

	c.JSON(http.StatusCreated, response.Message(http.StatusCreated, "account created"))
}

// Login authenticates and sets the session cookie
// @Summary      Login
// @Description  Verifies credentials and installs the session cookie. A login
// @Description  from a new browser replaces any existing session for the user.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.LoginRequest  true  "Credentials"
// @Success      200      {object}  response.Response{data=service.SessionResponse}
// @Failure      400      {object}  response.Response
// @Failure      401      {object}  response.Response
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req service.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	session, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, response.Error(http.StatusUnauthorized, err.Error()))
			return
		}
		logrus.WithError(err).Error("login failed")
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "failed to log in"))
		return
	}

	middleware.SetSessionCookie(c, h.session.CookieName, session.Token, h.session.TTL, h.session.SecureCookie)
	c.JSON(http.StatusOK, response.Success(http.StatusOK, session))
}

// Logout deletes the session and clears the cookie
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  response.Response
// @Router       /auth/logout [get]
func (h *AuthHandler) Logout(c *gin.Context) {
	token, err := c.Cookie(h.session.CookieName)
	if err == nil && token != "" {
		if err := h.authService.Logout(c.Request.Context(), token); err != nil {
			logrus.WithError(err).Error("failed to delete session")
			c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "failed to log out"))
			return
		}
	}

	middleware.ClearSessionCookie(c, h.session.CookieName, h.session.SecureCookie)
	c.JSON(http.StatusOK, response.Message(http.StatusOK, "logged out"))
}

// ForgotPassword resets the password and emails the new one
// @Summary      Forgot password
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        payload  body      service.ForgotPasswordRequest  true  "Account email"
// @Success      200      {object}  response.Response
// @Failure      404      {object}  response.Response
// @Failure      500      {object}  response.Response
// @Router       /auth/forgot [post]
func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req service.ForgotPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload"))
		return
	}

	if err := h.authService.ForgotPassword(c.Request.Context(), req); err != nil {
		if errors.Is(err, service.ErrUserNotFound) {
			c.JSON(http.StatusNotFound, response.Error(http.StatusNotFound, err.Error()))
			return
		}
		logrus.WithError(err).Error("password reset failed")
		c.JSON(http.StatusInternalServerError, response.Error(http.StatusInternalServerError, "failed to reset password"))
		return
	}

	c.JSON(http.StatusOK, response.Message(http.StatusOK, "a new password has been sent"))
}

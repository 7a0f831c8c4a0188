package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/internal/models"
	"github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/internal/service"
	appErrors "github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/pkg/errors"
	"github.com/akashmuley345-collab/Manikgad-Cbse-classes-Buldana/pkg/response"
)

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service *service.AuthService
	metrics *service.MetricsService
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc *service.AuthService, metrics *service.MetricsService) *AuthHandler {
	return &AuthHandler{service: svc, metrics: metrics}
}

// Login authenticates a principal for the requested role.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid login payload"))
		return
	}

	res, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	h.metrics.RecordLogin(string(res.User.Role))
	response.JSON(c, http.StatusOK, res)
}

// RegisterStudent completes a first-login student registration. A
// student may only register their own record.
func (h *AuthHandler) RegisterStudent(c *gin.Context) {
	var req service.RegisterStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid registration payload"))
		return
	}

	if claims := claimsFromContext(c); claims != nil && claims.Role == models.RoleStudent && claims.LinkedID != req.StudentID {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "students can only register their own account"))
		return
	}

	res, err := h.service.RegisterStudent(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, res)
}

// Logout clears the persisted session.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.service.Logout(c.Request.Context()); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Me returns the principal in the session slot.
func (h *AuthHandler) Me(c *gin.Context) {
	user, err := h.service.CurrentUser(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, user)
}

package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soulbliss/soulbliss-api/internal/dto"
	"github.com/soulbliss/soulbliss-api/internal/models"
	"github.com/soulbliss/soulbliss-api/pkg/response"
)

type userService interface {
	Register(ctx context.Context, req dto.CreateUserRequest) (*models.User, bool, error)
	List(ctx context.Context) ([]models.User, error)
	ListInstructors(ctx context.Context) ([]models.User, error)
	AssignRole(ctx context.Context, id string, role models.UserRole) error
	Delete(ctx context.Context, id string) error
}

type roleChecker interface {
	HasRole(ctx context.Context, email string, role models.UserRole) (bool, error)
}

// UserHandler handles user registration, role checks and role assignment.
type UserHandler struct {
	service userService
	roles   roleChecker
}

// NewUserHandler creates a new user handler.
func NewUserHandler(svc userService, roles roleChecker) *UserHandler {
	return &UserHandler{service: svc, roles: roles}
}

// Create godoc
// @Summary Register user
// @Description Insert the user unless the email is already known
// @Tags Users
// @Accept json
// @Produce json
// @Param payload body dto.CreateUserRequest true "User payload"
// @Success 200 {object} response.Envelope
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /users [post]
func (h *UserHandler) Create(c *gin.Context) {
	var req dto.CreateUserRequest
	if !bindJSON(c, &req, "invalid user payload") {
		return
	}

	user, created, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if !created {
		response.OK(c, gin.H{"message": "user already exist"})
		return
	}

	response.Created(c, user)
}

// List godoc
// @Summary List users
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /users [get]
func (h *UserHandler) List(c *gin.Context) {
	users, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, users)
}

// ListInstructors godoc
// @Summary List instructors
// @Tags Users
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /users/instructors/all [get]
func (h *UserHandler) ListInstructors(c *gin.Context) {
	users, err := h.service.ListInstructors(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, users)
}

// IsAdmin godoc
// @Summary Check admin role
// @Description Reports whether the caller holds the admin role. Asking about another identity yields false.
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param email path string true "User email"
// @Success 200 {object} response.Envelope
// @Router /users/admin/{email} [get]
func (h *UserHandler) IsAdmin(c *gin.Context) {
	h.checkRole(c, models.RoleAdmin, "admin")
}

// IsInstructor godoc
// @Summary Check instructor role
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param email path string true "User email"
// @Success 200 {object} response.Envelope
// @Router /users/instructor/{email} [get]
func (h *UserHandler) IsInstructor(c *gin.Context) {
	h.checkRole(c, models.RoleInstructor, "instructor")
}

func (h *UserHandler) checkRole(c *gin.Context, role models.UserRole, field string) {
	email := c.Param("email")
	if email != identity(c) {
		response.OK(c, gin.H{field: false})
		return
	}

	ok, err := h.roles.HasRole(c.Request.Context(), email, role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{field: ok})
}

// MakeAdmin godoc
// @Summary Grant admin role
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /users/admin/{id} [patch]
func (h *UserHandler) MakeAdmin(c *gin.Context) {
	h.assign(c, models.RoleAdmin)
}

// MakeInstructor godoc
// @Summary Grant instructor role
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /users/instructor/{id} [patch]
func (h *UserHandler) MakeInstructor(c *gin.Context) {
	h.assign(c, models.RoleInstructor)
}

func (h *UserHandler) assign(c *gin.Context, role models.UserRole) {
	id := c.Param("id")
	if err := h.service.AssignRole(c.Request.Context(), id, role); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"id": id, "role": role})
}

// Delete godoc
// @Summary Delete user
// @Tags Users
// @Produce json
// @Param id path string true "User ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /users/delete/{id} [delete]
func (h *UserHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"id": id, "deleted": true})
}

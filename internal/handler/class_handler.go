package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/soulbliss/soulbliss-api/internal/dto"
	"github.com/soulbliss/soulbliss-api/internal/models"
	"github.com/soulbliss/soulbliss-api/pkg/response"
)

type classService interface {
	Create(ctx context.Context, req dto.CreateClassRequest) (*models.Class, error)
	List(ctx context.Context) ([]models.Class, error)
	ListApproved(ctx context.Context) ([]models.Class, error)
	ListByInstructor(ctx context.Context, email string) ([]models.Class, error)
	Get(ctx context.Context, id string) (*models.Class, error)
	Approve(ctx context.Context, id string) error
	Deny(ctx context.Context, id string) error
	SetFeedback(ctx context.Context, id string, req dto.FeedbackRequest) error
}

// ClassHandler exposes class catalogue and moderation endpoints.
type ClassHandler struct {
	service classService
}

// NewClassHandler constructs a class handler.
func NewClassHandler(svc classService) *ClassHandler {
	return &ClassHandler{service: svc}
}

// Create godoc
// @Summary Create class
// @Description New classes start pending until moderated
// @Tags Classes
// @Accept json
// @Produce json
// @Param payload body dto.CreateClassRequest true "Class payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /classes [post]
func (h *ClassHandler) Create(c *gin.Context) {
	var req dto.CreateClassRequest
	if !bindJSON(c, &req, "invalid class payload") {
		return
	}

	class, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, class)
}

// List godoc
// @Summary List all classes
// @Tags Classes
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /classes [get]
func (h *ClassHandler) List(c *gin.Context) {
	h.respondList(c, h.service.List)
}

// ListApproved godoc
// @Summary List approved classes
// @Tags Classes
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /classes/approved/all [get]
func (h *ClassHandler) ListApproved(c *gin.Context) {
	h.respondList(c, h.service.ListApproved)
}

// ListByInstructor godoc
// @Summary List an instructor's classes
// @Tags Classes
// @Produce json
// @Security BearerAuth
// @Param email path string true "Instructor email"
// @Success 200 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /classes/{email} [get]
func (h *ClassHandler) ListByInstructor(c *gin.Context) {
	email := c.Param("email")
	h.respondList(c, func(ctx context.Context) ([]models.Class, error) {
		return h.service.ListByInstructor(ctx, email)
	})
}

func (h *ClassHandler) respondList(c *gin.Context, list func(context.Context) ([]models.Class, error)) {
	classes, err := list(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, classes)
}

// Get godoc
// @Summary Get class
// @Tags Classes
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /classes/single/{id} [get]
func (h *ClassHandler) Get(c *gin.Context) {
	class, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, class)
}

// Approve godoc
// @Summary Approve class
// @Tags Classes
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /classes/approved/{id} [patch]
func (h *ClassHandler) Approve(c *gin.Context) {
	h.moderate(c, h.service.Approve, models.ClassApproved)
}

// Deny godoc
// @Summary Deny class
// @Tags Classes
// @Produce json
// @Param id path string true "Class ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /classes/denied/{id} [patch]
func (h *ClassHandler) Deny(c *gin.Context) {
	h.moderate(c, h.service.Deny, models.ClassDenied)
}

func (h *ClassHandler) moderate(c *gin.Context, apply func(context.Context, string) error, status models.ClassStatus) {
	id := c.Param("id")
	if err := apply(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"id": id, "status": status})
}

// Feedback godoc
// @Summary Attach moderator feedback
// @Tags Classes
// @Accept json
// @Produce json
// @Param id path string true "Class ID"
// @Param payload body dto.FeedbackRequest true "Feedback"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /classes/feedback/{id} [patch]
func (h *ClassHandler) Feedback(c *gin.Context) {
	var req dto.FeedbackRequest
	if !bindJSON(c, &req, "invalid feedback payload") {
		return
	}

	id := c.Param("id")
	if err := h.service.SetFeedback(c.Request.Context(), id, req); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"id": id, "feedback": req.Feedback})
}

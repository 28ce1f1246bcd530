package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/soulbliss/soulbliss-api/internal/models"
	"github.com/soulbliss/soulbliss-api/internal/service"
	"github.com/soulbliss/soulbliss-api/pkg/response"
)

type enrollmentService interface {
	ListByBuyer(ctx context.Context, email string) ([]models.Enrollment, error)
	Export(ctx context.Context, email, rawFormat string) (*service.ExportResult, error)
}

// EnrollmentHandler serves a buyer's completed purchases.
type EnrollmentHandler struct {
	service enrollmentService
}

// NewEnrollmentHandler constructs an enrollment handler.
func NewEnrollmentHandler(svc enrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{service: svc}
}

// ListByBuyer godoc
// @Summary List enrollments
// @Description Completed purchases for the buyer, newest first
// @Tags Enrollments
// @Produce json
// @Security BearerAuth
// @Param email path string true "Buyer email"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /enrolled/{email} [get]
func (h *EnrollmentHandler) ListByBuyer(c *gin.Context) {
	enrollments, err := h.service.ListByBuyer(c.Request.Context(), c.Param("email"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, enrollments)
}

// Export godoc
// @Summary Export purchase history
// @Tags Enrollments
// @Produce text/csv
// @Produce application/pdf
// @Security BearerAuth
// @Param email path string true "Buyer email"
// @Param format query string false "csv or pdf"
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /enrolled/{email}/export [get]
func (h *EnrollmentHandler) Export(c *gin.Context) {
	result, err := h.service.Export(c.Request.Context(), c.Param("email"), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.File(c, result.Filename, result.ContentType, result.Body)
}

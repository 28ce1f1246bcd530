package handler

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/soulbliss/soulbliss-api/internal/dto"
	"github.com/soulbliss/soulbliss-api/internal/models"
	"github.com/soulbliss/soulbliss-api/pkg/response"
)

type selectionService interface {
	Create(ctx context.Context, req dto.CreateSelectionRequest) (*models.Selection, error)
	ListByBuyer(ctx context.Context, email string) ([]models.Selection, error)
	Get(ctx context.Context, id string) (*models.Selection, error)
	Delete(ctx context.Context, id string) error
}

// SelectionHandler manages a buyer's selected (carted) classes.
type SelectionHandler struct {
	service selectionService
}

// NewSelectionHandler constructs a selection handler.
func NewSelectionHandler(svc selectionService) *SelectionHandler {
	return &SelectionHandler{service: svc}
}

// Create godoc
// @Summary Select class
// @Description A buyer can select each class once
// @Tags Selections
// @Accept json
// @Produce json
// @Param payload body dto.CreateSelectionRequest true "Selection payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /selected [post]
func (h *SelectionHandler) Create(c *gin.Context) {
	var req dto.CreateSelectionRequest
	if !bindJSON(c, &req, "invalid selection payload") {
		return
	}

	selection, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, selection)
}

// ListByBuyer godoc
// @Summary List a buyer's selections
// @Tags Selections
// @Produce json
// @Security BearerAuth
// @Param email path string true "Buyer email"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Router /selected/{email} [get]
func (h *SelectionHandler) ListByBuyer(c *gin.Context) {
	selections, err := h.service.ListByBuyer(c.Request.Context(), c.Param("email"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, selections)
}

// Get godoc
// @Summary Get selection
// @Tags Selections
// @Produce json
// @Param id path string true "Selection ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /selected/single/{id} [get]
func (h *SelectionHandler) Get(c *gin.Context) {
	selection, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, selection)
}

// Delete godoc
// @Summary Remove selection
// @Tags Selections
// @Produce json
// @Param id path string true "Selection ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /selected/delete/{id} [delete]
func (h *SelectionHandler) Delete(c *gin.Context) {
	id := c.Param("id")
	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, gin.H{"id": id, "deleted": true})
}

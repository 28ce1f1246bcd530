package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/soulbliss/soulbliss-api/internal/dto"
	"github.com/soulbliss/soulbliss-api/internal/models"
	appErrors "github.com/soulbliss/soulbliss-api/pkg/errors"
	"github.com/soulbliss/soulbliss-api/pkg/response"
)

type intentCreator interface {
	CreateIntent(ctx context.Context, buyerEmail string, req dto.PaymentIntentRequest) (*dto.PaymentIntentResponse, error)
}

type purchaseCompleter interface {
	CompletePurchase(ctx context.Context, req dto.PurchaseRequest) (*models.PurchaseResult, error)
}

// PaymentHandler drives checkout: intent creation and purchase completion.
type PaymentHandler struct {
	payments  intentCreator
	purchases purchaseCompleter
}

// NewPaymentHandler constructs a payment handler.
func NewPaymentHandler(payments intentCreator, purchases purchaseCompleter) *PaymentHandler {
	return &PaymentHandler{payments: payments, purchases: purchases}
}

// CreateIntent godoc
// @Summary Create payment intent
// @Description Returns a client secret for a card payment of the given price
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.PaymentIntentRequest true "Price"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /create-payment-intent [post]
func (h *PaymentHandler) CreateIntent(c *gin.Context) {
	var req dto.PaymentIntentRequest
	if !bindJSON(c, &req, "invalid payment payload") {
		return
	}

	res, err := h.payments.CreateIntent(c.Request.Context(), identity(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, res)
}

// Complete godoc
// @Summary Complete purchase
// @Description Moves a paid selection into the buyer's enrollments exactly once
// @Tags Payments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param payload body dto.PurchaseRequest true "Purchase payload"
// @Success 200 {object} response.Envelope "already purchased"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 403 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Failure 500 {object} response.Envelope
// @Router /payments [post]
func (h *PaymentHandler) Complete(c *gin.Context) {
	var req dto.PurchaseRequest
	if !bindJSON(c, &req, "invalid purchase payload") {
		return
	}
	req.BuyerEmail = strings.TrimSpace(req.BuyerEmail)
	if req.BuyerEmail == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "buyer_email is required"))
		return
	}
	if req.BuyerEmail != identity(c) {
		response.Error(c, appErrors.Clone(appErrors.ErrForbidden, "forbidden access"))
		return
	}

	result, err := h.purchases.CompletePurchase(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	if result.Outcome == models.PurchaseAlreadyPurchased {
		response.JSON(c, http.StatusOK, gin.H{"exist": true, "enrollment": result.Enrollment})
		return
	}
	response.Created(c, result.Enrollment)
}

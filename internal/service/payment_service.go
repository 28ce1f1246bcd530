package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/soulbliss/soulbliss-api/internal/dto"
	appErrors "github.com/soulbliss/soulbliss-api/pkg/errors"
	"github.com/soulbliss/soulbliss-api/pkg/payment"
)

// PaymentProvider creates provider-side payment intents.
type PaymentProvider interface {
	CreateIntent(ctx context.Context, amountMinor int64, metadata map[string]string) (*payment.Intent, error)
}

// PaymentService prepares card payments for the storefront checkout.
type PaymentService struct {
	provider PaymentProvider
	logger   *zap.Logger
}

// NewPaymentService constructs a PaymentService.
func NewPaymentService(provider PaymentProvider, logger *zap.Logger) *PaymentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PaymentService{provider: provider, logger: logger}
}

// CreateIntent returns a client secret for charging price to the buyer's card.
func (s *PaymentService) CreateIntent(ctx context.Context, buyerEmail string, req dto.PaymentIntentRequest) (*dto.PaymentIntentResponse, error) {
	if !req.Price.IsPositive() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "price must be greater than zero")
	}

	amount := payment.MinorUnits(req.Price)
	if amount <= 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "price is below the smallest chargeable amount")
	}

	intent, err := s.provider.CreateIntent(ctx, amount, map[string]string{"buyer_email": buyerEmail})
	if err != nil {
		if errors.Is(err, payment.ErrNotConfigured) {
			return nil, appErrors.Wrap(err, appErrors.ErrPaymentProvider.Code, appErrors.ErrPaymentProvider.Status, "payment provider not configured")
		}
		s.logger.Error("payment intent failed", zap.String("buyer_email", buyerEmail), zap.Error(err))
		return nil, appErrors.Wrap(err, appErrors.ErrPaymentProvider.Code, appErrors.ErrPaymentProvider.Status, "failed to create payment intent")
	}

	s.logger.Info("payment intent created", zap.String("intent_id", intent.ID), zap.Int64("amount", intent.Amount))
	return &dto.PaymentIntentResponse{ClientSecret: intent.ClientSecret}, nil
}

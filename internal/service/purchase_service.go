package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/soulbliss/soulbliss-api/internal/dto"
	"github.com/soulbliss/soulbliss-api/internal/models"
	"github.com/soulbliss/soulbliss-api/internal/repository"
	appErrors "github.com/soulbliss/soulbliss-api/pkg/errors"
	"github.com/soulbliss/soulbliss-api/pkg/logger"
)

// PurchaseStore runs the purchase steps. Atomic reports whether a failed run leaves no partial writes.
type PurchaseStore interface {
	RunPurchase(ctx context.Context, fn repository.PurchaseFunc) error
	Atomic() bool
}

type enrollmentNotifier interface {
	EnrollmentCompleted(enrollment models.Enrollment)
}

// PurchaseService turns a confirmed payment into an enrollment, consuming the
// buyer's selection exactly once.
type PurchaseService struct {
	store     PurchaseStore
	notifier  enrollmentNotifier
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewPurchaseService constructs a PurchaseService. notifier and metrics may be nil.
func NewPurchaseService(store PurchaseStore, notifier enrollmentNotifier, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *PurchaseService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PurchaseService{store: store, notifier: notifier, metrics: metrics, validator: validate, logger: logger, now: time.Now}
}

// CompletePurchase records the payment for req.SelectedID.
//
// Exactly one of any set of concurrent calls for the same (selection, buyer)
// yields PurchaseCompleted; the others observe PurchaseAlreadyPurchased or a
// SELECTION_NOT_FOUND error, depending on when they reach the store.
func (s *PurchaseService) CompletePurchase(ctx context.Context, req dto.PurchaseRequest) (*models.PurchaseResult, error) {
	start := time.Now()
	result, err := s.completePurchase(ctx, req)
	s.metrics.ObserveStoreOperation("purchase", time.Since(start))
	s.metrics.RecordPurchaseOutcome(outcomeLabel(result, err))

	if err == nil && result.Outcome == models.PurchaseCompleted && s.notifier != nil {
		s.notifier.EnrollmentCompleted(*result.Enrollment)
	}
	return result, err
}

func (s *PurchaseService) completePurchase(ctx context.Context, req dto.PurchaseRequest) (*models.PurchaseResult, error) {
	req.BuyerEmail = strings.TrimSpace(req.BuyerEmail)
	req.SelectedID = strings.TrimSpace(req.SelectedID)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid payment payload")
	}
	if !req.Amount.IsPositive() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "price must be greater than zero")
	}

	log := logger.WithRequestID(ctx, s.logger)
	var result *models.PurchaseResult
	err := s.store.RunPurchase(ctx, func(ctx context.Context, unit repository.PurchaseUnit) error {
		existing, err := unit.FindEnrollment(ctx, req.SelectedID, req.BuyerEmail)
		if err == nil {
			result = &models.PurchaseResult{Outcome: models.PurchaseAlreadyPurchased, Enrollment: existing}
			return nil
		}
		if !errors.Is(err, repository.ErrNotFound) {
			return err
		}

		selection, err := unit.TakeSelection(ctx, req.SelectedID, req.BuyerEmail)
		if err != nil {
			return err
		}

		enrollment := newEnrollment(req, selection, s.now().UTC())
		if err := unit.InsertEnrollment(ctx, enrollment); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				// A concurrent completion recorded the payment first; the selection stays consumed.
				existing, ferr := unit.FindEnrollment(ctx, req.SelectedID, req.BuyerEmail)
				if ferr != nil {
					return ferr
				}
				result = &models.PurchaseResult{Outcome: models.PurchaseAlreadyPurchased, Enrollment: existing}
				return nil
			}
			if !s.store.Atomic() {
				if rerr := unit.RestoreSelection(ctx, selection); rerr != nil {
					log.Error("failed to restore selection after enrollment insert failure",
						zap.String("selected_id", selection.ID),
						zap.String("buyer_email", selection.BuyerEmail),
						zap.Error(rerr))
				}
			}
			return err
		}

		result = &models.PurchaseResult{Outcome: models.PurchaseCompleted, Enrollment: enrollment}
		return nil
	})

	switch {
	case err == nil:
		if result.Outcome == models.PurchaseCompleted {
			log.Info("purchase completed",
				zap.String("enrollment_id", result.Enrollment.ID),
				zap.String("selected_id", req.SelectedID),
				zap.String("buyer_email", req.BuyerEmail))
		}
		return result, nil
	case errors.Is(err, repository.ErrNotFound):
		return nil, appErrors.Clone(appErrors.ErrSelectionMissing, "selected class not found")
	default:
		log.Error("purchase failed", zap.String("selected_id", req.SelectedID), zap.Error(err))
		return nil, appErrors.Store(err, "an error occurred while processing the payment")
	}
}

func newEnrollment(req dto.PurchaseRequest, selection *models.Selection, at time.Time) *models.Enrollment {
	classID := req.ClassID
	if classID == "" {
		classID = selection.ClassID
	}
	className := req.ClassName
	if className == "" {
		className = selection.Name
	}
	return &models.Enrollment{
		ID:            uuid.NewString(),
		SelectedID:    req.SelectedID,
		ClassID:       classID,
		ClassName:     className,
		BuyerEmail:    req.BuyerEmail,
		Amount:        req.Amount,
		TransactionID: req.TransactionID,
		CreatedAt:     at,
	}
}

func outcomeLabel(result *models.PurchaseResult, err error) string {
	switch {
	case err == nil && result.Outcome == models.PurchaseCompleted:
		return OutcomeCompleted
	case err == nil:
		return OutcomeAlreadyPurchased
	case errors.Is(err, appErrors.ErrSelectionMissing):
		return OutcomeSelectionNotFound
	case errors.Is(err, appErrors.ErrValidation):
		return OutcomeInvalid
	default:
		return OutcomeStoreError
	}
}

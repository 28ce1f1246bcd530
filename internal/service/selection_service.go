package service

import (
	"context"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/soulbliss/soulbliss-api/internal/dto"
	"github.com/soulbliss/soulbliss-api/internal/models"
	"github.com/soulbliss/soulbliss-api/internal/repository"
	appErrors "github.com/soulbliss/soulbliss-api/pkg/errors"
)

// SelectionRepository persists buyer selections.
type SelectionRepository interface {
	Create(ctx context.Context, selection *models.Selection) error
	ListByBuyer(ctx context.Context, email string) ([]models.Selection, error)
	FindByID(ctx context.Context, id string) (*models.Selection, error)
	Delete(ctx context.Context, id string) error
}

// SelectionService manages the buyer's cart of selected classes.
type SelectionService struct {
	repo      SelectionRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSelectionService constructs a SelectionService.
func NewSelectionService(repo SelectionRepository, validate *validator.Validate, logger *zap.Logger) *SelectionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SelectionService{repo: repo, validator: validate, logger: logger}
}

// Create adds a class to the buyer's cart. A buyer may select each class once.
func (s *SelectionService) Create(ctx context.Context, req dto.CreateSelectionRequest) (*models.Selection, error) {
	req.BuyerEmail = strings.TrimSpace(req.BuyerEmail)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid selection payload")
	}
	if req.Price.IsNegative() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "price must not be negative")
	}

	selection := &models.Selection{
		ClassID:         req.ClassID,
		Name:            req.Name,
		Image:           req.Image,
		InstructorName:  req.InstructorName,
		InstructorEmail: req.InstructorEmail,
		Price:           req.Price,
		BuyerEmail:      req.BuyerEmail,
	}
	if err := s.repo.Create(ctx, selection); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "class already selected")
		}
		return nil, appErrors.Store(err, "failed to save selection")
	}
	return selection, nil
}

// ListByBuyer returns the buyer's cart.
func (s *SelectionService) ListByBuyer(ctx context.Context, email string) ([]models.Selection, error) {
	selections, err := s.repo.ListByBuyer(ctx, email)
	if err != nil {
		return nil, appErrors.Store(err, "failed to list selections")
	}
	return selections, nil
}

// Get returns a single selection.
func (s *SelectionService) Get(ctx context.Context, id string) (*models.Selection, error) {
	selection, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "selected class not found")
		}
		return nil, appErrors.Store(err, "failed to load selection")
	}
	return selection, nil
}

// Delete removes a selection from the cart.
func (s *SelectionService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return appErrors.Clone(appErrors.ErrNotFound, "selected class not found")
		}
		return appErrors.Store(err, "failed to delete selection")
	}
	return nil
}

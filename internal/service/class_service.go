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

const approvedClassesCacheKey = "classes:approved"

// ClassRepository persists classes.
type ClassRepository interface {
	List(ctx context.Context, filter models.ClassFilter) ([]models.Class, error)
	FindByID(ctx context.Context, id string) (*models.Class, error)
	Create(ctx context.Context, class *models.Class) error
	SetStatus(ctx context.Context, id string, status models.ClassStatus) error
	SetFeedback(ctx context.Context, id, feedback string) error
}

// ClassService manages the class catalogue and its moderation workflow.
type ClassService struct {
	repo      ClassRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewClassService constructs a ClassService. cache may be nil.
func NewClassService(repo ClassRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *ClassService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ClassService{repo: repo, cache: cache, validator: validate, logger: logger}
}

// Create submits a class for moderation.
func (s *ClassService) Create(ctx context.Context, req dto.CreateClassRequest) (*models.Class, error) {
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid class payload")
	}
	if req.Price.IsNegative() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "price must not be negative")
	}

	class := &models.Class{
		Name:           req.Name,
		Image:          req.Image,
		InstructorName: req.InstructorName,
		Email:          req.Email,
		AvailableSeats: req.AvailableSeats,
		Price:          req.Price,
		Status:         models.ClassPending,
	}
	if err := s.repo.Create(ctx, class); err != nil {
		return nil, appErrors.Store(err, "failed to create class")
	}
	s.logger.Info("class submitted", zap.String("class_id", class.ID), zap.String("instructor", class.Email))
	return class, nil
}

// List returns every class regardless of status.
func (s *ClassService) List(ctx context.Context) ([]models.Class, error) {
	return s.list(ctx, models.ClassFilter{})
}

// ListApproved returns the public catalogue, served from cache when possible.
func (s *ClassService) ListApproved(ctx context.Context) ([]models.Class, error) {
	var cached []models.Class
	if s.cache.Get(ctx, approvedClassesCacheKey, &cached) {
		return cached, nil
	}

	classes, err := s.list(ctx, models.ClassFilter{Status: models.ClassApproved})
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, approvedClassesCacheKey, classes)
	return classes, nil
}

// ListByInstructor returns classes owned by email.
func (s *ClassService) ListByInstructor(ctx context.Context, email string) ([]models.Class, error) {
	return s.list(ctx, models.ClassFilter{Email: email})
}

func (s *ClassService) list(ctx context.Context, filter models.ClassFilter) ([]models.Class, error) {
	classes, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Store(err, "failed to list classes")
	}
	return classes, nil
}

// Get returns a class by id.
func (s *ClassService) Get(ctx context.Context, id string) (*models.Class, error) {
	class, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return nil, appErrors.Store(err, "failed to load class")
	}
	return class, nil
}

// Approve publishes a class.
func (s *ClassService) Approve(ctx context.Context, id string) error {
	return s.setStatus(ctx, id, models.ClassApproved)
}

// Deny rejects a class.
func (s *ClassService) Deny(ctx context.Context, id string) error {
	return s.setStatus(ctx, id, models.ClassDenied)
}

func (s *ClassService) setStatus(ctx context.Context, id string, status models.ClassStatus) error {
	if err := s.repo.SetStatus(ctx, id, status); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return appErrors.Store(err, "failed to update class status")
	}
	s.cache.Invalidate(ctx, approvedClassesCacheKey)
	s.logger.Info("class status updated", zap.String("class_id", id), zap.String("status", string(status)))
	return nil
}

// SetFeedback attaches moderator feedback to a class.
func (s *ClassService) SetFeedback(ctx context.Context, id string, req dto.FeedbackRequest) error {
	req.Feedback = strings.TrimSpace(req.Feedback)
	if err := s.validator.Struct(req); err != nil {
		return appErrors.Validation(err, "invalid feedback payload")
	}
	if err := s.repo.SetFeedback(ctx, id, req.Feedback); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return appErrors.Clone(appErrors.ErrNotFound, "class not found")
		}
		return appErrors.Store(err, "failed to store feedback")
	}
	return nil
}

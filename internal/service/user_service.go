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

// UserRepository persists user accounts.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	List(ctx context.Context) ([]models.User, error)
	ListByRole(ctx context.Context, role models.UserRole) ([]models.User, error)
	CreateIfAbsent(ctx context.Context, user *models.User) (bool, error)
	SetRole(ctx context.Context, id string, role models.UserRole) error
	Delete(ctx context.Context, id string) error
}

// UserService handles account registration and role administration.
type UserService struct {
	repo      UserRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewUserService constructs a UserService.
func NewUserService(repo UserRepository, validate *validator.Validate, logger *zap.Logger) *UserService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{repo: repo, validator: validate, logger: logger}
}

// Register stores the user unless the email is known. It reports whether a record was created.
func (s *UserService) Register(ctx context.Context, req dto.CreateUserRequest) (*models.User, bool, error) {
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return nil, false, appErrors.Validation(err, "invalid user payload")
	}

	user := &models.User{Email: req.Email, Name: req.Name, PhotoURL: req.PhotoURL, Role: models.RoleStudent}
	created, err := s.repo.CreateIfAbsent(ctx, user)
	if err != nil {
		return nil, false, appErrors.Store(err, "failed to create user")
	}
	if created {
		s.logger.Info("user registered", zap.String("email", user.Email))
	}
	return user, created, nil
}

// List returns every user.
func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Store(err, "failed to list users")
	}
	return users, nil
}

// ListInstructors returns every user holding the instructor role.
func (s *UserService) ListInstructors(ctx context.Context) ([]models.User, error) {
	users, err := s.repo.ListByRole(ctx, models.RoleInstructor)
	if err != nil {
		return nil, appErrors.Store(err, "failed to list instructors")
	}
	return users, nil
}

// AssignRole grants role to the user with the given id.
func (s *UserService) AssignRole(ctx context.Context, id string, role models.UserRole) error {
	if id == "" || !role.Valid() {
		return appErrors.Clone(appErrors.ErrValidation, "invalid role assignment")
	}
	if err := s.repo.SetRole(ctx, id, role); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return appErrors.Store(err, "failed to update user role")
	}
	s.logger.Info("user role updated", zap.String("user_id", id), zap.String("role", string(role)))
	return nil
}

// Delete removes the user with the given id.
func (s *UserService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return appErrors.Clone(appErrors.ErrNotFound, "user not found")
		}
		return appErrors.Store(err, "failed to delete user")
	}
	s.logger.Info("user deleted", zap.String("user_id", id))
	return nil
}

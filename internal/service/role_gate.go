package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/soulbliss/soulbliss-api/internal/models"
	"github.com/soulbliss/soulbliss-api/internal/repository"
	appErrors "github.com/soulbliss/soulbliss-api/pkg/errors"
)

type roleLookup interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
}

// RoleGate admits callers whose stored user record holds a required role.
// Roles are read from the store on every call, never from token claims.
type RoleGate struct {
	users  roleLookup
	logger *zap.Logger
}

// NewRoleGate constructs a RoleGate.
func NewRoleGate(users roleLookup, logger *zap.Logger) *RoleGate {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RoleGate{users: users, logger: logger}
}

// Authorize returns nil when the user identified by email holds role.
// A missing user or mismatched role yields Forbidden.
func (g *RoleGate) Authorize(ctx context.Context, email string, role models.UserRole) error {
	ok, err := g.HasRole(ctx, email, role)
	if err != nil {
		return err
	}
	if !ok {
		return appErrors.Clone(appErrors.ErrForbidden, "forbidden access")
	}
	return nil
}

// HasRole reports whether the stored user holds role. Unknown users report false.
func (g *RoleGate) HasRole(ctx context.Context, email string, role models.UserRole) (bool, error) {
	if email == "" {
		return false, nil
	}
	user, err := g.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return false, nil
		}
		g.logger.Error("role lookup failed", zap.String("email", email), zap.Error(err))
		return false, appErrors.Store(err, "failed to load user")
	}
	return user.Role == role, nil
}

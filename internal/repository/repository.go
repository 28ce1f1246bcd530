package repository

import (
	"context"
	"errors"

	"github.com/lib/pq"

	"github.com/soulbliss/soulbliss-api/internal/models"
)

// Backend-neutral sentinels. Both the Postgres and Mongo stores return these.
var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// PurchaseUnit is the store surface a single purchase transition runs against.
// TakeSelection is the linearization point: of concurrent callers for the same
// selection, exactly one observes the record.
type PurchaseUnit interface {
	FindEnrollment(ctx context.Context, selectedID, buyerEmail string) (*models.Enrollment, error)
	TakeSelection(ctx context.Context, selectedID, buyerEmail string) (*models.Selection, error)
	InsertEnrollment(ctx context.Context, enrollment *models.Enrollment) error
	RestoreSelection(ctx context.Context, selection *models.Selection) error
}

// PurchaseFunc is executed by RunPurchase.
type PurchaseFunc func(ctx context.Context, unit PurchaseUnit) error

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

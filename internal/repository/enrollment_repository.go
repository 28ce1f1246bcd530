package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/soulbliss/soulbliss-api/internal/models"
)

const enrollmentColumns = `id, selected_id, class_id, class_name, buyer_email, amount, transaction_id, created_at`

// EnrollmentRepository reads payment records.
type EnrollmentRepository struct {
	db *sqlx.DB
}

// NewEnrollmentRepository constructs an EnrollmentRepository.
func NewEnrollmentRepository(db *sqlx.DB) *EnrollmentRepository {
	return &EnrollmentRepository{db: db}
}

// ListByBuyer returns the buyer's enrollments, newest first.
func (r *EnrollmentRepository) ListByBuyer(ctx context.Context, email string) ([]models.Enrollment, error) {
	const query = `SELECT ` + enrollmentColumns + ` FROM enrolled WHERE buyer_email = $1 ORDER BY created_at DESC`
	enrollments := []models.Enrollment{}
	if err := r.db.SelectContext(ctx, &enrollments, query, email); err != nil {
		return nil, fmt.Errorf("list enrollments: %w", err)
	}
	return enrollments, nil
}

func findEnrollment(ctx context.Context, db sqlx.QueryerContext, selectedID, buyerEmail string) (*models.Enrollment, error) {
	const query = `SELECT ` + enrollmentColumns + ` FROM enrolled WHERE selected_id = $1 AND buyer_email = $2 LIMIT 1`
	var enrollment models.Enrollment
	if err := sqlx.GetContext(ctx, db, &enrollment, query, selectedID, buyerEmail); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("find enrollment: %w", err)
	}
	return &enrollment, nil
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/soulbliss/soulbliss-api/internal/models"
)

const selectionColumns = `id, class_id, name, image, instructor_name, instructor_email, price, buyer_email, created_at`

// SelectionRepository manages the selected-class cart.
type SelectionRepository struct {
	db *sqlx.DB
}

// NewSelectionRepository constructs a SelectionRepository.
func NewSelectionRepository(db *sqlx.DB) *SelectionRepository {
	return &SelectionRepository{db: db}
}

// Create inserts a selection. ErrDuplicate is returned when the buyer already selected the class.
func (r *SelectionRepository) Create(ctx context.Context, selection *models.Selection) error {
	if selection.ID == "" {
		selection.ID = uuid.NewString()
	}
	if selection.CreatedAt.IsZero() {
		selection.CreatedAt = time.Now().UTC()
	}
	return insertSelection(ctx, r.db, selection)
}

// ListByBuyer returns the buyer's cart, oldest first.
func (r *SelectionRepository) ListByBuyer(ctx context.Context, email string) ([]models.Selection, error) {
	const query = `SELECT ` + selectionColumns + ` FROM selected WHERE buyer_email = $1 ORDER BY created_at ASC`
	selections := []models.Selection{}
	if err := r.db.SelectContext(ctx, &selections, query, email); err != nil {
		return nil, fmt.Errorf("list selections: %w", err)
	}
	return selections, nil
}

// FindByID returns a selection by id.
func (r *SelectionRepository) FindByID(ctx context.Context, id string) (*models.Selection, error) {
	const query = `SELECT ` + selectionColumns + ` FROM selected WHERE id = $1`
	var selection models.Selection
	if err := r.db.GetContext(ctx, &selection, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get selection: %w", err)
	}
	return &selection, nil
}

// Delete removes a selection by id.
func (r *SelectionRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM selected WHERE id = $1`
	res, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete selection: %w", err)
	}
	return expectAffected(res, "delete selection")
}

func insertSelection(ctx context.Context, db sqlx.ExtContext, selection *models.Selection) error {
	const query = `INSERT INTO selected (` + selectionColumns + `) VALUES (:id, :class_id, :name, :image, :instructor_name, :instructor_email, :price, :buyer_email, :created_at) ON CONFLICT (class_id, buyer_email) DO NOTHING`
	res, err := sqlx.NamedExecContext(ctx, db, query, selection)
	if err != nil {
		return fmt.Errorf("create selection: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("create selection rows affected: %w", err)
	}
	if affected == 0 {
		return ErrDuplicate
	}
	return nil
}

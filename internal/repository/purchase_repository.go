package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/soulbliss/soulbliss-api/internal/models"
)

// PurchaseRepository runs purchase transitions inside a single Postgres transaction.
type PurchaseRepository struct {
	db *sqlx.DB
}

// NewPurchaseRepository constructs a PurchaseRepository.
func NewPurchaseRepository(db *sqlx.DB) *PurchaseRepository {
	return &PurchaseRepository{db: db}
}

// Atomic reports that a failed transition leaves no partial writes behind.
func (r *PurchaseRepository) Atomic() bool { return true }

// RunPurchase executes fn in a transaction. Any error returned by fn rolls it back.
func (r *PurchaseRepository) RunPurchase(ctx context.Context, fn PurchaseFunc) (err error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin purchase: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if err = fn(ctx, &txPurchaseUnit{tx: tx}); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit purchase: %w", err)
	}
	return nil
}

type txPurchaseUnit struct {
	tx *sqlx.Tx
}

func (u *txPurchaseUnit) FindEnrollment(ctx context.Context, selectedID, buyerEmail string) (*models.Enrollment, error) {
	return findEnrollment(ctx, u.tx, selectedID, buyerEmail)
}

// TakeSelection deletes the buyer's selection and returns it. Row locking makes
// the DELETE the point where concurrent purchases of the same selection serialize.
func (u *txPurchaseUnit) TakeSelection(ctx context.Context, selectedID, buyerEmail string) (*models.Selection, error) {
	const query = `DELETE FROM selected WHERE id = $1 AND buyer_email = $2 RETURNING ` + selectionColumns
	var selection models.Selection
	if err := u.tx.GetContext(ctx, &selection, query, selectedID, buyerEmail); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("take selection: %w", err)
	}
	return &selection, nil
}

func (u *txPurchaseUnit) InsertEnrollment(ctx context.Context, enrollment *models.Enrollment) error {
	const query = `INSERT INTO enrolled (` + enrollmentColumns + `) VALUES (:id, :selected_id, :class_id, :class_name, :buyer_email, :amount, :transaction_id, :created_at) ON CONFLICT (selected_id, buyer_email) DO NOTHING`
	res, err := u.tx.NamedExecContext(ctx, query, enrollment)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert enrollment: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert enrollment rows affected: %w", err)
	}
	if affected == 0 {
		return ErrDuplicate
	}
	return nil
}

// RestoreSelection is a no-op inside a transaction: rollback restores the row.
func (u *txPurchaseUnit) RestoreSelection(context.Context, *models.Selection) error {
	return nil
}

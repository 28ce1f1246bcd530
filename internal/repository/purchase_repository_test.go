package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soulbliss/soulbliss-api/internal/models"
)

func TestRunPurchaseCommits(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPurchaseRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("FROM enrolled WHERE selected_id = $1 AND buyer_email = $2")).
		WithArgs("s-1", "buyer@soulbliss.io").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM selected WHERE id = $1 AND buyer_email = $2 RETURNING")).
		WithArgs("s-1", "buyer@soulbliss.io").
		WillReturnRows(sqlmock.NewRows(selectionRowColumns).
			AddRow("s-1", "c-1", "Morning Flow", "", "Yogi", "yogi@soulbliss.io", "49.99", "buyer@soulbliss.io", time.Now()))
	mock.ExpectExec("INSERT INTO enrolled").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.RunPurchase(context.Background(), func(ctx context.Context, unit PurchaseUnit) error {
		_, err := unit.FindEnrollment(ctx, "s-1", "buyer@soulbliss.io")
		require.ErrorIs(t, err, ErrNotFound)

		selection, err := unit.TakeSelection(ctx, "s-1", "buyer@soulbliss.io")
		require.NoError(t, err)
		assert.Equal(t, "c-1", selection.ClassID)

		return unit.InsertEnrollment(ctx, &models.Enrollment{
			ID:            "e-1",
			SelectedID:    selection.ID,
			ClassID:       selection.ClassID,
			BuyerEmail:    selection.BuyerEmail,
			Amount:        decimal.RequireFromString("49.99"),
			TransactionID: "pi_1",
			CreatedAt:     time.Now(),
		})
	})
	require.NoError(t, err)
	assert.True(t, repo.Atomic())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunPurchaseRollsBackOnInsertFailure(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPurchaseRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM selected")).
		WithArgs("s-1", "buyer@soulbliss.io").
		WillReturnRows(sqlmock.NewRows(selectionRowColumns).
			AddRow("s-1", "c-1", "Morning Flow", "", "Yogi", "yogi@soulbliss.io", "49.99", "buyer@soulbliss.io", time.Now()))
	mock.ExpectExec("INSERT INTO enrolled").WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := repo.RunPurchase(context.Background(), func(ctx context.Context, unit PurchaseUnit) error {
		selection, err := unit.TakeSelection(ctx, "s-1", "buyer@soulbliss.io")
		require.NoError(t, err)
		return unit.InsertEnrollment(ctx, &models.Enrollment{ID: "e-1", SelectedID: selection.ID, BuyerEmail: selection.BuyerEmail})
	})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTakeSelectionMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPurchaseRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM selected")).
		WithArgs("S_nonexistent", "buyer@soulbliss.io").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	err := repo.RunPurchase(context.Background(), func(ctx context.Context, unit PurchaseUnit) error {
		_, err := unit.TakeSelection(ctx, "S_nonexistent", "buyer@soulbliss.io")
		return err
	})
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertEnrollmentUniqueViolation(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPurchaseRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO enrolled").WillReturnError(&pq.Error{Code: "23505"})
	mock.ExpectRollback()

	err := repo.RunPurchase(context.Background(), func(ctx context.Context, unit PurchaseUnit) error {
		return unit.InsertEnrollment(ctx, &models.Enrollment{ID: "e-1", SelectedID: "s-1", BuyerEmail: "buyer@soulbliss.io"})
	})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInsertEnrollmentConflictSkipsRow(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewPurchaseRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO enrolled .* ON CONFLICT \\(selected_id, buyer_email\\) DO NOTHING").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	err := repo.RunPurchase(context.Background(), func(ctx context.Context, unit PurchaseUnit) error {
		return unit.InsertEnrollment(ctx, &models.Enrollment{ID: "e-2", SelectedID: "s-1", BuyerEmail: "buyer@soulbliss.io"})
	})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soulbliss/soulbliss-api/internal/models"
)

var selectionRowColumns = []string{"id", "class_id", "name", "image", "instructor_name", "instructor_email", "price", "buyer_email", "created_at"}

func TestSelectionCreateDuplicate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSelectionRepository(db)

	mock.ExpectExec("INSERT INTO selected .* ON CONFLICT \\(class_id, buyer_email\\) DO NOTHING").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO selected").
		WillReturnResult(sqlmock.NewResult(0, 0))

	first := &models.Selection{ClassID: "c-1", BuyerEmail: "buyer@soulbliss.io", Price: decimal.NewFromInt(30)}
	require.NoError(t, repo.Create(context.Background(), first))
	assert.NotEmpty(t, first.ID)

	second := &models.Selection{ClassID: "c-1", BuyerEmail: "buyer@soulbliss.io", Price: decimal.NewFromInt(30)}
	err := repo.Create(context.Background(), second)
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSelectionListByBuyer(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSelectionRepository(db)

	rows := sqlmock.NewRows(selectionRowColumns).
		AddRow("s-1", "c-1", "Morning Flow", "", "Yogi", "yogi@soulbliss.io", "30.00", "buyer@soulbliss.io", time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("FROM selected WHERE buyer_email = $1 ORDER BY created_at ASC")).
		WithArgs("buyer@soulbliss.io").
		WillReturnRows(rows)

	selections, err := repo.ListByBuyer(context.Background(), "buyer@soulbliss.io")
	require.NoError(t, err)
	require.Len(t, selections, 1)
	assert.Equal(t, "c-1", selections[0].ClassID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSelectionFindByIDMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSelectionRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("FROM selected WHERE id = $1")).
		WithArgs("S_nonexistent").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "S_nonexistent")
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSelectionDelete(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewSelectionRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM selected WHERE id = $1")).
		WithArgs("s-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM selected WHERE id = $1")).
		WithArgs("s-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.Delete(context.Background(), "s-1"))
	assert.ErrorIs(t, repo.Delete(context.Background(), "s-1"), ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

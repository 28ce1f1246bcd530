package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var enrollmentRowColumns = []string{"id", "selected_id", "class_id", "class_name", "buyer_email", "amount", "transaction_id", "created_at"}

func TestEnrollmentListByBuyerNewestFirst(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewEnrollmentRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(enrollmentRowColumns).
		AddRow("e-2", "s-2", "c-2", "Breathwork", "buyer@soulbliss.io", "20.00", "pi_2", now).
		AddRow("e-1", "s-1", "c-1", "Morning Flow", "buyer@soulbliss.io", "49.99", "pi_1", now.Add(-time.Hour))
	mock.ExpectQuery(regexp.QuoteMeta("FROM enrolled WHERE buyer_email = $1 ORDER BY created_at DESC")).
		WithArgs("buyer@soulbliss.io").
		WillReturnRows(rows)

	enrollments, err := repo.ListByBuyer(context.Background(), "buyer@soulbliss.io")
	require.NoError(t, err)
	require.Len(t, enrollments, 2)
	assert.Equal(t, "e-2", enrollments[0].ID)
	assert.Equal(t, "49.99", enrollments[1].Amount.StringFixed(2))
	assert.NoError(t, mock.ExpectationsWereMet())
}

package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soulbliss/soulbliss-api/internal/models"
)

var classRowColumns = []string{"id", "name", "image", "instructor_name", "email", "available_seats", "price", "enrolled", "status", "feedback", "created_at", "updated_at"}

func TestClassListFilters(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows(classRowColumns).
		AddRow("c-1", "Morning Flow", "flow.png", "Yogi", "yogi@soulbliss.io", 10, "49.99", 0, "approved", nil, now, now)
	mock.ExpectQuery(regexp.QuoteMeta("FROM classes WHERE email = $1 AND status = $2 ORDER BY created_at DESC")).
		WithArgs("yogi@soulbliss.io", "approved").
		WillReturnRows(rows)

	classes, err := repo.List(context.Background(), models.ClassFilter{Email: "yogi@soulbliss.io", Status: models.ClassApproved})
	require.NoError(t, err)
	require.Len(t, classes, 1)
	assert.True(t, classes[0].Price.Equal(decimal.RequireFromString("49.99")))
	assert.Nil(t, classes[0].Feedback)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassListUnfiltered(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT " + classColumns + " FROM classes ORDER BY created_at DESC")).
		WillReturnRows(sqlmock.NewRows(classRowColumns))

	classes, err := repo.List(context.Background(), models.ClassFilter{})
	require.NoError(t, err)
	assert.Empty(t, classes)
	assert.NotNil(t, classes)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassCreateAssignsIdentity(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	mock.ExpectExec("INSERT INTO classes").WillReturnResult(sqlmock.NewResult(0, 1))

	class := &models.Class{Name: "Breathwork", Email: "yogi@soulbliss.io", Status: models.ClassPending, Price: decimal.NewFromInt(20)}
	require.NoError(t, repo.Create(context.Background(), class))
	assert.NotEmpty(t, class.ID)
	assert.False(t, class.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassSetStatusMissing(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE classes SET status = $2, updated_at = $3 WHERE id = $1")).
		WithArgs("missing", "denied", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.SetStatus(context.Background(), "missing", models.ClassDenied)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClassSetFeedback(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewClassRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE classes SET feedback = $2")).
		WithArgs("c-1", "add a syllabus", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.SetFeedback(context.Background(), "c-1", "add a syllabus"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

package service

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soulbliss/soulbliss-api/internal/models"
	appErrors "github.com/soulbliss/soulbliss-api/pkg/errors"
)

type stubEnrollmentRepo struct {
	enrollments []models.Enrollment
	err         error
}

func (r *stubEnrollmentRepo) ListByBuyer(context.Context, string) ([]models.Enrollment, error) {
	return r.enrollments, r.err
}

func historyFixture() *stubEnrollmentRepo {
	at := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
	return &stubEnrollmentRepo{enrollments: []models.Enrollment{
		{ID: "e-2", ClassName: "Breathwork", Amount: decimal.RequireFromString("20"), TransactionID: "pi_2", CreatedAt: at.Add(24 * time.Hour)},
		{ID: "e-1", ClassName: "Morning Flow", Amount: decimal.RequireFromString("49.99"), TransactionID: "pi_1", CreatedAt: at},
	}}
}

func TestEnrollmentServiceExportCSV(t *testing.T) {
	svc := NewEnrollmentService(historyFixture(), nil)
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC) }

	result, err := svc.Export(context.Background(), buyer, "csv")
	require.NoError(t, err)
	assert.Equal(t, "enrollments-20240601.csv", result.Filename)
	assert.Equal(t, "text/csv", result.ContentType)
	assert.Contains(t, string(result.Body), "Morning Flow")
	assert.Contains(t, string(result.Body), "2024-05-01,Morning Flow,49.99,pi_1")
}

func TestEnrollmentServiceExportPDF(t *testing.T) {
	svc := NewEnrollmentService(historyFixture(), nil)

	result, err := svc.Export(context.Background(), buyer, "PDF")
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", result.ContentType)
	assert.True(t, bytes.HasPrefix(result.Body, []byte("%PDF")))
}

func TestEnrollmentServiceExportErrors(t *testing.T) {
	svc := NewEnrollmentService(historyFixture(), nil)
	_, err := svc.Export(context.Background(), buyer, "xlsx")
	assert.True(t, errors.Is(err, appErrors.ErrValidation))

	failing := NewEnrollmentService(&stubEnrollmentRepo{err: errors.New("down")}, nil)
	_, err = failing.Export(context.Background(), buyer, "csv")
	assert.True(t, errors.Is(err, appErrors.ErrStoreUnavailable))
}

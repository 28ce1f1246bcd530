package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/soulbliss/soulbliss-api/internal/models"
	appErrors "github.com/soulbliss/soulbliss-api/pkg/errors"
	"github.com/soulbliss/soulbliss-api/pkg/export"
)

// EnrollmentRepository reads completed purchases.
type EnrollmentRepository interface {
	ListByBuyer(ctx context.Context, email string) ([]models.Enrollment, error)
}

// ExportResult is a rendered purchase history document.
type ExportResult struct {
	Filename    string
	ContentType string
	Body        []byte
}

// EnrollmentService serves a buyer's purchase history.
type EnrollmentService struct {
	repo   EnrollmentRepository
	logger *zap.Logger
	now    func() time.Time
}

// NewEnrollmentService constructs an EnrollmentService.
func NewEnrollmentService(repo EnrollmentRepository, logger *zap.Logger) *EnrollmentService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EnrollmentService{repo: repo, logger: logger, now: time.Now}
}

// ListByBuyer returns the buyer's enrollments, newest first.
func (s *EnrollmentService) ListByBuyer(ctx context.Context, email string) ([]models.Enrollment, error) {
	enrollments, err := s.repo.ListByBuyer(ctx, email)
	if err != nil {
		return nil, appErrors.Store(err, "failed to list enrollments")
	}
	return enrollments, nil
}

// Export renders the buyer's purchase history as CSV or PDF.
func (s *EnrollmentService) Export(ctx context.Context, email, rawFormat string) (*ExportResult, error) {
	format, err := export.ParseFormat(rawFormat)
	if err != nil {
		return nil, appErrors.Validation(err, "unsupported export format")
	}

	enrollments, err := s.ListByBuyer(ctx, email)
	if err != nil {
		return nil, err
	}

	body, err := export.Render(format, historyTable(email, enrollments))
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}

	s.logger.Info("purchase history exported", zap.String("buyer_email", email), zap.String("format", string(format)), zap.Int("rows", len(enrollments)))
	return &ExportResult{
		Filename:    fmt.Sprintf("enrollments-%s.%s", s.now().UTC().Format("20060102"), format),
		ContentType: format.ContentType(),
		Body:        body,
	}, nil
}

func historyTable(email string, enrollments []models.Enrollment) export.Table {
	rows := make([][]string, 0, len(enrollments))
	total := decimal.Zero
	for _, e := range enrollments {
		rows = append(rows, []string{
			e.CreatedAt.UTC().Format("2006-01-02"),
			e.ClassName,
			e.Amount.StringFixed(2),
			e.TransactionID,
		})
		total = total.Add(e.Amount)
	}
	return export.Table{
		Title:   "SoulBliss purchase history for " + email,
		Columns: []string{"Date", "Class", "Amount", "Transaction"},
		Rows:    rows,
		Footer:  []string{fmt.Sprintf("Total paid: %s", total.StringFixed(2))},
	}
}

package service

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/soulbliss/soulbliss-api/internal/models"
	"github.com/soulbliss/soulbliss-api/pkg/jobs"
	"github.com/soulbliss/soulbliss-api/pkg/mailer"
)

// NotificationService e-mails enrollment receipts from a background queue.
type NotificationService struct {
	queue   *jobs.Queue[models.Enrollment]
	sender  mailer.Sender
	metrics *MetricsService
	logger  *zap.Logger
}

// NewNotificationService constructs the service. A nil sender disables delivery.
func NewNotificationService(sender mailer.Sender, metrics *MetricsService, cfg jobs.QueueConfig, logger *zap.Logger) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	cfg.Logger = logger
	s := &NotificationService{sender: sender, metrics: metrics, logger: logger}
	if sender != nil {
		s.queue = jobs.NewQueue("enrollment-receipts", s.deliver, cfg)
	}
	return s
}

// Start launches the delivery workers.
func (s *NotificationService) Start(ctx context.Context) {
	if s == nil || s.queue == nil {
		return
	}
	s.queue.Start(ctx)
}

// Stop drains the workers.
func (s *NotificationService) Stop() {
	if s == nil || s.queue == nil {
		return
	}
	s.queue.Stop()
}

// EnrollmentCompleted schedules a receipt. It never blocks and never fails the caller.
func (s *NotificationService) EnrollmentCompleted(enrollment models.Enrollment) {
	if s == nil || s.queue == nil {
		return
	}
	if _, err := s.queue.TryEnqueue(enrollment); err != nil {
		s.metrics.RecordNotification("dropped")
		s.logger.Warn("enrollment receipt not queued", zap.String("enrollment_id", enrollment.ID), zap.Error(err))
	}
}

func (s *NotificationService) deliver(ctx context.Context, job jobs.Job[models.Enrollment]) error {
	msg := receiptMessage(job.Payload)
	if err := s.sender.Send(ctx, msg); err != nil {
		s.metrics.RecordNotification("failed")
		return err
	}
	s.metrics.RecordNotification("sent")
	s.logger.Info("enrollment receipt sent", zap.String("enrollment_id", job.Payload.ID), zap.String("to", msg.To))
	return nil
}

func receiptMessage(e models.Enrollment) mailer.Message {
	var body strings.Builder
	fmt.Fprintf(&body, "Thank you for enrolling with SoulBliss.\n\n")
	if e.ClassName != "" {
		fmt.Fprintf(&body, "Class: %s\n", e.ClassName)
	}
	fmt.Fprintf(&body, "Amount: $%s\n", e.Amount.StringFixed(2))
	fmt.Fprintf(&body, "Transaction: %s\n", e.TransactionID)
	fmt.Fprintf(&body, "Date: %s\n", e.CreatedAt.UTC().Format("2006-01-02 15:04 MST"))

	return mailer.Message{
		To:      e.BuyerEmail,
		Subject: "Your SoulBliss enrollment receipt",
		Body:    body.String(),
	}
}

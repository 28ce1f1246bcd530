package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/soulbliss/soulbliss-api/internal/models"
	"github.com/soulbliss/soulbliss-api/pkg/jobs"
	"github.com/soulbliss/soulbliss-api/pkg/mailer"
)

type fakeSender struct {
	mu       sync.Mutex
	failures int
	sent     []mailer.Message
}

func (s *fakeSender) Send(_ context.Context, msg mailer.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failures > 0 {
		s.failures--
		return errors.New("smtp 421")
	}
	s.sent = append(s.sent, msg)
	return nil
}

func (s *fakeSender) messages() []mailer.Message {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]mailer.Message(nil), s.sent...)
}

func TestNotificationServiceSendsReceipt(t *testing.T) {
	sender := &fakeSender{failures: 1}
	metrics := NewMetricsService()
	svc := NewNotificationService(sender, metrics, jobs.QueueConfig{Workers: 1, MaxRetries: 2, RetryDelay: 10 * time.Millisecond}, nil)
	svc.Start(context.Background())
	defer svc.Stop()

	svc.EnrollmentCompleted(models.Enrollment{
		ID:            "e-1",
		ClassName:     "Morning Flow",
		BuyerEmail:    buyer,
		Amount:        decimal.RequireFromString("49.9"),
		TransactionID: "pi_123",
		CreatedAt:     time.Now(),
	})

	require.Eventually(t, func() bool { return len(sender.messages()) == 1 }, 2*time.Second, 10*time.Millisecond)
	msg := sender.messages()[0]
	assert.Equal(t, buyer, msg.To)
	assert.Contains(t, msg.Body, "Morning Flow")
	assert.Contains(t, msg.Body, "$49.90")
	assert.Contains(t, msg.Body, "pi_123")
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.notifications.WithLabelValues("failed")))
}

func TestNotificationServiceDisabledWithoutSender(t *testing.T) {
	svc := NewNotificationService(nil, nil, jobs.QueueConfig{}, nil)
	svc.Start(context.Background())
	svc.EnrollmentCompleted(models.Enrollment{ID: "e-1"})
	svc.Stop()

	var nilSvc *NotificationService
	nilSvc.EnrollmentCompleted(models.Enrollment{ID: "e-2"})
}

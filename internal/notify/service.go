package notify

import (
	"context"
	"sync"
	"time"

	"github.com/Annybest52/sammy-ai-assistant/pkg/logging"
)

// Booking carries the facts of a committed appointment for notification.
type Booking struct {
	Name         string
	Email        string
	Phone        string
	Service      string
	Start        time.Time
	BusinessName string
}

// Service fans a booking out to up to four destinations: customer email,
// business email, customer SMS, business SMS. Channels are independent;
// a failure is logged and dropped, never surfaced to the conversation.
type Service struct {
	email         EmailSender
	sms           SMSSender
	businessEmail string
	businessPhone string
	logger        *logging.Logger
}

// NewService creates a notification service. Nil senders and empty business
// destinations disable their channels.
func NewService(email EmailSender, sms SMSSender, businessEmail, businessPhone string, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		email:         email,
		sms:           sms,
		businessEmail: businessEmail,
		businessPhone: businessPhone,
		logger:        logger,
	}
}

// NotifyBooking sends every applicable confirmation for a booking. Channels
// dispatch as independent goroutines; a channel with no destination or no
// configured sender is skipped silently. The returned count is how many
// sends succeeded, for metrics and tests.
func (s *Service) NotifyBooking(ctx context.Context, b Booking) int {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		sent int
	)

	dispatch := func(channel, to string, send func() error) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := send(); err != nil {
				s.logger.Error("notify: "+channel+" failed", "error", err, "to", to)
				return
			}
			mu.Lock()
			sent++
			mu.Unlock()
		}()
	}

	if s.email != nil && b.Email != "" {
		dispatch("customer email", b.Email, func() error {
			return s.email.Send(ctx, EmailMessage{
				To:      b.Email,
				ToName:  b.Name,
				Subject: customerEmailSubject(b.Service),
				Body:    customerEmailBody(b),
				HTML:    customerEmailHTML(b),
			})
		})
	}

	if s.email != nil && s.businessEmail != "" {
		dispatch("business email", s.businessEmail, func() error {
			return s.email.Send(ctx, EmailMessage{
				To:      s.businessEmail,
				Subject: businessEmailSubject(b),
				Body:    businessEmailBody(b),
			})
		})
	}

	if s.sms != nil && b.Phone != "" {
		dispatch("customer SMS", b.Phone, func() error {
			return s.sms.SendSMS(ctx, b.Phone, customerSMSBody(b))
		})
	}

	if s.sms != nil && s.businessPhone != "" {
		dispatch("business SMS", s.businessPhone, func() error {
			return s.sms.SendSMS(ctx, s.businessPhone, businessSMSBody(b))
		})
	}

	wg.Wait()
	s.logger.Info("notify: booking fan-out complete", "sent", sent, "service", b.Service)
	return sent
}

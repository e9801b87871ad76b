package notify

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Channels send concurrently, so the fakes lock around their records.

type recordingEmail struct {
	mu     sync.Mutex
	sent   []EmailMessage
	failTo string
}

func (r *recordingEmail) Send(_ context.Context, msg EmailMessage) error {
	if r.failTo != "" && msg.To == r.failTo {
		return errors.New("smtp down")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, msg)
	return nil
}

func (r *recordingEmail) byRecipient(to string) (EmailMessage, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, msg := range r.sent {
		if msg.To == to {
			return msg, true
		}
	}
	return EmailMessage{}, false
}

type recordingSMS struct {
	mu     sync.Mutex
	sent   []string
	failTo string
}

func (r *recordingSMS) SendSMS(_ context.Context, to, body string) error {
	if r.failTo != "" && to == r.failTo {
		return errors.New("carrier down")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, to)
	return nil
}

func testBooking() Booking {
	return Booking{
		Name:         "Jane Doe",
		Email:        "jane@example.com",
		Phone:        "+15551234567",
		Service:      "SEO",
		Start:        time.Date(2026, 3, 6, 10, 0, 0, 0, time.UTC),
		BusinessName: "Dealey Media",
	}
}

func TestNotifyBookingAllChannels(t *testing.T) {
	email := &recordingEmail{}
	sms := &recordingSMS{}
	svc := NewService(email, sms, "info@dealey.example", "+15550000000", nil)

	sent := svc.NotifyBooking(context.Background(), testBooking())

	assert.Equal(t, 4, sent)
	assert.Len(t, email.sent, 2)

	customer, ok := email.byRecipient("jane@example.com")
	require.True(t, ok, "customer email never sent")
	assert.Contains(t, customer.Subject, "SEO")
	assert.NotEmpty(t, customer.HTML)

	_, ok = email.byRecipient("info@dealey.example")
	assert.True(t, ok, "business email never sent")
	assert.ElementsMatch(t, []string{"+15551234567", "+15550000000"}, sms.sent)
}

func TestNotifyBookingChannelFailureIsIndependent(t *testing.T) {
	email := &recordingEmail{failTo: "jane@example.com"}
	sms := &recordingSMS{}
	svc := NewService(email, sms, "info@dealey.example", "+15550000000", nil)

	sent := svc.NotifyBooking(context.Background(), testBooking())

	// Customer email failed; the other three channels still delivered.
	assert.Equal(t, 3, sent)
	assert.Len(t, email.sent, 1)
	assert.Len(t, sms.sent, 2)
}

func TestNotifyBookingSkipsMissingDestinations(t *testing.T) {
	email := &recordingEmail{}
	sms := &recordingSMS{}
	svc := NewService(email, sms, "", "", nil)

	b := testBooking()
	b.Phone = ""

	sent := svc.NotifyBooking(context.Background(), b)

	assert.Equal(t, 1, sent)
	assert.Len(t, email.sent, 1)
	assert.Empty(t, sms.sent)
}

func TestNotifyBookingNilSenders(t *testing.T) {
	svc := NewService(nil, nil, "info@dealey.example", "+15550000000", nil)

	sent := svc.NotifyBooking(context.Background(), testBooking())

	assert.Zero(t, sent)
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"+1 (555) 123-4567", "+15551234567"},
		{"555.123.4567", "5551234567"},
		{"+44 20 7946 0958", "+442079460958"},
		{"555 123 4567 ext 9", "55512345679"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, NormalizePhone(tt.in), "input %q", tt.in)
	}
}

package booking

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Annybest52/sammy-ai-assistant/pkg/logging"
)

// NewContact carries the fields needed to create an external contact.
type NewContact struct {
	Email     string
	FirstName string
	LastName  string
	Phone     string
	Source    string
}

// CalendarInfo identifies one calendar available to the account.
type CalendarInfo struct {
	ID   string
	Name string
}

// Appointment is an existing booking on a calendar, used for conflict checks.
type Appointment struct {
	Start time.Time
	End   time.Time
}

// AppointmentRequest describes the appointment to create.
type AppointmentRequest struct {
	CalendarID string
	ContactID  string
	Start      time.Time
	End        time.Time
	Title      string
	Notes      string
}

// ContactDirectory is the external contact store, deduplicated by email.
type ContactDirectory interface {
	// FindContactByEmail returns the contact id, or "" when no contact exists.
	FindContactByEmail(ctx context.Context, email string) (string, error)
	CreateContact(ctx context.Context, contact NewContact) (string, error)
}

// Calendar is the external calendar collaborator.
type Calendar interface {
	ListCalendars(ctx context.Context) ([]CalendarInfo, error)
	ListAppointments(ctx context.Context, calendarID string, start, end time.Time) ([]Appointment, error)
	CreateAppointment(ctx context.Context, req AppointmentRequest) (string, error)
}

// Outcome classifies how a commit attempt ended.
type Outcome string

const (
	OutcomeBooked          Outcome = "booked"
	OutcomeContactFailed   Outcome = "contact_failed"
	OutcomeNoCalendar      Outcome = "no_calendar"
	OutcomeInvalidDateTime Outcome = "invalid_datetime"
	OutcomeSlotConflict    Outcome = "slot_conflict"
	OutcomeCreateFailed    Outcome = "create_failed"
)

// Result reports a commit attempt. Err keeps the raw cause for logging; the
// user-facing wording comes from UserMessage.
type Result struct {
	Outcome       Outcome
	ContactID     string
	AppointmentID string
	Start         time.Time
	End           time.Time
	Err           error
}

// Booked reports whether the appointment was created.
func (r Result) Booked() bool {
	return r.Outcome == OutcomeBooked
}

// UserMessage is the sentence appended to the reply for this outcome. Only
// the conflict case is expected under normal use; the rest apologize
// generically while the raw error stays in the logs.
func (r Result) UserMessage() string {
	switch r.Outcome {
	case OutcomeBooked:
		return ""
	case OutcomeSlotConflict:
		return "That time slot is already taken. Could you suggest another day or time?"
	default:
		return "I wasn't able to finalize the booking on our calendar just now. Our team will follow up with you by email to confirm a time."
	}
}

// Pipeline commits a completed draft against the external contact and
// calendar collaborators. One attempt per completed draft; callers clear
// the draft regardless of outcome.
type Pipeline struct {
	contacts     ContactDirectory
	calendar     Calendar
	calendarName string
	source       string
	now          func() time.Time
	logger       *logging.Logger
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithPreferredCalendar selects a calendar by (substring) name instead of
// taking the first one returned.
func WithPreferredCalendar(name string) PipelineOption {
	return func(p *Pipeline) {
		p.calendarName = name
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) PipelineOption {
	return func(p *Pipeline) {
		p.now = now
	}
}

// NewPipeline creates a booking commit pipeline.
func NewPipeline(contacts ContactDirectory, calendar Calendar, logger *logging.Logger, opts ...PipelineOption) *Pipeline {
	if logger == nil {
		logger = logging.Default()
	}
	p := &Pipeline{
		contacts: contacts,
		calendar: calendar,
		source:   "Sammy AI Assistant",
		now:      time.Now,
		logger:   logger,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Commit runs the five pipeline steps in order: contact resolution,
// calendar resolution, interval resolution, conflict check, creation.
// Each step is a distinct failure point with its own outcome.
func (p *Pipeline) Commit(ctx context.Context, draft Draft) Result {
	contactID, err := p.resolveContact(ctx, draft)
	if err != nil {
		p.logger.Error("booking: contact resolution failed", "error", err, "email", draft.Email)
		return Result{Outcome: OutcomeContactFailed, Err: err}
	}

	calendarID, err := p.resolveCalendar(ctx)
	if err != nil {
		p.logger.Error("booking: calendar resolution failed", "error", err)
		return Result{Outcome: OutcomeNoCalendar, Err: err}
	}

	start, end, err := ResolveInterval(draft.Date, draft.Time, p.now())
	if err != nil {
		p.logger.Error("booking: interval resolution failed",
			"error", err, "raw_date", draft.Date, "raw_time", draft.Time)
		return Result{Outcome: OutcomeInvalidDateTime, Err: err}
	}

	if conflict := p.hasConflict(ctx, calendarID, start, end); conflict {
		p.logger.Info("booking: slot conflict", "calendar_id", calendarID, "start", start)
		return Result{Outcome: OutcomeSlotConflict, ContactID: contactID, Start: start, End: end}
	}

	appointmentID, err := p.calendar.CreateAppointment(ctx, AppointmentRequest{
		CalendarID: calendarID,
		ContactID:  contactID,
		Start:      start,
		End:        end,
		Title:      fmt.Sprintf("%s - %s", draft.Service, draft.Name),
		Notes:      appointmentNotes(draft),
	})
	if err != nil {
		p.logger.Error("booking: appointment creation failed", "error", err, "calendar_id", calendarID)
		return Result{Outcome: OutcomeCreateFailed, ContactID: contactID, Start: start, End: end, Err: err}
	}

	p.logger.Info("booking: appointment created",
		"appointment_id", appointmentID,
		"contact_id", contactID,
		"calendar_id", calendarID,
		"start", start,
	)
	return Result{
		Outcome:       OutcomeBooked,
		ContactID:     contactID,
		AppointmentID: appointmentID,
		Start:         start,
		End:           end,
	}
}

func (p *Pipeline) resolveContact(ctx context.Context, draft Draft) (string, error) {
	id, err := p.contacts.FindContactByEmail(ctx, draft.Email)
	if err != nil {
		return "", fmt.Errorf("booking: contact lookup: %w", err)
	}
	if id != "" {
		return id, nil
	}

	first, last := splitName(draft.Name)
	id, err = p.contacts.CreateContact(ctx, NewContact{
		Email:     draft.Email,
		FirstName: first,
		LastName:  last,
		Phone:     draft.Phone,
		Source:    p.source,
	})
	if err != nil {
		return "", fmt.Errorf("booking: contact create: %w", err)
	}
	return id, nil
}

func (p *Pipeline) resolveCalendar(ctx context.Context) (string, error) {
	calendars, err := p.calendar.ListCalendars(ctx)
	if err != nil {
		return "", fmt.Errorf("booking: calendar list: %w", err)
	}
	if len(calendars) == 0 {
		return "", fmt.Errorf("booking: no calendar configured for account")
	}
	if p.calendarName != "" {
		for _, c := range calendars {
			if strings.Contains(strings.ToLower(c.Name), strings.ToLower(p.calendarName)) {
				return c.ID, nil
			}
		}
	}
	return calendars[0].ID, nil
}

// hasConflict checks every appointment on the candidate's calendar day for
// half-open interval overlap. Fail-open: a failed query reports the slot as
// available and lets the external calendar reject a true double booking.
func (p *Pipeline) hasConflict(ctx context.Context, calendarID string, start, end time.Time) bool {
	dayStart := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	dayEnd := dayStart.AddDate(0, 0, 1)

	existing, err := p.calendar.ListAppointments(ctx, calendarID, dayStart, dayEnd)
	if err != nil {
		p.logger.Warn("booking: conflict check failed, assuming slot available", "error", err)
		return false
	}
	for _, appt := range existing {
		if appt.Start.Before(end) && appt.End.After(start) {
			return true
		}
	}
	return false
}

func splitName(name string) (first, last string) {
	parts := strings.SplitN(strings.TrimSpace(name), " ", 2)
	first = parts[0]
	if len(parts) == 2 {
		last = strings.TrimSpace(parts[1])
	}
	return first, last
}

func appointmentNotes(draft Draft) string {
	var b strings.Builder
	b.WriteString("Booked via Sammy AI Assistant\n")
	b.WriteString("Service: " + draft.Service + "\n")
	b.WriteString("Email: " + draft.Email)
	if draft.Phone != "" {
		b.WriteString("\nPhone: " + draft.Phone)
	}
	return b.String()
}

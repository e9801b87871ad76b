package booking

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeContacts struct {
	byEmail    map[string]string
	findErr    error
	createErr  error
	created    []NewContact
	nextID     string
	findCalls  int
	createCall int
}

func (f *fakeContacts) FindContactByEmail(_ context.Context, email string) (string, error) {
	f.findCalls++
	if f.findErr != nil {
		return "", f.findErr
	}
	return f.byEmail[email], nil
}

func (f *fakeContacts) CreateContact(_ context.Context, c NewContact) (string, error) {
	f.createCall++
	if f.createErr != nil {
		return "", f.createErr
	}
	f.created = append(f.created, c)
	if f.nextID == "" {
		return "contact-new", nil
	}
	return f.nextID, nil
}

type fakeCalendar struct {
	calendars    []CalendarInfo
	listErr      error
	appointments []Appointment
	apptErr      error
	createErr    error
	createdReq   *AppointmentRequest
	queryStart   time.Time
	queryEnd     time.Time
}

func (f *fakeCalendar) ListCalendars(_ context.Context) ([]CalendarInfo, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.calendars, nil
}

func (f *fakeCalendar) ListAppointments(_ context.Context, _ string, start, end time.Time) ([]Appointment, error) {
	f.queryStart, f.queryEnd = start, end
	if f.apptErr != nil {
		return nil, f.apptErr
	}
	return f.appointments, nil
}

func (f *fakeCalendar) CreateAppointment(_ context.Context, req AppointmentRequest) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.createdReq = &req
	return "appt-1", nil
}

// Monday 2026-03-02 09:00 UTC.
var pipelineNow = time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)

func completeDraft() Draft {
	return Draft{
		Name:    "Jane Doe",
		Email:   "jane@example.com",
		Phone:   "+15551234567",
		Service: "SEO",
		Date:    "friday",
		Time:    "10am",
	}
}

func newTestPipeline(contacts *fakeContacts, cal *fakeCalendar) *Pipeline {
	return NewPipeline(contacts, cal, nil, WithClock(func() time.Time { return pipelineNow }))
}

func TestCommitBooksNewContact(t *testing.T) {
	contacts := &fakeContacts{byEmail: map[string]string{}}
	cal := &fakeCalendar{calendars: []CalendarInfo{{ID: "cal-1", Name: "Bookings"}}}

	res := newTestPipeline(contacts, cal).Commit(context.Background(), completeDraft())

	require.True(t, res.Booked())
	assert.Equal(t, "appt-1", res.AppointmentID)
	assert.Equal(t, "contact-new", res.ContactID)

	require.Len(t, contacts.created, 1)
	assert.Equal(t, "Jane", contacts.created[0].FirstName)
	assert.Equal(t, "Doe", contacts.created[0].LastName)

	require.NotNil(t, cal.createdReq)
	assert.Equal(t, "SEO - Jane Doe", cal.createdReq.Title)
	assert.Equal(t, time.Date(2026, 3, 6, 10, 0, 0, 0, time.UTC), cal.createdReq.Start)
	assert.Equal(t, time.Hour, cal.createdReq.End.Sub(cal.createdReq.Start))
	assert.Contains(t, cal.createdReq.Notes, "jane@example.com")
}

func TestCommitReusesExistingContact(t *testing.T) {
	contacts := &fakeContacts{byEmail: map[string]string{"jane@example.com": "contact-42"}}
	cal := &fakeCalendar{calendars: []CalendarInfo{{ID: "cal-1"}}}

	res := newTestPipeline(contacts, cal).Commit(context.Background(), completeDraft())

	require.True(t, res.Booked())
	assert.Equal(t, "contact-42", res.ContactID)
	assert.Zero(t, contacts.createCall)
}

func TestCommitZeroCalendars(t *testing.T) {
	contacts := &fakeContacts{byEmail: map[string]string{}}
	cal := &fakeCalendar{calendars: nil}

	res := newTestPipeline(contacts, cal).Commit(context.Background(), completeDraft())

	assert.Equal(t, OutcomeNoCalendar, res.Outcome)
	assert.False(t, res.Booked())
	assert.Nil(t, cal.createdReq)
	assert.NotEmpty(t, res.UserMessage())
}

func TestCommitPreferredCalendar(t *testing.T) {
	contacts := &fakeContacts{byEmail: map[string]string{}}
	cal := &fakeCalendar{calendars: []CalendarInfo{
		{ID: "cal-1", Name: "Staff Meetings"},
		{ID: "cal-2", Name: "Client Bookings"},
	}}
	p := NewPipeline(contacts, cal, nil,
		WithClock(func() time.Time { return pipelineNow }),
		WithPreferredCalendar("bookings"),
	)

	res := p.Commit(context.Background(), completeDraft())

	require.True(t, res.Booked())
	assert.Equal(t, "cal-2", cal.createdReq.CalendarID)
}

func TestCommitConflictBoundary(t *testing.T) {
	// Candidate slot is Friday [10:00, 11:00).
	tests := []struct {
		name     string
		existing Appointment
		outcome  Outcome
	}{
		{
			name: "overlapping appointment conflicts",
			existing: Appointment{
				Start: time.Date(2026, 3, 6, 10, 30, 0, 0, time.UTC),
				End:   time.Date(2026, 3, 6, 11, 30, 0, 0, time.UTC),
			},
			outcome: OutcomeSlotConflict,
		},
		{
			name: "appointment starting at candidate end does not conflict",
			existing: Appointment{
				Start: time.Date(2026, 3, 6, 11, 0, 0, 0, time.UTC),
				End:   time.Date(2026, 3, 6, 12, 0, 0, 0, time.UTC),
			},
			outcome: OutcomeBooked,
		},
		{
			name: "appointment ending at candidate start does not conflict",
			existing: Appointment{
				Start: time.Date(2026, 3, 6, 9, 0, 0, 0, time.UTC),
				End:   time.Date(2026, 3, 6, 10, 0, 0, 0, time.UTC),
			},
			outcome: OutcomeBooked,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contacts := &fakeContacts{byEmail: map[string]string{}}
			cal := &fakeCalendar{
				calendars:    []CalendarInfo{{ID: "cal-1"}},
				appointments: []Appointment{tt.existing},
			}

			res := newTestPipeline(contacts, cal).Commit(context.Background(), completeDraft())

			assert.Equal(t, tt.outcome, res.Outcome)
		})
	}
}

func TestCommitConflictQueriesWholeDay(t *testing.T) {
	contacts := &fakeContacts{byEmail: map[string]string{}}
	cal := &fakeCalendar{calendars: []CalendarInfo{{ID: "cal-1"}}}

	newTestPipeline(contacts, cal).Commit(context.Background(), completeDraft())

	assert.Equal(t, time.Date(2026, 3, 6, 0, 0, 0, 0, time.UTC), cal.queryStart)
	assert.Equal(t, time.Date(2026, 3, 7, 0, 0, 0, 0, time.UTC), cal.queryEnd)
}

func TestCommitConflictCheckFailsOpen(t *testing.T) {
	contacts := &fakeContacts{byEmail: map[string]string{}}
	cal := &fakeCalendar{
		calendars: []CalendarInfo{{ID: "cal-1"}},
		apptErr:   errors.New("upstream 500"),
	}

	res := newTestPipeline(contacts, cal).Commit(context.Background(), completeDraft())

	assert.True(t, res.Booked())
}

func TestCommitContactFailure(t *testing.T) {
	contacts := &fakeContacts{findErr: errors.New("upstream 500")}
	cal := &fakeCalendar{calendars: []CalendarInfo{{ID: "cal-1"}}}

	res := newTestPipeline(contacts, cal).Commit(context.Background(), completeDraft())

	assert.Equal(t, OutcomeContactFailed, res.Outcome)
	assert.Error(t, res.Err)
}

func TestCommitInvalidDateTime(t *testing.T) {
	contacts := &fakeContacts{byEmail: map[string]string{}}
	cal := &fakeCalendar{calendars: []CalendarInfo{{ID: "cal-1"}}}

	draft := completeDraft()
	draft.Date = "someday soon"

	res := newTestPipeline(contacts, cal).Commit(context.Background(), draft)

	assert.Equal(t, OutcomeInvalidDateTime, res.Outcome)
	assert.Nil(t, cal.createdReq)
}

func TestCommitCreateFailure(t *testing.T) {
	contacts := &fakeContacts{byEmail: map[string]string{}}
	cal := &fakeCalendar{
		calendars: []CalendarInfo{{ID: "cal-1"}},
		createErr: errors.New("upstream 500"),
	}

	res := newTestPipeline(contacts, cal).Commit(context.Background(), completeDraft())

	assert.Equal(t, OutcomeCreateFailed, res.Outcome)
	assert.Error(t, res.Err)
}

func TestResultUserMessage(t *testing.T) {
	assert.Empty(t, Result{Outcome: OutcomeBooked}.UserMessage())
	assert.Contains(t, Result{Outcome: OutcomeSlotConflict}.UserMessage(), "another")
	assert.Contains(t, Result{Outcome: OutcomeCreateFailed}.UserMessage(), "follow up")
}

func TestSplitName(t *testing.T) {
	tests := []struct {
		in          string
		first, last string
	}{
		{"Jane Doe", "Jane", "Doe"},
		{"Jane", "Jane", ""},
		{"Jane Ann Doe", "Jane", "Ann Doe"},
		{"  Jane Doe  ", "Jane", "Doe"},
	}
	for _, tt := range tests {
		first, last := splitName(tt.in)
		assert.Equal(t, tt.first, first, "input %q", tt.in)
		assert.Equal(t, tt.last, last, "input %q", tt.in)
	}
}

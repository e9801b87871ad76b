// Package ghl is a GoHighLevel REST client scoped to what the booking
// pipeline uses: contact lookup and creation, calendar discovery, and
// appointment listing and creation for one location.
package ghl

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Annybest52/sammy-ai-assistant/internal/booking"
	"github.com/Annybest52/sammy-ai-assistant/pkg/logging"
)

const (
	defaultBaseURL = "https://services.leadconnectorhq.com"
	defaultTimeout = 15 * time.Second

	// GoHighLevel versions its v2 API through this header.
	apiVersion = "2021-07-28"
)

// Client wraps the GoHighLevel v2 REST API for a single location. It
// satisfies the booking pipeline's ContactDirectory and Calendar interfaces.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	locationID string
	logger     *logging.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the API host, for tests and mock environments.
func WithBaseURL(baseURL string) Option {
	return func(c *Client) {
		if strings.TrimSpace(baseURL) != "" {
			c.baseURL = strings.TrimRight(baseURL, "/")
		}
	}
}

// WithTimeout overrides the HTTP client timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// NewClient constructs a GoHighLevel client for one location.
func NewClient(apiKey, locationID string, logger *logging.Logger, opts ...Option) *Client {
	if logger == nil {
		logger = logging.Default()
	}
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    defaultBaseURL,
		apiKey:     apiKey,
		locationID: locationID,
		logger:     logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// FindContactByEmail looks a contact up by exact email. A missing contact is
// not an error; the returned id is empty.
func (c *Client) FindContactByEmail(ctx context.Context, email string) (string, error) {
	q := url.Values{}
	q.Set("locationId", c.locationID)
	q.Set("query", email)

	var wrapped struct {
		Contacts []Contact `json:"contacts"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/contacts/?"+q.Encode(), nil, &wrapped); err != nil {
		return "", fmt.Errorf("find contact: %w", err)
	}
	for _, contact := range wrapped.Contacts {
		if strings.EqualFold(contact.Email, email) {
			return contact.ID, nil
		}
	}
	return "", nil
}

// CreateContact creates a contact on the location and returns its id.
func (c *Client) CreateContact(ctx context.Context, contact booking.NewContact) (string, error) {
	body := contactRequest{
		FirstName:  contact.FirstName,
		LastName:   contact.LastName,
		Email:      contact.Email,
		Phone:      contact.Phone,
		LocationID: c.locationID,
		Source:     contact.Source,
	}

	var wrapped struct {
		Contact Contact `json:"contact"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/contacts/", body, &wrapped); err != nil {
		return "", fmt.Errorf("create contact: %w", err)
	}
	if wrapped.Contact.ID == "" {
		return "", fmt.Errorf("create contact: response missing contact id")
	}
	return wrapped.Contact.ID, nil
}

// ListCalendars returns the calendars configured on the location.
func (c *Client) ListCalendars(ctx context.Context) ([]booking.CalendarInfo, error) {
	q := url.Values{}
	q.Set("locationId", c.locationID)

	var wrapped struct {
		Calendars []CalendarSummary `json:"calendars"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/calendars/?"+q.Encode(), nil, &wrapped); err != nil {
		return nil, fmt.Errorf("list calendars: %w", err)
	}

	infos := make([]booking.CalendarInfo, 0, len(wrapped.Calendars))
	for _, cal := range wrapped.Calendars {
		infos = append(infos, booking.CalendarInfo{ID: cal.ID, Name: cal.Name})
	}
	return infos, nil
}

// ListAppointments returns the events on a calendar between start and end.
func (c *Client) ListAppointments(ctx context.Context, calendarID string, start, end time.Time) ([]booking.Appointment, error) {
	q := url.Values{}
	q.Set("locationId", c.locationID)
	q.Set("calendarId", calendarID)
	q.Set("startTime", fmt.Sprintf("%d", start.UnixMilli()))
	q.Set("endTime", fmt.Sprintf("%d", end.UnixMilli()))

	var wrapped struct {
		Events []Event `json:"events"`
	}
	if err := c.doJSON(ctx, http.MethodGet, "/calendars/events?"+q.Encode(), nil, &wrapped); err != nil {
		return nil, fmt.Errorf("list appointments: %w", err)
	}

	appts := make([]booking.Appointment, 0, len(wrapped.Events))
	for _, ev := range wrapped.Events {
		appts = append(appts, booking.Appointment{Start: ev.StartTime, End: ev.EndTime})
	}
	return appts, nil
}

// CreateAppointment books an event on the calendar and returns its id.
// Slot validation is left to GoHighLevel; the conflict pre-check upstream is
// advisory only.
func (c *Client) CreateAppointment(ctx context.Context, req booking.AppointmentRequest) (string, error) {
	body := appointmentRequest{
		CalendarID:        req.CalendarID,
		LocationID:        c.locationID,
		ContactID:         req.ContactID,
		StartTime:         req.Start.Format(time.RFC3339),
		EndTime:           req.End.Format(time.RFC3339),
		Title:             req.Title,
		AppointmentStatus: "confirmed",
		Notes:             req.Notes,
	}

	var resp struct {
		ID    string `json:"id"`
		Event Event  `json:"event"`
	}
	if err := c.doJSON(ctx, http.MethodPost, "/calendars/events/appointments", body, &resp); err != nil {
		return "", fmt.Errorf("create appointment: %w", err)
	}
	if resp.ID != "" {
		return resp.ID, nil
	}
	if resp.Event.ID != "" {
		return resp.Event.ID, nil
	}
	return "", fmt.Errorf("create appointment: response missing event id")
}

func (c *Client) doJSON(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	endpoint := c.baseURL + path

	var bodyReader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		bodyReader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, bodyReader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Version", apiVersion)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		msg := string(respBody)
		if len(msg) > 300 {
			msg = msg[:300]
		}
		c.logger.Warn("ghl API non-2xx response", "status", resp.StatusCode, "path", path, "body", msg)
		return fmt.Errorf("ghl API returned %d: %s", resp.StatusCode, msg)
	}

	if len(respBody) == 0 || out == nil {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

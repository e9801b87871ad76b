package ghl

import "time"

// Contact is the subset of GoHighLevel's contact record that booking needs.
type Contact struct {
	ID        string `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

type contactRequest struct {
	FirstName  string `json:"firstName,omitempty"`
	LastName   string `json:"lastName,omitempty"`
	Email      string `json:"email"`
	Phone      string `json:"phone,omitempty"`
	LocationID string `json:"locationId"`
	Source     string `json:"source,omitempty"`
}

// CalendarSummary is one calendar configured on the location.
type CalendarSummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Event is an existing appointment on a calendar.
type Event struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	StartTime time.Time `json:"startTime"`
	EndTime   time.Time `json:"endTime"`
}

type appointmentRequest struct {
	CalendarID        string `json:"calendarId"`
	LocationID        string `json:"locationId"`
	ContactID         string `json:"contactId"`
	StartTime         string `json:"startTime"`
	EndTime           string `json:"endTime"`
	Title             string `json:"title"`
	AppointmentStatus string `json:"appointmentStatus"`
	Notes             string `json:"notes,omitempty"`
	IgnoreFreeSlot    bool   `json:"ignoreFreeSlotValidation"`
}

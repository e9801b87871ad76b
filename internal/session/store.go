// Package session persists per-session conversation state: the rolling
// message history and the partial booking draft. Sessions are identified by
// an opaque caller-chosen id and expire after a fixed idle TTL.
package session

import (
	"context"
	"time"

	"github.com/Annybest52/sammy-ai-assistant/internal/booking"
)

// MaxHistory bounds the stored transcript. Appending beyond the bound drops
// the oldest messages first.
const MaxHistory = 20

// DefaultTTL is how long an idle session survives.
const DefaultTTL = 24 * time.Hour

// Message is one transcript entry.
type Message struct {
	Role      string    `json:"role"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// Message roles.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Store is the session state backend. Implementations must make AppendMessage
// enforce the MaxHistory bound.
type Store interface {
	// History returns the transcript oldest first. An unknown session id
	// yields an empty history, not an error.
	History(ctx context.Context, sessionID string) ([]Message, error)
	// AppendMessage appends entries and trims the transcript to MaxHistory.
	AppendMessage(ctx context.Context, sessionID string, msgs ...Message) error
	// Draft returns the session's booking draft, zero-valued when absent.
	Draft(ctx context.Context, sessionID string) (booking.Draft, error)
	SaveDraft(ctx context.Context, sessionID string, draft booking.Draft) error
	ClearDraft(ctx context.Context, sessionID string) error
}

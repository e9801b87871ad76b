// Package webchat is the website widget transport: a WebSocket endpoint that
// streams reply tokens as they are generated, plus HTTP fallbacks for
// environments that cannot hold a socket open.
package webchat

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/net/websocket"

	"github.com/Annybest52/sammy-ai-assistant/internal/agent"
	"github.com/Annybest52/sammy-ai-assistant/internal/session"
	"github.com/Annybest52/sammy-ai-assistant/pkg/logging"
)

// TurnRunner drives one conversation turn, streaming tokens through emit.
type TurnRunner interface {
	HandleTurn(ctx context.Context, sessionID, text, localeTag string, emit func(string)) (agent.TurnResult, error)
}

// HistoryReader exposes the stored transcript.
type HistoryReader interface {
	History(ctx context.Context, sessionID string) ([]session.Message, error)
}

// Handler serves the webchat transport.
type Handler struct {
	runner        TurnRunner
	history       HistoryReader
	defaultLocale string
	logger        *logging.Logger
}

// InboundMessage is what the widget sends.
type InboundMessage struct {
	Type   string `json:"type"` // "message", "ping"
	Text   string `json:"text"`
	Locale string `json:"locale,omitempty"`
}

// OutboundMessage is what we send to the widget.
type OutboundMessage struct {
	Type      string           `json:"type"` // "session", "history", "typing", "token", "message", "pong", "error"
	Text      string           `json:"text,omitempty"`
	Role      string           `json:"role,omitempty"`
	SessionID string           `json:"session_id,omitempty"`
	Timestamp string           `json:"timestamp,omitempty"`
	Booked    bool             `json:"booked,omitempty"`
	Messages  []HistoryMessage `json:"messages,omitempty"`
}

// HistoryMessage is a simplified message for history responses.
type HistoryMessage struct {
	Role      string `json:"role"`
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// NewHandler creates a webchat handler.
func NewHandler(runner TurnRunner, history HistoryReader, defaultLocale string, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	if defaultLocale == "" {
		defaultLocale = "en-US"
	}
	return &Handler{
		runner:        runner,
		history:       history,
		defaultLocale: defaultLocale,
		logger:        logger,
	}
}

// WebSocketHandler upgrades the connection and runs the chat loop.
func (h *Handler) WebSocketHandler() http.Handler {
	return websocket.Handler(h.serveWS)
}

func (h *Handler) serveWS(conn *websocket.Conn) {
	defer conn.Close()

	r := conn.Request()
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		sessionID = uuid.New().String()
	}
	locale := r.URL.Query().Get("locale")
	if locale == "" {
		locale = h.defaultLocale
	}

	_ = websocket.JSON.Send(conn, OutboundMessage{Type: "session", SessionID: sessionID})

	if msgs := h.loadHistory(r.Context(), sessionID); len(msgs) > 0 {
		_ = websocket.JSON.Send(conn, OutboundMessage{Type: "history", Messages: msgs})
	}

	h.logger.Info("webchat: connection opened", "session_id", sessionID)

	// Serialize writes: turn tokens and pongs share the socket.
	var writeMu sync.Mutex
	send := func(msg OutboundMessage) {
		writeMu.Lock()
		defer writeMu.Unlock()
		_ = websocket.JSON.Send(conn, msg)
	}

	for {
		var msg InboundMessage
		if err := websocket.JSON.Receive(conn, &msg); err != nil {
			h.logger.Debug("webchat: connection closed", "session_id", sessionID, "error", err)
			return
		}

		if msg.Type == "ping" {
			send(OutboundMessage{Type: "pong"})
			continue
		}
		if msg.Type != "message" || strings.TrimSpace(msg.Text) == "" {
			continue
		}

		turnLocale := msg.Locale
		if turnLocale == "" {
			turnLocale = locale
		}

		send(OutboundMessage{Type: "typing"})

		res, err := h.runner.HandleTurn(r.Context(), sessionID, msg.Text, turnLocale, func(token string) {
			send(OutboundMessage{Type: "token", Text: token})
		})
		if err != nil {
			h.logger.Error("webchat: turn failed", "error", err, "session_id", sessionID)
			send(OutboundMessage{Type: "error", Text: "Sorry, something went wrong. Please try again."})
			continue
		}

		send(OutboundMessage{
			Type:      "message",
			Role:      "assistant",
			Text:      res.Text,
			Booked:    res.Committed && res.Outcome == "booked",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
	}
}

// HandleMessage is the HTTP fallback: one blocking turn per request.
func (h *Handler) HandleMessage(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionID string `json:"session_id"`
		Text      string `json:"text"`
		Locale    string `json:"locale"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		http.Error(w, "text is required", http.StatusBadRequest)
		return
	}
	if req.SessionID == "" {
		req.SessionID = uuid.New().String()
	}
	if req.Locale == "" {
		req.Locale = h.defaultLocale
	}

	res, err := h.runner.HandleTurn(r.Context(), req.SessionID, req.Text, req.Locale, nil)
	if err != nil {
		h.logger.Error("webchat: turn failed", "error", err, "session_id", req.SessionID)
		http.Error(w, "failed to process message", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"session_id": req.SessionID,
		"text":       res.Text,
		"actions":    []any{},
		"booked":     res.Committed && res.Outcome == "booked",
	})
}

// HandleHistory returns the stored transcript for a session.
func (h *Handler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	sessionID := r.URL.Query().Get("session")
	if sessionID == "" {
		http.Error(w, "session parameter required", http.StatusBadRequest)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]any{
		"messages": h.loadHistory(r.Context(), sessionID),
	})
}

func (h *Handler) loadHistory(ctx context.Context, sessionID string) []HistoryMessage {
	if h.history == nil {
		return []HistoryMessage{}
	}
	msgs, err := h.history.History(ctx, sessionID)
	if err != nil {
		h.logger.Error("webchat: failed to load history", "error", err, "session_id", sessionID)
		return []HistoryMessage{}
	}
	out := make([]HistoryMessage, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, HistoryMessage{
			Role:      m.Role,
			Text:      m.Text,
			Timestamp: m.Timestamp.Format(time.RFC3339),
		})
	}
	return out
}

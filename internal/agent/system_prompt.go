package agent

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Annybest52/sammy-ai-assistant/internal/booking"
)

// promptHistoryWindow is how many trailing transcript messages the model
// sees. The stored history is longer; the prompt stays small.
const promptHistoryWindow = 8

const systemPromptTemplate = `You are Sammy, the friendly AI assistant for %s, a digital marketing agency.

Your job is to answer questions about our services and book free consultations.

Services we offer: %s.

Booking rules:
- To book a consultation you need the customer's name, email, the service they want, and a day or time.
- Ask for at most one missing detail per reply. Never ask for details you already have.
- Keep replies short and conversational, two or three sentences.
- Never invent prices, availability, or services we do not offer.
- If the customer asks for a human, give them our email %s.

Details collected so far (do not ask for these again):
%s`

// SystemPromptConfig carries the business facts injected into the prompt.
type SystemPromptConfig struct {
	BusinessName  string
	BusinessEmail string
}

// BuildSystemPrompt renders the conversation system prompt with the current
// draft state so the model never re-asks for captured details.
func BuildSystemPrompt(cfg SystemPromptConfig, draft booking.Draft) string {
	name := cfg.BusinessName
	if name == "" {
		name = "Dealey Media International"
	}
	email := cfg.BusinessEmail
	if email == "" {
		email = "info@dealeymediainternational.com"
	}

	draftJSON := "(nothing yet)"
	if !draft.Empty() {
		if data, err := json.Marshal(draft); err == nil {
			draftJSON = string(data)
		}
	}

	return fmt.Sprintf(systemPromptTemplate,
		name,
		strings.Join(booking.ServiceNames(), ", "),
		email,
		draftJSON,
	)
}

// promptWindow trims history to the trailing prompt window.
func promptWindow(history []ChatMessage) []ChatMessage {
	if len(history) <= promptHistoryWindow {
		return history
	}
	return history[len(history)-promptHistoryWindow:]
}

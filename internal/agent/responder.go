package agent

import (
	"fmt"
	"strings"

	"github.com/Annybest52/sammy-ai-assistant/internal/booking"
)

// Augmentations are text appended after the generated reply once a commit
// has run. They run in a fixed order: first the outcome augmentation, then
// the follow-up question. Each one checks the text so far and stays silent
// when the model already said the equivalent.

const confirmedTimeFormat = "Monday, January 2 at 3:04 PM"

// outcomeAugmentation returns the sentence to append for a commit result,
// or "" when the reply already covers it.
func outcomeAugmentation(replySoFar string, result booking.Result, draft booking.Draft) string {
	if !result.Booked() {
		return result.UserMessage()
	}

	lower := strings.ToLower(replySoFar)
	if strings.Contains(lower, "booked") || strings.Contains(lower, "confirmed") {
		return ""
	}

	return fmt.Sprintf("You're all booked! Here's what I have:\n- Name: %s\n- Email: %s\n- Service: %s\n- When: %s",
		draft.Name, draft.Email, draft.Service, result.Start.Format(confirmedTimeFormat))
}

// followUpAugmentation closes out a committed booking with an open question,
// unless the text already asks one.
func followUpAugmentation(replySoFar string) string {
	if strings.Contains(strings.ToLower(replySoFar), "anything else") {
		return ""
	}
	return "Is there anything else I can help you with?"
}

// joinAugmentation glues an augmentation onto the reply with a paragraph
// break when the reply is non-empty.
func joinAugmentation(reply, augmentation string) string {
	if augmentation == "" {
		return reply
	}
	if strings.TrimSpace(reply) == "" {
		return augmentation
	}
	return reply + "\n\n" + augmentation
}

package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Annybest52/sammy-ai-assistant/internal/booking"
	"github.com/Annybest52/sammy-ai-assistant/pkg/logging"
)

// SlotExtractor produces per-turn slot candidates from a user message.
type SlotExtractor interface {
	ExtractSlots(ctx context.Context, text, localeTag string) booking.Extraction
}

const extractionPrompt = `Extract booking details from the customer message.
Respond with a single JSON object with exactly these string fields:
{"name": "", "email": "", "phone": "", "service": "", "date": "", "time": ""}
Rules:
- Fill a field only when the message states it. Leave it "" otherwise. Never invent values.
- name: the customer's own name only, not the business name.
- service: one of: %s. Leave "" if none applies.
- date: keep the customer's own words ("friday", "tomorrow", "2026-03-20").
- time: keep the customer's own words ("2pm", "morning", "2:30 PM").`

// LLMSlotExtractor asks the model for a structured extraction and falls back
// to the deterministic pass whenever the model output is unusable. The
// deterministic result also backfills fields the model left empty.
type LLMSlotExtractor struct {
	llm           LLMClient
	deterministic DeterministicExtractor
	model         string
	logger        *logging.Logger
}

// NewLLMSlotExtractor creates the structured extraction strategy.
func NewLLMSlotExtractor(llm LLMClient, model string, logger *logging.Logger) *LLMSlotExtractor {
	if logger == nil {
		logger = logging.Default()
	}
	return &LLMSlotExtractor{
		llm:    llm,
		model:  model,
		logger: logger,
	}
}

// ExtractSlots never fails: any model trouble degrades to the deterministic
// extraction for this turn.
func (e *LLMSlotExtractor) ExtractSlots(ctx context.Context, text, localeTag string) booking.Extraction {
	fallback := e.deterministic.Extract(text, localeTag)
	if e.llm == nil {
		return fallback
	}

	resp, err := e.llm.Complete(ctx, LLMRequest{
		Model:       e.model,
		System:      []string{fmt.Sprintf(extractionPrompt, strings.Join(booking.ServiceNames(), ", "))},
		Messages:    []ChatMessage{{Role: ChatRoleUser, Content: text}},
		MaxTokens:   200,
		Temperature: 0,
		JSONMode:    true,
	})
	if err != nil {
		e.logger.Warn("agent: structured extraction failed, using deterministic pass", "error", err)
		return fallback
	}

	ext, err := parseExtraction(resp.Text)
	if err != nil {
		e.logger.Warn("agent: structured extraction unparseable, using deterministic pass", "error", err)
		return fallback
	}

	// The model occasionally misses what the regexes catch.
	return fillEmpty(ext, fallback)
}

func parseExtraction(text string) (booking.Extraction, error) {
	text = strings.TrimSpace(text)
	// Some providers wrap JSON mode output in a code fence anyway.
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")

	var ext booking.Extraction
	if err := json.Unmarshal([]byte(strings.TrimSpace(text)), &ext); err != nil {
		return booking.Extraction{}, fmt.Errorf("agent: extraction decode: %w", err)
	}

	// Only catalog services are allowed through; free-form service text from
	// the model gets re-matched against the catalog.
	if ext.Service != "" && !booking.IsKnownService(ext.Service) {
		ext.Service = booking.MatchService(ext.Service)
	}
	return ext, nil
}

func fillEmpty(primary, secondary booking.Extraction) booking.Extraction {
	if primary.Name == "" {
		primary.Name = secondary.Name
	}
	if primary.Email == "" {
		primary.Email = secondary.Email
	}
	if primary.Phone == "" {
		primary.Phone = secondary.Phone
	}
	if primary.Service == "" {
		primary.Service = secondary.Service
	}
	if primary.Date == "" {
		primary.Date = secondary.Date
	}
	if primary.Time == "" {
		primary.Time = secondary.Time
	}
	return primary
}

var _ SlotExtractor = (*LLMSlotExtractor)(nil)

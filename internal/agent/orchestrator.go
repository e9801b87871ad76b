package agent

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/Annybest52/sammy-ai-assistant/internal/booking"
	"github.com/Annybest52/sammy-ai-assistant/internal/notify"
	"github.com/Annybest52/sammy-ai-assistant/internal/observability/metrics"
	"github.com/Annybest52/sammy-ai-assistant/internal/session"
	"github.com/Annybest52/sammy-ai-assistant/pkg/logging"
)

// Committer runs the booking commit pipeline for a completed draft.
type Committer interface {
	Commit(ctx context.Context, draft booking.Draft) booking.Result
}

// Notifier fans a committed booking out to its notification channels.
type Notifier interface {
	NotifyBooking(ctx context.Context, b notify.Booking) int
}

// TurnResult is what one user message produced.
type TurnResult struct {
	// Text is the full reply, including any augmentation appended after a
	// booking commit.
	Text string
	// Committed is set when this turn ran the booking pipeline.
	Committed bool
	Outcome   booking.Outcome
}

// Orchestrator drives one conversation turn end to end: slot extraction,
// draft merge, streamed reply generation, the booking commit when the draft
// completes, and the notification fan-out. Turns for the same session are
// serialized; different sessions run concurrently.
type Orchestrator struct {
	llm       StreamingLLMClient
	extractor SlotExtractor
	store     session.Store
	committer Committer
	notifier  Notifier
	metrics   *metrics.ConversationMetrics
	logger    *logging.Logger

	promptCfg     SystemPromptConfig
	model         string
	maxTokens     int32
	temperature   float32
	defaultLocale string

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// OrchestratorConfig collects the orchestrator's knobs.
type OrchestratorConfig struct {
	Prompt        SystemPromptConfig
	Model         string
	MaxTokens     int32
	Temperature   float32
	DefaultLocale string
}

// NewOrchestrator wires the turn loop. The notifier and metrics may be nil.
func NewOrchestrator(
	llm StreamingLLMClient,
	extractor SlotExtractor,
	store session.Store,
	committer Committer,
	notifier Notifier,
	m *metrics.ConversationMetrics,
	cfg OrchestratorConfig,
	logger *logging.Logger,
) *Orchestrator {
	if logger == nil {
		logger = logging.Default()
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = 200
	}
	if cfg.DefaultLocale == "" {
		cfg.DefaultLocale = "en-US"
	}
	return &Orchestrator{
		llm:           llm,
		extractor:     extractor,
		store:         store,
		committer:     committer,
		notifier:      notifier,
		metrics:       m,
		logger:        logger,
		promptCfg:     cfg.Prompt,
		model:         cfg.Model,
		maxTokens:     cfg.MaxTokens,
		temperature:   cfg.Temperature,
		defaultLocale: cfg.DefaultLocale,
		locks:         make(map[string]*sync.Mutex),
	}
}

// sessionLock serializes turns per session id.
func (o *Orchestrator) sessionLock(sessionID string) *sync.Mutex {
	o.mu.Lock()
	defer o.mu.Unlock()
	lock, ok := o.locks[sessionID]
	if !ok {
		lock = &sync.Mutex{}
		o.locks[sessionID] = lock
	}
	return lock
}

// HandleTurn processes one user message. Tokens stream through emit as they
// arrive; the returned TurnResult carries the complete reply. emit may be
// nil for request/response callers.
func (o *Orchestrator) HandleTurn(ctx context.Context, sessionID, text, localeTag string, emit func(string)) (TurnResult, error) {
	lock := o.sessionLock(sessionID)
	lock.Lock()
	defer lock.Unlock()

	start := time.Now()
	if localeTag == "" {
		localeTag = o.defaultLocale
	}

	history, err := o.store.History(ctx, sessionID)
	if err != nil {
		o.logger.Error("agent: history load failed", "error", err, "session_id", sessionID)
		history = nil
	}
	draft, err := o.store.Draft(ctx, sessionID)
	if err != nil {
		o.logger.Error("agent: draft load failed", "error", err, "session_id", sessionID)
		draft = booking.Draft{}
	}

	ext := o.extractor.ExtractSlots(ctx, text, localeTag)
	draft = booking.Merge(draft, ext)
	if err := o.store.SaveDraft(ctx, sessionID, draft); err != nil {
		o.logger.Error("agent: draft save failed", "error", err, "session_id", sessionID)
	}

	if wantsBooking(text) {
		o.logger.Info("agent: booking intent detected", "session_id", sessionID, "draft_complete", draft.Complete())
	}

	reply, genErr := o.generate(ctx, draft, history, text, emit)

	result := TurnResult{Text: reply}
	if genErr != nil {
		o.logger.Error("agent: reply generation failed", "error", genErr, "session_id", sessionID)
		o.metrics.ObserveTurn("generation_failed")
	} else {
		if draft.Complete() {
			result = o.commit(ctx, sessionID, draft, reply, emit)
		}
		o.metrics.ObserveTurn("ok")
	}

	now := time.Now()
	if err := o.store.AppendMessage(ctx, sessionID,
		session.Message{Role: session.RoleUser, Text: text, Timestamp: now},
		session.Message{Role: session.RoleAssistant, Text: result.Text, Timestamp: now},
	); err != nil {
		o.logger.Error("agent: history append failed", "error", err, "session_id", sessionID)
	}

	o.metrics.ObserveTurnLatency("turn", time.Since(start).Seconds())
	return result, nil
}

// generate streams the model reply. Any failure yields the fixed apology
// and a non-nil error; the apology has already been emitted.
func (o *Orchestrator) generate(ctx context.Context, draft booking.Draft, history []session.Message, text string, emit func(string)) (string, error) {
	messages := make([]ChatMessage, 0, len(history)+1)
	for _, msg := range history {
		role := ChatRoleUser
		if msg.Role == session.RoleAssistant {
			role = ChatRoleAssistant
		}
		messages = append(messages, ChatMessage{Role: role, Content: msg.Text})
	}
	messages = promptWindow(messages)
	messages = append(messages, ChatMessage{Role: ChatRoleUser, Content: text})

	chunks, err := o.llm.CompleteStream(ctx, LLMRequest{
		Model:       o.model,
		System:      []string{BuildSystemPrompt(o.promptCfg, draft)},
		Messages:    messages,
		MaxTokens:   o.maxTokens,
		Temperature: o.temperature,
	})
	if err != nil {
		if emit != nil {
			emit(apologyReply)
		}
		return apologyReply, err
	}

	reply, usage, err := collectStream(chunks, emit)
	if usage.TotalTokens > 0 {
		o.logger.Debug("agent: reply generated",
			"input_tokens", usage.InputTokens, "output_tokens", usage.OutputTokens)
	}
	return reply, err
}

// commit runs the booking pipeline for a completed draft and appends the
// outcome augmentations to the reply. The draft is cleared after every
// attempt, success or not, so a failed commit never retries silently on the
// next turn. The commit itself is detached from the request context: a
// client disconnect mid-stream must not abandon a half-made booking.
func (o *Orchestrator) commit(ctx context.Context, sessionID string, draft booking.Draft, reply string, emit func(string)) TurnResult {
	commitCtx := context.WithoutCancel(ctx)
	res := o.committer.Commit(commitCtx, draft)
	o.metrics.ObserveCommit(string(res.Outcome))
	o.logger.Info("agent: booking commit finished",
		"session_id", sessionID, "outcome", res.Outcome, "appointment_id", res.AppointmentID)

	if err := o.store.ClearDraft(ctx, sessionID); err != nil {
		o.logger.Error("agent: draft clear failed", "error", err, "session_id", sessionID)
	}

	if aug := outcomeAugmentation(reply, res, draft); aug != "" {
		if emit != nil {
			emit("\n\n" + aug)
		}
		reply = joinAugmentation(reply, aug)
	}
	if res.Booked() {
		if aug := followUpAugmentation(reply); aug != "" {
			if emit != nil {
				emit("\n\n" + aug)
			}
			reply = joinAugmentation(reply, aug)
		}
		o.notifyAsync(commitCtx, draft, res)
	}

	return TurnResult{Text: reply, Committed: true, Outcome: res.Outcome}
}

// notifyAsync fires the notification fan-out without blocking the turn.
func (o *Orchestrator) notifyAsync(ctx context.Context, draft booking.Draft, res booking.Result) {
	if o.notifier == nil {
		return
	}
	b := notify.Booking{
		Name:         draft.Name,
		Email:        draft.Email,
		Phone:        draft.Phone,
		Service:      draft.Service,
		Start:        res.Start,
		BusinessName: o.promptCfg.BusinessName,
	}
	go func() {
		sent := o.notifier.NotifyBooking(ctx, b)
		o.metrics.ObserveNotifications(sent)
	}()
}

var bookingKeywords = []string{"book", "appointment", "schedule", "consultation", "meeting", "reserve"}

func wantsBooking(text string) bool {
	lower := strings.ToLower(text)
	for _, kw := range bookingKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

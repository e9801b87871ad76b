package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/Annybest52/sammy-ai-assistant/internal/booking"
)

// RedisStore persists session state in Redis. History and draft live under
// separate keys so a draft clear never touches the transcript. Every write
// refreshes the TTL on both keys.
type RedisStore struct {
	redis  *redis.Client
	ttl    time.Duration
	tracer trace.Tracer
}

// NewRedisStore creates a Redis-backed session store.
func NewRedisStore(client *redis.Client, ttl time.Duration, tracer trace.Tracer) *RedisStore {
	if client == nil {
		panic("session: redis client cannot be nil")
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if tracer == nil {
		tracer = otel.Tracer("sammy.internal.session")
	}
	return &RedisStore{
		redis:  client,
		ttl:    ttl,
		tracer: tracer,
	}
}

func historyKey(id string) string {
	return fmt.Sprintf("session:%s:history", id)
}

func draftKey(id string) string {
	return fmt.Sprintf("session:%s:draft", id)
}

func (s *RedisStore) History(ctx context.Context, sessionID string) ([]Message, error) {
	ctx, span := s.tracer.Start(ctx, "session.load_history")
	defer span.End()

	data, err := s.redis.Get(ctx, historyKey(sessionID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		span.RecordError(err)
		return nil, fmt.Errorf("session: failed to load history: %w", err)
	}

	var history []Message
	if err := json.Unmarshal(data, &history); err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("session: failed to decode history: %w", err)
	}
	return history, nil
}

func (s *RedisStore) AppendMessage(ctx context.Context, sessionID string, msgs ...Message) error {
	ctx, span := s.tracer.Start(ctx, "session.append_message")
	defer span.End()

	history, err := s.History(ctx, sessionID)
	if err != nil {
		return err
	}
	history = append(history, msgs...)
	if n := len(history); n > MaxHistory {
		history = history[n-MaxHistory:]
	}

	data, err := json.Marshal(history)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: failed to marshal history: %w", err)
	}
	if err := s.redis.Set(ctx, historyKey(sessionID), data, s.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: failed to persist history: %w", err)
	}
	return nil
}

func (s *RedisStore) Draft(ctx context.Context, sessionID string) (booking.Draft, error) {
	ctx, span := s.tracer.Start(ctx, "session.load_draft")
	defer span.End()

	data, err := s.redis.Get(ctx, draftKey(sessionID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return booking.Draft{}, nil
		}
		span.RecordError(err)
		return booking.Draft{}, fmt.Errorf("session: failed to load draft: %w", err)
	}

	var draft booking.Draft
	if err := json.Unmarshal(data, &draft); err != nil {
		span.RecordError(err)
		return booking.Draft{}, fmt.Errorf("session: failed to decode draft: %w", err)
	}
	return draft, nil
}

func (s *RedisStore) SaveDraft(ctx context.Context, sessionID string, draft booking.Draft) error {
	ctx, span := s.tracer.Start(ctx, "session.save_draft")
	defer span.End()

	data, err := json.Marshal(draft)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: failed to marshal draft: %w", err)
	}
	if err := s.redis.Set(ctx, draftKey(sessionID), data, s.ttl).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: failed to persist draft: %w", err)
	}
	return nil
}

func (s *RedisStore) ClearDraft(ctx context.Context, sessionID string) error {
	ctx, span := s.tracer.Start(ctx, "session.clear_draft")
	defer span.End()

	if err := s.redis.Del(ctx, draftKey(sessionID)).Err(); err != nil {
		span.RecordError(err)
		return fmt.Errorf("session: failed to clear draft: %w", err)
	}
	return nil
}

var _ Store = (*RedisStore)(nil)

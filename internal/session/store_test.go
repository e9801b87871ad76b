package session

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Annybest52/sammy-ai-assistant/internal/booking"
)

func stores(t *testing.T) map[string]Store {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(0),
		"redis":  NewRedisStore(client, time.Hour, nil),
	}
}

func TestHistoryUnknownSessionIsEmpty(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			history, err := store.History(context.Background(), "nobody")
			require.NoError(t, err)
			assert.Empty(t, history)
		})
	}
}

func TestAppendMessageOrdering(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			err := store.AppendMessage(ctx, "s1",
				Message{Role: RoleUser, Text: "hi"},
				Message{Role: RoleAssistant, Text: "hello!"},
			)
			require.NoError(t, err)

			history, err := store.History(ctx, "s1")
			require.NoError(t, err)
			require.Len(t, history, 2)
			assert.Equal(t, RoleUser, history[0].Role)
			assert.Equal(t, "hello!", history[1].Text)
		})
	}
}

func TestAppendMessageCapsHistory(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for i := 0; i < 11; i++ {
				err := store.AppendMessage(ctx, "s1",
					Message{Role: RoleUser, Text: fmt.Sprintf("user %d", i)},
					Message{Role: RoleAssistant, Text: fmt.Sprintf("assistant %d", i)},
				)
				require.NoError(t, err)
			}

			history, err := store.History(ctx, "s1")
			require.NoError(t, err)
			require.Len(t, history, MaxHistory)
			// 22 appended, the oldest two dropped.
			assert.Equal(t, "user 1", history[0].Text)
			assert.Equal(t, "assistant 10", history[MaxHistory-1].Text)
		})
	}
}

func TestDraftRoundTrip(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			draft, err := store.Draft(ctx, "s1")
			require.NoError(t, err)
			assert.True(t, draft.Empty())

			want := booking.Draft{Name: "Jane Doe", Email: "jane@example.com", Service: "SEO"}
			require.NoError(t, store.SaveDraft(ctx, "s1", want))

			draft, err = store.Draft(ctx, "s1")
			require.NoError(t, err)
			assert.Equal(t, want, draft)

			require.NoError(t, store.ClearDraft(ctx, "s1"))
			draft, err = store.Draft(ctx, "s1")
			require.NoError(t, err)
			assert.True(t, draft.Empty())
		})
	}
}

func TestClearDraftKeepsHistory(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, store.AppendMessage(ctx, "s1", Message{Role: RoleUser, Text: "hi"}))
			require.NoError(t, store.SaveDraft(ctx, "s1", booking.Draft{Name: "Jane"}))

			require.NoError(t, store.ClearDraft(ctx, "s1"))

			history, err := store.History(ctx, "s1")
			require.NoError(t, err)
			assert.Len(t, history, 1)
		})
	}
}

func TestSessionsAreIsolated(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, store.SaveDraft(ctx, "a", booking.Draft{Name: "Jane"}))

			draft, err := store.Draft(ctx, "b")
			require.NoError(t, err)
			assert.True(t, draft.Empty())
		})
	}
}

func TestMemoryStoreExpiresIdleSessions(t *testing.T) {
	store := NewMemoryStore(time.Minute)
	now := time.Now()
	store.now = func() time.Time { return now }

	ctx := context.Background()
	require.NoError(t, store.SaveDraft(ctx, "s1", booking.Draft{Name: "Jane"}))

	now = now.Add(2 * time.Minute)

	draft, err := store.Draft(ctx, "s1")
	require.NoError(t, err)
	assert.True(t, draft.Empty())
}

func TestRedisStoreSetsTTL(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	store := NewRedisStore(client, time.Hour, nil)
	ctx := context.Background()
	require.NoError(t, store.AppendMessage(ctx, "s1", Message{Role: RoleUser, Text: "hi"}))

	ttl := mr.TTL("session:s1:history")
	assert.Equal(t, time.Hour, ttl)
}

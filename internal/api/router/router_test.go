package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Annybest52/sammy-ai-assistant/internal/agent"
	"github.com/Annybest52/sammy-ai-assistant/internal/webchat"
)

type stubRunner struct{}

func (stubRunner) HandleTurn(_ context.Context, _, _, _ string, _ func(string)) (agent.TurnResult, error) {
	return agent.TurnResult{Text: "ok"}, nil
}

func TestHealthEndpoint(t *testing.T) {
	h := New(&Config{})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestWebchatRoutesMounted(t *testing.T) {
	h := New(&Config{
		Webchat: webchat.NewHandler(stubRunner{}, nil, "", nil),
	})

	req := httptest.NewRequest(http.MethodGet, "/webchat/history?session=s1", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestUnknownRoute(t *testing.T) {
	h := New(&Config{})

	req := httptest.NewRequest(http.MethodGet, "/nope", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

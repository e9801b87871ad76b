package agent

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	openAIDefaultBaseURL = "https://api.openai.com/v1"
	openAIDefaultModel   = "gpt-4o-mini"
	openAITimeout        = 60 * time.Second
)

// OpenAILLMClient implements LLMClient and StreamingLLMClient against the
// OpenAI chat completions API. Any OpenAI-compatible endpoint works through
// the base URL override.
type OpenAILLMClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	model      string
}

// NewOpenAILLMClient creates an OpenAI chat completions client.
func NewOpenAILLMClient(apiKey, baseURL, model string) (*OpenAILLMClient, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, errors.New("agent: openai api key is required")
	}
	if strings.TrimSpace(baseURL) == "" {
		baseURL = openAIDefaultBaseURL
	}
	if strings.TrimSpace(model) == "" {
		model = openAIDefaultModel
	}
	return &OpenAILLMClient{
		httpClient: &http.Client{Timeout: openAITimeout},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		model:      model,
	}, nil
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model          string          `json:"model"`
	Messages       []openAIMessage `json:"messages"`
	MaxTokens      int32           `json:"max_tokens,omitempty"`
	Temperature    *float32        `json:"temperature,omitempty"`
	TopP           *float32        `json:"top_p,omitempty"`
	Stream         bool            `json:"stream,omitempty"`
	ResponseFormat *struct {
		Type string `json:"type"`
	} `json:"response_format,omitempty"`
	StreamOptions *struct {
		IncludeUsage bool `json:"include_usage"`
	} `json:"stream_options,omitempty"`
}

type openAIUsage struct {
	PromptTokens     int32 `json:"prompt_tokens"`
	CompletionTokens int32 `json:"completion_tokens"`
	TotalTokens      int32 `json:"total_tokens"`
}

func (u *openAIUsage) toTokenUsage() TokenUsage {
	if u == nil {
		return TokenUsage{}
	}
	return TokenUsage{
		InputTokens:  u.PromptTokens,
		OutputTokens: u.CompletionTokens,
		TotalTokens:  u.TotalTokens,
	}
}

func (c *OpenAILLMClient) buildRequest(req LLMRequest, stream bool) openAIRequest {
	model := req.Model
	if strings.TrimSpace(model) == "" {
		model = c.model
	}

	messages := make([]openAIMessage, 0, len(req.System)+len(req.Messages))
	for _, block := range req.System {
		if strings.TrimSpace(block) == "" {
			continue
		}
		messages = append(messages, openAIMessage{Role: ChatRoleSystem, Content: block})
	}
	for _, msg := range req.Messages {
		if strings.TrimSpace(msg.Content) == "" {
			continue
		}
		messages = append(messages, openAIMessage{Role: msg.Role, Content: msg.Content})
	}

	body := openAIRequest{
		Model:     model,
		Messages:  messages,
		MaxTokens: req.MaxTokens,
		Stream:    stream,
	}
	if req.Temperature >= 0 {
		t := req.Temperature
		body.Temperature = &t
	}
	if req.TopP > 0 {
		p := req.TopP
		body.TopP = &p
	}
	if req.JSONMode {
		body.ResponseFormat = &struct {
			Type string `json:"type"`
		}{Type: "json_object"}
	}
	if stream {
		body.StreamOptions = &struct {
			IncludeUsage bool `json:"include_usage"`
		}{IncludeUsage: true}
	}
	return body
}

func (c *OpenAILLMClient) post(ctx context.Context, body openAIRequest) (*http.Response, error) {
	payload, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("agent: openai request marshal: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("agent: openai build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("agent: openai request: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 300))
		return nil, fmt.Errorf("agent: openai returned %d: %s", resp.StatusCode, string(msg))
	}
	return resp, nil
}

// Complete sends a blocking completion request.
func (c *OpenAILLMClient) Complete(ctx context.Context, req LLMRequest) (LLMResponse, error) {
	resp, err := c.post(ctx, c.buildRequest(req, false))
	if err != nil {
		return LLMResponse{}, err
	}
	defer resp.Body.Close()

	var decoded struct {
		Choices []struct {
			Message      openAIMessage `json:"message"`
			FinishReason string        `json:"finish_reason"`
		} `json:"choices"`
		Usage *openAIUsage `json:"usage"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return LLMResponse{}, fmt.Errorf("agent: openai response decode: %w", err)
	}
	if len(decoded.Choices) == 0 {
		return LLMResponse{}, errors.New("agent: openai returned no choices")
	}

	choice := decoded.Choices[0]
	return LLMResponse{
		Text:       strings.TrimSpace(choice.Message.Content),
		Usage:      decoded.Usage.toTokenUsage(),
		StopReason: choice.FinishReason,
	}, nil
}

// CompleteStream sends a streaming completion request and emits deltas as
// they arrive over the returned channel.
func (c *OpenAILLMClient) CompleteStream(ctx context.Context, req LLMRequest) (<-chan StreamChunk, error) {
	resp, err := c.post(ctx, c.buildRequest(req, true))
	if err != nil {
		return nil, err
	}

	chunks := make(chan StreamChunk, 32)

	go func() {
		defer close(chunks)
		defer resp.Body.Close()

		var usage TokenUsage
		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

		for scanner.Scan() {
			line := strings.TrimSpace(scanner.Text())
			if !strings.HasPrefix(line, "data:") {
				continue
			}
			data := strings.TrimSpace(strings.TrimPrefix(line, "data:"))
			if data == "" {
				continue
			}
			if data == "[DONE]" {
				chunks <- StreamChunk{Done: true, Usage: usage}
				return
			}

			var event struct {
				Choices []struct {
					Delta struct {
						Content string `json:"content"`
					} `json:"delta"`
				} `json:"choices"`
				Usage *openAIUsage `json:"usage"`
			}
			if err := json.Unmarshal([]byte(data), &event); err != nil {
				chunks <- StreamChunk{Error: fmt.Errorf("agent: openai stream decode: %w", err), Done: true}
				return
			}
			if event.Usage != nil {
				usage = event.Usage.toTokenUsage()
			}
			if len(event.Choices) > 0 && event.Choices[0].Delta.Content != "" {
				chunks <- StreamChunk{Text: event.Choices[0].Delta.Content}
			}
		}

		if err := scanner.Err(); err != nil {
			chunks <- StreamChunk{Error: fmt.Errorf("agent: openai stream read: %w", err), Done: true}
			return
		}
		// Stream ended without a [DONE] sentinel; treat as complete.
		chunks <- StreamChunk{Done: true, Usage: usage}
	}()

	return chunks, nil
}

var _ StreamingLLMClient = (*OpenAILLMClient)(nil)

package openai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/docent-ai/docent-cli/internal/core/domain"
	"github.com/docent-ai/docent-cli/internal/core/ports/driven"
)

func TestNewLLMService_RequiresAPIKey(t *testing.T) {
	_, err := NewLLMService(Config{})
	assert.ErrorIs(t, err, domain.ErrMissingAPIKey)
}

func TestChat(t *testing.T) {
	var gotReq chatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Write([]byte(`{
			"choices":[{"message":{"content":"the answer"}}],
			"usage":{"total_tokens":42}
		}`))
	}))
	t.Cleanup(server.Close)

	s, err := NewLLMService(Config{APIKey: "sk-test", BaseURL: server.URL})
	require.NoError(t, err)

	result, err := s.Chat(context.Background(),
		[]domain.ChatTurn{
			{Role: domain.RoleSystem, Content: "be brief"},
			{Role: domain.RoleUser, Content: "what is Go?"},
		},
		driven.ChatOptions{MaxTokens: 100, Temperature: 0.2},
	)
	require.NoError(t, err)

	assert.Equal(t, "the answer", result.Content)
	assert.Equal(t, 42, result.TokensUsed)

	require.Len(t, gotReq.Messages, 2)
	assert.Equal(t, "system", gotReq.Messages[0].Role)
	assert.Equal(t, "what is Go?", gotReq.Messages[1].Content)
	assert.Equal(t, 100, gotReq.MaxTokens)
	assert.InDelta(t, 0.2, gotReq.Temperature, 1e-9)
}

func TestChat_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(`{"error":{"message":"rate limit exceeded","type":"rate_limit"}}`))
	}))
	t.Cleanup(server.Close)

	s, err := NewLLMService(Config{APIKey: "sk-test", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = s.Chat(context.Background(),
		[]domain.ChatTurn{{Role: domain.RoleUser, Content: "hi"}},
		driven.ChatOptions{},
	)
	require.Error(t, err)
	assert.True(t, domain.IsProviderError(err))
	assert.Contains(t, err.Error(), "rate limit exceeded")
}

func TestGenerate_WrapsChat(t *testing.T) {
	var gotReq chatRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Write([]byte(`{"choices":[{"message":{"content":"done"}}],"usage":{"total_tokens":5}}`))
	}))
	t.Cleanup(server.Close)

	s, err := NewLLMService(Config{APIKey: "sk-test", BaseURL: server.URL})
	require.NoError(t, err)

	out, err := s.Generate(context.Background(), "summarise this", driven.GenerateOptions{})
	require.NoError(t, err)

	assert.Equal(t, "done", out)
	require.Len(t, gotReq.Messages, 1)
	assert.Equal(t, "user", gotReq.Messages[0].Role)
}

func TestChat_NoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"choices":[]}`))
	}))
	t.Cleanup(server.Close)

	s, err := NewLLMService(Config{APIKey: "sk-test", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = s.Chat(context.Background(),
		[]domain.ChatTurn{{Role: domain.RoleUser, Content: "hi"}},
		driven.ChatOptions{},
	)
	assert.Error(t, err)
}

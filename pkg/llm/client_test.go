package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/nichestudioai/aibnb-superhost/internal/config"
	"github.com/stretchr/testify/require"
)

func TestNewClientRequiresAPIKey(t *testing.T) {
	_, err := NewClient(config.LLMConfig{})
	require.ErrorIs(t, err, ErrAPIKeyMissing)

	_, err = NewClient(config.LLMConfig{APIKey: "   "})
	require.ErrorIs(t, err, ErrAPIKeyMissing)
}

func TestChatSuccess(t *testing.T) {
	var gotReq chatRequest
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/chat/completions", r.URL.Path)
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"Check-in is at 3 PM."}}]}`))
	}))
	defer server.Close()

	client, err := NewClient(config.LLMConfig{APIKey: "sk-test", BaseURL: server.URL})
	require.NoError(t, err)

	answer, err := client.Chat(context.Background(), []Message{
		{Role: "system", Content: "instructions"},
		{Role: "user", Content: "When is check-in?"},
	})

	require.NoError(t, err)
	require.Equal(t, "Check-in is at 3 PM.", answer)
	require.Equal(t, "Bearer sk-test", gotAuth)
	// 未配置时使用默认的模型与采样参数
	require.Equal(t, "gpt-3.5-turbo", gotReq.Model)
	require.Equal(t, 0.7, gotReq.Temperature)
	require.Equal(t, 500, gotReq.MaxTokens)
	require.Len(t, gotReq.Messages, 2)
}

func TestChatUpstreamStatusError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limit"}}`))
	}))
	defer server.Close()

	client, err := NewClient(config.LLMConfig{APIKey: "sk-test", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.Chat(context.Background(), []Message{{Role: "user", Content: "hi"}})

	var upstreamErr *UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	require.Equal(t, http.StatusTooManyRequests, upstreamErr.StatusCode)
	require.Contains(t, upstreamErr.Message, "rate limit")
}

func TestChatEmptyChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client, err := NewClient(config.LLMConfig{APIKey: "sk-test", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.Chat(context.Background(), []Message{{Role: "user", Content: "hi"}})

	var upstreamErr *UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
}

func TestChatMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json at all`))
	}))
	defer server.Close()

	client, err := NewClient(config.LLMConfig{APIKey: "sk-test", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.Chat(context.Background(), []Message{{Role: "user", Content: "hi"}})

	var upstreamErr *UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
}

func TestChatTransportError(t *testing.T) {
	// 指向一个未监听的地址
	client, err := NewClient(config.LLMConfig{APIKey: "sk-test", BaseURL: "http://127.0.0.1:1"})
	require.NoError(t, err)

	_, err = client.Chat(context.Background(), []Message{{Role: "user", Content: "hi"}})

	var upstreamErr *UpstreamError
	require.ErrorAs(t, err, &upstreamErr)
	require.NotNil(t, upstreamErr.Err)
}

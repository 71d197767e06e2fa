package ai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type capturedRequest struct {
	path          string
	authorization string
	body          chatCompletionRequest
}

func completionServer(t *testing.T, status int, reply string) (*httptest.Server, *capturedRequest) {
	t.Helper()
	captured := &capturedRequest{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured.path = r.URL.Path
		captured.authorization = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&captured.body))

		w.WriteHeader(status)
		_, _ = w.Write([]byte(reply))
	}))
	t.Cleanup(srv.Close)
	return srv, captured
}

func newTestGroq(t *testing.T, baseURL string, timeout time.Duration) *GroqAdapter {
	t.Helper()
	a, err := NewGroqAdapter(baseURL, "test-key", Params{Model: "llama3-8b-8192", MaxTokens: 1000, Temperature: 0.7}, timeout)
	require.NoError(t, err)
	return a
}

func TestGroqGenerate(t *testing.T) {
	srv, captured := completionServer(t, http.StatusOK,
		`{"choices":[{"message":{"role":"assistant","content":"The Classic T-Shirt sells best."}}]}`)
	a := newTestGroq(t, srv.URL+"/", time.Second)

	history := []Turn{{Role: "user", Content: "hi"}, {Role: "assistant", Content: "hello"}}
	text, err := a.Generate(context.Background(), "system prompt", history, "what sells best?")
	require.NoError(t, err)
	assert.Equal(t, "The Classic T-Shirt sells best.", text)

	assert.Equal(t, "/chat/completions", captured.path)
	assert.Equal(t, "Bearer test-key", captured.authorization)
	assert.Equal(t, "llama3-8b-8192", captured.body.Model)
	assert.Equal(t, 1000, captured.body.MaxTokens)
	assert.InDelta(t, 0.7, captured.body.Temperature, 1e-9)
	assert.False(t, captured.body.Stream)
	assert.Equal(t, []Turn{
		{Role: "system", Content: "system prompt"},
		{Role: "user", Content: "hi"},
		{Role: "assistant", Content: "hello"},
		{Role: "user", Content: "what sells best?"},
	}, captured.body.Messages)
}

func TestGroqClarify(t *testing.T) {
	srv, captured := completionServer(t, http.StatusOK,
		`{"choices":[{"message":{"content":"Could you share your order number?"}}]}`)
	a := newTestGroq(t, srv.URL, time.Second)

	text, err := a.Clarify(context.Background(), "where is my order", "order ID")
	require.NoError(t, err)
	assert.Equal(t, "Could you share your order number?", text)

	assert.Equal(t, DefaultClarifyMaxTokens, captured.body.MaxTokens)
	require.Len(t, captured.body.Messages, 2)
	assert.Equal(t, clarifySystemPrompt, captured.body.Messages[0].Content)
	assert.Contains(t, captured.body.Messages[1].Content, `The user asked: "where is my order"`)
	assert.Contains(t, captured.body.Messages[1].Content, "I'm missing: order ID")
}

func TestGroqErrors(t *testing.T) {
	t.Run("non-success status", func(t *testing.T) {
		srv, _ := completionServer(t, http.StatusTooManyRequests, `{"error":"rate limited"}`)
		_, err := newTestGroq(t, srv.URL, time.Second).Generate(context.Background(), "s", nil, "hi")

		var statusErr *StatusError
		require.ErrorAs(t, err, &statusErr)
		assert.Equal(t, http.StatusTooManyRequests, statusErr.Code)
		assert.Contains(t, statusErr.Body, "rate limited")
	})

	t.Run("no choices", func(t *testing.T) {
		srv, _ := completionServer(t, http.StatusOK, `{"choices":[]}`)
		_, err := newTestGroq(t, srv.URL, time.Second).Generate(context.Background(), "s", nil, "hi")
		assert.ErrorIs(t, err, ErrEmptyResponse)
	})

	t.Run("malformed body", func(t *testing.T) {
		srv, _ := completionServer(t, http.StatusOK, `not json`)
		_, err := newTestGroq(t, srv.URL, time.Second).Generate(context.Background(), "s", nil, "hi")
		assert.Error(t, err)
	})

	t.Run("timeout", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		}))
		t.Cleanup(srv.Close)

		start := time.Now()
		_, err := newTestGroq(t, srv.URL, 50*time.Millisecond).Generate(context.Background(), "s", nil, "hi")
		assert.Error(t, err)
		assert.Less(t, time.Since(start), time.Second)
	})

	t.Run("canceled context", func(t *testing.T) {
		srv, _ := completionServer(t, http.StatusOK, `{"choices":[{"message":{"content":"late"}}]}`)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := newTestGroq(t, srv.URL, time.Second).Generate(ctx, "s", nil, "hi")
		assert.True(t, errors.Is(err, context.Canceled))
	})
}

func TestNewGroqAdapterDefaults(t *testing.T) {
	_, err := NewGroqAdapter("", "", Params{}, 0)
	assert.ErrorIs(t, err, ErrNoCredential)

	a, err := NewGroqAdapter("", "key", Params{}, 0)
	require.NoError(t, err)
	assert.Equal(t, "https://api.groq.com/openai/v1", a.baseURL)
	assert.Equal(t, "llama3-8b-8192", a.params.Model)
	assert.Equal(t, DefaultClarifyMaxTokens, a.params.ClarifyMaxTokens)
	assert.Equal(t, 30*time.Second, a.client.Timeout)
}

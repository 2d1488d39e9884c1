package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(handler http.HandlerFunc) (*OpenAIClient, *httptest.Server) {
	srv := httptest.NewServer(handler)
	client := NewOpenAIClient(ClientConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL,
	})
	return client, srv
}

func TestComplete_Success(t *testing.T) {
	var gotAuth string
	var gotReq ChatRequest

	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))

		json.NewEncoder(w).Encode(ChatResponse{
			ID:    "chatcmpl-1",
			Model: "gpt-4o",
			Choices: []Choice{
				{Message: Message{Role: "assistant", Content: `{"category": "GIT"}`}, FinishReason: "stop"},
			},
		})
	})
	defer srv.Close()

	req := &ChatRequest{
		Model:       "gpt-4o",
		Messages:    []Message{SystemMessage("sys"), UserMessage("hello")},
		Temperature: 0.5,
	}
	resp, err := client.Complete(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, "Bearer test-key", gotAuth)
	assert.Equal(t, "gpt-4o", gotReq.Model)
	assert.InDelta(t, 0.5, gotReq.Temperature, 0.001)

	content, err := resp.Content()
	require.NoError(t, err)
	assert.Equal(t, `{"category": "GIT"}`, content)
}

func TestComplete_HTTPErrorCarriesStatusAndBody(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error": {"message": "boom", "type": "server_error"}}`))
	})
	defer srv.Close()

	_, err := client.Complete(context.Background(), &ChatRequest{Model: "gpt-4o"})
	require.Error(t, err)

	perr, ok := err.(*ProviderError)
	require.True(t, ok)
	assert.Equal(t, http.StatusInternalServerError, perr.StatusCode)
	assert.Equal(t, "boom", perr.Message)
	assert.Contains(t, perr.Body, "server_error")
}

func TestComplete_RateLimitAndAuthCodes(t *testing.T) {
	tests := []struct {
		status int
		check  func(error) bool
	}{
		{http.StatusTooManyRequests, IsRateLimitError},
		{http.StatusUnauthorized, IsAuthError},
	}

	for _, tt := range tests {
		client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
			w.Write([]byte(`{"error": {"message": "denied", "type": "x"}}`))
		})

		_, err := client.Complete(context.Background(), &ChatRequest{Model: "gpt-4o"})
		srv.Close()

		require.Error(t, err)
		assert.True(t, tt.check(err))
	}
}

func TestComplete_NonJSONErrorBody(t *testing.T) {
	client, srv := newTestClient(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte("upstream unavailable"))
	})
	defer srv.Close()

	_, err := client.Complete(context.Background(), &ChatRequest{Model: "gpt-4o"})
	require.Error(t, err)

	perr, ok := err.(*ProviderError)
	require.True(t, ok)
	assert.Equal(t, "http_502", perr.Code)
	assert.Equal(t, "upstream unavailable", perr.Body)
}

func TestContent_NoChoices(t *testing.T) {
	resp := &ChatResponse{}
	_, err := resp.Content()
	assert.Error(t, err)
}

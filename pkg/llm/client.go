// Package llm provides the typed HTTP transport to the chat-completions API.
package llm

import (
	"context"
	"fmt"
	"os"
	"time"
)

// Completer generates a chat completion. The ingestion pipeline depends on
// this interface rather than a concrete client so its logic tests without a
// live endpoint.
type Completer interface {
	// Complete sends the request and returns the decoded response.
	Complete(ctx context.Context, req *ChatRequest) (*ChatResponse, error)
}

// ChatRequest is the wire form of a chat-completions request.
type ChatRequest struct {
	// Model is the model identifier.
	Model string `json:"model"`

	// Messages is the conversation: a system instruction plus the user
	// prompt.
	Messages []Message `json:"messages"`

	// Temperature controls randomness (0-1).
	Temperature float64 `json:"temperature"`
}

// ChatResponse is the wire form of a chat-completions response.
type ChatResponse struct {
	ID      string   `json:"id"`
	Model   string   `json:"model"`
	Choices []Choice `json:"choices"`
	Usage   Usage    `json:"usage"`
}

// Choice is one completion alternative.
type Choice struct {
	Index        int     `json:"index"`
	Message      Message `json:"message"`
	FinishReason string  `json:"finish_reason"`
}

// Usage tracks token consumption.
type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

// Message is a single chat message.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// SystemMessage creates a system message.
func SystemMessage(content string) Message {
	return Message{Role: "system", Content: content}
}

// UserMessage creates a user message.
func UserMessage(content string) Message {
	return Message{Role: "user", Content: content}
}

// Content returns the text of the first choice.
func (r *ChatResponse) Content() (string, error) {
	if len(r.Choices) == 0 {
		return "", fmt.Errorf("response contains no choices")
	}
	return r.Choices[0].Message.Content, nil
}

// ClientConfig configures the OpenAI client.
type ClientConfig struct {
	APIKey  string
	BaseURL string
	Timeout time.Duration
}

// DefaultClientConfig returns the default client configuration, reading the
// API key from the environment.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		APIKey:  os.Getenv("OPENAI_API_KEY"),
		BaseURL: "https://api.openai.com/v1",
		Timeout: 2 * time.Minute,
	}
}

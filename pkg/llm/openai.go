package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// OpenAIClient talks to the OpenAI chat-completions endpoint.
type OpenAIClient struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

// NewOpenAIClient creates a client from the given configuration.
func NewOpenAIClient(cfg ClientConfig) *OpenAIClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = "https://api.openai.com/v1"
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 2 * time.Minute
	}

	return &OpenAIClient{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
	}
}

// Complete sends the request and decodes the response.
func (c *OpenAIClient) Complete(ctx context.Context, req *ChatRequest) (*ChatResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, c.parseError(resp.StatusCode, respBody)
	}

	var chatResp ChatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}

	return &chatResp, nil
}

type openAIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}

type openAIErrorResponse struct {
	Error openAIError `json:"error"`
}

// parseError builds a ProviderError from a non-200 response, keeping the
// raw body so failures can be diagnosed offline from the log.
func (c *OpenAIClient) parseError(statusCode int, body []byte) error {
	perr := &ProviderError{
		StatusCode: statusCode,
		Body:       string(body),
	}

	var errResp openAIErrorResponse
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Error.Message != "" {
		perr.Code = errResp.Error.Type
		perr.Message = errResp.Error.Message
	} else {
		perr.Code = fmt.Sprintf("http_%d", statusCode)
		perr.Message = string(body)
	}

	switch statusCode {
	case http.StatusTooManyRequests:
		perr.Code = "rate_limit"
	case http.StatusUnauthorized:
		perr.Code = "authentication_error"
	}

	return perr
}

// Package formatter asks the language model to generalize a raw command
// into a structured shortcut candidate.
package formatter

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/ternarybob/arbor"

	"github.com/cmdshelf/cmdshelf/pkg/llm"
	"github.com/cmdshelf/cmdshelf/pkg/store"
)

// displayLimit caps how much of a payload is echoed to the terminal. The
// durable log always receives the full payloads.
const displayLimit = 150

// Reporter receives the compacted interactive view of request and response
// payloads. A nil Reporter disables interactive echo.
type Reporter interface {
	Info(msg string)
}

// Formatter builds the prompt, invokes the model, and returns the raw
// response text.
type Formatter struct {
	client      llm.Completer
	model       string
	temperature float64
	log         arbor.ILogger
	reporter    Reporter
}

// New creates a formatter. reporter may be nil.
func New(client llm.Completer, model string, temperature float64, log arbor.ILogger, reporter Reporter) *Formatter {
	return &Formatter{
		client:      client,
		model:       model,
		temperature: temperature,
		log:         log,
		reporter:    reporter,
	}
}

// Format asks the model to generalize rawCommand into a shortcut candidate,
// using the store as read-only context. It returns the model's raw text;
// parsing and validation belong to the workflow.
func (f *Formatter) Format(ctx context.Context, rawCommand string, st *store.Store) (string, error) {
	prompt, err := buildPrompt(rawCommand, st)
	if err != nil {
		return "", err
	}

	req := &llm.ChatRequest{
		Model: f.model,
		Messages: []llm.Message{
			llm.SystemMessage(systemPrompt),
			llm.UserMessage(prompt),
		},
		Temperature: f.temperature,
	}

	reqJSON, err := json.MarshalIndent(req, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal request for logging: %w", err)
	}
	f.log.Info().Str("payload", string(reqJSON)).Msg("chat-completions request")
	f.report("request: model=%s prompt=%s", f.model, compact(prompt))

	resp, err := f.client.Complete(ctx, req)
	if err != nil {
		f.log.Error().Err(err).Msg("chat-completions request failed")
		return "", fmt.Errorf("format command: %w", err)
	}

	respJSON, err := json.MarshalIndent(resp, "", "  ")
	if err == nil {
		f.log.Info().Str("payload", string(respJSON)).Msg("chat-completions response")
	}

	content, err := resp.Content()
	if err != nil {
		f.log.Error().Err(err).Msg("chat-completions response unusable")
		return "", fmt.Errorf("format command: %w", err)
	}

	f.report("response: finish=%s content=%s", resp.Choices[0].FinishReason, compact(content))
	return content, nil
}

func (f *Formatter) report(format string, args ...any) {
	if f.reporter != nil {
		f.reporter.Info(fmt.Sprintf(format, args...))
	}
}

// compact collapses whitespace and truncates for one-line terminal display.
func compact(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if len(s) > displayLimit {
		return s[:displayLimit] + "..."
	}
	return s
}

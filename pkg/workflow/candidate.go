package workflow

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cmdshelf/cmdshelf/pkg/store"
)

// Candidate is the model's proposed shortcut before any validation or
// approval. It is the only typed boundary for LLM output: past this point
// nothing operates on untyped JSON.
type Candidate struct {
	Category     string `json:"category"`
	Command      string `json:"command"`
	Description  string `json:"description"`
	UsageExample string `json:"usage example"`
}

// Entry converts the candidate to a store entry, dropping the category,
// which is implied by its position in the store.
func (c Candidate) Entry() store.Entry {
	return store.Entry{
		Command:      c.Command,
		Description:  c.Description,
		UsageExample: c.UsageExample,
	}
}

// parseCandidate decodes the model's raw text into a candidate. A fenced
// code wrapper is stripped best-effort first; on fence mismatch the text is
// parsed as-is.
func parseCandidate(raw string) (Candidate, error) {
	text := stripFence(raw)

	var c Candidate
	if err := json.Unmarshal([]byte(text), &c); err != nil {
		return Candidate{}, fmt.Errorf("%w: %v", ErrMalformedOutput, err)
	}
	if c.Command == "" {
		return Candidate{}, fmt.Errorf("%w: missing command template", ErrMalformedOutput)
	}
	return c, nil
}

// stripFence removes a surrounding markdown code fence. Fence handling is
// best-effort: anything that does not look like a complete fence is
// returned unchanged (minus outer whitespace) and left to the JSON parser.
func stripFence(s string) string {
	t := strings.TrimSpace(s)
	if !strings.HasPrefix(t, "```") {
		return t
	}

	nl := strings.Index(t, "\n")
	if nl < 0 {
		return t
	}
	body := t[nl+1:]

	end := strings.LastIndex(body, "```")
	if end < 0 {
		return t
	}
	return strings.TrimSpace(body[:end])
}

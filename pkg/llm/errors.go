package llm

import (
	"errors"
	"fmt"
)

// ProviderError is a transport-level failure from the completions endpoint.
// It carries the HTTP status and raw body for diagnostics.
type ProviderError struct {
	StatusCode int
	Code       string
	Message    string
	Body       string
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("openai: HTTP %d: %s (%s)", e.StatusCode, e.Message, e.Code)
}

// IsRateLimitError reports whether the error is a rate-limit rejection.
func IsRateLimitError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Code == "rate_limit"
}

// IsAuthError reports whether the error is an authentication failure.
func IsAuthError(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Code == "authentication_error"
}

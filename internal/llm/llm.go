// Package llm wraps the generative model provider behind a small interface so
// the insight pipeline can be exercised with fakes.
package llm

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"
)

// Request is one system+user exchange with a named model.
type Request struct {
	Model       string
	System      string
	Prompt      string
	Temperature float64
}

// Generator produces free text for a request.
type Generator interface {
	Generate(ctx context.Context, req Request) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, req Request) (string, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}

// ProviderError carries the HTTP status reported by the provider.
type ProviderError struct {
	Code    int
	Message string
}

func (e *ProviderError) Error() string {
	return "Error " + strconv.Itoa(e.Code) + ", Message: " + e.Message
}

// statusRegex matches the "Error 404, Message: ..." prefix genai errors carry.
var statusRegex = regexp.MustCompile(`Error (\d{3})`)

// HTTPStatus extracts the provider HTTP status from err, or 0 when unknown.
func HTTPStatus(err error) int {
	if err == nil {
		return 0
	}
	if pe, ok := asProviderError(err); ok {
		return pe.Code
	}
	m := statusRegex.FindStringSubmatch(err.Error())
	if len(m) < 2 {
		return 0
	}
	code, convErr := strconv.Atoi(m[1])
	if convErr != nil {
		return 0
	}
	return code
}

// IsRateLimitError reports a 429 or quota exhaustion.
func IsRateLimitError(err error) bool {
	if err == nil {
		return false
	}
	if HTTPStatus(err) == 429 {
		return true
	}
	s := err.Error()
	return strings.Contains(s, "RESOURCE_EXHAUSTED") || strings.Contains(strings.ToLower(s), "quota")
}

// ShouldFallback reports whether a primary-model failure warrants retrying
// with the secondary model (400, 404, 501).
func ShouldFallback(err error) bool {
	switch HTTPStatus(err) {
	case 400, 404, 501:
		return true
	}
	return false
}

func asProviderError(err error) (*ProviderError, bool) {
	var pe *ProviderError
	if errors.As(err, &pe) {
		return pe, true
	}
	return nil, false
}

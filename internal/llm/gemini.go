package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bobmcallan/aide-portal/internal/common"
	"github.com/bobmcallan/aide-portal/internal/config"
	"google.golang.org/genai"
)

// ErrNotConfigured is returned when no API key is available.
var ErrNotConfigured = errors.New("gemini api key not configured")

// GeminiGenerator implements Generator with the Gemini API.
type GeminiGenerator struct {
	client  *genai.Client
	logger  *common.Logger
	timeout time.Duration
}

// NewGeminiGenerator creates a generator. It returns ErrNotConfigured when
// cfg carries no API key so callers can fail fast before any request.
func NewGeminiGenerator(ctx context.Context, logger *common.Logger, cfg *config.GeminiConfig) (*GeminiGenerator, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrNotConfigured
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize genai client: %w", err)
	}

	logger.Info().
		Str("primary_model", cfg.PrimaryModel).
		Str("fallback_model", cfg.FallbackModel).
		Dur("timeout", cfg.GetTimeout()).
		Msg("Gemini generator initialized")

	return &GeminiGenerator{client: client, logger: logger, timeout: cfg.GetTimeout()}, nil
}

// Generate sends one generateContent call and joins the text parts of the reply.
func (g *GeminiGenerator) Generate(ctx context.Context, req Request) (string, error) {
	if req.Prompt == "" {
		return "", fmt.Errorf("prompt cannot be empty")
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	genCfg := &genai.GenerateContentConfig{
		Temperature: genai.Ptr(float32(req.Temperature)),
	}
	if req.System != "" {
		genCfg.SystemInstruction = &genai.Content{
			Parts: []*genai.Part{{Text: req.System}},
		}
	}

	start := time.Now()
	result, err := g.client.Models.GenerateContent(timeoutCtx, req.Model, genai.Text(req.Prompt), genCfg)
	if err != nil {
		var apiErr genai.APIError
		if errors.As(err, &apiErr) {
			err = &ProviderError{Code: apiErr.Code, Message: apiErr.Message}
		}
		g.logger.Error().Str("model", req.Model).Int("status", HTTPStatus(err)).Err(err).Msg("Gemini generation failed")
		return "", fmt.Errorf("gemini generation failed: %w", err)
	}

	text := result.Text()
	g.logger.Debug().
		Str("model", req.Model).
		Int("response_length", len(text)).
		Dur("duration", time.Since(start)).
		Msg("Gemini generation completed")
	return text, nil
}

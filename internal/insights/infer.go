package insights

import (
	"context"
	"unicode/utf8"

	"github.com/bobmcallan/aide-portal/internal/common"
	"github.com/bobmcallan/aide-portal/internal/llm"
	"github.com/bobmcallan/aide-portal/internal/symbols"
)

// minInferenceRunes is the shortest identifier worth asking the model about.
const minInferenceRunes = 2

// InferTicker asks the model which listed company identifier refers to.
// It never fails: any provider or parse problem yields ok == false.
func (s *Service) InferTicker(ctx context.Context, identifier string) (ticker, company string, ok bool) {
	if s.generator == nil || utf8.RuneCountInString(identifier) < minInferenceRunes {
		return "", "", false
	}
	logger := common.ForContext(ctx, s.logger)

	text, err := s.generator.Generate(ctx, llm.Request{
		Model:       s.opts.InferenceModel,
		System:      inferenceSystemPrompt,
		Prompt:      buildInferencePrompt(identifier),
		Temperature: 0,
	})
	if err != nil {
		logger.Warn().Str("identifier", identifier).Err(err).Msg("Ticker inference failed")
		return "", "", false
	}

	inf := parseInference(text)
	if inf.Ticker == "" {
		logger.Debug().Str("identifier", identifier).Msg("Ticker inference returned nothing")
		return "", inf.Company, false
	}

	ticker = symbols.NormalizeTicker(inf.Ticker)
	logger.Info().
		Str("identifier", identifier).
		Str("ticker", ticker).
		Str("company", inf.Company).
		Msg("Ticker inferred")
	return ticker, inf.Company, true
}

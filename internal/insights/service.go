// Package insights turns a ticker or company name into an insight record:
// identity resolution, model generation, field validation and enrichment.
package insights

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bobmcallan/aide-portal/internal/common"
	"github.com/bobmcallan/aide-portal/internal/config"
	"github.com/bobmcallan/aide-portal/internal/interfaces"
	"github.com/bobmcallan/aide-portal/internal/llm"
	"github.com/bobmcallan/aide-portal/internal/market"
	"github.com/bobmcallan/aide-portal/internal/models"
	"github.com/bobmcallan/aide-portal/internal/symbols"
	"github.com/bobmcallan/aide-portal/internal/wikitext"
)

// maxListItems caps strengths, risks and outlook.
const maxListItems = 3

// State names one step of the insight pipeline.
type State string

const (
	StateMockHit                 State = "MOCK_HIT"
	StateCacheHit                State = "CACHE_HIT"
	StateResolveProfile          State = "RESOLVE_PROFILE"
	StateBuildPrompt             State = "BUILD_PROMPT"
	StateCallPrimaryModel        State = "CALL_PRIMARY_MODEL"
	StateCallFallbackModel       State = "CALL_FALLBACK_MODEL"
	StateParseJSON               State = "PARSE_JSON"
	StateValidateRequiredFields  State = "VALIDATE_REQUIRED_FIELDS"
	StateEnforceIdentity         State = "ENFORCE_IDENTITY"
	StateReconcileRepresentative State = "RECONCILE_REPRESENTATIVE"
	StatePatchDerivedFields      State = "PATCH_DERIVED_FIELDS"
	StateFetchLogo               State = "FETCH_LOGO"
	StateCacheWrite              State = "CACHE_WRITE"
	StateDone                    State = "DONE"
)

type stateFunc func(ctx context.Context, r *run) (State, error)

// Options tunes the pipeline.
type Options struct {
	PrimaryModel   string
	FallbackModel  string
	InferenceModel string
	Temperature    float64
	// MockDelay is the artificial latency applied to demo records.
	MockDelay time.Duration
	// Now overrides the clock used for the reference year.
	Now func() time.Time
}

// OptionsFromConfig derives pipeline options from application config.
func OptionsFromConfig(cfg *config.Config) Options {
	return Options{
		PrimaryModel:   cfg.Gemini.PrimaryModel,
		FallbackModel:  cfg.Gemini.FallbackModel,
		InferenceModel: cfg.Gemini.InferenceModel,
		Temperature:    cfg.Gemini.Temperature,
		MockDelay:      cfg.Insights.GetMockDelay(),
	}
}

// Deps are the collaborators of the pipeline. Registry, Wiki and Logos may be
// nil. A nil Generator means no model key is configured.
type Deps struct {
	Cache     interfaces.InsightCache
	Profiles  ProfileResolver
	Registry  RegistryLookup
	Wiki      WikiLookup
	Logos     LogoFinder
	Generator llm.Generator
}

// Service runs the insight pipeline.
type Service struct {
	logger    *common.Logger
	cache     interfaces.InsightCache
	profiles  ProfileResolver
	registry  RegistryLookup
	wiki      WikiLookup
	logos     LogoFinder
	generator llm.Generator
	opts      Options
	states    map[State]stateFunc
}

// NewService creates the pipeline.
func NewService(logger *common.Logger, deps Deps, opts Options) *Service {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.InferenceModel == "" {
		opts.InferenceModel = opts.PrimaryModel
	}
	s := &Service{
		logger:    logger,
		cache:     deps.Cache,
		profiles:  deps.Profiles,
		registry:  deps.Registry,
		wiki:      deps.Wiki,
		logos:     deps.Logos,
		generator: deps.Generator,
		opts:      opts,
	}
	s.states = map[State]stateFunc{
		StateMockHit:                 s.mockHit,
		StateCacheHit:                s.cacheHit,
		StateResolveProfile:          s.resolveProfile,
		StateBuildPrompt:             s.buildPrompt,
		StateCallPrimaryModel:        s.callPrimaryModel,
		StateCallFallbackModel:       s.callFallbackModel,
		StateParseJSON:               s.parseJSON,
		StateValidateRequiredFields:  s.validateRequiredFields,
		StateEnforceIdentity:         s.enforceIdentity,
		StateReconcileRepresentative: s.reconcileRepresentative,
		StatePatchDerivedFields:      s.patchDerivedFields,
		StateFetchLogo:               s.fetchLogo,
		StateCacheWrite:              s.cacheWrite,
	}
	return s
}

// run is the per-request state carried between pipeline steps.
type run struct {
	logger *common.Logger
	hint   symbols.Hint
	bypass bool
	year   int

	mock                  bool
	datasetRepresentative string

	tickerCandidate string
	companySeed     string
	profile         *models.CompanyProfile
	registryRecord  *models.RegistryRecord

	// canonical identity
	ticker  string
	company string

	prompt   string
	text     string
	analysis *analysis
	record   *models.InsightRecord
}

// Insights returns the insight record for identifier. With bypass set the
// cached record is discarded and recomputed.
func (s *Service) Insights(ctx context.Context, identifier string, bypass bool) (*models.InsightRecord, error) {
	hint := symbols.ResolveHint(identifier)
	if hint.Normalized == "" {
		return nil, ErrEmptyIdentifier
	}

	r := &run{
		logger: common.ForContext(ctx, s.logger),
		hint:   hint,
		bypass: bypass,
		year:   s.opts.Now().Year(),
	}

	start := time.Now()
	state := StateMockHit
	for state != StateDone {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		fn, ok := s.states[state]
		if !ok {
			return nil, fmt.Errorf("unknown pipeline state %s", state)
		}
		next, err := fn(ctx, r)
		if err != nil {
			r.logger.Warn().
				Str("identifier", hint.Normalized).
				Str("state", string(state)).
				Err(err).
				Msg("Insight pipeline failed")
			return nil, err
		}
		r.logger.Trace().Str("state", string(state)).Str("next", string(next)).Msg("Pipeline transition")
		state = next
	}

	r.logger.Info().
		Str("identifier", hint.Normalized).
		Str("ticker", r.record.Ticker).
		Bool("mock", r.mock).
		Dur("duration", time.Since(start)).
		Msg("Insight ready")
	return r.record.Clone(), nil
}

func (s *Service) mockHit(ctx context.Context, r *run) (State, error) {
	candidates := []string{r.hint.HintCompany, r.hint.HintTicker, r.hint.TickerLike, r.hint.Normalized}
	for _, c := range candidates {
		rec, ok := findMock(c)
		if !ok {
			continue
		}
		r.logger.Debug().Str("ticker", rec.Ticker).Dur("delay", s.opts.MockDelay).Msg("Demo record matched")
		if err := sleepContext(ctx, s.opts.MockDelay); err != nil {
			return "", err
		}
		r.mock = true
		r.record = rec
		r.datasetRepresentative = rec.Representative
		r.companySeed = rec.Company
		r.tickerCandidate = symbols.NormalizeTicker(firstNonEmpty(r.hint.HintTicker, rec.Ticker, r.hint.Normalized))
		return StateResolveProfile, nil
	}
	return StateCacheHit, nil
}

func (s *Service) cacheHit(ctx context.Context, r *run) (State, error) {
	key := r.hint.CacheKey
	if r.bypass {
		if err := s.cache.Delete(ctx, key); err != nil {
			r.logger.Warn().Str("key", key).Err(err).Msg("Cache delete failed")
		}
	} else {
		rec, ok, err := s.cache.Get(ctx, key)
		if err != nil {
			r.logger.Warn().Str("key", key).Err(err).Msg("Cache read failed")
		}
		if ok {
			r.logger.Debug().Str("key", key).Msg("Insight cache hit")
			r.record = rec
			return StateDone, nil
		}
	}

	if s.generator == nil {
		return "", ErrMissingAPIKey
	}
	r.tickerCandidate = r.hint.HintTicker
	r.companySeed = r.hint.HintCompany
	return StateResolveProfile, nil
}

func (s *Service) resolveProfile(ctx context.Context, r *run) (State, error) {
	if r.tickerCandidate != "" {
		r.profile = s.fetchProfile(ctx, r, r.tickerCandidate)
	}

	// Alias and demo identities are already resolved; only free text searches.
	if r.profile == nil && !r.mock && r.hint.HintCompany == "" {
		res := s.profiles.SearchProfile(ctx, r.hint.Normalized, r.hint.TickerLike)
		switch {
		case res.OK():
			r.tickerCandidate = res.Value.Symbol
			if full := s.fetchProfile(ctx, r, res.Value.Symbol); full != nil {
				r.profile = full
			} else {
				r.profile = res.Value
			}
		default:
			if res.Status == market.StatusFailed {
				r.logger.Warn().Str("query", r.hint.Normalized).Err(res.Err).Msg("Company search failed")
			}
			if ticker, company, ok := s.InferTicker(ctx, r.hint.Normalized); ok {
				r.tickerCandidate = ticker
				if r.companySeed == "" {
					r.companySeed = company
				}
				r.profile = s.fetchProfile(ctx, r, ticker)
			}
		}
	}

	var symbol, longName string
	if r.profile != nil {
		symbol = r.profile.Symbol
		longName = r.profile.DisplayName()
	}
	r.ticker = symbols.NormalizeTicker(firstNonEmpty(symbol, r.tickerCandidate, r.hint.Normalized))
	r.company = firstNonEmpty(wikitext.Sanitize(longName), wikitext.Sanitize(r.companySeed), r.hint.Normalized)

	r.logger.Debug().
		Str("ticker", r.ticker).
		Str("company", r.company).
		Bool("profile", r.profile != nil).
		Msg("Identity resolved")

	if r.mock {
		return StateEnforceIdentity, nil
	}
	return StateBuildPrompt, nil
}

func (s *Service) fetchProfile(ctx context.Context, r *run, ticker string) *models.CompanyProfile {
	res := s.profiles.FetchProfile(ctx, ticker)
	switch res.Status {
	case market.StatusFound:
		return res.Value
	case market.StatusFailed:
		r.logger.Warn().Str("ticker", ticker).Err(res.Err).Msg("Profile lookup failed")
	}
	return nil
}

func (s *Service) buildPrompt(_ context.Context, r *run) (State, error) {
	r.prompt = buildInsightPrompt(r.company, r.ticker, r.profile, r.year)
	return StateCallPrimaryModel, nil
}

func (s *Service) callPrimaryModel(ctx context.Context, r *run) (State, error) {
	text, err := s.generate(ctx, r, s.opts.PrimaryModel)
	if err != nil {
		if llm.ShouldFallback(err) && s.opts.FallbackModel != "" && s.opts.FallbackModel != s.opts.PrimaryModel {
			r.logger.Warn().
				Str("model", s.opts.PrimaryModel).
				Str("fallback", s.opts.FallbackModel).
				Int("status", llm.HTTPStatus(err)).
				Msg("Primary model unavailable, retrying with fallback")
			return StateCallFallbackModel, nil
		}
		return "", classifyModelError(err)
	}
	r.text = text
	return StateParseJSON, nil
}

func (s *Service) callFallbackModel(ctx context.Context, r *run) (State, error) {
	text, err := s.generate(ctx, r, s.opts.FallbackModel)
	if err != nil {
		return "", classifyModelError(err)
	}
	r.text = text
	return StateParseJSON, nil
}

func (s *Service) generate(ctx context.Context, r *run, model string) (string, error) {
	text, err := s.generator.Generate(ctx, llm.Request{
		Model:       model,
		System:      analystSystemPrompt,
		Prompt:      r.prompt,
		Temperature: s.opts.Temperature,
	})
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}

func classifyModelError(err error) error {
	switch {
	case errors.Is(err, ErrEmptyResponse):
		return err
	case llm.IsRateLimitError(err):
		return fmt.Errorf("%w: %v", ErrRateLimited, err)
	default:
		return fmt.Errorf("model generation failed: %w", err)
	}
}

func (s *Service) parseJSON(_ context.Context, r *run) (State, error) {
	a, err := parseAnalysis(r.text)
	if err != nil {
		r.logger.Debug().Int("response_length", len(r.text)).Msg("Unparseable model response")
		return "", err
	}
	r.analysis = a
	return StateValidateRequiredFields, nil
}

func (s *Service) validateRequiredFields(_ context.Context, r *run) (State, error) {
	if err := validateAnalysis(r.analysis); err != nil {
		return "", err
	}
	r.record = r.analysis.record()
	return StateEnforceIdentity, nil
}

func (s *Service) enforceIdentity(_ context.Context, r *run) (State, error) {
	r.record.Ticker = r.ticker
	r.record.Company = r.company
	return StateReconcileRepresentative, nil
}

func (s *Service) reconcileRepresentative(ctx context.Context, r *run) (State, error) {
	values := map[string]string{
		SourceDataset: r.datasetRepresentative,
	}
	if !r.mock && r.analysis != nil {
		values[SourceModel] = r.analysis.Representative
	}

	if r.profile != nil {
		if officer, ok := SelectPrimaryOfficer(r.profile.Officers); ok {
			values[SourceOverride] = wikitext.ComposeRepresentative(officer.Name, officer.Title)
		}
	}

	if s.registry != nil {
		rec, err := s.registry.Lookup(ctx, r.ticker, r.bypass)
		if err != nil {
			r.logger.Warn().Str("ticker", r.ticker).Err(err).Msg("Registry lookup failed")
		}
		if rec != nil {
			r.registryRecord = rec
			values[SourceRegistry] = wikitext.ComposeRepresentative(rec.RepresentativeName, rec.RepresentativeTitle)
		}
	}

	if values[SourceOverride] == "" && s.wiki != nil {
		if officer, ok := s.wiki.Representative(ctx, r.company, r.ticker); ok {
			values[SourceWikipedia] = wikitext.ComposeRepresentative(officer.Name, officer.Title)
		}
	}

	if s.logos != nil {
		values[SourceMarketProfile] = s.logos.ChiefExecutive(ctx, r.ticker)
	}

	value, source := ReconcileRepresentative(RepresentativeCandidates(values), r.year)
	r.record.Representative = value
	r.logger.Debug().Str("ticker", r.ticker).Str("source", source).Msg("Representative reconciled")
	return StatePatchDerivedFields, nil
}

func (s *Service) patchDerivedFields(_ context.Context, r *run) (State, error) {
	rec := r.record
	rec.Strengths = truncateList(rec.Strengths)
	rec.Risks = truncateList(rec.Risks)
	rec.Outlook = truncateList(rec.Outlook)
	rec.Score = clampScore(rec.Score)

	if strings.TrimSpace(rec.LastUpdated) == "" {
		rec.LastUpdated = fmt.Sprintf("%d年時点", r.year)
	}

	var headquarters, website string
	if r.profile != nil {
		headquarters = r.profile.Headquarters
		website = market.NormalizeWebsite(r.profile.Website)
	}
	if strings.TrimSpace(rec.Location) == "" {
		rec.Location = headquarters
		if rec.Location == "" && r.registryRecord != nil {
			rec.Location = r.registryRecord.HeadOfficeAddress
		}
	}
	if strings.TrimSpace(rec.Capital) == "" && r.registryRecord != nil {
		rec.Capital = r.registryRecord.CapitalStock
	}
	rec.Website = firstNonEmpty(website, market.NormalizeWebsite(rec.Website))
	return StateFetchLogo, nil
}

func (s *Service) fetchLogo(ctx context.Context, r *run) (State, error) {
	if s.logos != nil {
		if logo := s.logos.Resolve(ctx, r.record.Ticker, r.record.Website); logo != "" {
			r.record.Logo = logo
		}
	}
	return StateCacheWrite, nil
}

func (s *Service) cacheWrite(ctx context.Context, r *run) (State, error) {
	if err := s.cache.Set(ctx, r.hint.CacheKey, r.record); err != nil {
		r.logger.Warn().Str("key", r.hint.CacheKey).Err(err).Msg("Cache write failed")
	}
	return StateDone, nil
}

func truncateList(items []string) []string {
	if len(items) > maxListItems {
		return items[:maxListItems]
	}
	return items
}

func clampScore(score int) int {
	switch {
	case score < 0:
		return 0
	case score > 100:
		return 100
	default:
		return score
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

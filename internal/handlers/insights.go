package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/bobmcallan/aide-portal/internal/common"
	"github.com/bobmcallan/aide-portal/internal/insights"
	"github.com/bobmcallan/aide-portal/internal/models"
)

// InsightService produces insight records. Implemented by *insights.Service.
type InsightService interface {
	Insights(ctx context.Context, identifier string, bypass bool) (*models.InsightRecord, error)
}

// InsightsHandler serves the insight record for a ticker or company name.
type InsightsHandler struct {
	logger  *common.Logger
	service InsightService
}

// NewInsightsHandler creates a new insights handler.
func NewInsightsHandler(logger *common.Logger, service InsightService) *InsightsHandler {
	return &InsightsHandler{logger: logger, service: service}
}

// ServeHTTP handles GET /api/insights?ticker=<id> (or q=<id>), with
// nocache=1|true|yes forcing a recompute.
func (h *InsightsHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	identifier := FirstQuery(r, "ticker", "q")
	if identifier == "" {
		WriteError(w, http.StatusBadRequest, insights.MessageEmptyIdentifier)
		return
	}
	bypass := QueryFlag(r, "nocache")

	logger := common.ForContext(r.Context(), h.logger)
	start := time.Now()

	record, err := h.service.Insights(r.Context(), identifier, bypass)
	if err != nil {
		status := InsightErrorStatus(err)
		logger.Error().
			Str("identifier", identifier).
			Bool("nocache", bypass).
			Int("status", status).
			Err(err).
			Msg("Insight request failed")
		WriteError(w, status, insights.UserMessage(err))
		return
	}

	logger.Info().
		Str("identifier", identifier).
		Str("ticker", record.Ticker).
		Bool("nocache", bypass).
		Dur("duration", time.Since(start)).
		Msg("Insight served")
	WriteJSON(w, http.StatusOK, record)
}

// InsightErrorStatus maps a pipeline error to an HTTP status.
func InsightErrorStatus(err error) int {
	switch {
	case errors.Is(err, insights.ErrEmptyIdentifier):
		return http.StatusBadRequest
	case errors.Is(err, insights.ErrRateLimited):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

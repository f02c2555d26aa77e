package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/bobmcallan/aide-portal/internal/common"
	"github.com/bobmcallan/aide-portal/internal/market"
	"github.com/bobmcallan/aide-portal/internal/models"
	"github.com/bobmcallan/aide-portal/internal/symbols"
)

const (
	messageTickerRequired     = "ticker パラメータを指定してください。"
	messageCompanyNotFound    = "該当する企業情報が見つかりませんでした。"
	messageCompanyInfoFailure = "企業情報の取得中にエラーが発生しました。"
)

// SnapshotSource fetches market snapshots. Implemented by *market.Client.
type SnapshotSource interface {
	Snapshot(ctx context.Context, ticker string) market.Result[*models.MarketSnapshot]
}

// CompanyInfoHandler serves profile facts plus the latest quote for a ticker.
type CompanyInfoHandler struct {
	logger  *common.Logger
	source  SnapshotSource
	nowFunc func() time.Time
}

// NewCompanyInfoHandler creates a new company info handler.
func NewCompanyInfoHandler(logger *common.Logger, source SnapshotSource) *CompanyInfoHandler {
	return &CompanyInfoHandler{logger: logger, source: source, nowFunc: time.Now}
}

// ServeHTTP handles GET /api/company-info?ticker=<ticker>.
func (h *CompanyInfoHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if !RequireMethod(w, r, http.MethodGet) {
		return
	}

	raw := FirstQuery(r, "ticker")
	if raw == "" {
		WriteError(w, http.StatusBadRequest, messageTickerRequired)
		return
	}
	ticker := symbols.NormalizeTicker(raw)
	logger := common.ForContext(r.Context(), h.logger)

	res := h.source.Snapshot(r.Context(), ticker)
	switch res.Status {
	case market.StatusFound:
		WriteJSON(w, http.StatusOK, res.Value)
	case market.StatusNotFound:
		logger.Info().Str("ticker", ticker).Msg("No company info found")
		WriteJSON(w, http.StatusOK, &models.MarketSnapshot{
			Ticker:         ticker,
			FetchTimestamp: h.nowFunc().UTC().Format(market.ISOMillis),
			ErrorMessage:   messageCompanyNotFound,
		})
	default:
		logger.Error().Str("ticker", ticker).Err(res.Err).Msg("Company info lookup failed")
		WriteError(w, http.StatusInternalServerError, messageCompanyInfoFailure)
	}
}

package mcp

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/bobmcallan/aide-portal/internal/common"
	"github.com/bobmcallan/aide-portal/internal/insights"
	"github.com/bobmcallan/aide-portal/internal/market"
	"github.com/bobmcallan/aide-portal/internal/models"
	"github.com/bobmcallan/aide-portal/internal/symbols"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// InsightService produces insight records. Implemented by *insights.Service.
type InsightService interface {
	Insights(ctx context.Context, identifier string, bypass bool) (*models.InsightRecord, error)
}

// SnapshotSource fetches market snapshots. Implemented by *market.Client.
type SnapshotSource interface {
	Snapshot(ctx context.Context, ticker string) market.Result[*models.MarketSnapshot]
}

// RegisterTools adds every tool to s and returns their names.
// snapshots may be nil, in which case get_company_info is not offered.
func RegisterTools(s *server.MCPServer, logger *common.Logger, svc InsightService, snapshots SnapshotSource) []string {
	names := []string{}

	s.AddTool(InsightsTool(), InsightsToolHandler(svc, logger))
	names = append(names, "get_company_insights")

	if snapshots != nil {
		s.AddTool(CompanyInfoTool(), CompanyInfoToolHandler(snapshots, logger))
		names = append(names, "get_company_info")
	}

	s.AddTool(VersionTool(), VersionToolHandler())
	names = append(names, "get_version")
	return names
}

// InsightsTool returns the mcp.Tool definition for get_company_insights.
func InsightsTool() mcp.Tool {
	return mcp.NewTool("get_company_insights",
		mcp.WithDescription("Generate an investment insight for a Japanese listed company: strengths, risks, outlook, a 0-100 score and company facts. Accepts a ticker (7203, 7203.T) or a company name."),
		mcp.WithString("identifier",
			mcp.Required(),
			mcp.Description("Ticker symbol or company name"),
		),
		mcp.WithBoolean("nocache",
			mcp.Description("Discard any cached insight and regenerate"),
		),
	)
}

// InsightsToolHandler runs the insight pipeline for one identifier.
func InsightsToolHandler(svc InsightService, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		identifier := strings.TrimSpace(r.GetString("identifier", ""))
		if identifier == "" {
			return errorResult(insights.MessageEmptyIdentifier), nil
		}

		record, err := svc.Insights(ctx, identifier, r.GetBool("nocache", false))
		if err != nil {
			common.ForContext(ctx, logger).Warn().
				Str("identifier", identifier).
				Err(err).
				Msg("MCP insight request failed")
			return errorResult(insights.UserMessage(err)), nil
		}
		return jsonResult(record)
	}
}

// CompanyInfoTool returns the mcp.Tool definition for get_company_info.
func CompanyInfoTool() mcp.Tool {
	return mcp.NewTool("get_company_info",
		mcp.WithDescription("Get company profile facts and the latest quote for a ticker."),
		mcp.WithString("ticker",
			mcp.Required(),
			mcp.Description("Ticker symbol, e.g. 9831 or 9831.T"),
		),
	)
}

// CompanyInfoToolHandler returns the market snapshot for a ticker.
func CompanyInfoToolHandler(src SnapshotSource, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		raw := strings.TrimSpace(r.GetString("ticker", ""))
		if raw == "" {
			return errorResult("ticker is required"), nil
		}
		ticker := symbols.NormalizeTicker(raw)

		res := src.Snapshot(ctx, ticker)
		switch res.Status {
		case market.StatusFound:
			return jsonResult(res.Value)
		case market.StatusNotFound:
			return errorResult("no company information found for " + ticker), nil
		default:
			common.ForContext(ctx, logger).Warn().Str("ticker", ticker).Err(res.Err).Msg("MCP company info failed")
			return errorResult("company information is temporarily unavailable"), nil
		}
	}
}

// errorResult creates an MCP error result.
func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}

func jsonResult(v interface{}) (*mcp.CallToolResult, error) {
	out, err := json.Marshal(v)
	if err != nil {
		return errorResult("failed to marshal result"), nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(string(out))},
	}, nil
}

// Package mcp exposes the insight pipeline as Model Context Protocol tools
// over a stateless streamable HTTP endpoint.
package mcp

import (
	"net/http"

	"github.com/bobmcallan/aide-portal/internal/common"
	"github.com/bobmcallan/aide-portal/internal/config"
	mcpserver "github.com/mark3labs/mcp-go/server"
)

// Handler is the HTTP handler for the MCP endpoint.
// It wraps mcp-go's StreamableHTTPServer and delegates to it.
type Handler struct {
	streamable *mcpserver.StreamableHTTPServer
	logger     *common.Logger
	tools      []string
}

// NewHandler creates the MCP handler and registers every tool.
func NewHandler(logger *common.Logger, insights InsightService, snapshots SnapshotSource) *Handler {
	mcpSrv := mcpserver.NewMCPServer(
		"aide-portal",
		config.GetVersion(),
		mcpserver.WithToolCapabilities(true),
	)

	tools := RegisterTools(mcpSrv, logger, insights, snapshots)

	streamable := mcpserver.NewStreamableHTTPServer(mcpSrv,
		mcpserver.WithStateLess(true),
	)

	logger.Info().
		Int("tools", len(tools)).
		Msg("MCP handler initialized")

	return &Handler{
		streamable: streamable,
		logger:     logger,
		tools:      tools,
	}
}

// Tools returns the names of the registered tools.
func (h *Handler) Tools() []string {
	out := make([]string, len(h.tools))
	copy(out, h.tools)
	return out
}

// ServeHTTP delegates to the mcp-go StreamableHTTPServer with the request
// context, which carries the correlation ID set by the middleware.
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.streamable.ServeHTTP(w, r)
}

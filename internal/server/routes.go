package server

import (
	"net/http"

	"github.com/bobmcallan/aide-portal/internal/handlers"
)

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// MCP endpoint (JSON-RPC over HTTP)
	if s.app.MCPHandler != nil {
		mux.Handle("/mcp", s.app.MCPHandler)
	}

	// API routes
	mux.Handle("/api/insights", s.app.InsightsHandler)
	mux.Handle("/api/company-info", s.app.CompanyInfoHandler)
	mux.Handle("/api/health", s.app.HealthHandler)
	mux.Handle("/api/version", s.app.VersionHandler)

	// 404 handler for everything else
	mux.HandleFunc("/", s.handleNotFound)

	return mux
}

// handleNotFound returns a JSON 404 for unmatched routes.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	handlers.WriteError(w, http.StatusNotFound, "The requested endpoint does not exist")
}

// Package mcp exposes the intent gate as Model Context Protocol tools so an
// agent can check a site or justify a visit on the user's behalf.
package mcp

import (
	"context"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	gatev1 "github.com/ppiankov/intentgate/api/gate/v1"
)

// Config holds MCP server configuration.
type Config struct {
	Name    string
	Version string
}

// Server wraps the MCP SDK server around a gate. The gate is either the
// in-process gRPC server or a client of a running daemon.
type Server struct {
	mcpServer *mcpsdk.Server
	gate      gatev1.GateServiceServer
}

// New creates an MCP server with all intentgate tools registered.
func New(gate gatev1.GateServiceServer, cfg Config) *Server {
	if cfg.Name == "" {
		cfg.Name = "intentgate"
	}
	if cfg.Version == "" {
		cfg.Version = "dev"
	}

	s := &Server{gate: gate}
	s.mcpServer = mcpsdk.NewServer(
		&mcpsdk.Implementation{
			Name:    cfg.Name,
			Version: cfg.Version,
		},
		nil,
	)

	s.registerTools()
	return s
}

// Run starts the MCP server on stdio transport. Blocks until ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcpsdk.StdioTransport{})
}

// registerTools adds all intentgate tools to the MCP server.
func (s *Server) registerTools() {
	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "intentgate_check",
		Description: "Check whether navigating to a URL is gated. AWAITING_INTENT means an intent must be submitted first.",
	}, s.handleCheck)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "intentgate_submit_intent",
		Description: "Submit a stated intent for a gated site. ACCEPTED whitelists the site for the configured number of minutes.",
	}, s.handleSubmitIntent)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "intentgate_toggle",
		Description: "Turn intent filtering on or off.",
	}, s.handleToggle)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "intentgate_block",
		Description: "Add a site to the blocked-site list, or remove it with unblock=true.",
	}, s.handleBlock)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "intentgate_status",
		Description: "Report filtering state and blocked-list membership for a URL (defaults to the active tab).",
	}, s.handleStatus)

	mcpsdk.AddTool(s.mcpServer, &mcpsdk.Tool{
		Name:        "intentgate_history",
		Description: "List recently submitted intents, newest first.",
	}, s.handleHistory)
}

// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/huangsam/aurora/core"
	"github.com/huangsam/aurora/internal/contract"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// NewMCPServer initializes and configures the Aurora MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, deps core.Dependencies) *server.MCPServer {
	s := server.NewMCPServer(
		"Aurora Brightness Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		deps:    deps,
	}

	// --- 1. Tool: retrieve_brightness ---
	s.AddTool(mcp.NewTool("retrieve_brightness",
		mcp.WithDescription("Retrieve the calibrated brightness of every auroral emission line in a reduced observing night."),
		mcp.WithString("data_path", mcp.Description("Directory holding science_observations.json.gz and flux_calibration.json.gz."), mcp.Required()),
		mcp.WithString("save_path", mcp.Description("Directory for per-line results (defaults to <data_path>/brightness).")),
		mcp.WithString("exclude", mcp.Description("Frames to leave out per line, e.g. '630.0:0,1;OI-777.4:2'. Replaces the configured frames of each line it names; other configured exclusions still apply.")),
		mcp.WithString("background", mcp.Description("Background model. Defaults to 'median'."), mcp.Enum("median", "poly")),
		mcp.WithNumber("seeing", mcp.Description("Seeing in arcsec added to the target radius.")),
		mcp.WithNumber("y_offset", mcp.Description("Aperture offset from the order center, in spatial bins.")),
		mcp.WithBoolean("extended", mcp.Description("Include the extended line catalog.")),
	), h.handleRetrieveBrightness)

	// --- 2. Tool: list_emission_lines ---
	s.AddTool(mcp.NewTool("list_emission_lines",
		mcp.WithDescription("List the emission-line groups the retrieval searches for."),
		mcp.WithBoolean("extended", mcp.Description("Include the extended line catalog.")),
	), h.handleListEmissionLines)

	// --- 3. Tool: get_line_history ---
	s.AddTool(mcp.NewTool("get_line_history",
		mcp.WithDescription("Return the most recent stored brightness results of one line group."),
		mcp.WithString("line", mcp.Description("Line ID or wavelength label, e.g. 'OI-630.0' or '630.0'."), mcp.Required()),
		mcp.WithNumber("limit", mcp.Description("Maximum number of results. Defaults to 10.")),
	), h.handleGetLineHistory)

	return s
}

// StartMCPServer starts the Aurora MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, deps core.Dependencies) error {
	s := NewMCPServer(baseCfg, deps)
	return server.ServeStdio(s)
}

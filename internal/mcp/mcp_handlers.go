package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/huangsam/aurora/core"
	"github.com/huangsam/aurora/internal/contract"
	"github.com/huangsam/aurora/schema"
	"github.com/mark3labs/mcp-go/mcp"
)

// defaultHistoryLimit bounds get_line_history when no limit is given.
const defaultHistoryLimit = 10

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	deps    core.Dependencies
}

// jsonResult marshals v as an indented text result.
func jsonResult(v any) *mcp.CallToolResult {
	jsonData, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode result: %v", err))
	}
	return mcp.NewToolResultText(string(jsonData))
}

func (h *toolHandler) handleRetrieveBrightness(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if b := request.GetString("background", ""); b != "" {
		cfg.Background = schema.BackgroundMethod(b)
	}
	if s := request.GetFloat("seeing", 0); s != 0 {
		cfg.Seeing = s
	}
	cfg.YOffset = request.GetInt("y_offset", cfg.YOffset)
	cfg.Extended = request.GetBool("extended", cfg.Extended)

	dataPath := request.GetString("data_path", "")
	savePath := request.GetString("save_path", "")
	if err := contract.RevalidateRetrieve(cfg, dataPath, savePath, request.GetString("exclude", "")); err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("invalid retrieval parameters: %v", err)), nil
	}

	summary, _, err := core.RunRetrieval(core.WithSuppressHeader(ctx), cfg, h.deps)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("retrieval failed: %v", err)), nil
	}
	return jsonResult(summary), nil
}

func (h *toolHandler) handleListEmissionLines(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(schema.AuroraLines(request.GetBool("extended", h.baseCfg.Extended))), nil
}

func (h *toolHandler) handleGetLineHistory(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	key := request.GetString("line", "")
	group, ok, err := schema.FindLineGroup(schema.AuroraLines(true), key)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	if !ok {
		return mcp.NewToolResultError(fmt.Sprintf("%q matches no emission line", key)), nil
	}

	var store contract.RunStore
	if h.deps.Runs != nil {
		store = h.deps.Runs.GetRunStore()
	}
	if store == nil {
		return mcp.NewToolResultError("run tracking is disabled"), nil
	}

	limit := request.GetInt("limit", defaultHistoryLimit)
	records, err := store.GetLineHistory(group.ID, limit)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("history lookup failed: %v", err)), nil
	}
	return jsonResult(records), nil
}

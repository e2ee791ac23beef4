package mcp

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	mcpmcp "github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/alanyang/insta-mosaic/internal/service/snapshot"
	workersvc "github.com/alanyang/insta-mosaic/internal/service/worker"
)

// RegisterTools registers all MCP tools on the server.
func RegisterTools(s *mcpserver.MCPServer, mgr *workersvc.Manager, snaps *snapshot.Service) {
	s.AddTool(mcpmcp.NewTool("list_workers",
		mcpmcp.WithDescription("List every mosaic worker with its status, hashtags and number of placed pieces."),
	), listWorkersHandler(snaps))

	s.AddTool(mcpmcp.NewTool("get_mosaic",
		mcpmcp.WithDescription("Returns the placed posts of a worker's mosaic. Set include_image to also receive the mosaic as base64 PNG."),
		mcpmcp.WithString("worker_id", mcpmcp.Required(), mcpmcp.Description("Worker UUID")),
		mcpmcp.WithBoolean("include_image", mcpmcp.Description("Include the base64 PNG in the result")),
	), getMosaicHandler(snaps))

	s.AddTool(mcpmcp.NewTool("stop_worker",
		mcpmcp.WithDescription("Stop a worker's feed polling and discard its mosaic."),
		mcpmcp.WithString("worker_id", mcpmcp.Required(), mcpmcp.Description("Worker UUID")),
	), stopWorkerHandler(mgr))

	s.AddTool(mcpmcp.NewTool("block_user",
		mcpmcp.WithDescription("Stop placing photos by this author in every worker. Already placed pieces stay."),
		mcpmcp.WithString("user_name", mcpmcp.Required(), mcpmcp.Description("Author handle")),
	), blockUserHandler(mgr))
}

// ── Tool handlers ─────────────────────────────────────────────────────────

func listWorkersHandler(snaps *snapshot.Service) mcpserver.ToolHandlerFunc {
	return func(_ context.Context, _ mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		data, _ := json.Marshal(snaps.List())
		return mcpmcp.NewToolResultText(string(data)), nil
	}
}

type mosaicResult struct {
	snapshot.View
	MosaicArt string `json:"mosaic_art,omitempty"`
}

func getMosaicHandler(snaps *snapshot.Service) mcpserver.ToolHandlerFunc {
	return func(_ context.Context, req mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		id, err := uuid.Parse(mcpmcp.ParseString(req, "worker_id", ""))
		if err != nil {
			return mcpmcp.NewToolResultText("error: invalid worker_id"), nil
		}

		view, err := snaps.Render(id)
		if err != nil {
			if errors.Is(err, workersvc.ErrNotFound) {
				return mcpmcp.NewToolResultText("error: worker not found"), nil
			}
			return mcpmcp.NewToolResultText(fmt.Sprintf("error: %s", err)), nil
		}

		out := mosaicResult{View: view}
		if mcpmcp.ParseBoolean(req, "include_image", false) {
			out.MosaicArt = base64.StdEncoding.EncodeToString(view.PNG)
		}
		data, _ := json.Marshal(out)
		return mcpmcp.NewToolResultText(string(data)), nil
	}
}

func stopWorkerHandler(mgr *workersvc.Manager) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		id, err := uuid.Parse(mcpmcp.ParseString(req, "worker_id", ""))
		if err != nil {
			return mcpmcp.NewToolResultText("error: invalid worker_id"), nil
		}

		if err := mgr.Stop(ctx, id); err != nil {
			if errors.Is(err, workersvc.ErrNotFound) {
				return mcpmcp.NewToolResultText("error: worker not found"), nil
			}
			return mcpmcp.NewToolResultText(fmt.Sprintf("error: %s", err)), nil
		}
		return mcpmcp.NewToolResultText(`{"ok":true}`), nil
	}
}

func blockUserHandler(mgr *workersvc.Manager) mcpserver.ToolHandlerFunc {
	return func(ctx context.Context, req mcpmcp.CallToolRequest) (*mcpmcp.CallToolResult, error) {
		if err := mgr.BlockUser(ctx, mcpmcp.ParseString(req, "user_name", "")); err != nil {
			return mcpmcp.NewToolResultText(fmt.Sprintf("error: %s", err)), nil
		}
		return mcpmcp.NewToolResultText(`{"ok":true}`), nil
	}
}

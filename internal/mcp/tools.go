package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// registerTools exposes the handler commands as MCP tools.
func registerTools(server *sdkmcp.Server, h *Handler) {
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "add_project",
		Description: "Add a new active project. Title and description need more than 5 characters; people is a whole number or its text form and must be strictly between the configured bounds (2-4 by default).",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, args AddProjectParams) (*sdkmcp.CallToolResult, ProjectResponse, error) {
		resp, err := h.AddProject(ctx, args)
		return nil, resp, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_projects",
		Description: "List projects in the order they were added, optionally only active or finished ones",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, args ListProjectsParams) (*sdkmcp.CallToolResult, ProjectListResponse, error) {
		resp, err := h.ListProjects(ctx, args)
		return nil, resp, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_board",
		Description: "Get the board split into active and finished columns",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, _ struct{}) (*sdkmcp.CallToolResult, BoardResponse, error) {
		resp, err := h.GetBoard(ctx)
		return nil, resp, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_project",
		Description: "Get a single project by ID",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, args GetProjectParams) (*sdkmcp.CallToolResult, ProjectResponse, error) {
		resp, err := h.GetProject(ctx, args)
		return nil, resp, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "move_project",
		Description: "Move a project to the active or finished column. Moving to the current column changes nothing.",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, args MoveProjectParams) (*sdkmcp.CallToolResult, MoveProjectResponse, error) {
		resp, err := h.MoveProject(ctx, args)
		return nil, resp, err
	})

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "get_recent_activity",
		Description: "List recent board activity, newest first",
	}, func(ctx context.Context, _ *sdkmcp.CallToolRequest, args GetRecentActivityParams) (*sdkmcp.CallToolResult, ActivityListResponse, error) {
		resp, err := h.GetRecentActivity(ctx, args)
		return nil, resp, err
	})
}

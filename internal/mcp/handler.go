package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/rpggio/projectboard/internal/domain/activity"
	"github.com/rpggio/projectboard/internal/domain/project"
)

// ProjectService defines project operations needed by MCP.
type ProjectService interface {
	Create(ctx context.Context, req project.CreateRequest) (*project.Project, error)
	Move(ctx context.Context, id string, status project.Status) (*project.Project, bool, error)
	Get(ctx context.Context, id string) (*project.Project, error)
	List(ctx context.Context, opts project.ListOptions) ([]project.Project, error)
	Board(ctx context.Context) (project.Snapshot, error)
}

// ActivityService defines activity operations needed by MCP.
type ActivityService interface {
	GetRecentActivity(ctx context.Context, opts activity.Query) ([]activity.Entry, error)
}

// Handler implements the board commands shared by the MCP tools and the
// JSON-RPC transport.
type Handler struct {
	projects ProjectService
	activity ActivityService
}

// NewHandler creates a new MCP handler.
func NewHandler(projects ProjectService, activitySvc ActivityService) *Handler {
	return &Handler{
		projects: projects,
		activity: activitySvc,
	}
}

// Handle dispatches a method call to the matching command.
func (h *Handler) Handle(ctx context.Context, method string, params json.RawMessage) (any, error) {
	switch method {
	case "add_project":
		var req AddProjectParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.AddProject(ctx, req)
	case "list_projects":
		var req ListProjectsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.ListProjects(ctx, req)
	case "get_board":
		return h.GetBoard(ctx)
	case "get_project":
		var req GetProjectParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.GetProject(ctx, req)
	case "move_project":
		var req MoveProjectParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.MoveProject(ctx, req)
	case "get_recent_activity":
		var req GetRecentActivityParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return h.GetRecentActivity(ctx, req)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, method)
	}
}

// AddProject validates the form fields and adds an active project.
func (h *Handler) AddProject(ctx context.Context, req AddProjectParams) (ProjectResponse, error) {
	people, err := peopleCount(req.People)
	if err != nil {
		return ProjectResponse{}, mapError(err)
	}
	proj, err := h.projects.Create(ctx, project.CreateRequest{
		Title:       req.Title,
		Description: req.Description,
		People:      people,
	})
	if err != nil {
		return ProjectResponse{}, mapError(err)
	}
	return ProjectResponse{Project: *proj}, nil
}

// ListProjects lists projects in insertion order.
func (h *Handler) ListProjects(ctx context.Context, req ListProjectsParams) (ProjectListResponse, error) {
	projects, err := h.projects.List(ctx, project.ListOptions{Status: req.Status})
	if err != nil {
		return ProjectListResponse{}, mapError(err)
	}
	if projects == nil {
		projects = []project.Project{}
	}
	return ProjectListResponse{Projects: projects}, nil
}

// GetBoard returns both columns.
func (h *Handler) GetBoard(ctx context.Context) (BoardResponse, error) {
	snap, err := h.projects.Board(ctx)
	if err != nil {
		return BoardResponse{}, mapError(err)
	}
	return boardResponse(snap), nil
}

func boardResponse(snap project.Snapshot) BoardResponse {
	return BoardResponse{
		Tick:     snap.Tick,
		Active:   snap.Filter(project.StatusActive),
		Finished: snap.Filter(project.StatusFinished),
	}
}

// GetProject fetches one project.
func (h *Handler) GetProject(ctx context.Context, req GetProjectParams) (ProjectResponse, error) {
	proj, err := h.projects.Get(ctx, req.ID)
	if err != nil {
		return ProjectResponse{}, mapError(err)
	}
	return ProjectResponse{Project: *proj}, nil
}

// MoveProject changes a project's status.
func (h *Handler) MoveProject(ctx context.Context, req MoveProjectParams) (MoveProjectResponse, error) {
	proj, changed, err := h.projects.Move(ctx, req.ID, req.Status)
	if err != nil {
		return MoveProjectResponse{}, mapError(err)
	}
	return MoveProjectResponse{Project: *proj, Changed: changed}, nil
}

// GetRecentActivity lists activity entries newest first.
func (h *Handler) GetRecentActivity(ctx context.Context, req GetRecentActivityParams) (ActivityListResponse, error) {
	entries, err := h.activity.GetRecentActivity(ctx, activity.Query{
		ProjectID: req.ProjectID,
		Kind:      req.Type,
		Limit:     req.Limit,
		Offset:    req.Offset,
		SinceTick: req.SinceTick,
	})
	if err != nil {
		return ActivityListResponse{}, mapError(err)
	}
	resp := make([]ActivityEntryResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, ActivityEntryResponse{
			Timestamp: entry.CreatedAt,
			Type:      entry.Kind,
			ProjectID: entry.ProjectID,
			Summary:   entry.Summary,
			Details:   entry.Details,
			Tick:      entry.Tick,
		})
	}
	return ActivityListResponse{Entries: resp}, nil
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return nil
}

// peopleCount accepts the people field as form text or as a JSON number.
func peopleCount(v any) (int, error) {
	switch n := v.(type) {
	case string:
		return project.ParsePeople(n)
	case float64:
		if n != math.Trunc(n) || math.IsInf(n, 0) {
			return 0, fmt.Errorf("%w: people must be a whole number", project.ErrInvalidInput)
		}
		return int(n), nil
	case int:
		return n, nil
	case json.Number:
		return project.ParsePeople(n.String())
	default:
		return 0, fmt.Errorf("%w: people must be a number", project.ErrInvalidInput)
	}
}

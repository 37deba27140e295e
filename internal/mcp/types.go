package mcp

import (
	"time"

	"github.com/rpggio/projectboard/internal/domain/activity"
	"github.com/rpggio/projectboard/internal/domain/project"
)

type AddProjectParams struct {
	Title       string `json:"title" jsonschema:"Project title, more than 5 characters"`
	Description string `json:"description" jsonschema:"What the project is about, more than 5 characters"`
	People      any    `json:"people" jsonschema:"Number of people needed: a whole number, or the text entered in the form"`
}

type ListProjectsParams struct {
	Status project.Status `json:"status,omitempty" jsonschema:"Only list projects with this status (active or finished)"`
}

type GetProjectParams struct {
	ID string `json:"id" jsonschema:"Project ID"`
}

type MoveProjectParams struct {
	ID     string         `json:"id" jsonschema:"Project ID"`
	Status project.Status `json:"status" jsonschema:"Target status: active or finished"`
}

type GetRecentActivityParams struct {
	ProjectID string         `json:"project_id,omitempty" jsonschema:"Only activity for this project"`
	Type      *activity.Kind `json:"type,omitempty" jsonschema:"Only activity of this type (project_created or project_moved)"`
	Limit     int            `json:"limit,omitempty" jsonschema:"Maximum number of entries"`
	Offset    int            `json:"offset,omitempty" jsonschema:"Offset for pagination"`
	SinceTick int64          `json:"since_tick,omitempty" jsonschema:"Only activity after this board tick"`
}

type ProjectResponse struct {
	Project project.Project `json:"project"`
}

type MoveProjectResponse struct {
	Project project.Project `json:"project"`
	Changed bool            `json:"changed"`
}

type ProjectListResponse struct {
	Projects []project.Project `json:"projects"`
}

type BoardResponse struct {
	Tick     int64             `json:"tick"`
	Active   []project.Project `json:"active"`
	Finished []project.Project `json:"finished"`
}

type ActivityEntryResponse struct {
	Timestamp time.Time     `json:"timestamp"`
	Type      activity.Kind `json:"type"`
	ProjectID string        `json:"project_id"`
	Summary   string        `json:"summary"`
	Details   string        `json:"details,omitempty"`
	Tick      int64         `json:"tick"`
}

type ActivityListResponse struct {
	Entries []ActivityEntryResponse `json:"entries"`
}

package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/rpggio/projectboard/internal/domain/project"
)

const (
	validationURI = "projectboard://docs/validation"
	boardURI      = "projectboard://board"
)

const serverInstructions = `projectboard keeps a two-column board of projects: active and finished.

- Project: title, description, people (headcount), status.
- Every change bumps the board tick; list and board results are in the order projects were added.

Workflow:
1) Orient: call get_board or read projectboard://board.
2) Add: add_project(title, description, people). Invalid input returns INVALID_INPUT; fix the fields and retry.
3) Move: move_project(id, status). Moving to the current status is a no-op (changed=false).
4) History: get_recent_activity shows created/moved events newest first; pass since_tick to catch up.
`

// validationDoc describes the form checks for the configured rules.
func validationDoc(r project.Rules) string {
	var b strings.Builder
	b.WriteString("# Project form validation\n\n")
	b.WriteString("All bounds are exclusive, so a value equal to a bound fails.\n")
	b.WriteString("Text lengths are counted after trimming surrounding spaces.\n\n")
	fmt.Fprintf(&b, "- title: required, more than %d characters\n", r.TitleMinLength)
	fmt.Fprintf(&b, "- description: required, more than %d characters\n", r.DescriptionMinLength)
	fmt.Fprintf(&b, "- people: required, a whole number greater than %d and less than %d\n\n", r.PeopleMin, r.PeopleMax)
	fmt.Fprintf(&b, "A failed check returns INVALID_INPUT with the message %q.\n", project.InvalidInputMessage)
	b.WriteString("No field-level detail is given.\n")
	return b.String()
}

func registerResources(server *sdkmcp.Server, projects ProjectService, rules project.Rules) {
	doc := validationDoc(rules)
	server.AddResource(&sdkmcp.Resource{
		URI:         validationURI,
		Name:        "validation",
		Title:       "Project form validation",
		Description: "How add_project validates its fields",
		MIMEType:    "text/markdown",
		Size:        int64(len(doc)),
	}, func(context.Context, *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
		return textResource(validationURI, "text/markdown", doc), nil
	})

	server.AddResource(&sdkmcp.Resource{
		URI:         boardURI,
		Name:        "board",
		Title:       "Current board",
		Description: "The latest board snapshot with both columns",
		MIMEType:    "application/json",
	}, func(ctx context.Context, _ *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
		snap, err := projects.Board(ctx)
		if err != nil {
			return nil, mapError(err)
		}
		data, err := json.Marshal(boardResponse(snap))
		if err != nil {
			return nil, fmt.Errorf("encode board: %w", err)
		}
		return textResource(boardURI, "application/json", string(data)), nil
	})
}

func textResource(uri, mime, text string) *sdkmcp.ReadResourceResult {
	return &sdkmcp.ReadResourceResult{
		Contents: []*sdkmcp.ResourceContents{{URI: uri, MIMEType: mime, Text: text}},
	}
}

package functional_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/require"

	"github.com/rpggio/projectboard/internal/testserver"
)

func connectHTTP(t *testing.T, ts *testserver.TestServer) *sdkmcp.ClientSession {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	t.Cleanup(cancel)

	client := sdkmcp.NewClient(&sdkmcp.Implementation{Name: "test-client", Version: "1.0.0"}, nil)
	session, err := client.Connect(ctx, &sdkmcp.StreamableClientTransport{
		Endpoint:   ts.Server.URL + "/mcp",
		HTTPClient: ts.Client(),
	}, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })
	return session
}

// callTool calls a tool and decodes its structured result into out.
func callTool(t *testing.T, session *sdkmcp.ClientSession, name string, args map[string]any, out any) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	if res.IsError {
		text := ""
		if len(res.Content) > 0 {
			if tc, ok := res.Content[0].(*sdkmcp.TextContent); ok {
				text = tc.Text
			}
		}
		t.Fatalf("tool %s failed: %s", name, text)
	}
	if out == nil {
		return
	}
	data, err := json.Marshal(res.StructuredContent)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, out))
}

type projectOut struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	People int    `json:"people"`
	Status string `json:"status"`
}

func TestFunctional_Authentication(t *testing.T) {
	ts := testserver.New(t, "token", "alice")

	req, err := http.NewRequest(http.MethodPost, ts.Server.URL+"/mcp", bytes.NewBufferString(`{"jsonrpc":"2.0","method":"tools/call","params":{"name":"list_projects"},"id":1}`))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json, text/event-stream")

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestFunctional_BoardWorkflow(t *testing.T) {
	ts := testserver.New(t, "token", "alice")
	session := connectHTTP(t, ts)

	var added struct {
		Project projectOut `json:"project"`
	}
	callTool(t, session, "add_project", map[string]any{
		"title": "Build API", "description": "Expose the board", "people": "3",
	}, &added)
	require.NotEmpty(t, added.Project.ID)
	require.Equal(t, "active", added.Project.Status)

	var second struct {
		Project projectOut `json:"project"`
	}
	callTool(t, session, "add_project", map[string]any{
		"title": "Write docs", "description": "User guide", "people": "2",
	}, &second)

	var moved struct {
		Project projectOut `json:"project"`
		Changed bool       `json:"changed"`
	}
	callTool(t, session, "move_project", map[string]any{"id": added.Project.ID, "status": "finished"}, &moved)
	require.True(t, moved.Changed)

	callTool(t, session, "move_project", map[string]any{"id": added.Project.ID, "status": "finished"}, &moved)
	require.False(t, moved.Changed)

	var board struct {
		Tick     int64        `json:"tick"`
		Active   []projectOut `json:"active"`
		Finished []projectOut `json:"finished"`
	}
	callTool(t, session, "get_board", map[string]any{}, &board)
	require.Equal(t, int64(3), board.Tick)
	require.Len(t, board.Active, 1)
	require.Equal(t, second.Project.ID, board.Active[0].ID)
	require.Len(t, board.Finished, 1)

	var list struct {
		Projects []projectOut `json:"projects"`
	}
	callTool(t, session, "list_projects", map[string]any{}, &list)
	require.Len(t, list.Projects, 2)
	require.Equal(t, added.Project.ID, list.Projects[0].ID, "moves keep insertion order")

	var activity struct {
		Entries []struct {
			Type      string `json:"type"`
			ProjectID string `json:"project_id"`
			Tick      int64  `json:"tick"`
		} `json:"entries"`
	}
	callTool(t, session, "get_recent_activity", map[string]any{"project_id": added.Project.ID}, &activity)
	require.Len(t, activity.Entries, 2)
	require.Equal(t, "project_moved", activity.Entries[0].Type)
	require.Equal(t, "project_created", activity.Entries[1].Type)
}

func TestFunctional_InvalidInput(t *testing.T) {
	ts := testserver.New(t, "token", "alice")
	session := connectHTTP(t, ts)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	for _, people := range []string{"1", "5", "lots"} {
		res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{Name: "add_project", Arguments: map[string]any{
			"title": "Build API", "description": "Expose the board", "people": people,
		}})
		require.NoError(t, err)
		require.True(t, res.IsError, "people=%s", people)
		text := res.Content[0].(*sdkmcp.TextContent).Text
		require.Contains(t, text, "INVALID_INPUT")
		require.Contains(t, text, "Invalid input, please try again")
	}
	require.Equal(t, 0, ts.App.State.Len())
}

func TestFunctional_UnknownProject(t *testing.T) {
	ts := testserver.New(t, "token", "alice")
	session := connectHTTP(t, ts)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	res, err := session.CallTool(ctx, &sdkmcp.CallToolParams{Name: "move_project", Arguments: map[string]any{
		"id": "missing", "status": "finished",
	}})
	require.NoError(t, err)
	require.True(t, res.IsError)
	require.Contains(t, res.Content[0].(*sdkmcp.TextContent).Text, "PROJECT_NOT_FOUND")
}

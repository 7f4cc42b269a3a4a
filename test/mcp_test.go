package test

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/2beens/gymbros/internal/workouts"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *EndToEndTestSuite) TestMCP_OverHTTP() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	t := s.T()
	routine := s.addRoutine(ctx, "squat")

	client := mcp.NewClient(&mcp.Implementation{Name: "gymbros-e2e", Version: "v0.0.1"}, nil)
	mcpSession, err := client.Connect(ctx, &mcp.StreamableClientTransport{Endpoint: serverEndpoint + "/mcp"}, nil)
	require.NoError(t, err)
	defer mcpSession.Close()

	tools, err := mcpSession.ListTools(ctx, nil)
	require.NoError(t, err)
	toolNames := make([]string, 0, len(tools.Tools))
	for _, tool := range tools.Tools {
		toolNames = append(toolNames, tool.Name)
	}
	assert.ElementsMatch(t, []string{
		"list_routines",
		"get_workouts_for_time_range",
		"get_last_exercise_data",
		"get_general_stats",
		"get_exercise_catalog",
	}, toolNames)

	res, err := mcpSession.CallTool(ctx, &mcp.CallToolParams{
		Name:      "list_routines",
		Arguments: map[string]any{},
	})
	require.NoError(t, err)
	require.False(t, res.IsError)
	require.NotEmpty(t, res.Content)

	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	var routines []workouts.Routine
	require.NoError(t, json.Unmarshal([]byte(text.Text), &routines))
	require.Len(t, routines, 1)
	assert.Equal(t, routine.ID, routines[0].ID)

	// tool errors come back as results, not protocol errors
	res, err = mcpSession.CallTool(ctx, &mcp.CallToolParams{
		Name:      "get_workouts_for_time_range",
		Arguments: map[string]any{"from_date": "2024-03-10", "to_date": "2024-03-01"},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)
}

func (s *EndToEndTestSuite) TestMetricsEndpoint() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	t := s.T()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+serverHost+":9212/metrics", nil)
	require.NoError(t, err)
	resp, err := s.httpClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

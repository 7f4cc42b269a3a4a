package mcp

import (
	"context"
	"encoding/json"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

const dateLayout = "2006-01-02"

// Handler handles MCP tool requests and responses: parses input, calls the service, formats MCP result.
type Handler struct {
	service contextService
}

func NewHandler(service contextService) *Handler {
	return &Handler{
		service: service,
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Error encoding response: " + err.Error())
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(raw)}},
	}
}

type ListRoutinesInput struct{}

// ListRoutinesTool returns the MCP tool handler for list_routines.
func (h *Handler) ListRoutinesTool() func(context.Context, *mcp.CallToolRequest, ListRoutinesInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ ListRoutinesInput) (*mcp.CallToolResult, any, error) {
		routines, err := h.service.ListRoutines(ctx)
		if err != nil {
			return errorResult("Error listing routines: " + err.Error()), nil, nil
		}
		return jsonResult(routines), nil, nil
	}
}

// WorkoutsTimeRangeInput is the input for get_workouts_for_time_range.
type WorkoutsTimeRangeInput struct {
	FromDate string `json:"from_date" jsonschema:"Start date (YYYY-MM-DD)"`
	ToDate   string `json:"to_date" jsonschema:"End date (YYYY-MM-DD), inclusive"`
}

// WorkoutsForTimeRangeTool returns the MCP tool handler for get_workouts_for_time_range.
func (h *Handler) WorkoutsForTimeRangeTool() func(context.Context, *mcp.CallToolRequest, WorkoutsTimeRangeInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in WorkoutsTimeRangeInput) (*mcp.CallToolResult, any, error) {
		from, err := time.Parse(dateLayout, in.FromDate)
		if err != nil {
			return errorResult("Invalid from_date: use YYYY-MM-DD"), nil, nil
		}
		to, err := time.Parse(dateLayout, in.ToDate)
		if err != nil {
			return errorResult("Invalid to_date: use YYYY-MM-DD"), nil, nil
		}
		to = time.Date(to.Year(), to.Month(), to.Day(), 23, 59, 59, 999999999, to.Location())

		list, err := h.service.ListWorkouts(ctx, from, to)
		if err != nil {
			return errorResult("Error listing workouts: " + err.Error()), nil, nil
		}
		return jsonResult(list), nil, nil
	}
}

// LastExerciseDataInput is the input for get_last_exercise_data.
type LastExerciseDataInput struct {
	RoutineID  string `json:"routine_id" jsonschema:"Routine id"`
	ExerciseID string `json:"exercise_id" jsonschema:"Catalog exercise id (e.g. bench-press)"`
}

type LastExerciseDataOutput struct {
	Found bool `json:"found"`
	Data  any  `json:"data,omitempty"`
}

// LastExerciseDataTool returns the MCP tool handler for get_last_exercise_data.
func (h *Handler) LastExerciseDataTool() func(context.Context, *mcp.CallToolRequest, LastExerciseDataInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in LastExerciseDataInput) (*mcp.CallToolResult, any, error) {
		data, found, err := h.service.LastExerciseData(ctx, in.RoutineID, in.ExerciseID)
		if err != nil {
			return errorResult("Error fetching last exercise data: " + err.Error()), nil, nil
		}
		out := LastExerciseDataOutput{Found: found}
		if found {
			out.Data = data
		}
		return jsonResult(out), nil, nil
	}
}

type GeneralStatsInput struct{}

// GeneralStatsTool returns the MCP tool handler for get_general_stats.
func (h *Handler) GeneralStatsTool() func(context.Context, *mcp.CallToolRequest, GeneralStatsInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ GeneralStatsInput) (*mcp.CallToolResult, any, error) {
		general, err := h.service.GeneralStats(ctx)
		if err != nil {
			return errorResult("Error computing stats: " + err.Error()), nil, nil
		}
		return jsonResult(general), nil, nil
	}
}

// ExerciseCatalogInput is the input for get_exercise_catalog.
type ExerciseCatalogInput struct {
	Category string `json:"category,omitempty" jsonschema:"Filter by category (e.g. Chest, Legs)"`
	Query    string `json:"query,omitempty" jsonschema:"Case-insensitive name search"`
}

// ExerciseCatalogTool returns the MCP tool handler for get_exercise_catalog.
func (h *Handler) ExerciseCatalogTool() func(context.Context, *mcp.CallToolRequest, ExerciseCatalogInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in ExerciseCatalogInput) (*mcp.CallToolResult, any, error) {
		list, err := h.service.ExerciseCatalog(ctx, in.Category, in.Query)
		if err != nil {
			return errorResult("Error fetching exercise catalog: " + err.Error()), nil, nil
		}
		return jsonResult(list), nil, nil
	}
}

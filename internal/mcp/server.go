package mcp

import (
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// NewServer builds an MCP server with the read-only gymbros tools: routines, workouts in a
// time range, last exercise data (progression), general stats and the exercise catalog.
// Served over stdio by cmd/gymbros_mcp, and over HTTP at /mcp by the main service.
func NewServer(service contextService) *mcp.Server {
	h := NewHandler(service)
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "gymbros-context",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "list_routines",
		Description: "Returns all workout routines (templates): id, name, description, exercises with their target sets and weight unit.",
	}, h.ListRoutinesTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_workouts_for_time_range",
		Description: "Returns completed workouts done within the given date range. Args: from_date, to_date (YYYY-MM-DD, inclusive). Use when you need to see what was trained in a period.",
	}, h.WorkoutsForTimeRangeTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_last_exercise_data",
		Description: "Returns the set (weight, reps, rir, weight unit) used to pre-fill the next session of a routine for an exercise, taken from the most recent workout of that routine. Args: routine_id, exercise_id.",
	}, h.LastExerciseDataTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_general_stats",
		Description: "Returns totals (workouts, exercises, sets), average workout duration in minutes and the 30 day consistency percentage.",
	}, h.GeneralStatsTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_exercise_catalog",
		Description: "Returns the built-in exercise catalog. Optional filters: category (e.g. Chest, Legs), query (name search).",
	}, h.ExerciseCatalogTool())

	return s
}

// NewHTTPHandler serves the MCP server over streamable HTTP.
func NewHTTPHandler(server *mcp.Server) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(*http.Request) *mcp.Server {
		return server
	}, nil)
}

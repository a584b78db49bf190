package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
)

// --- Tool definitions ---

var toolListRoutines = mcp.NewTool("list_routines",
	mcp.WithDescription("List the user's workout routines with exercise counts."),
)

var toolGetRoutine = mcp.NewTool("get_routine",
	mcp.WithDescription("Get a routine's full detail: ordered exercises with target sets and rep ranges."),
	mcp.WithNumber("id", mcp.Required(), mcp.Description("Routine ID")),
)

var toolListSessions = mcp.NewTool("list_sessions",
	mcp.WithDescription("List the user's workout sessions, newest first, with duration and total volume."),
)

var toolGetSessionDetail = mcp.NewTool("get_session_detail",
	mcp.WithDescription("Get a workout session's logged sets grouped by exercise, including weight, reps, and RPE."),
	mcp.WithNumber("id", mcp.Required(), mcp.Description("Session ID")),
)

var toolGetPersonalRecords = mcp.NewTool("get_personal_records",
	mcp.WithDescription("Get the user's personal records per exercise: best estimated one-rep max with the weight and reps that produced it."),
)

var toolGetWeeklyVolume = mcp.NewTool("get_weekly_volume",
	mcp.WithDescription("Get total training volume per ISO week."),
	mcp.WithNumber("weeks", mcp.Description("Number of weeks to include. Defaults to 12.")),
)

var toolGetMuscleVolume = mcp.NewTool("get_muscle_volume",
	mcp.WithDescription("Get training volume grouped by muscle group over a recent window."),
	mcp.WithNumber("days", mcp.Description("Window size in days. Defaults to 30.")),
)

var toolGetStatsSummary = mcp.NewTool("get_stats_summary",
	mcp.WithDescription("Get lifetime training stats: total workouts, total volume, favorite exercise, and current streak."),
)

// --- Tool handlers ---

func (h *handlers) listRoutines(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	routines, err := h.ds.ListRoutines(ctx)
	if err != nil {
		h.log.Error("mcp list_routines", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return toolJSON(routines)
}

func (h *handlers) getRoutine(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}

	detail, err := h.ds.GetRoutine(ctx, id)
	if err != nil {
		h.log.Error("mcp get_routine", "error", err, "id", id)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return toolJSON(detail)
}

func (h *handlers) listSessions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	sessions, err := h.ds.ListSessions(ctx)
	if err != nil {
		h.log.Error("mcp list_sessions", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return toolJSON(sessions)
}

func (h *handlers) getSessionDetail(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := req.RequireInt("id")
	if err != nil {
		return mcp.NewToolResultError("id parameter is required"), nil
	}

	detail, err := h.ds.SessionDetail(ctx, id)
	if err != nil {
		h.log.Error("mcp get_session_detail", "error", err, "id", id)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return toolJSON(detail)
}

func (h *handlers) getPersonalRecords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	records, err := h.ds.PersonalRecords(ctx)
	if err != nil {
		h.log.Error("mcp get_personal_records", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return toolJSON(records)
}

func (h *handlers) getWeeklyVolume(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	weeks := req.GetInt("weeks", 12)
	volume, err := h.ds.WeeklyVolume(ctx, weeks)
	if err != nil {
		h.log.Error("mcp get_weekly_volume", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return toolJSON(volume)
}

func (h *handlers) getMuscleVolume(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	days := req.GetInt("days", 30)
	volume, err := h.ds.Volume(ctx, days)
	if err != nil {
		h.log.Error("mcp get_muscle_volume", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return toolJSON(volume)
}

func (h *handlers) getStatsSummary(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	summary, err := h.ds.StatsSummary(ctx)
	if err != nil {
		h.log.Error("mcp get_stats_summary", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	return toolJSON(summary)
}

func toolJSON(v any) (*mcp.CallToolResult, error) {
	result, err := mcp.NewToolResultJSON(v)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/claude/engine/internal/analytics"
	"github.com/claude/engine/internal/engine"
	"github.com/claude/engine/internal/models"
	"github.com/claude/engine/internal/storage"
)

// --- Tool definitions ---

var toolGetWorkout = mcp.NewTool("get_workout",
	mcp.WithDescription("Retrieve the prescribed workout for a program day, including its blocks and the expanded interval plan."),
	mcp.WithNumber("day", mcp.Required(), mcp.Description("Program day number")),
)

var toolGetSessions = mcp.NewTool("get_sessions",
	mcp.WithDescription("Query completed session history with derived metrics (pace, performance ratio, efficiency, training load)."),
	mcp.WithString("day_type", mcp.Description("Filter by day type (e.g. interval, endurance, time_trial)")),
	mcp.WithString("modality", mcp.Description("Filter by equipment modality (e.g. bike, row)")),
	mcp.WithNumber("limit", mcp.Description("Maximum sessions to return. Defaults to 50.")),
)

var toolGetBaseline = mcp.NewTool("get_baseline",
	mcp.WithDescription("Get the current pacing baseline for a modality, derived from the most recent time trial."),
	mcp.WithString("modality", mcp.Required(), mcp.Description("Equipment modality (e.g. bike, row)")),
)

var toolGetModel = mcp.NewTool("get_model",
	mcp.WithDescription("Get the rolling performance model for a day type and modality: rolling ratio, recent ratios, and learned max pace."),
	mcp.WithString("day_type", mcp.Required(), mcp.Description("Day type (e.g. interval, anaerobic)")),
	mcp.WithString("modality", mcp.Required(), mcp.Description("Equipment modality")),
)

var toolGetAnalytics = mcp.NewTool("get_analytics",
	mcp.WithDescription("Training analytics over the session history: pace consistency (CV), work:rest structure bands, personal records, target hit rate, and heart rate aggregates."),
	mcp.WithString("day_type", mcp.Description("Filter by day type. Time trials are excluded from cross-day views unless requested directly.")),
	mcp.WithString("modality", mcp.Description("Filter by equipment modality")),
)

var toolGetRecords = mcp.NewTool("get_records",
	mcp.WithDescription("Personal records: the highest-output session per day type."),
)

// --- Tool handlers ---

func (h *handlers) getWorkout(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	day, err := req.RequireInt("day")
	if err != nil {
		return mcp.NewToolResultError("day parameter is required"), nil
	}

	def, err := h.ds.GetWorkoutDefinition(ctx, h.programVersion, day)
	if err != nil {
		h.log.Error("mcp get_workout", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}
	if def == nil {
		return mcp.NewToolResultError("workout not found"), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{
		"workout":   def,
		"intervals": engine.BuildPlan(*def),
	})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getSessions(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)
	f := storage.SessionFilter{
		DayType:  models.DayType(req.GetString("day_type", "")),
		Modality: req.GetString("modality", ""),
		Limit:    req.GetInt("limit", 50),
	}

	sessions, err := h.ds.ListSessions(ctx, uid, f)
	if err != nil {
		h.log.Error("mcp get_sessions", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(sessions)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getBaseline(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	modality, err := req.RequireString("modality")
	if err != nil {
		return mcp.NewToolResultError("modality parameter is required"), nil
	}

	uid := UserIDFromContext(ctx)
	baseline, err := engine.ResolveBaseline(ctx, h.ds, uid, modality)
	if err != nil {
		h.log.Error("mcp get_baseline", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{"baseline": baseline})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getModel(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	dayType, err := req.RequireString("day_type")
	if err != nil {
		return mcp.NewToolResultError("day_type parameter is required"), nil
	}
	modality, err := req.RequireString("modality")
	if err != nil {
		return mcp.NewToolResultError("modality parameter is required"), nil
	}

	uid := UserIDFromContext(ctx)
	model, err := h.ds.GetModel(ctx, uid, models.DayType(dayType), modality)
	if err != nil {
		h.log.Error("mcp get_model", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(map[string]any{"model": model})
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getAnalytics(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)

	sessions, err := h.ds.ListSessions(ctx, uid, storage.SessionFilter{})
	if err != nil {
		h.log.Error("mcp get_analytics", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	report := analytics.Build(sessions, analytics.Filter{
		DayType:  models.DayType(req.GetString("day_type", "")),
		Modality: req.GetString("modality", ""),
	})

	result, err := mcp.NewToolResultJSON(report)
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

func (h *handlers) getRecords(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	uid := UserIDFromContext(ctx)

	sessions, err := h.ds.ListSessions(ctx, uid, storage.SessionFilter{})
	if err != nil {
		h.log.Error("mcp get_records", "error", err)
		return mcp.NewToolResultError("query failed: " + err.Error()), nil
	}

	result, err := mcp.NewToolResultJSON(analytics.PersonalRecords(sessions))
	if err != nil {
		return mcp.NewToolResultError("serialization failed"), nil
	}
	return result, nil
}

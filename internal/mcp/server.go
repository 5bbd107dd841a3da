package mcp

import (
	"context"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/claude/engine/internal/models"
	"github.com/claude/engine/internal/storage"
)

type contextKey int

const userIDKey contextKey = iota

// UserIDFromContext extracts the user ID injected by the transport layer.
func UserIDFromContext(ctx context.Context) int {
	if id, ok := ctx.Value(userIDKey).(int); ok {
		return id
	}
	return 1
}

// WithUserID returns a context with the given user ID.
func WithUserID(ctx context.Context, userID int) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

// DataSource abstracts the data layer for MCP tools. *storage.DB satisfies
// it; tests use a stub.
type DataSource interface {
	GetWorkoutDefinition(ctx context.Context, programVersion string, dayNumber int) (*models.WorkoutDefinition, error)
	ListWorkoutDefinitions(ctx context.Context, programVersion string) ([]models.WorkoutDefinition, error)
	ListSessions(ctx context.Context, userID int, f storage.SessionFilter) ([]models.SessionResult, error)
	LatestTrial(ctx context.Context, userID int, modality string) (*models.TimeTrial, error)
	GetModel(ctx context.Context, userID int, dayType models.DayType, modality string) (*models.PerformanceModel, error)
}

// Compile-time check: *storage.DB satisfies DataSource.
var _ DataSource = (*storage.DB)(nil)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, programVersion, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("Engine", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("Interval training engine. Query the workout catalog, session history, pacing baselines, performance models, and training analytics. All data is scoped to the authenticated user."),
	)

	h := &handlers{ds: ds, programVersion: programVersion, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolGetWorkout, Handler: h.getWorkout},
		server.ServerTool{Tool: toolGetSessions, Handler: h.getSessions},
		server.ServerTool{Tool: toolGetBaseline, Handler: h.getBaseline},
		server.ServerTool{Tool: toolGetModel, Handler: h.getModel},
		server.ServerTool{Tool: toolGetAnalytics, Handler: h.getAnalytics},
		server.ServerTool{Tool: toolGetRecords, Handler: h.getRecords},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resCatalog, Handler: h.catalog},
		server.ServerResource{Resource: resRecentSessions, Handler: h.recentSessions},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds             DataSource
	programVersion string
	log            *slog.Logger
}

// --- Resource definitions ---

var resCatalog = mcp.NewResource(
	"engine://catalog",
	"Workout Catalog",
	mcp.WithResourceDescription("The active program's full workout catalog in day order"),
	mcp.WithMIMEType("application/json"),
)

var resRecentSessions = mcp.NewResource(
	"engine://recent_sessions",
	"Recent Sessions",
	mcp.WithResourceDescription("The 20 most recent completed sessions with derived metrics"),
	mcp.WithMIMEType("application/json"),
)

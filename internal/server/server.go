package server

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/claude/engine/internal/engine"
	"github.com/claude/engine/internal/models"
	"github.com/claude/engine/internal/storage"
)

// Store is the slice of the storage layer the HTTP handlers need.
// *storage.DB satisfies it; tests substitute a stub.
type Store interface {
	GetWorkoutDefinition(ctx context.Context, programVersion string, dayNumber int) (*models.WorkoutDefinition, error)
	ListWorkoutDefinitions(ctx context.Context, programVersion string) ([]models.WorkoutDefinition, error)
	InsertSession(ctx context.Context, s *models.SessionResult) error
	ListSessions(ctx context.Context, userID int, f storage.SessionFilter) ([]models.SessionResult, error)
	InsertTimeTrial(ctx context.Context, t *models.TimeTrial) error
	LatestTrial(ctx context.Context, userID int, modality string) (*models.TimeTrial, error)
	GetModel(ctx context.Context, userID int, dayType models.DayType, modality string) (*models.PerformanceModel, error)
	UpsertModel(ctx context.Context, m *models.PerformanceModel) error
	ListTimeTrials(ctx context.Context, userID int, modality string) ([]models.TimeTrial, error)
	GetPreference(ctx context.Context, userID int, modality string) (*models.ModalityPreference, error)
	LastPreference(ctx context.Context, userID int) (*models.ModalityPreference, error)
	SetPreference(ctx context.Context, userID int, modality, units string, now time.Time) error
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	store          Store
	updater        *engine.ModelUpdater
	log            *slog.Logger
	apiKey         string
	programVersion string
	userID         int
	router         chi.Router
	now            func() time.Time
}

// New creates a new Server with all routes configured.
func New(store Store, updater *engine.ModelUpdater, apiKey, programVersion string, userID int, log *slog.Logger) *Server {
	s := &Server{
		store:          store,
		updater:        updater,
		log:            log,
		apiKey:         apiKey,
		programVersion: programVersion,
		userID:         userID,
		router:         chi.NewRouter(),
		now:            time.Now,
	}
	s.routes()
	return s
}

// MountMCP exposes an MCP transport handler under /mcp.
func (s *Server) MountMCP(h http.Handler) {
	s.router.Mount("/mcp", h)
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

func (s *Server) routes() {
	s.router.Use(RequestLogging(s.log))
	s.router.Use(CORS)

	// Read endpoints (no auth — tsnet handles access)
	s.router.Get("/api/v1/workouts", s.handleListWorkouts)
	s.router.Get("/api/v1/workouts/{day}", s.handleGetWorkout)
	s.router.Get("/api/v1/plan", s.handlePlan)
	s.router.Get("/api/v1/baseline", s.handleBaseline)
	s.router.Get("/api/v1/sessions", s.handleListSessions)
	s.router.Get("/api/v1/trials", s.handleListTrials)
	s.router.Get("/api/v1/analytics", s.handleAnalytics)
	s.router.Get("/api/v1/preferences", s.handleLastPreference)
	s.router.Get("/api/v1/preferences/{modality}", s.handleGetPreference)

	// Write endpoints (API key required)
	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyAuth(s.apiKey))
		r.Post("/api/v1/sessions", s.handleCreateSession)
		r.Post("/api/v1/trials", s.handleCreateTrial)
		r.Put("/api/v1/preferences/{modality}", s.handlePutPreference)
	})
}

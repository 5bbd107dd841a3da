package engine

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/claude/engine/internal/models"
)

// ratioWindow bounds the recent-ratio history the rolling average is
// computed over.
const ratioWindow = 4

// ModelStore reads and writes rolling performance models keyed by
// (user, day_type, modality).
type ModelStore interface {
	GetModel(ctx context.Context, userID int, dayType models.DayType, modality string) (*models.PerformanceModel, error)
	UpsertModel(ctx context.Context, model *models.PerformanceModel) error
}

// ModelUpdater folds completed sessions into rolling performance models.
type ModelUpdater struct {
	store  ModelStore
	logger *slog.Logger
}

func NewModelUpdater(store ModelStore, logger *slog.Logger) *ModelUpdater {
	return &ModelUpdater{store: store, logger: logger}
}

// qualifies reports whether a session feeds the model: it needs either a
// performance ratio or a max-effort day type that can raise the learned max.
func qualifies(result *models.SessionResult) bool {
	return result.PerformanceRatio != nil || result.DayType.MaxEffortStyle()
}

// Apply folds one session into the model for its (user, day_type, modality)
// key, creating the model on first contact. Sessions with neither a ratio
// nor a max-effort day type leave the model untouched.
func (u *ModelUpdater) Apply(ctx context.Context, result *models.SessionResult) error {
	if !qualifies(result) {
		return nil
	}

	model, err := u.store.GetModel(ctx, result.UserID, result.DayType, result.Modality)
	if err != nil {
		return fmt.Errorf("loading performance model: %w", err)
	}
	if model == nil {
		model = &models.PerformanceModel{
			UserID:   result.UserID,
			DayType:  result.DayType,
			Modality: result.Modality,
		}
	}

	fold(model, result)

	if err := u.store.UpsertModel(ctx, model); err != nil {
		return fmt.Errorf("saving performance model: %w", err)
	}
	return nil
}

// ApplyBestEffort is Apply for the session-save path, where the session
// record is already persisted and a model failure must not surface as a
// failed save. The error is logged and swallowed.
func (u *ModelUpdater) ApplyBestEffort(ctx context.Context, result *models.SessionResult) {
	if err := u.Apply(ctx, result); err != nil {
		u.logger.Error("performance model update failed",
			"session_id", result.ID,
			"day_type", result.DayType,
			"modality", result.Modality,
			"error", err)
	}
}

// fold mutates the model in place with one session's outcome.
func fold(model *models.PerformanceModel, result *models.SessionResult) {
	if result.PerformanceRatio != nil {
		model.RecentRatios = append(model.RecentRatios, *result.PerformanceRatio)
		if len(model.RecentRatios) > ratioWindow {
			model.RecentRatios = model.RecentRatios[len(model.RecentRatios)-ratioWindow:]
		}
		var sum float64
		for _, r := range model.RecentRatios {
			sum += r
		}
		model.RollingRatio = sum / float64(len(model.RecentRatios))
	}

	if result.DayType.MaxEffortStyle() {
		if pace := result.Pace(); pace > model.LearnedMaxPace {
			model.LearnedMaxPace = pace
		}
	}

	model.RollingCount++
	model.UpdatedAt = result.Date
}

package engine

import (
	"context"
	"fmt"

	"github.com/claude/engine/internal/models"
)

// TrialSource yields the most recent time trial for a (user, modality) pair,
// or nil when none has been recorded.
type TrialSource interface {
	LatestTrial(ctx context.Context, userID int, modality string) (*models.TimeTrial, error)
}

// ResolveBaseline derives the pacing baseline from the user's most recent
// time trial on the modality. A missing trial is a normal state for new
// users and returns (nil, nil); targets fall back to needs_baseline.
func ResolveBaseline(ctx context.Context, src TrialSource, userID int, modality string) (*models.Baseline, error) {
	trial, err := src.LatestTrial(ctx, userID, modality)
	if err != nil {
		return nil, fmt.Errorf("loading latest time trial: %w", err)
	}
	if trial == nil {
		return nil, nil
	}
	pace := trial.PacePerMinute()
	if pace <= 0 {
		return nil, nil
	}
	return &models.Baseline{
		Modality: trial.Modality,
		Pace:     pace,
		Unit:     trial.Units,
		Date:     trial.Date,
	}, nil
}

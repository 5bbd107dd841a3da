package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/claude/engine/internal/models"
)

// GetModel loads the rolling performance model for a
// (user, day_type, modality) key. Returns (nil, nil) when no model exists
// yet; first-session users have no history.
func (db *DB) GetModel(ctx context.Context, userID int, dayType models.DayType, modality string) (*models.PerformanceModel, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT user_id, day_type, modality, rolling_avg_ratio, rolling_count,
		 recent_ratios, learned_max_pace, updated_at
		 FROM performance_models
		 WHERE user_id = $1 AND day_type = $2 AND modality = $3`,
		userID, dayType, modality)

	var m models.PerformanceModel
	err := row.Scan(&m.UserID, &m.DayType, &m.Modality, &m.RollingRatio, &m.RollingCount,
		&m.RecentRatios, &m.LearnedMaxPace, &m.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying performance model: %w", err)
	}
	return &m, nil
}

// UpsertModel writes a performance model, replacing the existing row for
// its key.
func (db *DB) UpsertModel(ctx context.Context, m *models.PerformanceModel) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO performance_models (user_id, day_type, modality, rolling_avg_ratio,
		 rolling_count, recent_ratios, learned_max_pace, updated_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
		 ON CONFLICT (user_id, day_type, modality) DO UPDATE SET
		   rolling_avg_ratio = EXCLUDED.rolling_avg_ratio,
		   rolling_count = EXCLUDED.rolling_count,
		   recent_ratios = EXCLUDED.recent_ratios,
		   learned_max_pace = EXCLUDED.learned_max_pace,
		   updated_at = EXCLUDED.updated_at`,
		m.UserID, m.DayType, m.Modality, m.RollingRatio,
		m.RollingCount, m.RecentRatios, m.LearnedMaxPace, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upserting performance model: %w", err)
	}
	return nil
}

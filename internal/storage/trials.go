package storage

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/claude/engine/internal/models"
)

// InsertTimeTrial persists one benchmark effort. The most recent trial per
// (user, modality) becomes that modality's baseline.
func (db *DB) InsertTimeTrial(ctx context.Context, t *models.TimeTrial) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO time_trials (id, user_id, modality, total_output, duration_seconds, units, date)
		 VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		t.ID, t.UserID, t.Modality, t.TotalOutput, t.DurationSeconds, t.Units, t.Date)
	if err != nil {
		return fmt.Errorf("inserting time trial: %w", err)
	}
	return nil
}

// LatestTrial returns the most recent time trial for a (user, modality)
// pair, or (nil, nil) when none exists.
func (db *DB) LatestTrial(ctx context.Context, userID int, modality string) (*models.TimeTrial, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT id, user_id, modality, total_output, duration_seconds, units, date
		 FROM time_trials
		 WHERE user_id = $1 AND modality = $2
		 ORDER BY date DESC
		 LIMIT 1`,
		userID, modality)

	var t models.TimeTrial
	err := row.Scan(&t.ID, &t.UserID, &t.Modality, &t.TotalOutput, &t.DurationSeconds, &t.Units, &t.Date)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying latest time trial: %w", err)
	}
	return &t, nil
}

// ListTimeTrials returns a user's trials on a modality, newest first.
func (db *DB) ListTimeTrials(ctx context.Context, userID int, modality string) ([]models.TimeTrial, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, user_id, modality, total_output, duration_seconds, units, date
		 FROM time_trials
		 WHERE user_id = $1 AND modality = $2
		 ORDER BY date DESC`,
		userID, modality)
	if err != nil {
		return nil, fmt.Errorf("querying time trials: %w", err)
	}
	defer rows.Close()

	var result []models.TimeTrial
	for rows.Next() {
		var t models.TimeTrial
		if err := rows.Scan(&t.ID, &t.UserID, &t.Modality, &t.TotalOutput, &t.DurationSeconds, &t.Units, &t.Date); err != nil {
			return nil, fmt.Errorf("scanning time trial: %w", err)
		}
		result = append(result, t)
	}
	return result, rows.Err()
}

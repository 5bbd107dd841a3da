package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/claude/engine/internal/models"
)

// GetPreference returns the stored unit preference for a modality, or
// (nil, nil) when the user has never selected one.
func (db *DB) GetPreference(ctx context.Context, userID int, modality string) (*models.ModalityPreference, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT user_id, modality, units, updated_at
		 FROM modality_preferences
		 WHERE user_id = $1 AND modality = $2`,
		userID, modality)

	var p models.ModalityPreference
	err := row.Scan(&p.UserID, &p.Modality, &p.Units, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying modality preference: %w", err)
	}
	return &p, nil
}

// LastPreference returns the most recently touched preference for a user,
// so the equipment picker can default to whatever was used last.
func (db *DB) LastPreference(ctx context.Context, userID int) (*models.ModalityPreference, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT user_id, modality, units, updated_at
		 FROM modality_preferences
		 WHERE user_id = $1
		 ORDER BY updated_at DESC
		 LIMIT 1`,
		userID)

	var p models.ModalityPreference
	err := row.Scan(&p.UserID, &p.Modality, &p.Units, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying last modality preference: %w", err)
	}
	return &p, nil
}

// SetPreference records the unit used with a modality, bumping its
// last-selected timestamp.
func (db *DB) SetPreference(ctx context.Context, userID int, modality, units string, now time.Time) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO modality_preferences (user_id, modality, units, updated_at)
		 VALUES ($1,$2,$3,$4)
		 ON CONFLICT (user_id, modality) DO UPDATE SET
		   units = EXCLUDED.units,
		   updated_at = EXCLUDED.updated_at`,
		userID, modality, units, now)
	if err != nil {
		return fmt.Errorf("upserting modality preference: %w", err)
	}
	return nil
}

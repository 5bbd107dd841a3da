package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/claude/engine/internal/models"
)

// GetWorkoutDefinition looks up the catalog entry for a program day.
// Returns (nil, nil) when the day is not in the catalog.
func (db *DB) GetWorkoutDefinition(ctx context.Context, programVersion string, dayNumber int) (*models.WorkoutDefinition, error) {
	row := db.Pool.QueryRow(ctx,
		`SELECT id, program_version, day_number, day_type, blocks, total_seconds
		 FROM workout_definitions
		 WHERE program_version = $1 AND day_number = $2`,
		programVersion, dayNumber)

	def, err := scanDefinition(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("querying workout definition: %w", err)
	}
	return def, nil
}

// ListWorkoutDefinitions returns a program version's full catalog in day
// order.
func (db *DB) ListWorkoutDefinitions(ctx context.Context, programVersion string) ([]models.WorkoutDefinition, error) {
	rows, err := db.Pool.Query(ctx,
		`SELECT id, program_version, day_number, day_type, blocks, total_seconds
		 FROM workout_definitions
		 WHERE program_version = $1
		 ORDER BY day_number ASC`,
		programVersion)
	if err != nil {
		return nil, fmt.Errorf("querying workout definitions: %w", err)
	}
	defer rows.Close()

	var defs []models.WorkoutDefinition
	for rows.Next() {
		def, err := scanDefinition(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning workout definition: %w", err)
		}
		defs = append(defs, *def)
	}
	return defs, rows.Err()
}

func scanDefinition(row pgx.Row) (*models.WorkoutDefinition, error) {
	var def models.WorkoutDefinition
	var blocks []byte
	if err := row.Scan(&def.ID, &def.ProgramVersion, &def.DayNumber, &def.DayType, &blocks, &def.TotalSeconds); err != nil {
		return nil, err
	}
	if len(blocks) > 0 {
		if err := json.Unmarshal(blocks, &def.Blocks); err != nil {
			return nil, fmt.Errorf("decoding blocks: %w", err)
		}
	}
	return &def, nil
}

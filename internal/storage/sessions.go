package storage

import (
	"context"
	"fmt"

	"github.com/claude/engine/internal/models"
)

// InsertSession persists one completed session. Session rows are
// create-only; corrections get a new row.
func (db *DB) InsertSession(ctx context.Context, s *models.SessionResult) error {
	_, err := db.Pool.Exec(ctx,
		`INSERT INTO workout_sessions (id, user_id, program_version, program_day, day_type,
		 modality, units, date, total_output, actual_pace, target_pace, performance_ratio,
		 average_heart_rate, peak_heart_rate, perceived_exertion,
		 total_work_seconds, total_rest_seconds, avg_work_rest_ratio,
		 efficiency, training_load, created_at)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21)`,
		s.ID, s.UserID, s.ProgramVersion, s.ProgramDay, s.DayType,
		s.Modality, s.Units, s.Date, s.TotalOutput, s.ActualPace, s.TargetPace, s.PerformanceRatio,
		s.AvgHeartRate, s.PeakHeartRate, s.PerceivedExert,
		s.TotalWorkSecs, s.TotalRestSecs, s.WorkRestRatio,
		s.Efficiency, s.TrainingLoad, s.CreatedAt)
	if err != nil {
		return fmt.Errorf("inserting session: %w", err)
	}
	return nil
}

// SessionFilter narrows a history query. Zero values match everything.
type SessionFilter struct {
	DayType  models.DayType
	Modality string
	Limit    int
}

// ListSessions retrieves a user's session history, newest first.
func (db *DB) ListSessions(ctx context.Context, userID int, f SessionFilter) ([]models.SessionResult, error) {
	query := `SELECT id, user_id, program_version, program_day, day_type,
		 modality, units, date, total_output, actual_pace, target_pace, performance_ratio,
		 average_heart_rate, peak_heart_rate, perceived_exertion,
		 total_work_seconds, total_rest_seconds, avg_work_rest_ratio,
		 efficiency, training_load, created_at
		 FROM workout_sessions
		 WHERE user_id = $1`
	args := []any{userID}

	if f.DayType != "" {
		args = append(args, f.DayType)
		query += fmt.Sprintf(" AND day_type = $%d", len(args))
	}
	if f.Modality != "" {
		args = append(args, f.Modality)
		query += fmt.Sprintf(" AND modality = $%d", len(args))
	}
	query += " ORDER BY date DESC"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying sessions: %w", err)
	}
	defer rows.Close()

	var result []models.SessionResult
	for rows.Next() {
		var s models.SessionResult
		if err := rows.Scan(&s.ID, &s.UserID, &s.ProgramVersion, &s.ProgramDay, &s.DayType,
			&s.Modality, &s.Units, &s.Date, &s.TotalOutput, &s.ActualPace, &s.TargetPace, &s.PerformanceRatio,
			&s.AvgHeartRate, &s.PeakHeartRate, &s.PerceivedExert,
			&s.TotalWorkSecs, &s.TotalRestSecs, &s.WorkRestRatio,
			&s.Efficiency, &s.TrainingLoad, &s.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning session: %w", err)
		}
		result = append(result, s)
	}
	return result, rows.Err()
}

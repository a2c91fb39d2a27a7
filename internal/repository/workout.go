package repository

import (
	"github.com/jackc/pgx/v5"

	"github.com/fitlog/fitlog/internal/model"
)

var workoutLogTable = ownedTable[*model.WorkoutLog, model.WorkoutLogPatch]{
	name:    "workout_logs",
	columns: []string{"logged_at", "workout_type", "duration_minutes", "calories_burned", "notes"},
	values: func(w *model.WorkoutLog) []any {
		return []any{w.Date, w.Type, w.DurationMinutes, w.CaloriesBurned, w.Notes}
	},
	patch: func(p model.WorkoutLogPatch) []any {
		return []any{p.Date, p.Type, p.DurationMinutes, p.CaloriesBurned, p.Notes}
	},
	scan: func(row pgx.Row) (*model.WorkoutLog, error) {
		var w model.WorkoutLog
		err := row.Scan(
			&w.ID,
			&w.OwnerEmail,
			&w.Date,
			&w.Type,
			&w.DurationMinutes,
			&w.CaloriesBurned,
			&w.Notes,
			&w.CreatedAt,
			&w.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		return &w, nil
	},
}

package repository

import (
	"github.com/jackc/pgx/v5"

	"github.com/fitlog/fitlog/internal/model"
)

var foodLogTable = ownedTable[*model.FoodLog, model.FoodLogPatch]{
	name:    "food_logs",
	columns: []string{"logged_at", "meal", "weight", "calories", "description"},
	values: func(f *model.FoodLog) []any {
		return []any{f.Date, f.Meal, f.Weight, f.Calories, f.Description}
	},
	patch: func(p model.FoodLogPatch) []any {
		return []any{p.Date, p.Meal, p.Weight, p.Calories, p.Description}
	},
	scan: func(row pgx.Row) (*model.FoodLog, error) {
		var f model.FoodLog
		err := row.Scan(
			&f.ID,
			&f.OwnerEmail,
			&f.Date,
			&f.Meal,
			&f.Weight,
			&f.Calories,
			&f.Description,
			&f.CreatedAt,
			&f.UpdatedAt,
		)
		if err != nil {
			return nil, err
		}
		return &f, nil
	},
}

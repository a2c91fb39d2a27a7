package dto

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fitlog/fitlog/internal/model"
)

// dateOnly is the layout sent by HTML date inputs.
const dateOnly = "2006-01-02"

// Date accepts either an RFC 3339 timestamp or a bare calendar date,
// which is read as midnight UTC.
type Date struct {
	time.Time
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(b []byte) error {
	if bytes.Equal(b, []byte("null")) {
		return nil
	}

	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}

	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		d.Time = t.UTC()
		return nil
	}
	t, err := time.Parse(dateOnly, s)
	if err != nil {
		return fmt.Errorf("date %q is neither RFC 3339 nor YYYY-MM-DD", s)
	}
	d.Time = t
	return nil
}

func (d *Date) ptr() *time.Time {
	if d == nil {
		return nil
	}
	t := d.Time
	return &t
}

// FoodLogRequest represents the request body for creating a food entry.
type FoodLogRequest struct {
	Date        *Date    `json:"date,omitempty"`
	Meal        string   `json:"meal"`
	Weight      *float64 `json:"weight,omitempty"`
	Calories    *float64 `json:"calories"`
	Description string   `json:"description,omitempty"`
}

// ToModel converts the request to a draft entry.
func (r FoodLogRequest) ToModel() model.FoodLogDraft {
	return model.FoodLogDraft{
		Date:        r.Date.ptr(),
		Meal:        r.Meal,
		Weight:      r.Weight,
		Calories:    r.Calories,
		Description: r.Description,
	}
}

// FoodLogPatchRequest represents the request body for updating a food entry.
type FoodLogPatchRequest struct {
	Date        *Date    `json:"date,omitempty"`
	Meal        *string  `json:"meal,omitempty"`
	Weight      *float64 `json:"weight,omitempty"`
	Calories    *float64 `json:"calories,omitempty"`
	Description *string  `json:"description,omitempty"`
}

// ToModel converts the request to a patch.
func (r FoodLogPatchRequest) ToModel() model.FoodLogPatch {
	return model.FoodLogPatch{
		Date:        r.Date.ptr(),
		Meal:        r.Meal,
		Weight:      r.Weight,
		Calories:    r.Calories,
		Description: r.Description,
	}
}

// WorkoutLogRequest represents the request body for creating a workout entry.
type WorkoutLogRequest struct {
	Date            *Date    `json:"date,omitempty"`
	Type            string   `json:"type"`
	DurationMinutes *int     `json:"durationMinutes"`
	CaloriesBurned  *float64 `json:"caloriesBurned"`
	Notes           string   `json:"notes,omitempty"`
}

// ToModel converts the request to a draft entry.
func (r WorkoutLogRequest) ToModel() model.WorkoutLogDraft {
	return model.WorkoutLogDraft{
		Date:            r.Date.ptr(),
		Type:            r.Type,
		DurationMinutes: r.DurationMinutes,
		CaloriesBurned:  r.CaloriesBurned,
		Notes:           r.Notes,
	}
}

// WorkoutLogPatchRequest represents the request body for updating a workout entry.
type WorkoutLogPatchRequest struct {
	Date            *Date    `json:"date,omitempty"`
	Type            *string  `json:"type,omitempty"`
	DurationMinutes *int     `json:"durationMinutes,omitempty"`
	CaloriesBurned  *float64 `json:"caloriesBurned,omitempty"`
	Notes           *string  `json:"notes,omitempty"`
}

// ToModel converts the request to a patch.
func (r WorkoutLogPatchRequest) ToModel() model.WorkoutLogPatch {
	return model.WorkoutLogPatch{
		Date:            r.Date.ptr(),
		Type:            r.Type,
		DurationMinutes: r.DurationMinutes,
		CaloriesBurned:  r.CaloriesBurned,
		Notes:           r.Notes,
	}
}

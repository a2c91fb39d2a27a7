package model

import "time"

// WorkoutLog is a single training session owned by one user.
type WorkoutLog struct {
	ID              string    `json:"id"`
	OwnerEmail      string    `json:"ownerEmail"`
	Date            time.Time `json:"date"`
	Type            string    `json:"type"`
	DurationMinutes int       `json:"durationMinutes"`
	CaloriesBurned  float64   `json:"caloriesBurned"`
	Notes           string    `json:"notes"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// WorkoutLogDraft holds the fields of a new workout entry.
type WorkoutLogDraft struct {
	Date            *time.Time `json:"date"`
	Type            string     `json:"type" validate:"required,max=100"`
	DurationMinutes *int       `json:"durationMinutes" validate:"required,gte=0,lte=1440"`
	CaloriesBurned  *float64   `json:"caloriesBurned" validate:"required,gte=0"`
	Notes           string     `json:"notes" validate:"max=2000"`
}

// Build implements Draft.
func (d WorkoutLogDraft) Build(id, owner string, now time.Time) *WorkoutLog {
	w := &WorkoutLog{
		Date:  now,
		Type:  d.Type,
		Notes: d.Notes,
	}
	if d.Date != nil {
		w.Date = *d.Date
	}
	if d.DurationMinutes != nil {
		w.DurationMinutes = *d.DurationMinutes
	}
	if d.CaloriesBurned != nil {
		w.CaloriesBurned = *d.CaloriesBurned
	}
	w.Init(id, owner, now)
	return w
}

// WorkoutLogPatch carries a partial update. Nil fields are left unchanged.
type WorkoutLogPatch struct {
	Date            *time.Time `json:"date"`
	Type            *string    `json:"type" validate:"omitempty,min=1,max=100"`
	DurationMinutes *int       `json:"durationMinutes" validate:"omitempty,gte=0,lte=1440"`
	CaloriesBurned  *float64   `json:"caloriesBurned" validate:"omitempty,gte=0"`
	Notes           *string    `json:"notes" validate:"omitempty,max=2000"`
}

// Apply copies the set fields of p onto w.
func (w *WorkoutLog) Apply(p WorkoutLogPatch) {
	if p.Date != nil {
		w.Date = *p.Date
	}
	if p.Type != nil {
		w.Type = *p.Type
	}
	if p.DurationMinutes != nil {
		w.DurationMinutes = *p.DurationMinutes
	}
	if p.CaloriesBurned != nil {
		w.CaloriesBurned = *p.CaloriesBurned
	}
	if p.Notes != nil {
		w.Notes = *p.Notes
	}
}

// EntryID implements Entry.
func (w *WorkoutLog) EntryID() string { return w.ID }

// Owner implements Entry.
func (w *WorkoutLog) Owner() string { return w.OwnerEmail }

// EntryDate implements Entry.
func (w *WorkoutLog) EntryDate() time.Time { return w.Date }

// Timestamps implements Entry.
func (w *WorkoutLog) Timestamps() (time.Time, time.Time) { return w.CreatedAt, w.UpdatedAt }

// Init assigns identity, ownership and creation time. The date is kept.
func (w *WorkoutLog) Init(id, owner string, now time.Time) {
	w.ID = id
	w.OwnerEmail = owner
	w.CreatedAt = now
	w.UpdatedAt = now
}

// Touch implements Entry.
func (w *WorkoutLog) Touch(now time.Time) { w.UpdatedAt = now }

package model

import "time"

// FoodLog is a single meal entry owned by one user.
type FoodLog struct {
	ID          string    `json:"id"`
	OwnerEmail  string    `json:"ownerEmail"`
	Date        time.Time `json:"date"`
	Meal        string    `json:"meal"`
	Weight      *float64  `json:"weight,omitempty"`
	Calories    float64   `json:"calories"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// FoodLogDraft holds the fields of a new food entry. Nil marks an
// omitted value.
type FoodLogDraft struct {
	Date        *time.Time `json:"date"`
	Meal        string     `json:"meal" validate:"required,max=200"`
	Weight      *float64   `json:"weight" validate:"omitempty,gte=0"`
	Calories    *float64   `json:"calories" validate:"required,gte=0"`
	Description string     `json:"description" validate:"max=2000"`
}

// Build implements Draft.
func (d FoodLogDraft) Build(id, owner string, now time.Time) *FoodLog {
	f := &FoodLog{
		Date:        now,
		Meal:        d.Meal,
		Description: d.Description,
	}
	if d.Date != nil {
		f.Date = *d.Date
	}
	if d.Weight != nil {
		w := *d.Weight
		f.Weight = &w
	}
	if d.Calories != nil {
		f.Calories = *d.Calories
	}
	f.Init(id, owner, now)
	return f
}

// FoodLogPatch carries a partial update. Nil fields are left unchanged.
type FoodLogPatch struct {
	Date        *time.Time `json:"date"`
	Meal        *string    `json:"meal" validate:"omitempty,min=1,max=200"`
	Weight      *float64   `json:"weight" validate:"omitempty,gte=0"`
	Calories    *float64   `json:"calories" validate:"omitempty,gte=0"`
	Description *string    `json:"description" validate:"omitempty,max=2000"`
}

// Apply copies the set fields of p onto f.
func (f *FoodLog) Apply(p FoodLogPatch) {
	if p.Date != nil {
		f.Date = *p.Date
	}
	if p.Meal != nil {
		f.Meal = *p.Meal
	}
	if p.Weight != nil {
		w := *p.Weight
		f.Weight = &w
	}
	if p.Calories != nil {
		f.Calories = *p.Calories
	}
	if p.Description != nil {
		f.Description = *p.Description
	}
}

// EntryID implements Entry.
func (f *FoodLog) EntryID() string { return f.ID }

// Owner implements Entry.
func (f *FoodLog) Owner() string { return f.OwnerEmail }

// EntryDate implements Entry.
func (f *FoodLog) EntryDate() time.Time { return f.Date }

// Timestamps implements Entry.
func (f *FoodLog) Timestamps() (time.Time, time.Time) { return f.CreatedAt, f.UpdatedAt }

// Init assigns identity, ownership and creation time. The date is kept.
func (f *FoodLog) Init(id, owner string, now time.Time) {
	f.ID = id
	f.OwnerEmail = owner
	f.CreatedAt = now
	f.UpdatedAt = now
}

// Touch implements Entry.
func (f *FoodLog) Touch(now time.Time) { f.UpdatedAt = now }

package model

import "time"

// Entry is implemented by log records that belong to exactly one user.
type Entry interface {
	EntryID() string
	Owner() string
	EntryDate() time.Time
	Timestamps() (created, updated time.Time)
	Touch(now time.Time)
}

// Draft is the client-supplied content of a new entry of type E.
type Draft[E Entry] interface {
	// Build returns the entry with identity and ownership assigned. It is
	// dated now unless the draft carries a date.
	Build(id, owner string, now time.Time) E
}

var (
	_ Entry = (*FoodLog)(nil)
	_ Entry = (*WorkoutLog)(nil)

	_ Draft[*FoodLog]    = FoodLogDraft{}
	_ Draft[*WorkoutLog] = WorkoutLogDraft{}
)

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/oklog/ulid/v2"

	"github.com/fitlog/fitlog/internal/metrics"
	"github.com/fitlog/fitlog/internal/model"
	"github.com/fitlog/fitlog/internal/repository"
)

// EntryStore persists owner-scoped entries of one kind. Every method
// filters by owner.
type EntryStore[E model.Entry, P any] interface {
	Create(ctx context.Context, entry E) error
	List(ctx context.Context, owner string) ([]E, error)
	Update(ctx context.Context, id, owner string, patch P, now time.Time) (E, error)
	Delete(ctx context.Context, id, owner string) error
}

// Logbook handles the log entries of one kind for authenticated users.
// New entries arrive as drafts of type D and updates as patches of type P.
type Logbook[E model.Entry, D model.Draft[E], P any] struct {
	kind     string
	store    EntryStore[E, P]
	validate *validator.Validate
	metrics  metrics.Recorder
	now      func() time.Time
	newID    func() string
}

// FoodLogbook manages food entries.
type FoodLogbook = Logbook[*model.FoodLog, model.FoodLogDraft, model.FoodLogPatch]

// WorkoutLogbook manages workout entries.
type WorkoutLogbook = Logbook[*model.WorkoutLog, model.WorkoutLogDraft, model.WorkoutLogPatch]

// NewLogbook creates a Logbook for entries of kind.
func NewLogbook[E model.Entry, D model.Draft[E], P any](kind string, store EntryStore[E, P], recorder metrics.Recorder) *Logbook[E, D, P] {
	if recorder == nil {
		recorder = metrics.NewNoop()
	}
	return &Logbook[E, D, P]{
		kind:     kind,
		store:    store,
		validate: newValidator(),
		metrics:  recorder,
		now:      func() time.Time { return time.Now().UTC() },
		newID:    func() string { return ulid.Make().String() },
	}
}

// Kind returns the entry kind, such as "food".
func (l *Logbook[E, D, P]) Kind() string {
	return l.kind
}

// Create stores draft as a new record owned by owner. The entry's id,
// owner and timestamps are assigned here; its date defaults to now.
func (l *Logbook[E, D, P]) Create(ctx context.Context, owner model.Identity, draft D) (E, error) {
	var zero E

	if err := validateStruct(l.validate, draft); err != nil {
		return zero, err
	}

	entry := draft.Build(l.newID(), owner.Email, l.now())

	if err := l.store.Create(ctx, entry); err != nil {
		return zero, fmt.Errorf("failed to create %s entry: %w", l.kind, err)
	}

	l.metrics.IncEntryCreated(l.kind)
	return entry, nil
}

// List returns the owner's entries, newest first.
func (l *Logbook[E, D, P]) List(ctx context.Context, owner model.Identity) ([]E, error) {
	entries, err := l.store.List(ctx, owner.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s entries: %w", l.kind, err)
	}
	return entries, nil
}

// Update applies patch to the owner's entry with id. An entry that does
// not exist and one owned by someone else are both ErrEntryNotFound.
func (l *Logbook[E, D, P]) Update(ctx context.Context, owner model.Identity, id string, patch P) (E, error) {
	var zero E

	if id == "" {
		return zero, ErrEntryNotFound
	}
	if err := validateStruct(l.validate, patch); err != nil {
		return zero, err
	}

	entry, err := l.store.Update(ctx, id, owner.Email, patch, l.now())
	if err != nil {
		if errors.Is(err, repository.ErrEntryNotFound) {
			return zero, ErrEntryNotFound
		}
		return zero, fmt.Errorf("failed to update %s entry: %w", l.kind, err)
	}

	l.metrics.IncEntryUpdated(l.kind)
	return entry, nil
}

// Delete removes the owner's entry with id.
func (l *Logbook[E, D, P]) Delete(ctx context.Context, owner model.Identity, id string) error {
	if id == "" {
		return ErrEntryNotFound
	}

	if err := l.store.Delete(ctx, id, owner.Email); err != nil {
		if errors.Is(err, repository.ErrEntryNotFound) {
			return ErrEntryNotFound
		}
		return fmt.Errorf("failed to delete %s entry: %w", l.kind, err)
	}

	l.metrics.IncEntryDeleted(l.kind)
	return nil
}

// NewFoodLogbook creates the food Logbook.
func NewFoodLogbook(store EntryStore[*model.FoodLog, model.FoodLogPatch], recorder metrics.Recorder) *FoodLogbook {
	return NewLogbook[*model.FoodLog, model.FoodLogDraft](metrics.KindFood, store, recorder)
}

// NewWorkoutLogbook creates the workout Logbook.
func NewWorkoutLogbook(store EntryStore[*model.WorkoutLog, model.WorkoutLogPatch], recorder metrics.Recorder) *WorkoutLogbook {
	return NewLogbook[*model.WorkoutLog, model.WorkoutLogDraft](metrics.KindWorkout, store, recorder)
}

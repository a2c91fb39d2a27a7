// Package memory implements the repository contracts in process memory.
// It backs DATABASE_URL=memory:// and the service and handler tests.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/fitlog/fitlog/internal/model"
	"github.com/fitlog/fitlog/internal/repository"
)

// Store holds users and both entry collections.
type Store struct {
	mu    sync.RWMutex
	users map[string]model.User

	foods    *EntryStore[*model.FoodLog, model.FoodLogPatch]
	workouts *EntryStore[*model.WorkoutLog, model.WorkoutLogPatch]
}

// New returns an empty Store.
func New() *Store {
	return &Store{
		users: make(map[string]model.User),
		foods: NewEntryStore(
			func(f *model.FoodLog) *model.FoodLog {
				c := *f
				if f.Weight != nil {
					w := *f.Weight
					c.Weight = &w
				}
				return &c
			},
			func(f *model.FoodLog, p model.FoodLogPatch) { f.Apply(p) },
		),
		workouts: NewEntryStore(
			func(w *model.WorkoutLog) *model.WorkoutLog {
				c := *w
				return &c
			},
			func(w *model.WorkoutLog, p model.WorkoutLogPatch) { w.Apply(p) },
		),
	}
}

// Ping always succeeds.
func (s *Store) Ping(context.Context) error { return nil }

// Close is a no-op.
func (s *Store) Close() {}

// FoodLogs returns the food entry store.
func (s *Store) FoodLogs() *EntryStore[*model.FoodLog, model.FoodLogPatch] { return s.foods }

// WorkoutLogs returns the workout entry store.
func (s *Store) WorkoutLogs() *EntryStore[*model.WorkoutLog, model.WorkoutLogPatch] {
	return s.workouts
}

// CreateUser stores a new user. Emails are compared exactly.
func (s *Store) CreateUser(_ context.Context, user *model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.Email]; ok {
		return repository.ErrEmailExists
	}
	s.users[user.Email] = *user
	return nil
}

// GetUserByEmail returns a copy of the stored user.
func (s *Store) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	return &user, nil
}

// UpdateUserPassword replaces the stored password hash.
func (s *Store) UpdateUserPassword(_ context.Context, email, passwordHash string, now time.Time) (*model.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user, ok := s.users[email]
	if !ok {
		return nil, repository.ErrUserNotFound
	}
	user.PasswordHash = passwordHash
	user.UpdatedAt = now
	s.users[email] = user
	return &user, nil
}

// EntryStore keeps owner-scoped entries keyed by id. Callers only ever
// receive clones, so stored entries cannot be mutated from outside.
type EntryStore[E model.Entry, P any] struct {
	mu      sync.RWMutex
	entries map[string]E
	clone   func(E) E
	apply   func(E, P)
}

// NewEntryStore returns an empty EntryStore.
func NewEntryStore[E model.Entry, P any](clone func(E) E, apply func(E, P)) *EntryStore[E, P] {
	return &EntryStore[E, P]{
		entries: make(map[string]E),
		clone:   clone,
		apply:   apply,
	}
}

// Create stores entry under its id.
func (s *EntryStore[E, P]) Create(_ context.Context, entry E) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[entry.EntryID()] = s.clone(entry)
	return nil
}

// List returns every entry owned by owner, newest first.
func (s *EntryStore[E, P]) List(_ context.Context, owner string) ([]E, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]E, 0)
	for _, e := range s.entries {
		if e.Owner() == owner {
			out = append(out, s.clone(e))
		}
	}

	sort.Slice(out, func(i, j int) bool {
		di, dj := out[i].EntryDate(), out[j].EntryDate()
		if !di.Equal(dj) {
			return di.After(dj)
		}
		return out[i].EntryID() > out[j].EntryID()
	})
	return out, nil
}

// Update applies patch to the entry with id owned by owner.
func (s *EntryStore[E, P]) Update(_ context.Context, id, owner string, patch P, now time.Time) (E, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok || e.Owner() != owner {
		var zero E
		return zero, repository.ErrEntryNotFound
	}

	s.apply(e, patch)
	e.Touch(now.UTC())
	return s.clone(e), nil
}

// Delete removes the entry with id owned by owner.
func (s *EntryStore[E, P]) Delete(_ context.Context, id, owner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok || e.Owner() != owner {
		return repository.ErrEntryNotFound
	}
	delete(s.entries, id)
	return nil
}

package testutil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync/atomic"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/fitlog/fitlog/internal/model"
)

// RequireEnv returns an environment variable or skips the test if missing.
func RequireEnv(t testing.TB, key string) string {
	t.Helper()
	value := os.Getenv(key)
	if value == "" {
		t.Skipf("%s not set", key)
	}
	return value
}

const advisoryLockID int64 = 420421

// AcquireDBLock grabs a global advisory lock to serialize DB tests.
func AcquireDBLock(ctx context.Context, pool *pgxpool.Pool) (func() error, error) {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}

	if _, err := conn.Exec(ctx, "SELECT pg_advisory_lock($1)", advisoryLockID); err != nil {
		conn.Release()
		return nil, fmt.Errorf("acquire advisory lock: %w", err)
	}

	unlock := func() error {
		defer conn.Release()
		if _, err := conn.Exec(ctx, "SELECT pg_advisory_unlock($1)", advisoryLockID); err != nil {
			return fmt.Errorf("release advisory lock: %w", err)
		}
		return nil
	}

	return unlock, nil
}

// TruncateAll empties every application table. Migrations must already
// have been applied.
func TruncateAll(ctx context.Context, pool *pgxpool.Pool) error {
	if _, err := pool.Exec(ctx, "TRUNCATE food_logs, workout_logs, users"); err != nil {
		return fmt.Errorf("truncate tables: %w", err)
	}
	return nil
}

// FlushRedis clears the current Redis database.
func FlushRedis(ctx context.Context, client *redis.Client) error {
	return client.FlushDB(ctx).Err()
}

// NewMiniRedis starts an in-process Redis server and returns a client
// connected to it. Both are closed when the test ends.
func NewMiniRedis(t testing.TB) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
	})
	return mr, client
}

// ProjectRoot returns the project root directory.
func ProjectRoot() (string, error) {
	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		return "", fmt.Errorf("failed to resolve testutil path")
	}
	root := filepath.Clean(filepath.Join(filepath.Dir(filename), "..", ".."))
	return root, nil
}

// ============================================================================
// Test Data Factories
// ============================================================================

var seq atomic.Int64

// UniqueID generates a unique ID for tests.
func UniqueID(prefix string) string {
	return fmt.Sprintf("%s-%d-%d", prefix, time.Now().UnixNano(), seq.Add(1))
}

// UniqueEmail generates a unique email address for tests.
func UniqueEmail(prefix string) string {
	return UniqueID(prefix) + "@example.com"
}

// NewTestUser creates a user with a placeholder password hash.
func NewTestUser(t testing.TB, email string) *model.User {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	return &model.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: "$2a$10$placeholderplaceholderplaceholderplaceholderplacehold",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// NewTestFoodLog creates a food entry owned by owner dated at date.
func NewTestFoodLog(t testing.TB, owner string, date time.Time) *model.FoodLog {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	f := &model.FoodLog{
		Date:        date.UTC().Truncate(time.Microsecond),
		Meal:        "oatmeal",
		Calories:    300,
		Description: "breakfast",
	}
	f.Init(UniqueID("food"), owner, now)
	return f
}

// NewTestWorkoutLog creates a workout entry owned by owner dated at date.
func NewTestWorkoutLog(t testing.TB, owner string, date time.Time) *model.WorkoutLog {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Microsecond)
	w := &model.WorkoutLog{
		Date:            date.UTC().Truncate(time.Microsecond),
		Type:            "run",
		DurationMinutes: 30,
		CaloriesBurned:  250,
	}
	w.Init(UniqueID("workout"), owner, now)
	return w
}

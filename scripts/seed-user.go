package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fitlog/fitlog/internal/auth"
	"github.com/fitlog/fitlog/internal/config"
	"github.com/fitlog/fitlog/internal/model"
	"github.com/fitlog/fitlog/internal/repository"
	"github.com/fitlog/fitlog/internal/service"
)

type output struct {
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Created   bool      `json:"created"`
	Entries   int       `json:"entries"`
	Token     string    `json:"token,omitempty"`
	ExpiresAt time.Time `json:"expiresAt,omitempty"`
}

func main() {
	var (
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "PostgreSQL connection string")
		jwtSecret   = flag.String("jwt-secret", os.Getenv("JWT_SECRET"), "Signing secret; a token is printed when set")
		name        = flag.String("name", "Demo", "Account name")
		email       = flag.String("email", "demo@fitlog.local", "Account email")
		password    = flag.String("password", "", "Account password (required when the account is created)")
		sample      = flag.Bool("sample", false, "Add a few sample food and workout entries")
		migrate     = flag.Bool("migrate", true, "Apply migrations first")
		format      = flag.String("format", "plain", "Output format: plain or json")
	)
	flag.Parse()

	if *databaseURL == "" || *databaseURL == config.MemoryDatabaseURL {
		fmt.Fprintln(os.Stderr, "a PostgreSQL DATABASE_URL is required")
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if *migrate {
		if err := repository.Migrate(ctx, *databaseURL); err != nil {
			fmt.Fprintln(os.Stderr, "migrate:", err)
			os.Exit(1)
		}
	}

	repo, err := repository.New(ctx, *databaseURL)
	if err != nil {
		fmt.Fprintln(os.Stderr, "connect database:", err)
		os.Exit(1)
	}
	defer repo.Close()

	user, created, err := ensureUser(ctx, repo, *name, *email, *password)
	if err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}

	out := output{Name: user.Name, Email: user.Email, Created: created}
	owner := user.Identity()

	if *sample {
		n, err := seedEntries(ctx, repo, owner)
		if err != nil {
			fmt.Fprintln(os.Stderr, "seed entries:", err)
			os.Exit(1)
		}
		out.Entries = n
	}

	if *jwtSecret != "" {
		token, expiresAt, err := auth.NewTokenIssuer(*jwtSecret, time.Hour).Issue(owner)
		if err != nil {
			fmt.Fprintln(os.Stderr, "issue token:", err)
			os.Exit(1)
		}
		out.Token, out.ExpiresAt = token, expiresAt
	}

	switch strings.ToLower(*format) {
	case "plain":
		if out.Token != "" {
			fmt.Println(out.Token)
		} else {
			fmt.Println(out.Email)
		}
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out)
	default:
		fmt.Fprintln(os.Stderr, "invalid format; use plain or json")
		os.Exit(1)
	}
}

// ensureUser returns the account for email, creating it when missing.
func ensureUser(ctx context.Context, repo *repository.Repository, name, email, password string) (*model.User, bool, error) {
	existing, err := repo.GetUserByEmail(ctx, email)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, repository.ErrUserNotFound) {
		return nil, false, fmt.Errorf("load user: %w", err)
	}
	if password == "" {
		return nil, false, fmt.Errorf("user %s does not exist; -password is required to create it", email)
	}

	hasher, err := auth.NewHasher(auth.DefaultCost)
	if err != nil {
		return nil, false, err
	}
	hash, err := hasher.Hash(password)
	if err != nil {
		return nil, false, fmt.Errorf("hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &model.User{
		Name:         name,
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := repo.CreateUser(ctx, user); err != nil {
		return nil, false, fmt.Errorf("create user: %w", err)
	}
	return user, true, nil
}

// seedEntries adds a small week of sample entries through the logbooks.
func seedEntries(ctx context.Context, repo *repository.Repository, owner model.Identity) (int, error) {
	foods := service.NewFoodLogbook(repo.FoodLogs(), nil)
	workouts := service.NewWorkoutLogbook(repo.WorkoutLogs(), nil)

	today := time.Now().UTC().Truncate(24 * time.Hour)
	weight, calories, burned := 150.0, 195.0, 280.0
	count := 0

	for day := 0; day < 3; day++ {
		date := today.AddDate(0, 0, -day)
		lunch := date.Add(12 * time.Hour)
		morning := date.Add(7 * time.Hour)
		duration := 30 + 5*day

		if _, err := foods.Create(ctx, owner, model.FoodLogDraft{
			Date:        &lunch,
			Meal:        "rice",
			Weight:      &weight,
			Calories:    &calories,
			Description: "lunch",
		}); err != nil {
			return count, err
		}
		count++

		if _, err := workouts.Create(ctx, owner, model.WorkoutLogDraft{
			Date:            &morning,
			Type:            "run",
			DurationMinutes: &duration,
			CaloriesBurned:  &burned,
		}); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

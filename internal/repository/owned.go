package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/fitlog/fitlog/internal/model"
)

// querier is the subset of pgxpool.Pool used by EntryStore.
type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// ownedTable describes a table whose rows belong to one user.
// Every row has id, owner_email, created_at and updated_at; columns lists
// the payload columns in between, in scan order. The first payload column
// is the entry date used for ordering.
type ownedTable[E model.Entry, P any] struct {
	name    string
	columns []string
	// values returns the payload column values of an entry.
	values func(E) []any
	// patch returns the payload column values of a patch; a nil value
	// leaves the column unchanged.
	patch func(P) []any
	// scan reads id, owner_email, payload columns, created_at, updated_at.
	scan func(pgx.Row) (E, error)
}

// EntryStore persists owner-scoped log entries. It is the only code that
// builds SQL for entry tables, and every statement it builds is filtered by
// owner_email.
type EntryStore[E model.Entry, P any] struct {
	db    querier
	table ownedTable[E, P]

	insertSQL string
	listSQL   string
	updateSQL string
	deleteSQL string
}

func newEntryStore[E model.Entry, P any](db querier, table ownedTable[E, P]) *EntryStore[E, P] {
	selectList := "id, owner_email, " + strings.Join(table.columns, ", ") + ", created_at, updated_at"

	insertCols := append([]string{"id", "owner_email"}, table.columns...)
	insertCols = append(insertCols, "created_at", "updated_at")
	placeholders := make([]string, len(insertCols))
	for i := range placeholders {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	// $1 id, $2 owner, $3 updated_at, payload from $4.
	sets := make([]string, 0, len(table.columns)+1)
	for i, col := range table.columns {
		sets = append(sets, fmt.Sprintf("%s = COALESCE($%d, %s)", col, i+4, col))
	}
	sets = append(sets, "updated_at = $3")

	dateCol := table.columns[0]

	return &EntryStore[E, P]{
		db:    db,
		table: table,
		insertSQL: fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
			table.name, strings.Join(insertCols, ", "), strings.Join(placeholders, ", ")),
		listSQL: fmt.Sprintf("SELECT %s FROM %s WHERE owner_email = $1 ORDER BY %s DESC, id DESC",
			selectList, table.name, dateCol),
		updateSQL: fmt.Sprintf("UPDATE %s SET %s WHERE id = $1 AND owner_email = $2 RETURNING %s",
			table.name, strings.Join(sets, ", "), selectList),
		deleteSQL: fmt.Sprintf("DELETE FROM %s WHERE id = $1 AND owner_email = $2", table.name),
	}
}

// Create inserts a new entry. The entry must already carry its id and owner.
func (s *EntryStore[E, P]) Create(ctx context.Context, entry E) error {
	created, updated := entry.Timestamps()

	args := []any{entry.EntryID(), entry.Owner()}
	args = append(args, s.table.values(entry)...)
	args = append(args, created, updated)

	if _, err := s.db.Exec(ctx, s.insertSQL, args...); err != nil {
		return fmt.Errorf("failed to create %s entry: %w", s.table.name, err)
	}
	return nil
}

// List returns every entry owned by owner, newest first.
func (s *EntryStore[E, P]) List(ctx context.Context, owner string) ([]E, error) {
	rows, err := s.db.Query(ctx, s.listSQL, owner)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", s.table.name, err)
	}
	defer rows.Close()

	entries := make([]E, 0)
	for rows.Next() {
		entry, err := s.table.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s entry: %w", s.table.name, err)
		}
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s: %w", s.table.name, err)
	}

	return entries, nil
}

// Update applies patch to the entry with id owned by owner in one statement.
func (s *EntryStore[E, P]) Update(ctx context.Context, id, owner string, patch P, now time.Time) (E, error) {
	args := []any{id, owner, now.UTC()}
	args = append(args, s.table.patch(patch)...)

	entry, err := s.table.scan(s.db.QueryRow(ctx, s.updateSQL, args...))
	if err != nil {
		var zero E
		if errors.Is(err, pgx.ErrNoRows) {
			return zero, ErrEntryNotFound
		}
		return zero, fmt.Errorf("failed to update %s entry: %w", s.table.name, err)
	}
	return entry, nil
}

// Delete removes the entry with id owned by owner.
func (s *EntryStore[E, P]) Delete(ctx context.Context, id, owner string) error {
	result, err := s.db.Exec(ctx, s.deleteSQL, id, owner)
	if err != nil {
		return fmt.Errorf("failed to delete %s entry: %w", s.table.name, err)
	}

	if result.RowsAffected() == 0 {
		return ErrEntryNotFound
	}

	return nil
}

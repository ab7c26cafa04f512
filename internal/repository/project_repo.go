package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/content-calendar-api/internal/database"
	"github.com/content-calendar-api/internal/models"
)

// projectRepo is the concrete implementation of ProjectRepository
type projectRepo struct {
	db *database.DB
}

// NewProjectRepo creates a new project repository
func NewProjectRepo(db *database.DB) ProjectRepository {
	return &projectRepo{db: db}
}

// Create inserts an empty project
func (r *projectRepo) Create(ctx context.Context, name string) error {
	_, err := r.db.ExecContext(ctx, r.db.Rebind("INSERT INTO projects (name, created_at) VALUES (?, ?)"),
		name, time.Now().UTC())
	if isUniqueViolation(err) {
		return fmt.Errorf("project %q: %w", name, ErrAlreadyExists)
	}
	if err != nil {
		return fmt.Errorf("failed to create project: %w", err)
	}
	return nil
}

// GetByName retrieves a project with its entries in calendar order
func (r *projectRepo) GetByName(ctx context.Context, name string) (*models.Project, error) {
	var found string
	err := r.db.QueryRowContext(ctx, r.db.Rebind("SELECT name FROM projects WHERE name = ?"), name).Scan(&found)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}

	entries, err := loadEntries(ctx, r.db, r.db, name)
	if err != nil {
		return nil, fmt.Errorf("failed to load calendar entries: %w", err)
	}

	return &models.Project{Name: found, CalendarEntries: entries}, nil
}

// ListNames returns all project names in name order
func (r *projectRepo) ListNames(ctx context.Context) ([]string, error) {
	return listNames(ctx, r.db, "projects")
}

// ReplaceEntries overwrites the entries of a project, creating it if needed
func (r *projectRepo) ReplaceEntries(ctx context.Context, name string, entries []models.CalendarEntry) error {
	return r.mutate(ctx, name, true, func([]models.CalendarEntry) ([]models.CalendarEntry, error) {
		return entries, nil
	})
}

// AppendEntries adds entries at the end of a project, creating it if needed
func (r *projectRepo) AppendEntries(ctx context.Context, name string, entries ...models.CalendarEntry) error {
	return r.mutate(ctx, name, true, func(current []models.CalendarEntry) ([]models.CalendarEntry, error) {
		return append(current, entries...), nil
	})
}

// UpdateEntry replaces the entry at index
func (r *projectRepo) UpdateEntry(ctx context.Context, name string, index int, entry models.CalendarEntry) error {
	return r.mutate(ctx, name, false, func(current []models.CalendarEntry) ([]models.CalendarEntry, error) {
		if index < 0 || index >= len(current) {
			return nil, ErrIndexOutOfRange
		}
		current[index] = entry
		return current, nil
	})
}

// DeleteEntry removes the entry at index, shifting later entries down
func (r *projectRepo) DeleteEntry(ctx context.Context, name string, index int) error {
	return r.mutate(ctx, name, false, func(current []models.CalendarEntry) ([]models.CalendarEntry, error) {
		if index < 0 || index >= len(current) {
			return nil, ErrIndexOutOfRange
		}
		return append(current[:index], current[index+1:]...), nil
	})
}

// Delete removes the project, its entries and the client of the same name
func (r *projectRepo) Delete(ctx context.Context, name string) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, r.db.Rebind("DELETE FROM calendar_entries WHERE project_name = ?"), name); err != nil {
			return fmt.Errorf("failed to delete calendar entries: %w", err)
		}

		var affected int64
		for _, table := range []string{"projects", "clients"} {
			result, err := tx.ExecContext(ctx, r.db.Rebind("DELETE FROM "+table+" WHERE name = ?"), name)
			if err != nil {
				return fmt.Errorf("failed to delete from %s: %w", table, err)
			}
			n, _ := result.RowsAffected()
			affected += n
		}

		if affected == 0 {
			return fmt.Errorf("project %q: %w", name, ErrNotFound)
		}
		return nil
	})
}

// mutate runs a locked read-modify-write of a project's entries
func (r *projectRepo) mutate(ctx context.Context, name string, create bool,
	fn func(current []models.CalendarEntry) ([]models.CalendarEntry, error)) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		exists, err := projectExists(ctx, r.db, tx, name, true)
		if err != nil {
			return fmt.Errorf("failed to check project: %w", err)
		}

		if !exists {
			if !create {
				return fmt.Errorf("project %q: %w", name, ErrNotFound)
			}
			if _, err := tx.ExecContext(ctx, r.db.Rebind("INSERT INTO projects (name, created_at) VALUES (?, ?)"),
				name, time.Now().UTC()); err != nil {
				return fmt.Errorf("failed to create project: %w", err)
			}
		}

		current, err := loadEntries(ctx, r.db, tx, name)
		if err != nil {
			return fmt.Errorf("failed to load calendar entries: %w", err)
		}

		updated, err := fn(current)
		if err != nil {
			return err
		}

		if err := writeEntries(ctx, r.db, tx, name, updated); err != nil {
			return fmt.Errorf("failed to write calendar entries: %w", err)
		}
		return nil
	})
}

package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/content-calendar-api/internal/database"
	"github.com/content-calendar-api/internal/models"
	"github.com/lib/pq"
)

// withTx runs fn inside a transaction, committing only when fn succeeds
func withTx(ctx context.Context, db *database.DB, fn func(tx *sql.Tx) error) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}
	return tx.Commit()
}

// isUniqueViolation reports whether err is a primary key / unique conflict
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Code == "23505"
	}
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func projectExists(ctx context.Context, db *database.DB, tx *sql.Tx, name string, lock bool) (bool, error) {
	query := "SELECT name FROM projects WHERE name = ?"
	if lock {
		query += db.ForUpdate()
	}

	var found string
	err := tx.QueryRowContext(ctx, db.Rebind(query), name).Scan(&found)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func loadEntries(ctx context.Context, db *database.DB, q interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}, name string) ([]models.CalendarEntry, error) {
	query := `
		SELECT entry_date, entry_day, content_type, channel, status, text_content,
			approval, hashtags, call_to_action, refs
		FROM calendar_entries WHERE project_name = ?
		ORDER BY seq
	`
	rows, err := q.QueryContext(ctx, db.Rebind(query), name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := []models.CalendarEntry{}
	for rows.Next() {
		var e models.CalendarEntry
		if err := rows.Scan(&e.Date, &e.Day, &e.ContentType, &e.Channel, &e.Status,
			&e.TextContent, &e.Approval, &e.Hashtags, &e.CallToAction, &e.References); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// writeEntries replaces every entry of a project inside tx
func writeEntries(ctx context.Context, db *database.DB, tx *sql.Tx, name string, entries []models.CalendarEntry) error {
	if _, err := tx.ExecContext(ctx, db.Rebind("DELETE FROM calendar_entries WHERE project_name = ?"), name); err != nil {
		return err
	}
	if len(entries) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, db.Rebind(`
		INSERT INTO calendar_entries (project_name, seq, entry_date, entry_day, content_type,
			channel, status, text_content, approval, hashtags, call_to_action, refs)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`))
	if err != nil {
		return err
	}
	defer stmt.Close()

	for i, e := range entries {
		if _, err := stmt.ExecContext(ctx, name, i, e.Date, e.Day, e.ContentType, e.Channel,
			e.Status, e.TextContent, e.Approval, e.Hashtags, e.CallToAction, e.References); err != nil {
			return err
		}
	}
	return nil
}

func listNames(ctx context.Context, db *database.DB, table string) ([]string, error) {
	rows, err := db.QueryContext(ctx, "SELECT name FROM "+table+" ORDER BY name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

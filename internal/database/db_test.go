package database

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
)

func TestRebind(t *testing.T) {
	pg := &DB{dialect: DialectPostgres}
	lite := &DB{dialect: DialectSQLite}

	query := "SELECT * FROM clients WHERE name = ? AND target_month = ?"

	if got := pg.Rebind(query); got != "SELECT * FROM clients WHERE name = $1 AND target_month = $2" {
		t.Errorf("Unexpected postgres query: %s", got)
	}
	if got := lite.Rebind(query); got != query {
		t.Errorf("SQLite query should be unchanged, got %s", got)
	}
	if pg.ForUpdate() == "" || lite.ForUpdate() != "" {
		t.Error("Only postgres should lock rows explicitly")
	}
}

func TestSQLiteMigrations(t *testing.T) {
	db, err := NewSQLite(filepath.Join(t.TempDir(), "test.db"), zerolog.Nop())
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	defer db.Close()

	if err := db.RunMigrations(""); err != nil {
		t.Fatalf("RunMigrations failed: %v", err)
	}
	// Second run is a no-op
	if err := db.RunMigrations(""); err != nil {
		t.Fatalf("Repeated RunMigrations failed: %v", err)
	}

	ctx := context.Background()
	for _, table := range []string{"clients", "projects", "calendar_entries"} {
		var name string
		err := db.QueryRowContext(ctx, "SELECT name FROM sqlite_master WHERE type = 'table' AND name = ?", table).Scan(&name)
		if err != nil {
			t.Errorf("Table %s missing: %v", table, err)
		}
	}

	if err := db.MigrateDown(""); err != nil {
		t.Fatalf("MigrateDown failed: %v", err)
	}
}

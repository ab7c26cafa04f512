package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/content-calendar-api/internal/database"
	"github.com/content-calendar-api/internal/models"
)

// clientRepo is the concrete implementation of ClientRepository
type clientRepo struct {
	db *database.DB
}

// NewClientRepo creates a new client repository
func NewClientRepo(db *database.DB) ClientRepository {
	return &clientRepo{db: db}
}

// Create inserts the client and writes its project in the same transaction
func (r *clientRepo) Create(ctx context.Context, client *models.Client, project *models.Project) error {
	platforms, err := json.Marshal(client.Platforms)
	if err != nil {
		return fmt.Errorf("failed to encode platforms: %w", err)
	}
	contentCalendar, err := json.Marshal(client.ContentCalendar)
	if err != nil {
		return fmt.Errorf("failed to encode content calendar: %w", err)
	}
	if client.CreatedAt.IsZero() {
		client.CreatedAt = time.Now().UTC()
	}

	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		_, err := tx.ExecContext(ctx, r.db.Rebind(`
			INSERT INTO clients (name, num_posts, num_reels, platforms, target_month, suggestions,
				image_insights, industry, target_audience, goals, content_calendar, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`),
			client.CompanyName, client.NumPosts, client.NumReels, string(platforms), client.TargetMonth,
			client.Suggestions, client.ImageInsights, client.Industry, client.TargetAudience,
			client.Goals, string(contentCalendar), client.CreatedAt,
		)
		if isUniqueViolation(err) {
			return fmt.Errorf("client %q: %w", client.CompanyName, ErrAlreadyExists)
		}
		if err != nil {
			return fmt.Errorf("failed to insert client: %w", err)
		}

		exists, err := projectExists(ctx, r.db, tx, client.CompanyName, true)
		if err != nil {
			return fmt.Errorf("failed to check project: %w", err)
		}
		if !exists {
			if _, err := tx.ExecContext(ctx, r.db.Rebind("INSERT INTO projects (name, created_at) VALUES (?, ?)"),
				client.CompanyName, client.CreatedAt); err != nil {
				return fmt.Errorf("failed to insert project: %w", err)
			}
		}

		if err := writeEntries(ctx, r.db, tx, client.CompanyName, project.Entries()); err != nil {
			return fmt.Errorf("failed to write calendar entries: %w", err)
		}
		return nil
	})
}

// GetByName retrieves a client by company name
func (r *clientRepo) GetByName(ctx context.Context, name string) (*models.Client, error) {
	query := `
		SELECT name, num_posts, num_reels, platforms, target_month, suggestions, image_insights,
			industry, target_audience, goals, content_calendar, created_at
		FROM clients WHERE name = ?
	`

	var c models.Client
	var platforms, contentCalendar string
	err := r.db.QueryRowContext(ctx, r.db.Rebind(query), name).Scan(
		&c.CompanyName, &c.NumPosts, &c.NumReels, &platforms, &c.TargetMonth, &c.Suggestions,
		&c.ImageInsights, &c.Industry, &c.TargetAudience, &c.Goals, &contentCalendar, &c.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}

	if err := json.Unmarshal([]byte(platforms), &c.Platforms); err != nil {
		return nil, fmt.Errorf("failed to decode platforms of %q: %w", name, err)
	}
	if err := json.Unmarshal([]byte(contentCalendar), &c.ContentCalendar); err != nil {
		return nil, fmt.Errorf("failed to decode content calendar of %q: %w", name, err)
	}

	return &c, nil
}

// ListNames returns all client names in name order
func (r *clientRepo) ListNames(ctx context.Context) ([]string, error) {
	return listNames(ctx, r.db, "clients")
}

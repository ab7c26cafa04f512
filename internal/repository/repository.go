package repository

import (
	"context"
	"errors"

	"github.com/content-calendar-api/internal/database"
	"github.com/content-calendar-api/internal/models"
)

var (
	// ErrNotFound is returned when a record does not exist
	ErrNotFound = errors.New("record not found")

	// ErrAlreadyExists is returned when creating a record whose name is taken
	ErrAlreadyExists = errors.New("record already exists")

	// ErrIndexOutOfRange is returned when an entry index is outside the calendar
	ErrIndexOutOfRange = errors.New("entry index out of range")
)

// ClientRepository defines the interface for client record operations
type ClientRepository interface {
	// Create stores a client and its project in one atomic operation.
	// A standalone project of the same name is replaced.
	Create(ctx context.Context, client *models.Client, project *models.Project) error
	GetByName(ctx context.Context, name string) (*models.Client, error)
	ListNames(ctx context.Context) ([]string, error)
}

// ProjectRepository defines the interface for project record operations.
// GetByName returns nil, nil when the project does not exist.
type ProjectRepository interface {
	Create(ctx context.Context, name string) error
	GetByName(ctx context.Context, name string) (*models.Project, error)
	ListNames(ctx context.Context) ([]string, error)
	ReplaceEntries(ctx context.Context, name string, entries []models.CalendarEntry) error
	// AppendEntries adds entries at the end, creating the project if needed
	AppendEntries(ctx context.Context, name string, entries ...models.CalendarEntry) error
	UpdateEntry(ctx context.Context, name string, index int, entry models.CalendarEntry) error
	DeleteEntry(ctx context.Context, name string, index int) error
	// Delete removes the project and the client of the same name atomically
	Delete(ctx context.Context, name string) error
}

// Repositories holds all repository interfaces
type Repositories struct {
	Client  ClientRepository
	Project ProjectRepository
}

// New creates all repositories with the given database connection
func New(db *database.DB) *Repositories {
	return &Repositories{
		Client:  NewClientRepo(db),
		Project: NewProjectRepo(db),
	}
}

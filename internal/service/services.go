package service

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/content-calendar-api/internal/ai"
	"github.com/content-calendar-api/internal/calendar"
	"github.com/content-calendar-api/internal/config"
	"github.com/content-calendar-api/internal/models"
	"github.com/content-calendar-api/internal/repository"
	"github.com/rs/zerolog"
)

// ErrInvalidInput is returned when a request fails field validation
var ErrInvalidInput = errors.New("invalid input")

// ClientService defines the interface for client operations
type ClientService interface {
	// CreateClient generates the content calendar and stores the client and its project together
	CreateClient(ctx context.Context, req *models.CreateClientRequest) (*models.Client, error)
	ListClients(ctx context.Context) ([]string, error)
}

// CalendarService defines the interface for calendar views and entry edits
type CalendarService interface {
	// GetCalendar returns the project view, re-deriving it from the client's
	// generated calendar when one exists
	GetCalendar(ctx context.Context, project string) (*models.Project, error)
	AddEntry(ctx context.Context, project string, entry models.CalendarEntry) error
	UpdateEntry(ctx context.Context, project string, index int, entry models.CalendarEntry) error
	DeleteEntry(ctx context.Context, project string, index int) error
}

// ProjectService defines the interface for project management
type ProjectService interface {
	ListProjects(ctx context.Context) ([]string, error)
	AddProject(ctx context.Context, name string) ([]string, error)
	DeleteProject(ctx context.Context, name string) ([]string, error)
}

// PreviewService defines the interface for AI-backed previews and probes
type PreviewService interface {
	RenderPreview(ctx context.Context, clientName string, index int) ([]byte, error)
	Probe(ctx context.Context) (string, error)
}

// ExportService defines the interface for calendar export
type ExportService interface {
	ExportCalendar(ctx context.Context, w http.ResponseWriter, project, format string) error
}

// ImportService defines the interface for calendar entry import
type ImportService interface {
	ImportEntries(ctx context.Context, project, format string, r io.Reader) (*models.ImportResult, error)
}

// Services holds all service interfaces
type Services struct {
	Client   ClientService
	Calendar CalendarService
	Project  ProjectService
	Preview  PreviewService
	Export   ExportService
	Import   ImportService
}

// Dependencies are the collaborators the services are built from
type Dependencies struct {
	Repos  *repository.Repositories
	Text   ai.TextGenerator
	Vision ai.ImageAnalyzer
	Images ai.ImageGenerator
}

// NewServices creates all services
func NewServices(deps Dependencies, cfg *config.Config, log zerolog.Logger) *Services {
	calendarSvc := newCalendarService(deps.Repos, log)

	return &Services{
		Client: newClientService(
			deps.Repos,
			calendar.NewGenerator(deps.Text, log),
			ai.NewInsightExtractor(deps.Vision, log),
			cfg.Upload.MaxInsightImages,
			log,
		),
		Calendar: calendarSvc,
		Project:  newProjectService(deps.Repos, log),
		Preview:  newPreviewService(calendarSvc, ai.NewPreviewRenderer(deps.Images, log), deps.Text, log),
		Export:   newExportService(calendarSvc, log),
		Import:   newImportService(deps.Repos, log),
	}
}

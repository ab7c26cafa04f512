package mocks

import (
	"context"
	"io"
	"net/http"

	"github.com/content-calendar-api/internal/models"
	"github.com/content-calendar-api/internal/service"
)

// MockClientService is a mock implementation of ClientService
type MockClientService struct {
	CreateFunc func(ctx context.Context, req *models.CreateClientRequest) (*models.Client, error)
	Requests   []*models.CreateClientRequest
	Names      []string
}

// Verify interface compliance
var _ service.ClientService = (*MockClientService)(nil)

func NewMockClientService() *MockClientService {
	return &MockClientService{}
}

func (m *MockClientService) CreateClient(ctx context.Context, req *models.CreateClientRequest) (*models.Client, error) {
	m.Requests = append(m.Requests, req)
	if m.CreateFunc != nil {
		return m.CreateFunc(ctx, req)
	}
	return &models.Client{CompanyName: req.CompanyName}, nil
}

func (m *MockClientService) ListClients(ctx context.Context) ([]string, error) {
	return m.Names, nil
}

// MockCalendarService is a mock implementation of CalendarService
type MockCalendarService struct {
	Projects map[string]*models.Project
	Err      error
	Added    []models.CalendarEntry
	Updated  map[int]models.CalendarEntry
	Deleted  []int
}

// Verify interface compliance
var _ service.CalendarService = (*MockCalendarService)(nil)

func NewMockCalendarService() *MockCalendarService {
	return &MockCalendarService{
		Projects: make(map[string]*models.Project),
		Updated:  make(map[int]models.CalendarEntry),
	}
}

func (m *MockCalendarService) GetCalendar(ctx context.Context, project string) (*models.Project, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if p, ok := m.Projects[project]; ok {
		return p, nil
	}
	return &models.Project{Name: project}, nil
}

func (m *MockCalendarService) AddEntry(ctx context.Context, project string, entry models.CalendarEntry) error {
	if m.Err != nil {
		return m.Err
	}
	m.Added = append(m.Added, entry)
	return nil
}

func (m *MockCalendarService) UpdateEntry(ctx context.Context, project string, index int, entry models.CalendarEntry) error {
	if m.Err != nil {
		return m.Err
	}
	m.Updated[index] = entry
	return nil
}

func (m *MockCalendarService) DeleteEntry(ctx context.Context, project string, index int) error {
	if m.Err != nil {
		return m.Err
	}
	m.Deleted = append(m.Deleted, index)
	return nil
}

// MockProjectService is a mock implementation of ProjectService
type MockProjectService struct {
	Names []string
	Err   error
}

// Verify interface compliance
var _ service.ProjectService = (*MockProjectService)(nil)

func NewMockProjectService(names ...string) *MockProjectService {
	return &MockProjectService{Names: names}
}

func (m *MockProjectService) ListProjects(ctx context.Context) ([]string, error) {
	return m.Names, m.Err
}

func (m *MockProjectService) AddProject(ctx context.Context, name string) ([]string, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	m.Names = append(m.Names, name)
	return m.Names, nil
}

func (m *MockProjectService) DeleteProject(ctx context.Context, name string) ([]string, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	kept := m.Names[:0]
	for _, n := range m.Names {
		if n != name {
			kept = append(kept, n)
		}
	}
	m.Names = kept
	return m.Names, nil
}

// MockPreviewService is a mock implementation of PreviewService
type MockPreviewService struct {
	Image     []byte
	RenderErr error
	ProbeText string
	ProbeErr  error
}

// Verify interface compliance
var _ service.PreviewService = (*MockPreviewService)(nil)

func NewMockPreviewService() *MockPreviewService {
	return &MockPreviewService{}
}

func (m *MockPreviewService) RenderPreview(ctx context.Context, clientName string, index int) ([]byte, error) {
	return m.Image, m.RenderErr
}

func (m *MockPreviewService) Probe(ctx context.Context) (string, error) {
	return m.ProbeText, m.ProbeErr
}

// MockExportService is a mock implementation of ExportService
type MockExportService struct {
	ExportFunc func(ctx context.Context, w http.ResponseWriter, project, format string) error
}

// Verify interface compliance
var _ service.ExportService = (*MockExportService)(nil)

func NewMockExportService() *MockExportService {
	return &MockExportService{}
}

func (m *MockExportService) ExportCalendar(ctx context.Context, w http.ResponseWriter, project, format string) error {
	if m.ExportFunc != nil {
		return m.ExportFunc(ctx, w, project, format)
	}
	return nil
}

// MockImportService is a mock implementation of ImportService
type MockImportService struct {
	Result *models.ImportResult
	Err    error
	Bodies []string
}

// Verify interface compliance
var _ service.ImportService = (*MockImportService)(nil)

func NewMockImportService() *MockImportService {
	return &MockImportService{}
}

func (m *MockImportService) ImportEntries(ctx context.Context, project, format string, r io.Reader) (*models.ImportResult, error) {
	data, _ := io.ReadAll(r)
	m.Bodies = append(m.Bodies, string(data))
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Result != nil {
		return m.Result, nil
	}
	return &models.ImportResult{Project: project}, nil
}

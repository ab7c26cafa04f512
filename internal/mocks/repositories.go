package mocks

import (
	"context"
	"sort"

	"github.com/content-calendar-api/internal/models"
	"github.com/content-calendar-api/internal/repository"
)

// MockClientRepository is a mock implementation of ClientRepository
type MockClientRepository struct {
	Clients     map[string]*models.Client
	Projects    *MockProjectRepository
	CreateError error
	CreateCalls int
}

// Verify interface compliance
var _ repository.ClientRepository = (*MockClientRepository)(nil)

func NewMockClientRepository(projects *MockProjectRepository) *MockClientRepository {
	return &MockClientRepository{
		Clients:  make(map[string]*models.Client),
		Projects: projects,
	}
}

func (m *MockClientRepository) Create(ctx context.Context, client *models.Client, project *models.Project) error {
	m.CreateCalls++
	if m.CreateError != nil {
		return m.CreateError
	}
	if _, exists := m.Clients[client.CompanyName]; exists {
		return repository.ErrAlreadyExists
	}
	m.Clients[client.CompanyName] = client
	m.Projects.Projects[client.CompanyName] = append([]models.CalendarEntry{}, project.Entries()...)
	return nil
}

func (m *MockClientRepository) GetByName(ctx context.Context, name string) (*models.Client, error) {
	return m.Clients[name], nil
}

func (m *MockClientRepository) ListNames(ctx context.Context) ([]string, error) {
	return sortedNames(m.Clients), nil
}

// MockProjectRepository is a mock implementation of ProjectRepository
type MockProjectRepository struct {
	Projects     map[string][]models.CalendarEntry
	Clients      *MockClientRepository
	Err          error
	ReplaceCalls int
}

// Verify interface compliance
var _ repository.ProjectRepository = (*MockProjectRepository)(nil)

func NewMockProjectRepository() *MockProjectRepository {
	return &MockProjectRepository{
		Projects: make(map[string][]models.CalendarEntry),
	}
}

// NewMockRepositories returns linked client and project mocks behind a Repositories value
func NewMockRepositories() (*repository.Repositories, *MockClientRepository, *MockProjectRepository) {
	projects := NewMockProjectRepository()
	clients := NewMockClientRepository(projects)
	projects.Clients = clients
	return &repository.Repositories{Client: clients, Project: projects}, clients, projects
}

func (m *MockProjectRepository) Create(ctx context.Context, name string) error {
	if m.Err != nil {
		return m.Err
	}
	if _, exists := m.Projects[name]; exists {
		return repository.ErrAlreadyExists
	}
	m.Projects[name] = []models.CalendarEntry{}
	return nil
}

func (m *MockProjectRepository) GetByName(ctx context.Context, name string) (*models.Project, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	entries, exists := m.Projects[name]
	if !exists {
		return nil, nil
	}
	return &models.Project{Name: name, CalendarEntries: append([]models.CalendarEntry{}, entries...)}, nil
}

func (m *MockProjectRepository) ListNames(ctx context.Context) ([]string, error) {
	return sortedNames(m.Projects), nil
}

func (m *MockProjectRepository) ReplaceEntries(ctx context.Context, name string, entries []models.CalendarEntry) error {
	m.ReplaceCalls++
	if m.Err != nil {
		return m.Err
	}
	m.Projects[name] = append([]models.CalendarEntry{}, entries...)
	return nil
}

func (m *MockProjectRepository) AppendEntries(ctx context.Context, name string, entries ...models.CalendarEntry) error {
	if m.Err != nil {
		return m.Err
	}
	m.Projects[name] = append(m.Projects[name], entries...)
	return nil
}

func (m *MockProjectRepository) UpdateEntry(ctx context.Context, name string, index int, entry models.CalendarEntry) error {
	if m.Err != nil {
		return m.Err
	}
	entries, exists := m.Projects[name]
	if !exists {
		return repository.ErrNotFound
	}
	if index < 0 || index >= len(entries) {
		return repository.ErrIndexOutOfRange
	}
	entries[index] = entry
	return nil
}

func (m *MockProjectRepository) DeleteEntry(ctx context.Context, name string, index int) error {
	if m.Err != nil {
		return m.Err
	}
	entries, exists := m.Projects[name]
	if !exists {
		return repository.ErrNotFound
	}
	if index < 0 || index >= len(entries) {
		return repository.ErrIndexOutOfRange
	}
	m.Projects[name] = append(entries[:index], entries[index+1:]...)
	return nil
}

func (m *MockProjectRepository) Delete(ctx context.Context, name string) error {
	if m.Err != nil {
		return m.Err
	}
	_, hasProject := m.Projects[name]
	hasClient := false
	if m.Clients != nil {
		_, hasClient = m.Clients.Clients[name]
		delete(m.Clients.Clients, name)
	}
	if !hasProject && !hasClient {
		return repository.ErrNotFound
	}
	delete(m.Projects, name)
	return nil
}

func sortedNames[V any](m map[string]V) []string {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

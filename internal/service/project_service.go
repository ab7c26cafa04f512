package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/content-calendar-api/internal/repository"
	"github.com/rs/zerolog"
)

// projectService is the concrete implementation of ProjectService
type projectService struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

// newProjectService creates a new ProjectService
func newProjectService(repos *repository.Repositories, log zerolog.Logger) *projectService {
	return &projectService{
		repos: repos,
		log:   log.With().Str("service", "project").Logger(),
	}
}

func (s *projectService) ListProjects(ctx context.Context) ([]string, error) {
	return s.repos.Project.ListNames(ctx)
}

// AddProject creates an empty standalone project and returns the updated list
func (s *projectService) AddProject(ctx context.Context, name string) ([]string, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: project name is required", ErrInvalidInput)
	}
	if err := s.repos.Project.Create(ctx, name); err != nil {
		return nil, err
	}
	s.log.Info().Str("project", name).Msg("Project created")
	return s.repos.Project.ListNames(ctx)
}

// DeleteProject removes the project together with the client of the same name
func (s *projectService) DeleteProject(ctx context.Context, name string) ([]string, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: project name is required", ErrInvalidInput)
	}
	if err := s.repos.Project.Delete(ctx, name); err != nil {
		return nil, err
	}
	s.log.Info().Str("project", name).Msg("Project deleted")
	return s.repos.Project.ListNames(ctx)
}

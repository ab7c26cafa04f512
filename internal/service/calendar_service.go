package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/content-calendar-api/internal/calendar"
	"github.com/content-calendar-api/internal/models"
	"github.com/content-calendar-api/internal/repository"
	"github.com/rs/zerolog"
)

// calendarService is the concrete implementation of CalendarService
type calendarService struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

// newCalendarService creates a new CalendarService
func newCalendarService(repos *repository.Repositories, log zerolog.Logger) *calendarService {
	return &calendarService{
		repos: repos,
		log:   log.With().Str("service", "calendar").Logger(),
	}
}

// GetCalendar loads a project. When a client of the same name has a generated
// calendar, the entries are rebuilt from it and persisted, discarding direct edits.
func (s *calendarService) GetCalendar(ctx context.Context, project string) (*models.Project, error) {
	p, err := s.repos.Project.GetByName(ctx, project)
	if err != nil {
		return nil, err
	}
	if p == nil {
		p = &models.Project{Name: project}
	}

	client, err := s.repos.Client.GetByName(ctx, project)
	if err != nil {
		return nil, err
	}
	if client == nil || len(client.ContentCalendar) == 0 {
		p.CalendarEntries = p.Entries()
		return p, nil
	}

	entries := calendar.Materialize(client.ContentCalendar)
	if err := s.repos.Project.ReplaceEntries(ctx, project, entries); err != nil {
		return nil, fmt.Errorf("failed to persist calendar view: %w", err)
	}

	s.log.Debug().Str("project", project).Int("entries", len(entries)).Msg("Calendar view rebuilt from generated calendar")
	return &models.Project{Name: project, CalendarEntries: entries}, nil
}

// AddEntry appends an entry, creating the project when it does not exist
func (s *calendarService) AddEntry(ctx context.Context, project string, entry models.CalendarEntry) error {
	if strings.TrimSpace(project) == "" {
		return fmt.Errorf("%w: project is required", ErrInvalidInput)
	}
	if entry.Day == "" {
		entry.Day = calendar.Weekday(entry.Date)
	}
	if entry.Status == "" {
		entry.Status = models.EntryStatusPending
	}
	if entry.Approval == "" {
		entry.Approval = models.EntryApprovalPending
	}

	if err := s.repos.Project.AppendEntries(ctx, project, entry); err != nil {
		return err
	}

	s.log.Info().Str("project", project).Str("date", entry.Date).Str("channel", entry.Channel).Msg("Entry added")
	return nil
}

// UpdateEntry replaces the entry at index
func (s *calendarService) UpdateEntry(ctx context.Context, project string, index int, entry models.CalendarEntry) error {
	if err := s.repos.Project.UpdateEntry(ctx, project, index, entry); err != nil {
		return err
	}
	s.log.Info().Str("project", project).Int("index", index).Msg("Entry updated")
	return nil
}

// DeleteEntry removes the entry at index
func (s *calendarService) DeleteEntry(ctx context.Context, project string, index int) error {
	if err := s.repos.Project.DeleteEntry(ctx, project, index); err != nil {
		return err
	}
	s.log.Info().Str("project", project).Int("index", index).Msg("Entry deleted")
	return nil
}

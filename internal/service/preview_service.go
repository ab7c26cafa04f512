package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/content-calendar-api/internal/ai"
	"github.com/content-calendar-api/internal/repository"
	"github.com/rs/zerolog"
)

const probePrompt = "Explain how AI works"

// previewService is the concrete implementation of PreviewService
type previewService struct {
	calendar CalendarService
	renderer *ai.PreviewRenderer
	text     ai.TextGenerator
	log      zerolog.Logger
}

// newPreviewService creates a new PreviewService
func newPreviewService(calendar CalendarService, renderer *ai.PreviewRenderer, text ai.TextGenerator, log zerolog.Logger) *previewService {
	return &previewService{
		calendar: calendar,
		renderer: renderer,
		text:     text,
		log:      log.With().Str("service", "preview").Logger(),
	}
}

// RenderPreview renders an image for the entry at index of the client's calendar view
func (s *previewService) RenderPreview(ctx context.Context, clientName string, index int) ([]byte, error) {
	project, err := s.calendar.GetCalendar(ctx, clientName)
	if err != nil {
		return nil, err
	}

	entries := project.Entries()
	if index < 0 || index >= len(entries) {
		return nil, fmt.Errorf("entry %d of %q: %w", index, clientName, repository.ErrNotFound)
	}
	entry := entries[index]

	data, err := s.renderer.Render(ctx, ai.PreviewRequest{
		TextContent:  entry.TextContent,
		ContentType:  entry.ContentType,
		ClientName:   clientName,
		Hashtags:     entry.Hashtags,
		CallToAction: entry.CallToAction,
	})
	if err != nil {
		return nil, err
	}

	s.log.Info().Str("client", clientName).Int("index", index).Int("bytes", len(data)).Msg("Preview rendered")
	return data, nil
}

// Probe sends a fixed prompt to the text model to check connectivity
func (s *previewService) Probe(ctx context.Context) (string, error) {
	text, err := s.text.GenerateText(ctx, probePrompt)
	if err != nil {
		s.log.Error().Err(err).Msg("Text model probe failed")
		return "", err
	}
	return strings.TrimSpace(text), nil
}

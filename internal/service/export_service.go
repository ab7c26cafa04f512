package service

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/content-calendar-api/internal/models"
	"github.com/rs/zerolog"
)

// exportService is the concrete implementation of ExportService
type exportService struct {
	calendar CalendarService
	log      zerolog.Logger
}

// newExportService creates a new ExportService
func newExportService(calendar CalendarService, log zerolog.Logger) *exportService {
	return &exportService{
		calendar: calendar,
		log:      log.With().Str("service", "export").Logger(),
	}
}

// ExportCalendar writes the calendar view of a project in the specified format
func (s *exportService) ExportCalendar(ctx context.Context, w http.ResponseWriter, project, format string) error {
	switch format {
	case "json", "ndjson", "csv":
	default:
		return fmt.Errorf("%w: unsupported format: %s", ErrInvalidInput, format)
	}

	p, err := s.calendar.GetCalendar(ctx, project)
	if err != nil {
		return err
	}
	entries := p.Entries()

	s.log.Info().Str("project", project).Str("format", format).Int("count", len(entries)).Msg("Starting calendar export")

	filename := url.PathEscape(project) + "." + format
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)

	switch format {
	case "ndjson":
		return writeNDJSON(w, entries)
	case "csv":
		return writeCSV(w, entries)
	default:
		w.Header().Set("Content-Type", "application/json")
		return json.NewEncoder(w).Encode(p)
	}
}

func writeNDJSON(w http.ResponseWriter, entries []models.CalendarEntry) error {
	w.Header().Set("Content-Type", "application/x-ndjson")

	flusher, _ := w.(http.Flusher)
	for i, entry := range entries {
		data, err := json.Marshal(entry)
		if err != nil {
			return err
		}
		w.Write(data)
		w.Write([]byte("\n"))

		// Flush every 100 records for streaming
		if (i+1)%100 == 0 && flusher != nil {
			flusher.Flush()
		}
	}
	return nil
}

func writeCSV(w http.ResponseWriter, entries []models.CalendarEntry) error {
	w.Header().Set("Content-Type", "text/csv")

	writer := csv.NewWriter(w)
	if err := writer.Write(models.EntryCSVHeader); err != nil {
		return err
	}
	for _, e := range entries {
		if err := writer.Write([]string{
			e.Date,
			e.Day,
			e.ContentType,
			e.Channel,
			e.Status,
			e.TextContent,
			e.Approval,
			e.Hashtags,
			e.CallToAction,
			e.References,
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

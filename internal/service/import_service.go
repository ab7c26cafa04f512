package service

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/content-calendar-api/internal/models"
	"github.com/content-calendar-api/internal/repository"
	"github.com/content-calendar-api/internal/validation"
	"github.com/rs/zerolog"
)

// importService is the concrete implementation of ImportService
type importService struct {
	repos *repository.Repositories
	log   zerolog.Logger
}

// newImportService creates a new ImportService
func newImportService(repos *repository.Repositories, log zerolog.Logger) *importService {
	return &importService{
		repos: repos,
		log:   log.With().Str("service", "import").Logger(),
	}
}

// ImportEntries reads csv or ndjson rows, validates each one and appends the
// accepted rows to the project in a single write. Rejected rows are reported
// by line and do not stop the import.
func (s *importService) ImportEntries(ctx context.Context, project, format string, r io.Reader) (*models.ImportResult, error) {
	if strings.TrimSpace(project) == "" {
		return nil, fmt.Errorf("%w: project is required", ErrInvalidInput)
	}

	result := &models.ImportResult{Project: project}
	var (
		entries []models.CalendarEntry
		err     error
	)
	switch format {
	case "csv":
		entries, err = s.readCSV(ctx, r, result)
	case "ndjson", "json":
		entries, err = s.readNDJSON(ctx, r, result)
	default:
		return nil, fmt.Errorf("%w: unsupported format: %s", ErrInvalidInput, format)
	}
	if err != nil {
		return nil, err
	}

	if len(entries) > 0 {
		if err := s.repos.Project.AppendEntries(ctx, project, entries...); err != nil {
			return nil, err
		}
	}
	result.Imported = len(entries)

	if result.Imported > 0 {
		client, err := s.repos.Client.GetByName(ctx, project)
		if err != nil {
			return nil, err
		}
		if client != nil && len(client.ContentCalendar) > 0 {
			result.Warning = "project belongs to a client with a generated calendar; imported entries are replaced on the next calendar load"
			s.log.Warn().Str("project", project).Int("imported", result.Imported).Msg("Imported into a generated client calendar")
		}
	}

	s.log.Info().
		Str("project", project).
		Str("format", format).
		Int("total", result.TotalRows).
		Int("imported", result.Imported).
		Int("failed", result.FailedCount).
		Msg("Import completed")

	return result, nil
}

// readCSV parses a CSV file with a header row
func (s *importService) readCSV(ctx context.Context, r io.Reader, result *models.ImportResult) ([]models.CalendarEntry, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	// Read header
	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read CSV header: %v", ErrInvalidInput, err)
	}
	headerMap := make(map[string]int)
	for i, h := range header {
		headerMap[strings.ToLower(strings.TrimSpace(h))] = i
	}

	validator := validation.NewValidator()
	var accepted []models.CalendarEntry
	lineNum := 1 // Start after header

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		result.TotalRows++

		if err != nil {
			lineNum++
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				lineNum = parseErr.StartLine
			}
			s.reject(result, lineNum, []validation.ValidationError{{Field: "csv", Message: fmt.Sprintf("invalid CSV row: %v", err)}})
			continue
		}
		// Quoted fields may span lines
		lineNum, _ = reader.FieldPos(0)

		entry := models.CalendarEntry{
			Date:         getField(record, headerMap, "date"),
			Day:          getField(record, headerMap, "day"),
			ContentType:  getField(record, headerMap, "content_type"),
			Channel:      getField(record, headerMap, "channel"),
			Status:       getField(record, headerMap, "status"),
			TextContent:  getField(record, headerMap, "text_content"),
			Approval:     getField(record, headerMap, "approval"),
			Hashtags:     getField(record, headerMap, "hashtags"),
			CallToAction: getField(record, headerMap, "call_to_action"),
			References:   getField(record, headerMap, "references"),
		}
		if entry, ok := s.accept(validator, result, lineNum, entry); ok {
			accepted = append(accepted, entry)
		}
	}

	return accepted, nil
}

// readNDJSON parses one JSON entry per line, skipping blank lines
func (s *importService) readNDJSON(ctx context.Context, r io.Reader, result *models.ImportResult) ([]models.CalendarEntry, error) {
	scanner := bufio.NewScanner(r)
	// Increase buffer size for long lines
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	validator := validation.NewValidator()
	var accepted []models.CalendarEntry
	lineNum := 0

	for scanner.Scan() {
		lineNum++
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		result.TotalRows++

		var entry models.CalendarEntry
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			s.reject(result, lineNum, []validation.ValidationError{{Field: "json", Message: fmt.Sprintf("invalid JSON: %v", err)}})
			continue
		}
		if entry, ok := s.accept(validator, result, lineNum, entry); ok {
			accepted = append(accepted, entry)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("%w: failed to read NDJSON: %v", ErrInvalidInput, err)
	}

	return accepted, nil
}

func (s *importService) accept(v *validation.Validator, result *models.ImportResult, lineNum int,
	entry models.CalendarEntry) (models.CalendarEntry, bool) {
	validation.Normalize(&entry)
	if errs := v.ValidateEntry(&entry); len(errs) > 0 {
		s.reject(result, lineNum, errs)
		return entry, false
	}
	v.AddEntry(&entry)
	return entry, true
}

func (s *importService) reject(result *models.ImportResult, lineNum int, errs []validation.ValidationError) {
	result.FailedCount++
	for _, e := range errs {
		result.Errors = append(result.Errors, models.ValidationError{
			Line:    lineNum,
			Field:   e.Field,
			Message: e.Message,
			Value:   e.Value,
		})
	}
}

// getField safely gets a field from a CSV record
func getField(record []string, headerMap map[string]int, field string) string {
	if idx, ok := headerMap[field]; ok && idx < len(record) {
		return strings.TrimSpace(record[idx])
	}
	return ""
}

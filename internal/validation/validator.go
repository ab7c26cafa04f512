package validation

import (
	"fmt"
	"strings"

	"github.com/content-calendar-api/internal/calendar"
	"github.com/content-calendar-api/internal/models"
)

const (
	// MaxTextContentLength bounds the free-text body of an imported entry
	MaxTextContentLength = 5000
	maxShortFieldLength  = 200
)

// ValidationError represents a single validation error
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// Validator checks calendar entry rows before they are stored.
// It remembers accepted rows so the same post is not imported twice in one file.
type Validator struct {
	seen map[string]bool
}

// NewValidator creates a new validator instance
func NewValidator() *Validator {
	return &Validator{seen: make(map[string]bool)}
}

// AddEntry marks an entry as accepted for duplicate detection
func (v *Validator) AddEntry(entry *models.CalendarEntry) {
	v.seen[entryKey(entry)] = true
}

// Normalize fills derived and defaulted fields of an entry in place:
// canonical channel casing, the weekday of the date, pending status and approval.
func Normalize(entry *models.CalendarEntry) {
	entry.Date = strings.TrimSpace(entry.Date)
	entry.Channel = calendar.NormalizePlatform(strings.TrimSpace(entry.Channel))
	entry.ContentType = strings.TrimSpace(entry.ContentType)

	if strings.TrimSpace(entry.Day) == "" {
		entry.Day = calendar.Weekday(entry.Date)
	}
	if strings.TrimSpace(entry.Status) == "" {
		entry.Status = models.EntryStatusPending
	}
	if strings.TrimSpace(entry.Approval) == "" {
		entry.Approval = models.EntryApprovalPending
	}
	if entry.References == "" && (entry.Hashtags != "" || entry.CallToAction != "") {
		entry.References = calendar.References(entry.Hashtags, entry.CallToAction)
	}
}

// ValidateEntry validates a normalized calendar entry
func (v *Validator) ValidateEntry(entry *models.CalendarEntry) []ValidationError {
	var errors []ValidationError

	// Validate date
	if entry.Date == "" {
		errors = append(errors, ValidationError{Field: "date", Message: "date is required"})
	} else if t, err := calendar.ParseDate(entry.Date); err != nil {
		errors = append(errors, ValidationError{Field: "date", Message: "invalid date format, expected YYYY-MM-DD", Value: entry.Date})
	} else if entry.Day != "" && !strings.EqualFold(entry.Day, t.Weekday().String()) {
		errors = append(errors, ValidationError{
			Field:   "day",
			Message: fmt.Sprintf("day does not match date, expected %s", t.Weekday()),
			Value:   entry.Day,
		})
	}

	// Validate channel and content type
	if entry.Channel == "" {
		errors = append(errors, ValidationError{Field: "channel", Message: "channel is required"})
	}
	if entry.ContentType == "" {
		errors = append(errors, ValidationError{Field: "content_type", Message: "content_type is required"})
	} else if allowed, known := platformTypes(entry.Channel); known && !containsFold(allowed, entry.ContentType) {
		errors = append(errors, ValidationError{
			Field:   "content_type",
			Message: fmt.Sprintf("invalid content type for %s, must be one of: %s", entry.Channel, strings.Join(allowed, ", ")),
			Value:   entry.ContentType,
		})
	}

	// Validate lengths
	if len(entry.TextContent) > MaxTextContentLength {
		errors = append(errors, ValidationError{
			Field:   "text_content",
			Message: fmt.Sprintf("text_content exceeds maximum of %d characters", MaxTextContentLength),
		})
	}
	if n := calendar.WordCount(entry.CallToAction); n > calendar.MaxCallToActionWords {
		errors = append(errors, ValidationError{
			Field:   "call_to_action",
			Message: fmt.Sprintf("call_to_action exceeds maximum of %d words (has %d)", calendar.MaxCallToActionWords, n),
		})
	}
	if len(entry.Status) > maxShortFieldLength {
		errors = append(errors, ValidationError{Field: "status", Message: "status is too long"})
	}
	if len(entry.Approval) > maxShortFieldLength {
		errors = append(errors, ValidationError{Field: "approval", Message: "approval is too long"})
	}

	// Check for duplicate entry in current file
	if len(errors) == 0 && v.seen[entryKey(entry)] {
		errors = append(errors, ValidationError{Field: "date", Message: "duplicate entry", Value: entry.Date})
	}

	return errors
}

func platformTypes(channel string) ([]string, bool) {
	for _, p := range calendar.Registry {
		if p.Name == channel {
			return p.ContentTypes, true
		}
	}
	return nil, false
}

func containsFold(list []string, v string) bool {
	for _, item := range list {
		if strings.EqualFold(item, v) {
			return true
		}
	}
	return false
}

func entryKey(entry *models.CalendarEntry) string {
	return strings.Join([]string{entry.Date, entry.Channel, entry.ContentType, entry.TextContent}, "\x00")
}

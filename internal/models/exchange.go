package models

// ValidationError represents a single rejected row of an entry import
type ValidationError struct {
	Line    int         `json:"line"`
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

// ImportResult summarizes a calendar entry import
type ImportResult struct {
	Project     string            `json:"project"`
	TotalRows   int               `json:"total_rows"`
	Imported    int               `json:"imported"`
	FailedCount int               `json:"failed"`
	Errors      []ValidationError `json:"errors,omitempty"`
	Warning     string            `json:"warning,omitempty"`
}

// EntryCSVHeader is the column order used by CSV import and export
var EntryCSVHeader = []string{
	"date", "day", "content_type", "channel", "status",
	"text_content", "approval", "hashtags", "call_to_action", "references",
}

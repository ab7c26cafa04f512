package models

const (
	EntryStatusPending   = "pending"
	EntryApprovalPending = "pending"
)

// Project is the editable calendar view backing the UI. It shares its name
// with a Client when one exists; standalone projects are allowed.
type Project struct {
	Name            string          `json:"-"`
	CalendarEntries []CalendarEntry `json:"calendar_entries"`
}

// CalendarEntry is the UI-editable, persisted form of a post
type CalendarEntry struct {
	Date         string `json:"date"`
	Day          string `json:"day"`
	ContentType  string `json:"content_type"`
	Channel      string `json:"channel"`
	Status       string `json:"status"`
	TextContent  string `json:"text_content"`
	Approval     string `json:"approval"`
	Hashtags     string `json:"hashtags,omitempty"`
	CallToAction string `json:"call_to_action,omitempty"`
	References   string `json:"references"`
}

// Entries returns the calendar entries, never nil, so empty calendars encode as [].
func (p *Project) Entries() []CalendarEntry {
	if p == nil || p.CalendarEntries == nil {
		return []CalendarEntry{}
	}
	return p.CalendarEntries
}

// EntryRequest is the JSON body of add_entry, update_entry and delete_entry
type EntryRequest struct {
	Project string `json:"project"`
	Index   *int   `json:"index,omitempty"`
	CalendarEntry
}

// ProjectRequest is the JSON body of add_project and delete_project
type ProjectRequest struct {
	ProjectName string `json:"project_name"`
}

package models

import (
	"time"
)

// Client is the stored configuration and generated calendar of one managed account.
// ContentCalendar is written once at creation and never edited afterwards.
type Client struct {
	CompanyName     string          `json:"companyName"`
	NumPosts        int             `json:"numPosts"`
	NumReels        int             `json:"numReels"`
	Platforms       []string        `json:"platforms"`
	TargetMonth     string          `json:"targetMonth"` // YYYY-MM
	Suggestions     string          `json:"suggestions,omitempty"`
	ImageInsights   string          `json:"imageInsights,omitempty"`
	Industry        string          `json:"industry,omitempty"`
	TargetAudience  string          `json:"targetAudience,omitempty"`
	Goals           string          `json:"goals,omitempty"`
	ContentCalendar []GeneratedPost `json:"contentCalendar"`
	CreatedAt       time.Time       `json:"createdAt"`
}

// GeneratedPost is a single post descriptor produced by the text model,
// before it is materialized into an editable CalendarEntry.
type GeneratedPost struct {
	Date         string `json:"date"` // YYYY-MM-DD
	Platform     string `json:"platform"`
	ContentType  string `json:"content_type"`
	Topic        string `json:"topic"`
	Description  string `json:"description"`
	Hashtags     string `json:"hashtags"`
	CallToAction string `json:"call_to_action"`
}

// CreateClientRequest carries the add_client form after parsing
type CreateClientRequest struct {
	CompanyName    string
	NumPosts       int
	NumReels       int
	Platforms      []string
	TargetMonth    string
	Suggestions    string
	Industry       string
	TargetAudience string
	Goals          string
	Images         []UploadedImage
}

// UploadedImage is a reference image attached to a client creation request
type UploadedImage struct {
	Filename string
	MIMEType string
	Data     []byte
}

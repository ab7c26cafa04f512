package calendar

import (
	"fmt"

	"github.com/content-calendar-api/internal/models"
)

// Materialize derives editable calendar entries from a generated calendar.
// Status and approval always start as pending.
func Materialize(posts []models.GeneratedPost) []models.CalendarEntry {
	entries := make([]models.CalendarEntry, 0, len(posts))
	for _, post := range posts {
		entries = append(entries, models.CalendarEntry{
			Date:         post.Date,
			Day:          Weekday(post.Date),
			ContentType:  post.ContentType,
			Channel:      post.Platform,
			Status:       models.EntryStatusPending,
			TextContent:  post.Topic + "\n" + post.Description,
			Approval:     models.EntryApprovalPending,
			Hashtags:     post.Hashtags,
			CallToAction: post.CallToAction,
			References:   References(post.Hashtags, post.CallToAction),
		})
	}
	return entries
}

// References summarizes hashtags and call to action in two lines
func References(hashtags, callToAction string) string {
	return fmt.Sprintf("Hashtags: %s\nCTA: %s", hashtags, callToAction)
}

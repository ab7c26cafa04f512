package calendar

import (
	"fmt"
	"strings"

	"github.com/content-calendar-api/internal/models"
)

// WordCount counts whitespace-separated words
func WordCount(s string) int {
	return len(strings.Fields(s))
}

// Validate checks every generated post against the plan and returns the
// posts with normalized platform names. The first violation rejects the batch.
func (p *Plan) Validate(posts []models.GeneratedPost) ([]models.GeneratedPost, error) {
	accepted := make([]models.GeneratedPost, 0, len(posts))

	for i, post := range posts {
		date, err := ParseDate(post.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: entry %d: %q is not YYYY-MM-DD", ErrInvalidDate, i, post.Date)
		}
		if date.Before(p.FirstDay) || date.After(p.LastDay) {
			return nil, fmt.Errorf("%w: entry %d: %s outside %s..%s", ErrInvalidDate, i,
				post.Date, p.FirstDay.Format(dateLayout), p.LastDay.Format(dateLayout))
		}

		platform := NormalizePlatform(post.Platform)
		if !contains(p.Platforms, platform) {
			return nil, fmt.Errorf("%w: entry %d: %q", ErrInvalidPlatform, i, post.Platform)
		}

		if !contains(p.ContentTypes, post.ContentType) {
			return nil, fmt.Errorf("%w: entry %d: %q", ErrInvalidContentType, i, post.ContentType)
		}

		if n := WordCount(post.Description); n > MaxDescriptionWords {
			return nil, fmt.Errorf("%w: entry %d: %d words (max %d)", ErrDescriptionTooLong, i, n, MaxDescriptionWords)
		}

		if n := WordCount(post.CallToAction); n > MaxCallToActionWords {
			return nil, fmt.Errorf("%w: entry %d: %d words (max %d)", ErrCallToActionTooLong, i, n, MaxCallToActionWords)
		}

		post.Platform = platform
		accepted = append(accepted, post)
	}

	return accepted, nil
}

package calendar

import (
	"fmt"
	"strings"
	"time"
)

const (
	MaxDescriptionWords  = 15
	MaxCallToActionWords = 10

	defaultIndustry = "general"
	defaultAudience = "general audience"
	defaultGoals    = "brand awareness and engagement"
)

// Request holds the client parameters a calendar is generated from
type Request struct {
	ClientName  string
	TargetMonth string
	Platforms   []string
	NumPosts    int
	NumReels    int
	Industry    string
	Audience    string
	Goals       string
	Context     string // suggestions and image insights
}

// Plan is the resolved form of a Request: normalized platforms, bounds and totals
type Plan struct {
	Request
	FirstDay     time.Time
	LastDay      time.Time
	Platforms    []string
	ContentTypes []string
	TotalPosts   int
}

// NewPlan resolves a Request
func NewPlan(req Request) (*Plan, error) {
	first, last, err := MonthBounds(req.TargetMonth)
	if err != nil {
		return nil, err
	}

	platforms := NormalizePlatforms(req.Platforms)
	return &Plan{
		Request:      req,
		FirstDay:     first,
		LastDay:      last,
		Platforms:    platforms,
		ContentTypes: AllowedContentTypes(platforms),
		TotalPosts:   req.NumPosts + req.NumReels,
	}, nil
}

// Prompt builds the generation instruction for the text model
func (p *Plan) Prompt() string {
	var b strings.Builder

	fmt.Fprintf(&b, "Generate a social media content calendar for %s, a %s business targeting %s.\n",
		p.ClientName, orDefault(p.Industry, defaultIndustry), orDefault(p.Audience, defaultAudience))
	fmt.Fprintf(&b, "Goals: %s\n\n", orDefault(p.Goals, defaultGoals))

	fmt.Fprintf(&b, "The calendar is for %s.\n", p.FirstDay.Format("January 2006"))
	fmt.Fprintf(&b, "Every date must be between %s and %s inclusive.\n",
		p.FirstDay.Format(dateLayout), p.LastDay.Format(dateLayout))
	fmt.Fprintf(&b, "Use only these platforms: %s.\n", strings.Join(p.Platforms, ", "))
	fmt.Fprintf(&b, "Create exactly %d posts in total (%d regular posts and %d reels).\n",
		p.TotalPosts, p.NumPosts, p.NumReels)
	fmt.Fprintf(&b, "Use only these content types: %s.\n", strings.Join(p.ContentTypes, ", "))

	if ctx := strings.TrimSpace(p.Context); ctx != "" {
		fmt.Fprintf(&b, "\nClient suggestions and reference material:\n%s\n", ctx)
	}

	b.WriteString("\nReturn ONLY a JSON array, with no other text, where each element has this structure:\n")
	b.WriteString(`[
  {
    "date": "YYYY-MM-DD",
    "platform": "platform_name",
    "content_type": "type_of_content",
    "topic": "main_topic",
    "description": "short description",
    "hashtags": "#tag1 #tag2",
    "call_to_action": "short call to action"
  }
]`)
	fmt.Fprintf(&b, "\nThe description must be at most %d words and the call_to_action at most %d words.\n",
		MaxDescriptionWords, MaxCallToActionWords)

	return b.String()
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

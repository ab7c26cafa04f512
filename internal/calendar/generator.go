// Package calendar builds content calendar generation prompts, parses the
// untrusted model output and enforces the calendar validation contract.
package calendar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/content-calendar-api/internal/ai"
	"github.com/content-calendar-api/internal/models"
	"github.com/rs/zerolog"
)

// Generator produces validated content calendars through a text model
type Generator struct {
	text ai.TextGenerator
	log  zerolog.Logger
}

// NewGenerator creates a Generator
func NewGenerator(text ai.TextGenerator, log zerolog.Logger) *Generator {
	return &Generator{
		text: text,
		log:  log.With().Str("component", "calendar_generator").Logger(),
	}
}

// Generate builds the prompt, calls the text model once and validates the result.
// Failures are never retried.
func (g *Generator) Generate(ctx context.Context, req Request) ([]models.GeneratedPost, error) {
	plan, err := NewPlan(req)
	if err != nil {
		return nil, err
	}

	g.log.Info().
		Str("client", req.ClientName).
		Str("month", req.TargetMonth).
		Strs("platforms", plan.Platforms).
		Int("total_posts", plan.TotalPosts).
		Msg("Generating content calendar")

	raw, err := g.text.GenerateText(ctx, plan.Prompt())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrGenerationUnavailable, err)
	}

	posts, err := ParseResponse(raw)
	if err != nil {
		g.log.Warn().Err(err).Str("client", req.ClientName).Str("response", truncate(raw, 500)).Msg("Unparseable calendar response")
		return nil, err
	}

	accepted, err := plan.Validate(posts)
	if err != nil {
		g.log.Warn().Err(err).Str("client", req.ClientName).Msg("Calendar response failed validation")
		return nil, err
	}

	if len(accepted) != plan.TotalPosts {
		g.log.Info().
			Int("requested", plan.TotalPosts).
			Int("received", len(accepted)).
			Msg("Calendar entry count differs from request")
	}

	return accepted, nil
}

// ParseResponse strips an optional markdown code fence and decodes the JSON array
func ParseResponse(raw string) ([]models.GeneratedPost, error) {
	text := strings.TrimSpace(raw)
	text = strings.TrimPrefix(text, "```json")
	text = strings.TrimPrefix(text, "```")
	text = strings.TrimSuffix(text, "```")
	text = strings.TrimSpace(text)

	var posts []models.GeneratedPost
	if err := json.Unmarshal([]byte(text), &posts); err != nil {
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			return nil, fmt.Errorf("%w: offset %d: %v", ErrMalformedResponse, syntaxErr.Offset, err)
		}
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if posts == nil {
		return nil, fmt.Errorf("%w: expected a JSON array", ErrMalformedResponse)
	}

	return posts, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n] + "..."
}

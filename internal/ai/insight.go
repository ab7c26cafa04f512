package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

const insightPrompt = `Analyze this reference image supplied by a marketing client.
Describe its visual style, color palette, subjects, mood and any brand elements
that upcoming social media posts should reflect. Answer in under 120 words.`

// InsightExtractor turns uploaded reference images into free-text insights
// that are folded into the calendar generation prompt.
type InsightExtractor struct {
	analyzer ImageAnalyzer
	log      zerolog.Logger
}

// NewInsightExtractor creates an InsightExtractor
func NewInsightExtractor(analyzer ImageAnalyzer, log zerolog.Logger) *InsightExtractor {
	return &InsightExtractor{
		analyzer: analyzer,
		log:      log.With().Str("component", "insights").Logger(),
	}
}

// Analyze runs one analysis per image, in order, and joins the results with
// a blank line. The first failing image aborts the batch.
func (e *InsightExtractor) Analyze(ctx context.Context, images []Image) (string, error) {
	var insights []string
	for i, img := range images {
		if len(img.Data) == 0 {
			continue
		}

		text, err := e.analyzer.AnalyzeImage(ctx, img, insightPrompt)
		if err != nil {
			e.log.Error().Err(err).Int("image", i).Msg("Image analysis failed")
			return "", fmt.Errorf("%w: image %d: %v", ErrInsightUnavailable, i, err)
		}

		text = strings.TrimSpace(text)
		if text != "" {
			insights = append(insights, text)
		}
	}

	e.log.Info().Int("images", len(images)).Int("insights", len(insights)).Msg("Image insights extracted")
	return strings.Join(insights, "\n\n"), nil
}

package ai

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// PreviewRequest describes the post a preview image is rendered for
type PreviewRequest struct {
	TextContent  string
	ContentType  string
	ClientName   string
	Hashtags     string
	CallToAction string
}

// PreviewRenderer produces a one-off preview image for a calendar post.
// Every call regenerates; nothing is cached.
type PreviewRenderer struct {
	generator ImageGenerator
	log       zerolog.Logger
}

// NewPreviewRenderer creates a PreviewRenderer
func NewPreviewRenderer(generator ImageGenerator, log zerolog.Logger) *PreviewRenderer {
	return &PreviewRenderer{
		generator: generator,
		log:       log.With().Str("component", "preview").Logger(),
	}
}

// BuildPreviewPrompt fills the fixed preview template for a post
func BuildPreviewPrompt(req PreviewRequest) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Create a professional social media %s image for the brand %q.\n", strings.ToLower(orDefault(req.ContentType, "post")), req.ClientName)
	fmt.Fprintf(&b, "Main text and theme of the post:\n%s\n", strings.TrimSpace(req.TextContent))
	if req.Hashtags != "" {
		fmt.Fprintf(&b, "Related hashtags: %s\n", req.Hashtags)
	}
	if req.CallToAction != "" {
		fmt.Fprintf(&b, "Call to action: %s\n", req.CallToAction)
	}
	b.WriteString("Style: modern, clean and eye-catching, bright brand-friendly colors, ")
	b.WriteString("square composition suitable for a social feed, minimal overlaid text.")
	return b.String()
}

// Render generates the preview image bytes
func (r *PreviewRenderer) Render(ctx context.Context, req PreviewRequest) ([]byte, error) {
	data, err := r.generator.GenerateImage(ctx, BuildPreviewPrompt(req))
	if err != nil {
		r.log.Error().Err(err).Str("client", req.ClientName).Msg("Preview generation failed")
		return nil, fmt.Errorf("%w: %v", ErrRenderUnavailable, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %v", ErrRenderUnavailable, ErrNoImageData)
	}

	r.log.Info().Str("client", req.ClientName).Int("bytes", len(data)).Msg("Preview generated")
	return data, nil
}

func orDefault(s, def string) string {
	if strings.TrimSpace(s) == "" {
		return def
	}
	return s
}

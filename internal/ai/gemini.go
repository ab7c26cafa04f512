package ai

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/content-calendar-api/internal/config"
	"github.com/rs/zerolog"
	"google.golang.org/genai"
)

// GeminiClient implements TextGenerator, ImageAnalyzer and ImageGenerator
// on top of the Gemini API.
type GeminiClient struct {
	client      *genai.Client
	textModel   string
	visionModel string
	imageModel  string
	log         zerolog.Logger
}

var (
	_ TextGenerator  = (*GeminiClient)(nil)
	_ ImageAnalyzer  = (*GeminiClient)(nil)
	_ ImageGenerator = (*GeminiClient)(nil)
)

// NewGeminiClient creates a Gemini client from configuration
func NewGeminiClient(ctx context.Context, cfg *config.GenAIConfig, log zerolog.Logger) (*GeminiClient, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GenAI API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create GenAI client: %w", err)
	}

	g := &GeminiClient{
		client:      client,
		textModel:   cfg.TextModel,
		visionModel: cfg.VisionModel,
		imageModel:  cfg.ImageModel,
		log:         log.With().Str("component", "gemini").Logger(),
	}

	g.log.Info().
		Str("text_model", g.textModel).
		Str("vision_model", g.visionModel).
		Str("image_model", g.imageModel).
		Msg("Gemini client initialized")

	return g, nil
}

// GenerateText sends a single-turn text prompt and returns the response text
func (g *GeminiClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	result, err := g.client.Models.GenerateContent(ctx, g.textModel, genai.Text(prompt), nil)
	if err != nil {
		return "", fmt.Errorf("GenAI generate failed: %w", err)
	}

	text := result.Text()
	if strings.TrimSpace(text) == "" {
		return "", fmt.Errorf("GenAI returned an empty response")
	}

	g.log.Debug().Str("model", g.textModel).Int("response_chars", len(text)).Msg("Text generated")
	return text, nil
}

// AnalyzeImage sends an image together with an instruction prompt
func (g *GeminiClient) AnalyzeImage(ctx context.Context, image Image, prompt string) (string, error) {
	mimeType := image.MIMEType
	if mimeType == "" {
		mimeType = http.DetectContentType(image.Data)
	}

	contents := []*genai.Content{
		genai.NewContentFromParts([]*genai.Part{
			genai.NewPartFromText(prompt),
			genai.NewPartFromBytes(image.Data, mimeType),
		}, genai.RoleUser),
	}

	result, err := g.client.Models.GenerateContent(ctx, g.visionModel, contents, nil)
	if err != nil {
		return "", fmt.Errorf("GenAI image analysis failed: %w", err)
	}

	return strings.TrimSpace(result.Text()), nil
}

// GenerateImage asks the image model for an image and returns the bytes of
// the first inline image part.
func (g *GeminiClient) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	result, err := g.client.Models.GenerateContent(ctx, g.imageModel, genai.Text(prompt),
		&genai.GenerateContentConfig{
			ResponseModalities: []string{"TEXT", "IMAGE"},
		},
	)
	if err != nil {
		return nil, fmt.Errorf("GenAI image generation failed: %w", err)
	}

	for _, candidate := range result.Candidates {
		if candidate == nil || candidate.Content == nil {
			continue
		}
		for _, part := range candidate.Content.Parts {
			if part != nil && part.InlineData != nil && len(part.InlineData.Data) > 0 {
				return part.InlineData.Data, nil
			}
		}
	}

	return nil, ErrNoImageData
}

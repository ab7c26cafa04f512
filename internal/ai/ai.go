// Package ai wraps the generative model capabilities the calendar tool relies on:
// text generation, image understanding and image generation.
package ai

import (
	"context"
	"errors"
)

var (
	// ErrInsightUnavailable is returned when reference image analysis fails
	ErrInsightUnavailable = errors.New("image insight unavailable")

	// ErrRenderUnavailable is returned when a preview image cannot be produced
	ErrRenderUnavailable = errors.New("preview render unavailable")

	// ErrNoImageData is returned when an image generation response carries no inline image
	ErrNoImageData = errors.New("response contained no image data")
)

// Image is a binary image with its MIME type
type Image struct {
	MIMEType string
	Data     []byte
}

// TextGenerator produces text from a natural-language prompt
type TextGenerator interface {
	GenerateText(ctx context.Context, prompt string) (string, error)
}

// ImageAnalyzer describes an image according to a prompt
type ImageAnalyzer interface {
	AnalyzeImage(ctx context.Context, image Image, prompt string) (string, error)
}

// ImageGenerator renders an image from a prompt and returns its raw bytes
type ImageGenerator interface {
	GenerateImage(ctx context.Context, prompt string) ([]byte, error)
}

package mocks

import (
	"context"
	"errors"

	"github.com/content-calendar-api/internal/ai"
)

// MockTextGenerator is a deterministic TextGenerator
type MockTextGenerator struct {
	Response     string
	Err          error
	GenerateFunc func(ctx context.Context, prompt string) (string, error)
	Prompts      []string
}

// Verify interface compliance
var _ ai.TextGenerator = (*MockTextGenerator)(nil)

func NewMockTextGenerator(response string) *MockTextGenerator {
	return &MockTextGenerator{Response: response}
}

func (m *MockTextGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.GenerateFunc != nil {
		return m.GenerateFunc(ctx, prompt)
	}
	if m.Err != nil {
		return "", m.Err
	}
	return m.Response, nil
}

// MockImageAnalyzer returns one canned insight per call
type MockImageAnalyzer struct {
	Insights []string
	FailOn   int // 1-based call number that fails, 0 never
	Calls    int
}

var _ ai.ImageAnalyzer = (*MockImageAnalyzer)(nil)

func NewMockImageAnalyzer(insights ...string) *MockImageAnalyzer {
	return &MockImageAnalyzer{Insights: insights}
}

func (m *MockImageAnalyzer) AnalyzeImage(ctx context.Context, image ai.Image, prompt string) (string, error) {
	m.Calls++
	if m.FailOn == m.Calls {
		return "", errors.New("vision model unavailable")
	}
	if len(m.Insights) == 0 {
		return "", nil
	}
	return m.Insights[(m.Calls-1)%len(m.Insights)], nil
}

// MockImageGenerator returns fixed image bytes
type MockImageGenerator struct {
	Data    []byte
	Err     error
	Prompts []string
}

var _ ai.ImageGenerator = (*MockImageGenerator)(nil)

func NewMockImageGenerator(data []byte) *MockImageGenerator {
	return &MockImageGenerator{Data: data}
}

func (m *MockImageGenerator) GenerateImage(ctx context.Context, prompt string) ([]byte, error) {
	m.Prompts = append(m.Prompts, prompt)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Data, nil
}

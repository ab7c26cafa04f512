package api

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
)

const (
	placeholderSize   = 300
	placeholderBorder = 2
)

var (
	placeholderFill   = color.RGBA{R: 0xf0, G: 0xf0, B: 0xf0, A: 0xff}
	placeholderStroke = color.RGBA{R: 0xcc, G: 0xcc, B: 0xcc, A: 0xff}
)

// PlaceholderPath is where the placeholder image lives below the static directory
var PlaceholderPath = filepath.Join("images", "placeholder.png")

// PlaceholderPNG renders the light grey, bordered square shown before a preview loads
func PlaceholderPNG() ([]byte, error) {
	img := image.NewRGBA(image.Rect(0, 0, placeholderSize, placeholderSize))
	for y := 0; y < placeholderSize; y++ {
		for x := 0; x < placeholderSize; x++ {
			c := placeholderFill
			if x < placeholderBorder || y < placeholderBorder ||
				x >= placeholderSize-placeholderBorder || y >= placeholderSize-placeholderBorder {
				c = placeholderStroke
			}
			img.SetRGBA(x, y, c)
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WritePlaceholder creates the placeholder image under staticDir unless it already exists
func WritePlaceholder(staticDir string) (string, error) {
	path := filepath.Join(staticDir, PlaceholderPath)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return "", err
	}

	data, err := PlaceholderPNG()
	if err != nil {
		return "", fmt.Errorf("failed to render placeholder: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create static directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write placeholder: %w", err)
	}
	return path, nil
}

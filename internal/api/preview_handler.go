package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/content-calendar-api/internal/config"
	"github.com/content-calendar-api/internal/repository"
	"github.com/content-calendar-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// PreviewHandler handles the AI-backed preview and probe endpoints
type PreviewHandler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewPreviewHandler creates a new PreviewHandler
func NewPreviewHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *PreviewHandler {
	return &PreviewHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "preview").Logger(),
	}
}

// Preview handles GET /preview/:client_name/:index
func (h *PreviewHandler) Preview(c *gin.Context) {
	clientName := c.Param("client_name")
	index, err := strconv.Atoi(c.Param("index"))
	if err != nil {
		c.String(http.StatusNotFound, "Entry not found")
		return
	}

	ctx, cancel := contextWithTimeout(c, h.cfg.GenAI.Timeout)
	defer cancel()

	data, err := h.services.Preview.RenderPreview(ctx, clientName, index)
	if errors.Is(err, repository.ErrNotFound) {
		c.String(http.StatusNotFound, "Entry not found")
		return
	}
	if err != nil {
		h.log.Error().Err(err).Str("client", clientName).Int("index", index).Msg("Failed to render preview")
		c.String(http.StatusInternalServerError, "Failed to generate preview image")
		return
	}

	c.Data(http.StatusOK, "image/png", data)
}

// TestGemini handles GET /test_gemini
func (h *PreviewHandler) TestGemini(c *gin.Context) {
	ctx, cancel := contextWithTimeout(c, h.cfg.GenAI.Timeout)
	defer cancel()

	text, err := h.services.Preview.Probe(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Gemini API test failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "test_response": text})
}

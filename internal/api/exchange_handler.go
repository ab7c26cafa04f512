package api

import (
	"errors"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/content-calendar-api/internal/config"
	"github.com/content-calendar-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ExchangeHandler handles calendar export and entry import
type ExchangeHandler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewExchangeHandler creates a new ExchangeHandler
func NewExchangeHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *ExchangeHandler {
	return &ExchangeHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "exchange").Logger(),
	}
}

// ExportCalendar handles GET /export_calendar/:project
func (h *ExchangeHandler) ExportCalendar(c *gin.Context) {
	project := c.Param("project")
	format := c.DefaultQuery("format", "json")

	if err := h.services.Export.ExportCalendar(c.Request.Context(), c.Writer, project, format); err != nil {
		h.log.Error().Err(err).Str("project", project).Str("format", format).Msg("Export failed")
		if c.Writer.Written() {
			return
		}
		if errors.Is(err, service.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "format must be one of: json, ndjson, csv"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
	}
}

// ImportEntries handles POST /import_entries
// Accepts a multipart upload of a .csv or .ndjson file and a project field
func (h *ExchangeHandler) ImportEntries(c *gin.Context) {
	project := strings.TrimSpace(c.PostForm("project"))
	if project == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "project is required"})
		return
	}

	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file upload is required"})
		return
	}
	defer file.Close()

	// Validate file size
	if h.cfg.Upload.MaxUploadSize > 0 && header.Size > h.cfg.Upload.MaxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "file too large, max size is " + formatSize(h.cfg.Upload.MaxUploadSize),
		})
		return
	}

	// Determine file format from extension
	var format string
	switch strings.ToLower(filepath.Ext(header.Filename)) {
	case ".csv":
		format = "csv"
	case ".ndjson", ".jsonl", ".json":
		format = "ndjson"
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "import requires a CSV or NDJSON file"})
		return
	}

	result, err := h.services.Import.ImportEntries(c.Request.Context(), project, format, file)
	if err != nil {
		if errors.Is(err, service.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.log.Error().Err(err).Str("project", project).Msg("Import failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "import failed"})
		return
	}

	h.log.Info().
		Str("project", project).
		Str("file", header.Filename).
		Int64("size_bytes", header.Size).
		Int("imported", result.Imported).
		Int("failed", result.FailedCount).
		Msg("Entries imported")

	c.JSON(http.StatusOK, result)
}

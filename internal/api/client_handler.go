package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/content-calendar-api/internal/ai"
	"github.com/content-calendar-api/internal/config"
	"github.com/content-calendar-api/internal/models"
	"github.com/content-calendar-api/internal/repository"
	"github.com/content-calendar-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// ClientHandler handles client creation
type ClientHandler struct {
	services *service.Services
	cfg      *config.Config
	log      zerolog.Logger
}

// NewClientHandler creates a new ClientHandler
func NewClientHandler(services *service.Services, cfg *config.Config, log zerolog.Logger) *ClientHandler {
	return &ClientHandler{
		services: services,
		cfg:      cfg,
		log:      log.With().Str("handler", "client").Logger(),
	}
}

// AddClient handles POST /add_client
// Accepts a multipart form with optional suggestionImages files
func (h *ClientHandler) AddClient(c *gin.Context) {
	if h.cfg.Upload.MaxUploadSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.cfg.Upload.MaxUploadSize)
	}

	req, err := h.parseRequest(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": err.Error()})
		return
	}

	ctx, cancel := contextWithTimeout(c, h.cfg.GenAI.Timeout)
	defer cancel()

	client, err := h.services.Client.CreateClient(ctx, req)
	if err != nil {
		status, message := clientErrorResponse(err)
		h.log.Error().Err(err).Str("client", req.CompanyName).Msg("Failed to create client")
		c.JSON(status, gin.H{"success": false, "error": message})
		return
	}

	h.log.Info().
		Str("client", client.CompanyName).
		Int("entries", len(client.ContentCalendar)).
		Int("images", len(req.Images)).
		Msg("Client added")

	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *ClientHandler) parseRequest(c *gin.Context) (*models.CreateClientRequest, error) {
	// Parse up front; PostForm would swallow a body that hit the size limit
	if err := c.Request.ParseMultipartForm(multipartMemory(h.cfg.Upload.MaxUploadSize)); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, fmt.Errorf("file too large, max size is %s", formatSize(h.cfg.Upload.MaxUploadSize))
		}
		h.log.Warn().Err(err).Msg("Failed to parse client form")
		return nil, errors.New("invalid form data")
	}

	numPosts, err := formInt(c, "numPosts")
	if err != nil {
		return nil, err
	}
	numReels, err := formInt(c, "numReels")
	if err != nil {
		return nil, err
	}

	var platforms []string
	if raw := strings.TrimSpace(c.PostForm("platforms")); raw != "" {
		if err := json.Unmarshal([]byte(raw), &platforms); err != nil {
			return nil, errors.New("platforms must be a JSON array of names")
		}
	}

	req := &models.CreateClientRequest{
		CompanyName:    strings.TrimSpace(c.PostForm("companyName")),
		NumPosts:       numPosts,
		NumReels:       numReels,
		Platforms:      platforms,
		TargetMonth:    strings.TrimSpace(c.PostForm("targetMonth")),
		Suggestions:    c.PostForm("suggestions"),
		Industry:       c.PostForm("industry"),
		TargetAudience: c.PostForm("targetAudience"),
		Goals:          c.PostForm("goals"),
	}
	if req.CompanyName == "" {
		return nil, errors.New("Company name is required")
	}

	images, err := readImages(c, "suggestionImages")
	if err != nil {
		return nil, err
	}
	req.Images = images
	return req, nil
}

func formInt(c *gin.Context, field string) (int, error) {
	raw := strings.TrimSpace(c.PostForm(field))
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, fmt.Errorf("%s must be a non-negative number", field)
	}
	return n, nil
}

func multipartMemory(limit int64) int64 {
	if limit > 0 {
		return limit
	}
	return 32 << 20
}

// formatSize renders an upload limit in MB, or KB below one megabyte
func formatSize(n int64) string {
	if n >= 1<<20 {
		return fmt.Sprintf("%d MB", n>>20)
	}
	return fmt.Sprintf("%d KB", n>>10)
}

func readImages(c *gin.Context, field string) ([]models.UploadedImage, error) {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		// Plain urlencoded forms carry no files
		return nil, nil
	}

	var images []models.UploadedImage
	for _, header := range form.File[field] {
		if header.Filename == "" || header.Size == 0 {
			continue
		}
		file, err := header.Open()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s", header.Filename)
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return nil, fmt.Errorf("failed to read %s", header.Filename)
		}
		images = append(images, models.UploadedImage{
			Filename: header.Filename,
			MIMEType: header.Header.Get("Content-Type"),
			Data:     data,
		})
	}
	return images, nil
}

func clientErrorResponse(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest, strings.TrimPrefix(err.Error(), service.ErrInvalidInput.Error()+": ")
	case errors.Is(err, repository.ErrAlreadyExists):
		return http.StatusConflict, "Client already exists"
	case errors.Is(err, ai.ErrInsightUnavailable):
		return http.StatusBadGateway, "Failed to analyze reference images"
	default:
		return http.StatusInternalServerError, "Failed to generate content calendar"
	}
}

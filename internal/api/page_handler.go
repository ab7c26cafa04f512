package api

import (
	"net/http"

	"github.com/content-calendar-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// PageHandler renders the HTML views
type PageHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewPageHandler creates a new PageHandler
func NewPageHandler(services *service.Services, log zerolog.Logger) *PageHandler {
	return &PageHandler{
		services: services,
		log:      log.With().Str("handler", "page").Logger(),
	}
}

// Index handles GET /
func (h *PageHandler) Index(c *gin.Context) {
	projects, err := h.services.Project.ListProjects(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list projects")
		c.String(http.StatusInternalServerError, "Failed to load projects")
		return
	}
	c.HTML(http.StatusOK, "index.html", gin.H{"projects": projects})
}

// Clients handles GET /clients
func (h *PageHandler) Clients(c *gin.Context) {
	clients, err := h.services.Client.ListClients(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list clients")
		c.String(http.StatusInternalServerError, "Failed to load clients")
		return
	}
	c.HTML(http.StatusOK, "clients.html", gin.H{"clients": clients})
}

// Dashboard handles GET /dashboard
func (h *PageHandler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()

	clients, err := h.services.Client.ListClients(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list clients")
		c.String(http.StatusInternalServerError, "Failed to load dashboard")
		return
	}
	projects, err := h.services.Project.ListProjects(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list projects")
		c.String(http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	c.HTML(http.StatusOK, "dashboard.html", gin.H{
		"clients":  clients,
		"projects": projects,
	})
}

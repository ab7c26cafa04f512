package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/content-calendar-api/internal/models"
	"github.com/content-calendar-api/internal/repository"
	"github.com/content-calendar-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// CalendarHandler handles calendar views, entry edits and projects
type CalendarHandler struct {
	services *service.Services
	log      zerolog.Logger
}

// NewCalendarHandler creates a new CalendarHandler
func NewCalendarHandler(services *service.Services, log zerolog.Logger) *CalendarHandler {
	return &CalendarHandler{
		services: services,
		log:      log.With().Str("handler", "calendar").Logger(),
	}
}

// GetCalendarData handles GET /get_calendar_data/:project
func (h *CalendarHandler) GetCalendarData(c *gin.Context) {
	project := c.Param("project")

	p, err := h.services.Calendar.GetCalendar(c.Request.Context(), project)
	if err != nil {
		h.log.Error().Err(err).Str("project", project).Msg("Failed to load calendar")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load calendar"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"calendar_entries": p.Entries()})
}

// AddEntry handles POST /add_entry
func (h *CalendarHandler) AddEntry(c *gin.Context) {
	var req models.EntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false})
		return
	}

	if err := h.services.Calendar.AddEntry(c.Request.Context(), req.Project, req.CalendarEntry); err != nil {
		h.entryFailure(c, "add", req.Project, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// UpdateEntry handles POST /update_entry
func (h *CalendarHandler) UpdateEntry(c *gin.Context) {
	var req models.EntryRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Index == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false})
		return
	}

	if err := h.services.Calendar.UpdateEntry(c.Request.Context(), req.Project, *req.Index, req.CalendarEntry); err != nil {
		h.entryFailure(c, "update", req.Project, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// DeleteEntry handles POST /delete_entry
func (h *CalendarHandler) DeleteEntry(c *gin.Context) {
	var req models.EntryRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Index == nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false})
		return
	}

	if err := h.services.Calendar.DeleteEntry(c.Request.Context(), req.Project, *req.Index); err != nil {
		h.entryFailure(c, "delete", req.Project, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

// entryFailure reports a rejected edit. Unknown projects and indexes are an
// ordinary {success: false}, not an HTTP error.
func (h *CalendarHandler) entryFailure(c *gin.Context, op, project string, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound), errors.Is(err, repository.ErrIndexOutOfRange):
		h.log.Info().Err(err).Str("op", op).Str("project", project).Msg("Entry edit rejected")
		c.JSON(http.StatusOK, gin.H{"success": false})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"success": false})
	default:
		h.log.Error().Err(err).Str("op", op).Str("project", project).Msg("Entry edit failed")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false})
	}
}

// AddProject handles POST /add_project
func (h *CalendarHandler) AddProject(c *gin.Context) {
	var req models.ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Project already exists or invalid name"})
		return
	}

	projects, err := h.services.Project.AddProject(c.Request.Context(), strings.TrimSpace(req.ProjectName))
	if err != nil {
		if errors.Is(err, repository.ErrAlreadyExists) || errors.Is(err, service.ErrInvalidInput) {
			c.JSON(http.StatusOK, gin.H{"success": false, "error": "Project already exists or invalid name"})
			return
		}
		h.log.Error().Err(err).Str("project", req.ProjectName).Msg("Failed to add project")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to add project"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "projects": projects})
}

// DeleteProject handles POST /delete_project
func (h *CalendarHandler) DeleteProject(c *gin.Context) {
	var req models.ProjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "Project not found"})
		return
	}

	projects, err := h.services.Project.DeleteProject(c.Request.Context(), req.ProjectName)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) || errors.Is(err, service.ErrInvalidInput) {
			c.JSON(http.StatusOK, gin.H{"success": false, "error": "Project not found"})
			return
		}
		h.log.Error().Err(err).Str("project", req.ProjectName).Msg("Failed to delete project")
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "failed to delete project"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "projects": projects})
}

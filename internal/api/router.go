package api

import (
	"context"
	"html/template"
	"net/http"
	"time"

	"github.com/content-calendar-api/internal/auth"
	"github.com/content-calendar-api/internal/config"
	"github.com/content-calendar-api/internal/service"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Option customizes the router
type Option func(*routerOptions)

type routerOptions struct {
	healthCheck func(ctx context.Context) error
	now         func() time.Time
}

// WithHealthCheck makes /health report the result of fn
func WithHealthCheck(fn func(ctx context.Context) error) Option {
	return func(o *routerOptions) { o.healthCheck = fn }
}

// WithClock replaces the time source of the login rate limiter
func WithClock(now func() time.Time) Option {
	return func(o *routerOptions) { o.now = now }
}

// NewRouter creates and configures the Gin router
func NewRouter(services *service.Services, sessions auth.SessionStore, cfg *config.Config, log zerolog.Logger, opts ...Option) *gin.Engine {
	options := routerOptions{now: time.Now}
	for _, opt := range opts {
		opt(&options)
	}

	// Set Gin mode
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.SetHTMLTemplate(template.Must(template.New("").ParseFS(templateFS, "templates/*.html")))
	router.MaxMultipartMemory = cfg.Upload.MaxUploadSize

	// Middleware
	router.Use(recoveryMiddleware(log))
	router.Use(loggingMiddleware(log))
	router.Use(noCacheMiddleware())

	// Handlers
	authHandler := NewAuthHandler(sessions, auth.NewLimiter(cfg.Auth.LoginRateLimit, options.now), cfg, log)
	pageHandler := NewPageHandler(services, log)
	clientHandler := NewClientHandler(services, cfg, log)
	calendarHandler := NewCalendarHandler(services, log)
	previewHandler := NewPreviewHandler(services, cfg, log)
	exchangeHandler := NewExchangeHandler(services, cfg, log)

	// Public endpoints
	router.GET("/health", healthCheck(options.healthCheck))
	router.GET("/login", authHandler.LoginPage)
	router.POST("/login", authHandler.Login)
	router.GET("/logout", authHandler.Logout)
	if cfg.Server.StaticDir != "" {
		router.Static("/static", cfg.Server.StaticDir)
	}

	// HTML pages redirect to the login form
	pages := router.Group("/", authHandler.RequireSession(true))
	{
		pages.GET("/", pageHandler.Index)
		pages.GET("/clients", pageHandler.Clients)
		pages.GET("/dashboard", pageHandler.Dashboard)
	}

	// JSON and binary endpoints answer 401
	api := router.Group("/", authHandler.RequireSession(false))
	{
		api.POST("/add_client", clientHandler.AddClient)

		api.GET("/get_calendar_data/:project", calendarHandler.GetCalendarData)
		api.POST("/add_entry", calendarHandler.AddEntry)
		api.POST("/update_entry", calendarHandler.UpdateEntry)
		api.POST("/delete_entry", calendarHandler.DeleteEntry)
		api.POST("/add_project", calendarHandler.AddProject)
		api.POST("/delete_project", calendarHandler.DeleteProject)

		api.GET("/preview/:client_name/:index", previewHandler.Preview)
		api.GET("/test_gemini", previewHandler.TestGemini)

		api.GET("/export_calendar/:project", exchangeHandler.ExportCalendar)
		api.POST("/import_entries", exchangeHandler.ImportEntries)
	}

	return router
}

// healthCheck returns the health status
func healthCheck(check func(ctx context.Context) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		status, code := "healthy", http.StatusOK
		if check != nil {
			if err := check(c.Request.Context()); err != nil {
				status, code = "unhealthy", http.StatusServiceUnavailable
			}
		}

		c.JSON(code, gin.H{
			"status":    status,
			"timestamp": time.Now().Format(time.RFC3339),
			"service":   "content-calendar-api",
		})
	}
}

// recoveryMiddleware handles panics
func recoveryMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().Interface("error", err).Str("path", c.Request.URL.Path).Msg("Panic recovered")
				c.JSON(http.StatusInternalServerError, gin.H{
					"error": "Internal server error",
				})
				c.Abort()
			}
		}()
		c.Next()
	}
}

// loggingMiddleware logs requests
func loggingMiddleware(log zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		duration := time.Since(start)
		statusCode := c.Writer.Status()

		event := log.Info()
		if statusCode >= 400 {
			event = log.Warn()
		}
		if statusCode >= 500 {
			event = log.Error()
		}

		event.
			Str("method", c.Request.Method).
			Str("path", path).
			Int("status", statusCode).
			Dur("duration", duration).
			Str("client_ip", c.ClientIP()).
			Msg("Request completed")
	}
}

// noCacheMiddleware keeps browsers from caching authenticated views
func noCacheMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("Cache-Control", "no-store, no-cache, must-revalidate, max-age=0")
		h.Set("Pragma", "no-cache")
		h.Set("Expires", "0")
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", "DENY")
		c.Next()
	}
}

// contextWithTimeout creates a context with timeout for handlers
func contextWithTimeout(c *gin.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(c.Request.Context())
	}
	return context.WithTimeout(c.Request.Context(), timeout)
}

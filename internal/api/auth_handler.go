package api

import (
	"net/http"

	"github.com/content-calendar-api/internal/auth"
	"github.com/content-calendar-api/internal/config"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// SessionCookie is the name of the operator session cookie
const SessionCookie = "calendar_session"

// AuthHandler handles login, logout and session checks
type AuthHandler struct {
	sessions auth.SessionStore
	limiter  *auth.Limiter
	cfg      *config.Config
	log      zerolog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(sessions auth.SessionStore, limiter *auth.Limiter, cfg *config.Config, log zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		sessions: sessions,
		limiter:  limiter,
		cfg:      cfg,
		log:      log.With().Str("handler", "auth").Logger(),
	}
}

// LoginPage handles GET /login
func (h *AuthHandler) LoginPage(c *gin.Context) {
	c.HTML(http.StatusOK, "login.html", gin.H{})
}

// Login handles POST /login
func (h *AuthHandler) Login(c *gin.Context) {
	if !h.limiter.Allow(c.ClientIP()) {
		h.log.Warn().Str("client_ip", c.ClientIP()).Msg("Login rate limit exceeded")
		c.Header("Retry-After", "60")
		c.HTML(http.StatusTooManyRequests, "login.html", gin.H{"error": "Too many login attempts, try again later"})
		return
	}

	if !auth.CheckPassword(h.cfg.Auth.AdminPassword, c.PostForm("password")) {
		h.log.Warn().Str("client_ip", c.ClientIP()).Msg("Invalid login attempt")
		c.HTML(http.StatusUnauthorized, "login.html", gin.H{"error": "Invalid password"})
		return
	}

	session, err := h.sessions.Create(c.Request.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to create session")
		c.HTML(http.StatusInternalServerError, "login.html", gin.H{"error": "Login failed, try again"})
		return
	}

	h.setSessionCookie(c, session.ID, int(h.cfg.Auth.SessionTTL.Seconds()))

	h.log.Info().Str("client_ip", c.ClientIP()).Msg("Operator logged in")
	c.Redirect(http.StatusSeeOther, "/dashboard")
}

// Logout handles GET /logout
func (h *AuthHandler) Logout(c *gin.Context) {
	if id, err := c.Cookie(SessionCookie); err == nil && id != "" {
		if err := h.sessions.Delete(c.Request.Context(), id); err != nil {
			h.log.Error().Err(err).Msg("Failed to delete session")
		}
	}

	h.setSessionCookie(c, "", -1)
	c.Redirect(http.StatusFound, "/login")
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, value string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(SessionCookie, value, maxAge, "/", "", h.cfg.Auth.CookieSecure, true)
}

// RequireSession rejects requests without a live session. Page requests are
// redirected to the login form, everything else gets a 401 JSON body.
func (h *AuthHandler) RequireSession(page bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := c.Cookie(SessionCookie)
		var session *auth.Session
		if err == nil && id != "" {
			session, err = h.sessions.Validate(c.Request.Context(), id)
		}

		if session == nil || err != nil {
			if page {
				c.Redirect(http.StatusFound, "/login")
			} else {
				c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			}
			c.Abort()
			return
		}

		// Validate slid the expiry; the browser cookie follows it
		h.setSessionCookie(c, session.ID, int(h.cfg.Auth.SessionTTL.Seconds()))

		c.Request = c.Request.WithContext(auth.WithSession(c.Request.Context(), session))
		c.Next()
	}
}

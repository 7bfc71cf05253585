package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"mkulima/soko/internal/api/middleware"
	"mkulima/soko/internal/config"
	"mkulima/soko/internal/models"
	"mkulima/soko/internal/remote"
	"mkulima/soko/internal/render"
	"mkulima/soko/internal/session"
)

// AuthHandler proxies login and registration to the backend. Credentials
// pass through verbatim; no password ever touches local state.
type AuthHandler struct {
	cfg      *config.Config
	engine   *render.Engine
	client   remote.IClient
	sessions *session.Manager
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(cfg *config.Config, engine *render.Engine, client remote.IClient, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{
		cfg:      cfg,
		engine:   engine,
		client:   client,
		sessions: sessions,
	}
}

// validateLogin checks the login form before any request goes out.
// Kenyan numbers are at least nine digits (0712345678 or 712345678).
func validateLogin(phone string) string {
	if len(phone) < 9 {
		return "Please enter a valid Kenyan phone number."
	}
	return ""
}

// validateRegistration checks the registration form before any request goes out.
func validateRegistration(phone, password, confirm string) string {
	if len(phone) < 9 {
		return "Please enter a valid Kenyan phone number."
	}
	if password != confirm {
		return "Passwords do not match!"
	}
	if len(password) < 6 {
		return "Password must be at least 6 characters."
	}
	return ""
}

// GetLogin handles GET /login.
func (h *AuthHandler) GetLogin(c *gin.Context) {
	page, err := h.engine.LoginPage(render.LoginPageData{PageData: pageData(c, h.engine)})
	writePage(c, page, err)
}

// PostLogin handles POST /login. The session ID is kept across login so
// listings authored while anonymous stay attached to this browser.
func (h *AuthHandler) PostLogin(c *gin.Context) {
	phone := c.PostForm("phone")
	password := c.PostForm("password")

	if msg := validateLogin(phone); msg != "" {
		page, renderErr := h.engine.LoginPage(render.LoginPageData{
			PageData: h.engine.NewPageData(nil, "", msg),
			Phone:    phone,
		})
		writePage(c, page, renderErr)
		return
	}

	user, err := h.client.Login(c.Request.Context(), phone, password)
	if err != nil {
		page, renderErr := h.engine.LoginPage(render.LoginPageData{
			PageData: h.engine.NewPageData(nil, "", remote.UserMessage(err)),
			Phone:    phone,
		})
		writePage(c, page, renderErr)
		return
	}

	sessionID := middleware.SessionID(c)
	if err := h.sessions.SetUser(c.Request.Context(), sessionID, user); err != nil {
		log.Printf("WARN: Storing user for session %s failed: %v", sessionID, err)
	}
	if err := middleware.IssueSession(c, h.cfg, sessionID, user); err != nil {
		writePage(c, nil, err)
		return
	}

	if user.IsAdmin() {
		c.Redirect(http.StatusSeeOther, "/admin")
		return
	}
	redirectWith(c, "/", "toast", "Welcome back, "+user.Fullname+"!")
}

// GetRegister handles GET /register.
func (h *AuthHandler) GetRegister(c *gin.Context) {
	page, err := h.engine.RegisterPage(render.RegisterPageData{PageData: pageData(c, h.engine)})
	writePage(c, page, err)
}

// PostRegister handles POST /register.
func (h *AuthHandler) PostRegister(c *gin.Context) {
	fullname := c.PostForm("fullname")
	phone := c.PostForm("phone")
	password := c.PostForm("password")
	confirm := c.PostForm("confirmPassword")
	role := c.DefaultPostForm("role", models.RoleFarmer)

	if msg := validateRegistration(phone, password, confirm); msg != "" {
		page, renderErr := h.engine.RegisterPage(render.RegisterPageData{
			PageData: h.engine.NewPageData(nil, "", msg),
			Fullname: fullname,
			Phone:    phone,
		})
		writePage(c, page, renderErr)
		return
	}

	err := h.client.Register(c.Request.Context(), fullname, phone, password, role)
	if err != nil {
		page, renderErr := h.engine.RegisterPage(render.RegisterPageData{
			PageData: h.engine.NewPageData(nil, "", remote.UserMessage(err)),
			Fullname: fullname,
			Phone:    phone,
		})
		writePage(c, page, renderErr)
		return
	}

	redirectWith(c, "/login", "toast", "Account created! Please login.")
}

// PostLogout handles POST /logout. Ownership and offer mirrors survive the
// logout; only the user hint is cleared.
func (h *AuthHandler) PostLogout(c *gin.Context) {
	sessionID := middleware.SessionID(c)
	if err := h.sessions.ClearUser(c.Request.Context(), sessionID); err != nil {
		log.Printf("WARN: Clearing user for session %s failed: %v", sessionID, err)
	}
	if err := middleware.IssueSession(c, h.cfg, sessionID, nil); err != nil {
		writePage(c, nil, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/")
}

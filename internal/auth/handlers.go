package auth

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"

	"github.com/studioform/portfolio-admin-backend/internal/users"
)

// CredentialSource loads users for password verification.
type CredentialSource interface {
	GetByEmail(ctx context.Context, email string) (*users.User, error)
}

// SessionWriter establishes and tears down sessions.
type SessionWriter interface {
	Create(ctx context.Context, userID string) (string, error)
	SignOut(ctx context.Context, token string) error
}

type Handler struct {
	sessions     SessionWriter
	creds        CredentialSource
	cookieName   string
	cookieSecure bool
	sessionTTL   time.Duration
}

func NewHandler(sessions SessionWriter, creds CredentialSource, cookieName string, cookieSecure bool, sessionTTL time.Duration) *Handler {
	return &Handler{
		sessions:     sessions,
		creds:        creds,
		cookieName:   cookieName,
		cookieSecure: cookieSecure,
		sessionTTL:   sessionTTL,
	}
}

// Register wires the public auth routes.
func Register(r gin.IRouter, h *Handler) {
	r.GET(LoginPath, h.loginPage)
	r.POST(LoginPath, h.login)
	r.POST("/logout", h.logout)
	r.GET(UnauthorizedPath, h.unauthorized)
}

func (h *Handler) loginPage(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"ok": true, "page": "login"})
}

func (h *Handler) unauthorized(c *gin.Context) {
	c.JSON(http.StatusForbidden, gin.H{"ok": false, "error": "unauthorized"})
}

type loginReq struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) login(c *gin.Context) {
	var req loginReq
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Email) == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"ok": false, "error": "invalid body"})
		return
	}

	// Every failure below answers identically so the caller cannot probe
	// which accounts exist.
	u, err := h.creds.GetByEmail(c.Request.Context(), strings.TrimSpace(req.Email))
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "invalid credentials"})
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "invalid credentials"})
		return
	}

	token, err := h.sessions.Create(c.Request.Context(), u.ID)
	if err != nil {
		log.Printf("create session: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"ok": false, "error": "could not establish session"})
		return
	}

	c.SetCookie(h.cookieName, token, int(h.sessionTTL.Seconds()), "/", "", h.cookieSecure, true)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *Handler) logout(c *gin.Context) {
	token, err := c.Cookie(h.cookieName)
	if err == nil && token != "" {
		if err := h.sessions.SignOut(c.Request.Context(), token); err != nil {
			log.Printf("sign out: %v", err)
		}
	}

	c.SetCookie(h.cookieName, "", -1, "/", "", h.cookieSecure, true)
	c.Redirect(http.StatusSeeOther, LoginPath)
}

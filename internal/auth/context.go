package auth

import (
	"strings"

	"github.com/gin-gonic/gin"
)

const (
	CtxUserID       = "session_user_id"
	CtxSessionToken = "session_token"
)

// UserID extracts the session owner's user id from the Gin context.
// This is set by RequireSuperAdmin.
func UserID(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxUserID))
}

// SessionToken extracts the raw session token from the Gin context.
func SessionToken(c *gin.Context) string {
	return strings.TrimSpace(c.GetString(CtxSessionToken))
}

package auth

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/studioform/portfolio-admin-backend/internal/session"
	"github.com/studioform/portfolio-admin-backend/internal/users"
)

const (
	LoginPath        = "/login"
	UnauthorizedPath = "/unauthorized"
)

// SessionResolver resolves an opaque token to its session.
type SessionResolver interface {
	Get(ctx context.Context, token string) (session.Session, error)
}

// RoleSource looks up the role claim for a user id.
type RoleSource interface {
	Role(ctx context.Context, userID string) (string, error)
}

// RequireSuperAdmin gates every admin route. No session redirects to the
// login entry point; a failed role lookup and a wrong role both redirect to
// the unauthorized destination, indistinguishably. Fails closed, no retry.
func RequireSuperAdmin(cookieName string, sessions SessionResolver, roles RoleSource) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(cookieName)
		if err != nil || token == "" {
			c.Redirect(http.StatusSeeOther, LoginPath)
			c.Abort()
			return
		}

		sess, err := sessions.Get(c.Request.Context(), token)
		if err != nil {
			c.Redirect(http.StatusSeeOther, LoginPath)
			c.Abort()
			return
		}

		role, err := roles.Role(c.Request.Context(), sess.UserID)
		if err != nil || role != users.RoleSuperAdmin {
			c.Redirect(http.StatusSeeOther, UnauthorizedPath)
			c.Abort()
			return
		}

		c.Set(CtxUserID, sess.UserID)
		c.Set(CtxSessionToken, token)
		c.Next()
	}
}

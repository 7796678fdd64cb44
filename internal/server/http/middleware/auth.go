package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/domain/errors"
	"github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/domain/model"
	pkgAuth "github.com/henriquemalikovski/api-grupo-escoteiro-ares-193/internal/pkg/auth"
)

const (
	// PrincipalContextKey is a gin context key for the authenticated principal.
	PrincipalContextKey = "principal"
	authCookieName      = "ares_token"
)

// Authenticator resolves a bearer token into a principal and looks up the
// account behind it.
type Authenticator interface {
	ParseToken(token string) (model.Principal, error)
	Profile(ctx context.Context, id int64) (*model.User, error)
}

// AuthRequired ensures the request carries a valid token for an active
// account before reaching the handler. Tokens issued before an account was
// disabled stop working immediately.
func AuthRequired(auth Authenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		principal, err := auth.ParseToken(token)
		if err != nil {
			if errors.Is(err, pkgAuth.ErrInvalidToken) {
				c.AbortWithStatus(http.StatusUnauthorized)
				return
			}
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}

		user, err := auth.Profile(c.Request.Context(), principal.UserID)
		if err != nil {
			if errors.Is(err, domainErrors.ErrNotFound) {
				c.AbortWithStatus(http.StatusUnauthorized)
				return
			}
			c.AbortWithStatus(http.StatusInternalServerError)
			return
		}
		if !user.Active {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		c.Set(PrincipalContextKey, principal)
		c.Next()
	}
}

// AdminRequired rejects requests whose principal lacks the admin role. Must
// run after AuthRequired.
func AdminRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		val, ok := c.Get(PrincipalContextKey)
		if !ok {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}
		principal, ok := val.(model.Principal)
		if !ok || !principal.IsAdmin() {
			c.AbortWithStatus(http.StatusForbidden)
			return
		}
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if strings.HasPrefix(strings.ToLower(authHeader), "bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}

	if cookie, err := c.Cookie(authCookieName); err == nil {
		return cookie
	}
	return ""
}

// SetAuthCookie writes auth token cookie to response.
func SetAuthCookie(c *gin.Context, token string) {
	c.SetCookie(authCookieName, token, 0, "/", "", false, true)
	c.Header("Authorization", "Bearer "+token)
}

package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/farellandr/eventhub/internal/apperrors"
	"github.com/farellandr/eventhub/internal/auth"
	"github.com/farellandr/eventhub/internal/helpers"
	"github.com/farellandr/eventhub/internal/models"
	"github.com/farellandr/eventhub/internal/service"
)

const (
	TokenCookie = "token"

	userKey   = "user"
	userIDKey = "user_id"
)

// Authenticate requires a valid session token from the token cookie or a
// bearer header and loads the stored user into the request context.
func Authenticate(authService *service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := tokenFromRequest(c)
		if token == "" {
			helpers.RespondWithError(c, http.StatusUnauthorized, "Unauthorized")
			return
		}

		user, err := authService.Authenticate(c.Request.Context(), token)
		if err != nil {
			switch {
			case errors.Is(err, auth.ErrTokenExpired):
				helpers.RespondWithError(c, http.StatusUnauthorized, "Token expired")
			case errors.Is(err, apperrors.ErrUnauthorized):
				helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid token")
			default:
				helpers.RespondWithAppError(c, err, "Failed to resolve session.")
			}
			return
		}

		c.Set(userKey, user)
		c.Set(userIDKey, user.ID)
		c.Next()
	}
}

// RequireAdmin must run after Authenticate.
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := CurrentUser(c)
		if !ok {
			helpers.RespondWithError(c, http.StatusUnauthorized, "Unauthorized")
			return
		}
		if !user.IsAdmin() {
			helpers.RespondWithError(c, http.StatusForbidden, "Forbidden: Admin access required")
			return
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) (*models.User, bool) {
	value, exists := c.Get(userKey)
	if !exists {
		return nil, false
	}
	user, ok := value.(*models.User)
	return user, ok
}

func tokenFromRequest(c *gin.Context) string {
	if token, err := c.Cookie(TokenCookie); err == nil && token != "" {
		return token
	}
	header := c.GetHeader("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok {
		return strings.TrimSpace(token)
	}
	return ""
}

package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gdugdh24/collabswipe-backend/internal/domain"
	"github.com/gdugdh24/collabswipe-backend/internal/session"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Authenticator resolves an access token into session state.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (*session.State, error)
}

type AuthMiddleware struct {
	auth Authenticator
	log  *zap.Logger
}

func NewAuthMiddleware(auth Authenticator, log *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{auth: auth, log: log}
}

// RequireAuth rejects requests without a valid bearer token and stores the
// session state in the request context.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, ok := BearerToken(c.GetHeader("Authorization"))
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization token"})
			return
		}

		st, err := m.auth.Authenticate(c.Request.Context(), token)
		if err != nil {
			if isAuthError(err) {
				c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
				return
			}
			m.log.Error("authentication failed", zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "authentication failed"})
			return
		}

		c.Request = c.Request.WithContext(session.WithState(c.Request.Context(), st))
		c.Set("user_id", st.UserID)
		c.Next()
	}
}

// RequireOnboarded must run after RequireAuth.
func (m *AuthMiddleware) RequireOnboarded() gin.HandlerFunc {
	return func(c *gin.Context) {
		st, ok := session.FromContext(c.Request.Context())
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		if !st.Onboarded {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": domain.ErrOnboardingRequired.Error()})
			return
		}
		c.Next()
	}
}

// BearerToken extracts the token from an Authorization header value.
func BearerToken(value string) (string, bool) {
	parts := strings.SplitN(strings.TrimSpace(value), " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	token := strings.TrimSpace(parts[1])
	return token, token != ""
}

func isAuthError(err error) bool {
	return errors.Is(err, domain.ErrInvalidToken) ||
		errors.Is(err, domain.ErrSessionNotFound) ||
		errors.Is(err, domain.ErrSessionExpired)
}

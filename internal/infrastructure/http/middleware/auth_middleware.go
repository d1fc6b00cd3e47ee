package middleware

import (
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/secondbrain-ai/deal-intel/pkg/jwt"
)

const (
	// BrokerIDContextKey is the echo context key for the authenticated broker's ID
	BrokerIDContextKey = "broker_id"

	// BrokerEmailContextKey is the echo context key for the authenticated broker's email
	BrokerEmailContextKey = "broker_email"
)

// EchoAuth returns an Echo middleware that validates the bearer JWT and sets
// "broker_id" (uuid.UUID) and "broker_email" (string) into the Echo context
func EchoAuth(tokens *jwt.Manager) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			token := extractToken(c)
			if token == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "Missing authorization token")
			}

			claims, err := tokens.ValidateToken(token)
			if err != nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "Invalid or expired token")
			}

			c.Set(BrokerIDContextKey, claims.UserID)
			c.Set(BrokerEmailContextKey, claims.Email)

			return next(c)
		}
	}
}

// GetBrokerID retrieves the authenticated broker's ID from the Echo context
func GetBrokerID(c echo.Context) (uuid.UUID, bool) {
	id, ok := c.Get(BrokerIDContextKey).(uuid.UUID)
	return id, ok
}

func extractToken(c echo.Context) string {
	// Try Authorization header first
	authHeader := c.Request().Header.Get("Authorization")
	if authHeader != "" {
		// Expected format: "Bearer <token>"
		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) == 2 && strings.ToLower(parts[0]) == "bearer" {
			return strings.TrimSpace(parts[1])
		}
	}

	// Try cookie as fallback
	if cookie, err := c.Cookie("access_token"); err == nil {
		return cookie.Value
	}

	return ""
}

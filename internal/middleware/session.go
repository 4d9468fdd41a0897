package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/koen-wskcorporation/sportssass-sub002/pkg/response"
)

const (
	// ContextUserID is the key for user ID in gin context.
	ContextUserID = "user_id"
	// ContextUserEmail is the key for user email in gin context.
	ContextUserEmail = "user_email"
)

// SessionValidator validates a bearer token and returns the caller identity.
// Satisfied by auth.JWTService.
type SessionValidator interface {
	ValidateSession(token string) (userID uuid.UUID, email string, err error)
}

// Session returns a middleware that requires a valid bearer token and sets
// the caller identity in context.
func Session(validator SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, email, ok := callerFromHeader(c, validator)
		if !ok {
			response.Unauthorized(c, "invalid or missing session")
			c.Abort()
			return
		}
		c.Set(ContextUserID, userID)
		c.Set(ContextUserEmail, email)
		c.Next()
	}
}

// OptionalSession sets the caller identity when a valid bearer token is
// present and proceeds anonymously otherwise. Used on public site routes so
// staff get editor affordances without gating the page.
func OptionalSession(validator SessionValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID, email, ok := callerFromHeader(c, validator); ok {
			c.Set(ContextUserID, userID)
			c.Set(ContextUserEmail, email)
		}
		c.Next()
	}
}

func callerFromHeader(c *gin.Context, validator SessionValidator) (uuid.UUID, string, bool) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return uuid.Nil, "", false
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		return uuid.Nil, "", false
	}
	userID, email, err := validator.ValidateSession(parts[1])
	if err != nil {
		return uuid.Nil, "", false
	}
	return userID, email, true
}

package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/foxxcyber/healthy-food/internal/session"
)

// SessionID resolves the storefront session for the request. Logged-in users
// always get user:<id>; anonymous callers send X-Session-ID, and get a fresh
// id when the header is missing or malformed. The id is echoed back.
// Must run after AuthOptional.
func SessionID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		var id string
		if userID := GetUserID(c); userID > 0 {
			id = session.UserID(userID)
		} else {
			id = c.Get(session.HeaderName)
			// anonymous callers can't claim a user's session
			if !session.ValidID(id) || strings.HasPrefix(id, "user:") {
				id = session.NewID()
			}
		}
		c.Locals("session_id", id)
		c.Set(session.HeaderName, id)
		return c.Next()
	}
}

// GetSessionID returns the id resolved by SessionID
func GetSessionID(c *fiber.Ctx) string {
	if id, ok := c.Locals("session_id").(string); ok {
		return id
	}
	return ""
}

package middleware

import (
	"crypto/subtle"

	"moviematch-bot/config"

	"github.com/gofiber/fiber/v2"
)

// APIKey guards the ops endpoints with a static key from OPS_API_KEY.
func APIKey() fiber.Handler {
	return func(c *fiber.Ctx) error {
		key := config.Config("OPS_API_KEY")
		got := c.Get("X-API-Key")
		if key == "" || subtle.ConstantTimeCompare([]byte(got), []byte(key)) != 1 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"status":  "error",
				"message": "Invalid API key",
				"data":    nil,
			})
		}
		return c.Next()
	}
}

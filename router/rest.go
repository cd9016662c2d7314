package router

import (
	"moviematch-bot/controller"
	"moviematch-bot/middleware"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func Rest(app *fiber.App) {
	api := app.Group("/v1", logger.New())

	api.Get("/health", controller.Health)

	// Ops
	user := api.Group("/user", middleware.APIKey())
	user.Get("/:id/connections", controller.UserConnections)
	user.Get("/:id/matches/:handle", controller.UserMatches)
}

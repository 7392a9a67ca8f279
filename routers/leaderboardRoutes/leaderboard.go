package leaderboardRoutes

import (
	controllers "abhyasi/controllers/leaderboard"
	"abhyasi/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupLeaderboardRoutes(app *fiber.App) {
	group := app.Group("/leaderboard")

	group.Get("/", middleware.JWTMiddleware, controllers.GetLeaderboard)
	group.Get("/all", middleware.JWTMiddleware, controllers.GetAllLeaderboard)
}

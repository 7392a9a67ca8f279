package authRoutes

import (
	authControllers "abhyasi/controllers/auth"
	"abhyasi/middleware"
	authValidators "abhyasi/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")

	authGroup.Post("/signup", authValidators.Signup(), authControllers.Signup)
	authGroup.Post("/login", authValidators.Login(), authControllers.Login)
	authGroup.Get("/profile", middleware.JWTMiddleware, authControllers.Profile)
	authGroup.Put("/profile", middleware.JWTMiddleware, authControllers.UpdateProfile)
}

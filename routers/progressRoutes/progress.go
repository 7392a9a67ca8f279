package progressRoutes

import (
	controllers "abhyasi/controllers/progress"
	"abhyasi/middleware"
	courseValidators "abhyasi/validators/course"

	"github.com/gofiber/fiber/v2"
)

func SetupProgressRoutes(app *fiber.App) {
	progressGroup := app.Group("/progress")

	progressGroup.Get("/overall", middleware.JWTMiddleware, controllers.GetOverallProgress)
	progressGroup.Get("/course/:courseId", middleware.JWTMiddleware, courseValidators.ParseCourseID(), controllers.GetCourseProgress)
}

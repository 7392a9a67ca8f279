package courseRoutes

import (
	controllers "abhyasi/controllers/course"
	"abhyasi/middleware"
	validators "abhyasi/validators/course"

	"github.com/gofiber/fiber/v2"
)

// SetupCourseRoutes sets up all user-facing course routes
func SetupCourseRoutes(app *fiber.App) {
	userGroup := app.Group("/course")

	userGroup.Get("/list", middleware.JWTMiddleware, controllers.GetAllCourses)
	userGroup.Get("/slug/:slug", middleware.JWTMiddleware, controllers.GetCourseBySlug)
	userGroup.Get("/:courseId", middleware.JWTMiddleware, validators.ParseCourseID(), controllers.GetCourse)

	userGroup.Post("/:courseId/enroll", middleware.JWTMiddleware, validators.ParseCourseID(), validators.EnrollCourse(), controllers.EnrollInCourse)
	userGroup.Post("/unenroll", middleware.JWTMiddleware, controllers.UnenrollFromCourse)
}

// SetupAdminCourseRoutes sets up all admin course management routes
func SetupAdminCourseRoutes(app *fiber.App) {
	adminGroup := app.Group("/admin/course", middleware.JWTMiddleware, middleware.RequireRole("admin"))

	adminGroup.Post("/create", validators.CreateCourse(), controllers.CreateCourse)
	adminGroup.Put("/:courseId", validators.ParseCourseID(), validators.EditCourse(), controllers.UpdateCourse)
	adminGroup.Delete("/:courseId", validators.ParseCourseID(), controllers.RemoveCourse)
	adminGroup.Post("/:courseId/toggle-visibility", validators.ParseCourseID(), controllers.ToggleCourseVisibility)
}

package professionRoutes

import (
	controllers "abhyasi/controllers/profession"
	"abhyasi/middleware"
	validators "abhyasi/validators/profession"

	"github.com/gofiber/fiber/v2"
)

func SetupProfessionRoutes(app *fiber.App) {
	userGroup := app.Group("/profession")

	userGroup.Get("/list", middleware.JWTMiddleware, controllers.GetAllProfessions)
	userGroup.Get("/:professionId", middleware.JWTMiddleware, validators.ParseProfessionID(), controllers.GetProfession)
	userGroup.Post("/:professionId/enroll", middleware.JWTMiddleware, validators.ParseProfessionID(), controllers.EnrollInProfession)
	userGroup.Post("/:professionId/unenroll", middleware.JWTMiddleware, validators.ParseProfessionID(), controllers.UnenrollFromProfession)

	adminGroup := app.Group("/admin/profession", middleware.JWTMiddleware, middleware.RequireRole("admin"))

	adminGroup.Post("/create", validators.CreateProfession(), controllers.CreateProfession)
	adminGroup.Put("/:professionId", validators.ParseProfessionID(), validators.CreateProfession(), controllers.UpdateProfession)
	adminGroup.Delete("/:professionId", validators.ParseProfessionID(), controllers.RemoveProfession)
	adminGroup.Post("/:professionId/toggle-visibility", validators.ParseProfessionID(), controllers.ToggleProfessionVisibility)
	adminGroup.Post("/:professionId/courses", validators.ParseProfessionID(), validators.AssignCourses(), controllers.AssignCourses)
}

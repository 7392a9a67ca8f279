package moduleRoutes

import (
	moduleControllers "abhyasi/controllers/module"
	submissionControllers "abhyasi/controllers/submission"
	"abhyasi/middleware"
	moduleValidators "abhyasi/validators/module"
	submissionValidators "abhyasi/validators/submission"

	"github.com/gofiber/fiber/v2"
)

func SetupModuleRoutes(app *fiber.App) {
	userGroup := app.Group("/module")

	userGroup.Get("/:moduleId", middleware.JWTMiddleware, moduleValidators.ParseModuleID(), moduleControllers.GetModule)

	// Submissions drive the completion state machine.
	userGroup.Post("/:moduleId/mcq/submit", middleware.JWTMiddleware, submissionValidators.SubmitMCQ(), submissionControllers.SubmitMCQAnswer)
	userGroup.Post("/:moduleId/code/submit", middleware.JWTMiddleware, submissionValidators.SubmitCode(), submissionControllers.SubmitCode)

	adminGroup := app.Group("/admin/module", middleware.JWTMiddleware, middleware.RequireRole("admin"))

	adminGroup.Post("/create", moduleValidators.CreateModule(), moduleControllers.CreateModule)
	adminGroup.Put("/:moduleId", moduleValidators.ParseModuleID(), moduleValidators.EditModule(), moduleControllers.EditModule)
	adminGroup.Delete("/:moduleId", moduleValidators.ParseModuleID(), moduleControllers.RemoveModule)
}

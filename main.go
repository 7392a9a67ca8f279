package main

import (
	"log"

	"abhyasi/config"
	submissionController "abhyasi/controllers/submission"
	"abhyasi/database"
	authRoutes "abhyasi/routers/authRoutes"
	courseRoutes "abhyasi/routers/courseRoutes"
	leaderboardRoutes "abhyasi/routers/leaderboardRoutes"
	moduleRoutes "abhyasi/routers/moduleRoutes"
	professionRoutes "abhyasi/routers/professionRoutes"
	progressRoutes "abhyasi/routers/progressRoutes"
	"abhyasi/services/certificate"
	"abhyasi/services/execution"
	"abhyasi/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
)

func main() {
	config.LoadConfig()
	database.ConnectDb()

	submissionController.ExecGateway = execution.NewLocalRunner(config.AppConfig.ExecutionWorkDir)
	submissionController.CertIssuer = certificate.NewRenderer(
		config.AppConfig.CloudinaryCloudName,
		config.AppConfig.CloudinaryUploadPreset,
		config.AppConfig.CloudinaryFolder,
		config.AppConfig.AssetsDir,
	)

	app := fiber.New()

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,PUT,DELETE",        // Allowed HTTP methods
		AllowHeaders: "Content-Type,Authorization", // Allowed headers
	}))

	// Enable the built-in logger middleware to log all requests
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${ip} ${method} ${path} ${status} ${latency}\n",
	}))

	// Serve static files from the public folder
	app.Static("/", "./public")

	authRoutes.SetupAuthRoutes(app)
	courseRoutes.SetupCourseRoutes(app)
	courseRoutes.SetupAdminCourseRoutes(app)
	moduleRoutes.SetupModuleRoutes(app)
	professionRoutes.SetupProfessionRoutes(app)
	progressRoutes.SetupProgressRoutes(app)
	leaderboardRoutes.SetupLeaderboardRoutes(app)

	utils.InitializeLeaderboardScheduler()

	log.Printf("Server is running on port %s", config.AppConfig.Port)
	log.Fatal(app.Listen(":" + config.AppConfig.Port))
}

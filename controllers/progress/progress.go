package progressController

import (
	"log"

	"abhyasi/database"
	"abhyasi/middleware"
	"abhyasi/models"
	courseModel "abhyasi/models/course"

	"github.com/gofiber/fiber/v2"
)

type moduleProgress struct {
	ModuleID        uint     `json:"moduleId"`
	Title           string   `json:"title"`
	OrderIndex      int      `json:"orderIndex"`
	IsMcqCompleted  bool     `json:"isMcqCompleted"`
	IsCodeCompleted bool     `json:"isCodeCompleted"`
	IsCompleted     bool     `json:"isCompleted"`
	McqScore        *float64 `json:"mcqScore,omitempty"`
	CodeScore       *float64 `json:"codeScore,omitempty"`
}

// GetCourseProgress reports the learner's dual-pass standing per module.
func GetCourseProgress(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	courseID := c.Locals("courseID").(uint)

	var crs courseModel.Course
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", courseID, false).First(&crs).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	var modules []courseModel.Module
	if err := database.Database.Db.Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("order_index asc").Find(&modules).Error; err != nil {
		log.Println("Failed to load modules:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}

	report := make([]moduleProgress, 0, len(modules))
	completedCount := 0
	var scoreSum float64
	var scoreCount int

	for _, mod := range modules {
		entry := moduleProgress{
			ModuleID:   mod.ID,
			Title:      mod.Title,
			OrderIndex: mod.OrderIndex,
		}

		mcqSub, err := courseModel.LatestSubmission(database.Database.Db, userID, mod.ID, courseModel.TypeMCQ)
		if err != nil {
			log.Println("Failed to load MCQ submission:", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
		}
		codeSub, err := courseModel.LatestSubmission(database.Database.Db, userID, mod.ID, courseModel.TypeCode)
		if err != nil {
			log.Println("Failed to load code submission:", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
		}

		mcqPassed, err := courseModel.HasPassed(database.Database.Db, userID, mod.ID, courseModel.TypeMCQ)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
		}
		codePassed, err := courseModel.HasPassed(database.Database.Db, userID, mod.ID, courseModel.TypeCode)
		if err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
		}

		entry.IsMcqCompleted = mcqPassed
		entry.IsCodeCompleted = codePassed
		entry.IsCompleted = mcqPassed && codePassed
		if mcqSub != nil {
			score := mcqSub.Score
			entry.McqScore = &score
			scoreSum += score
			scoreCount++
		}
		if codeSub != nil {
			score := codeSub.Score
			entry.CodeScore = &score
			scoreSum += score
			scoreCount++
		}
		if entry.IsCompleted {
			completedCount++
		}
		report = append(report, entry)
	}

	var completionPercentage float64
	if len(modules) > 0 {
		completionPercentage = float64(completedCount) / float64(len(modules)) * 100
	}
	var averageScore float64
	if scoreCount > 0 {
		averageScore = scoreSum / float64(scoreCount)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course progress fetched successfully.", fiber.Map{
		"courseId":             crs.ID,
		"courseTitle":          crs.Title,
		"totalModules":         len(modules),
		"completedModules":     completedCount,
		"completionPercentage": completionPercentage,
		"averageScore":         averageScore,
		"modules":              report,
	})
}

// GetOverallProgress summarises the learner's standing across the platform.
func GetOverallProgress(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)

	var user models.User
	if err := database.Database.Db.Preload("Badges").First(&user, userID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	var completedCourses []models.CompletedCourse
	if err := database.Database.Db.Where("user_id = ?", userID).
		Order("completed_date desc").Find(&completedCourses).Error; err != nil {
		log.Println("Failed to load completed courses:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}

	var completedProfessions []models.CompletedProfession
	if err := database.Database.Db.Where("user_id = ?", userID).
		Order("completed_date desc").Find(&completedProfessions).Error; err != nil {
		log.Println("Failed to load completed professions:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}

	var passedSubmissions int64
	if err := database.Database.Db.Model(&courseModel.Submission{}).
		Where("user_id = ? AND status = ?", userID, courseModel.StatusPassed).
		Count(&passedSubmissions).Error; err != nil {
		log.Println("Failed to count submissions:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch progress!", nil)
	}

	resp := fiber.Map{
		"points":               user.Points,
		"badges":               user.Badges,
		"completedCourses":     completedCourses,
		"completedProfessions": completedProfessions,
		"passedSubmissions":    passedSubmissions,
		"currentProfessionId":  user.CurrentProfessionID,
		"currentCourseId":      user.CurrentCourseID,
		"currentModuleId":      user.CurrentModuleID,
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Overall progress fetched successfully.", resp)
}

package courseController

import (
	"log"

	"abhyasi/database"
	"abhyasi/middleware"
	"abhyasi/models"
	courseModels "abhyasi/models/course"
	courseValidator "abhyasi/validators/course"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func preloadModules(db *gorm.DB) *gorm.DB {
	return db.Where("is_deleted = ?", false).Order("order_index asc")
}

// GetAllCourses lists published courses. Correct MCQ answers never leave
// the server (hidden at the model's JSON layer).
func GetAllCourses(c *fiber.Ctx) error {
	db := database.Database.Db

	var courses []courseModels.Course
	if err := db.Preload("Modules", preloadModules).
		Where("status = ? AND is_deleted = ?", courseModels.StatusPublished, false).
		Find(&courses).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch courses!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses fetched successfully!", courses)
}

// GetCourse returns one course with its ordered modules
func GetCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)
	db := database.Database.Db

	var course courseModels.Course
	if err := db.Preload("Modules", preloadModules).
		Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course retrieved successfully!", course)
}

// GetCourseBySlug returns one course looked up by slug
func GetCourseBySlug(c *fiber.Ctx) error {
	db := database.Database.Db

	var course courseModels.Course
	if err := db.Preload("Modules", preloadModules).
		Where("slug = ? AND is_deleted = ?", c.Params("slug"), false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course retrieved successfully!", course)
}

// EnrollInCourse sets the user's current course and entry module. Switching
// away from an active course requires explicit confirmation.
func EnrollInCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	courseID := c.Locals("courseID").(uint)
	reqData := c.Locals("validatedEnroll").(*courseValidator.EnrollCourseRequest)
	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	var course courseModels.Course
	if err := db.Where("id = ? AND status = ? AND is_deleted = ?", courseID, courseModels.StatusPublished, false).
		First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found or not published!", nil)
	}

	if user.CurrentCourseID != nil && *user.CurrentCourseID == courseID {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Already enrolled in this course!", nil)
	}
	if user.CurrentCourseID != nil && !reqData.ConfirmSwitch {
		return middleware.JsonResponse(c, fiber.StatusConflict, false,
			"Already enrolled in another course. Pass confirm_switch to switch courses.", nil)
	}

	var firstModule courseModels.Module
	moduleID := (*uint)(nil)
	if err := db.Where("course_id = ? AND is_deleted = ?", courseID, false).
		Order("order_index asc").First(&firstModule).Error; err == nil {
		moduleID = &firstModule.ID
	}

	if err := db.Model(&user).Updates(map[string]interface{}{
		"current_course_id": courseID,
		"current_module_id": moduleID,
	}).Error; err != nil {
		log.Printf("Error in EnrollInCourse: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll in course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled in course successfully!", fiber.Map{
		"courseId": courseID,
		"moduleId": moduleID,
	})
}

// UnenrollFromCourse clears the user's current course. Users inside a
// profession must unenroll from the profession first.
func UnenrollFromCourse(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	if user.CurrentCourseID == nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Not enrolled in any course!", nil)
	}
	if user.CurrentProfessionID != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false,
			"Cannot unenroll from a course while enrolled in a profession. Unenroll from the profession first.", nil)
	}

	if err := db.Model(&user).Updates(map[string]interface{}{
		"current_course_id": nil,
		"current_module_id": nil,
	}).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to unenroll!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Unenrolled from course successfully!", nil)
}

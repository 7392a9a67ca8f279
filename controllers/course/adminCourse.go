package courseController

import (
	"log"
	"regexp"
	"strings"

	"abhyasi/database"
	"abhyasi/middleware"
	courseModels "abhyasi/models/course"
	courseValidator "abhyasi/validators/course"

	"github.com/gofiber/fiber/v2"
)

var slugCleaner = regexp.MustCompile(`[^\w-]+`)

func slugify(title string) string {
	slug := strings.ToLower(strings.TrimSpace(title))
	slug = strings.ReplaceAll(slug, " ", "-")
	return slugCleaner.ReplaceAllString(slug, "")
}

// CreateCourse creates a draft course
func CreateCourse(c *fiber.Ctx) error {
	userID, _ := c.Locals("userId").(uint)
	reqData := c.Locals("validatedCourse").(*courseValidator.CreateCourseRequest)
	db := database.Database.Db

	slug := slugify(reqData.Title)
	if err := db.Where("slug = ?", slug).First(&courseModels.Course{}).Error; err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Course with this slug already exists!", nil)
	}

	course := courseModels.Course{
		Title:        reqData.Title,
		Slug:         slug,
		Description:  reqData.Description,
		Difficulty:   reqData.Difficulty,
		Duration:     reqData.Duration,
		ThumbnailURL: reqData.ThumbnailURL,
		Status:       courseModels.StatusDraft,
		CreatedBy:    userID,
	}
	if course.Difficulty == "" {
		course.Difficulty = "easy"
	}

	if err := db.Create(&course).Error; err != nil {
		log.Printf("Error in CreateCourse: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Course created successfully!", course)
}

// UpdateCourse applies a partial update
func UpdateCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)
	reqData := c.Locals("validatedCourseEdit").(*courseValidator.EditCourseRequest)
	db := database.Database.Db

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	updates := make(map[string]interface{})
	if reqData.Title != nil {
		updates["title"] = *reqData.Title
	}
	if reqData.Description != nil {
		updates["description"] = *reqData.Description
	}
	if reqData.Difficulty != nil {
		updates["difficulty"] = *reqData.Difficulty
	}
	if reqData.Duration != nil {
		updates["duration"] = *reqData.Duration
	}
	if reqData.ThumbnailURL != nil {
		updates["thumbnail_url"] = *reqData.ThumbnailURL
	}
	if reqData.Status != nil {
		updates["status"] = *reqData.Status
	}

	if len(updates) > 0 {
		if err := db.Model(&course).Updates(updates).Error; err != nil {
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course updated successfully!", course)
}

// RemoveCourse soft deletes a course
func RemoveCourse(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)
	db := database.Database.Db

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	if err := db.Model(&course).Update("is_deleted", true).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course deleted successfully!", nil)
}

// ToggleCourseVisibility flips a course between published and archived
func ToggleCourseVisibility(c *fiber.Ctx) error {
	courseID := c.Locals("courseID").(uint)
	db := database.Database.Db

	var course courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ?", courseID, false).First(&course).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	next := courseModels.StatusPublished
	if course.Status == courseModels.StatusPublished {
		next = courseModels.StatusArchived
	}
	if err := db.Model(&course).Update("status", next).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update course!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Course is "+next, nil)
}

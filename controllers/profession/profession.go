package professionController

import (
	"encoding/json"
	"errors"
	"log"

	"abhyasi/database"
	"abhyasi/middleware"
	"abhyasi/models"
	courseModel "abhyasi/models/course"
	professionValidator "abhyasi/validators/profession"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

func toJSON(v interface{}) datatypes.JSON {
	raw, _ := json.Marshal(v)
	return raw
}

func CreateProfession(c *fiber.Ctx) error {
	reqData := c.Locals("validatedProfession").(*professionValidator.CreateProfessionRequest)

	var existing courseModel.Profession
	err := database.Database.Db.Where("name = ? AND is_deleted = ?", reqData.Name, false).First(&existing).Error
	if err == nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "A profession with this name already exists!", nil)
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		log.Println("Failed to check profession name:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create profession!", nil)
	}

	profession := courseModel.Profession{
		Name:              reqData.Name,
		Description:       reqData.Description,
		Thumbnail:         reqData.Thumbnail,
		EstimatedDuration: reqData.EstimatedDuration,
	}
	if len(reqData.Tags) > 0 {
		profession.Tags = toJSON(reqData.Tags)
	}

	if err := database.Database.Db.Create(&profession).Error; err != nil {
		log.Println("Failed to create profession:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create profession!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Profession created successfully.", profession)
}

func UpdateProfession(c *fiber.Ctx) error {
	professionID := c.Locals("professionID").(uint)
	reqData := c.Locals("validatedProfession").(*professionValidator.CreateProfessionRequest)

	var profession courseModel.Profession
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", professionID, false).First(&profession).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Profession not found!", nil)
	}

	updates := map[string]interface{}{
		"name":               reqData.Name,
		"description":        reqData.Description,
		"estimated_duration": reqData.EstimatedDuration,
	}
	if reqData.Thumbnail != "" {
		updates["thumbnail"] = reqData.Thumbnail
	}
	if len(reqData.Tags) > 0 {
		updates["tags"] = toJSON(reqData.Tags)
	}

	if err := database.Database.Db.Model(&profession).Updates(updates).Error; err != nil {
		log.Println("Failed to update profession:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profession!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profession updated successfully.", profession)
}

func RemoveProfession(c *fiber.Ctx) error {
	professionID := c.Locals("professionID").(uint)

	var profession courseModel.Profession
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", professionID, false).First(&profession).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Profession not found!", nil)
	}

	if err := database.Database.Db.Model(&profession).Update("is_deleted", true).Error; err != nil {
		log.Println("Failed to remove profession:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to remove profession!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profession removed successfully.", nil)
}

func ToggleProfessionVisibility(c *fiber.Ctx) error {
	professionID := c.Locals("professionID").(uint)

	var profession courseModel.Profession
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", professionID, false).First(&profession).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Profession not found!", nil)
	}

	if err := database.Database.Db.Model(&profession).Update("is_published", !profession.IsPublished).Error; err != nil {
		log.Println("Failed to toggle profession visibility:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to update profession!", nil)
	}

	profession.IsPublished = !profession.IsPublished
	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profession visibility updated.", fiber.Map{
		"id":          profession.ID,
		"isPublished": profession.IsPublished,
	})
}

// AssignCourses replaces the ordered course list of a profession.
func AssignCourses(c *fiber.Ctx) error {
	professionID := c.Locals("professionID").(uint)
	reqData := c.Locals("validatedAssignCourses").(*professionValidator.AssignCoursesRequest)

	var profession courseModel.Profession
	if err := database.Database.Db.Where("id = ? AND is_deleted = ?", professionID, false).First(&profession).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Profession not found!", nil)
	}

	courseIDs := make([]uint, 0, len(reqData.Courses))
	for _, entry := range reqData.Courses {
		courseIDs = append(courseIDs, entry.CourseID)
	}
	var count int64
	if err := database.Database.Db.Model(&courseModel.Course{}).
		Where("id IN ? AND is_deleted = ?", courseIDs, false).
		Count(&count).Error; err != nil {
		log.Println("Failed to verify courses:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to assign courses!", nil)
	}
	if int(count) != len(courseIDs) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "One or more courses do not exist!", nil)
	}

	err := database.Database.Db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("profession_id = ?", professionID).
			Delete(&courseModel.ProfessionCourse{}).Error; err != nil {
			return err
		}
		for _, entry := range reqData.Courses {
			link := courseModel.ProfessionCourse{
				ProfessionID: professionID,
				CourseID:     entry.CourseID,
				OrderIndex:   entry.Order,
			}
			if err := tx.Create(&link).Error; err != nil {
				return err
			}
			if err := tx.Model(&courseModel.Course{}).
				Where("id = ?", entry.CourseID).
				Update("profession_id", professionID).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		log.Println("Failed to assign courses:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to assign courses!", nil)
	}

	var links []courseModel.ProfessionCourse
	database.Database.Db.Where("profession_id = ?", professionID).
		Order("order_index asc").Preload("Course").Find(&links)

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Courses assigned to profession.", links)
}

func GetAllProfessions(c *fiber.Ctx) error {
	var professions []courseModel.Profession
	query := database.Database.Db.Where("is_deleted = ?", false)

	role, _ := c.Locals("role").(string)
	if role != "admin" {
		query = query.Where("is_published = ?", true)
	}

	if err := query.Preload("Courses", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_index asc")
	}).Preload("Courses.Course").Find(&professions).Error; err != nil {
		log.Println("Failed to fetch professions:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch professions!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Professions fetched successfully.", professions)
}

func GetProfession(c *fiber.Ctx) error {
	professionID := c.Locals("professionID").(uint)

	var profession courseModel.Profession
	err := database.Database.Db.Where("id = ? AND is_deleted = ?", professionID, false).
		Preload("Courses", func(db *gorm.DB) *gorm.DB {
			return db.Order("order_index asc")
		}).Preload("Courses.Course").First(&profession).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Profession not found!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Profession fetched successfully.", profession)
}

// EnrollInProfession puts the learner at the first module of the first course.
func EnrollInProfession(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	professionID := c.Locals("professionID").(uint)

	var user models.User
	if err := database.Database.Db.First(&user, userID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	if user.CurrentProfessionID != nil {
		if *user.CurrentProfessionID == professionID {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Already enrolled in this profession!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Unenroll from your current profession first!", nil)
	}
	if user.CurrentCourseID != nil {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Unenroll from your current course first!", nil)
	}

	var profession courseModel.Profession
	err := database.Database.Db.Where("id = ? AND is_deleted = ? AND is_published = ?", professionID, false, true).
		First(&profession).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Profession not found!", nil)
	}

	var firstLink courseModel.ProfessionCourse
	err = database.Database.Db.Where("profession_id = ?", professionID).
		Order("order_index asc").First(&firstLink).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "This profession has no courses yet!", nil)
	}

	var firstModule courseModel.Module
	err = database.Database.Db.Where("course_id = ? AND is_deleted = ?", firstLink.CourseID, false).
		Order("order_index asc").First(&firstModule).Error
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "The first course has no modules yet!", nil)
	}

	err = database.Database.Db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&user).Updates(map[string]interface{}{
			"current_profession_id": professionID,
			"current_course_id":     firstLink.CourseID,
			"current_module_id":     firstModule.ID,
		}).Error; err != nil {
			return err
		}
		enrollment := models.ProfessionEnrollment{
			UserID:       userID,
			ProfessionID: professionID,
		}
		return tx.Create(&enrollment).Error
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Already enrolled in this profession!", nil)
		}
		log.Println("Failed to enroll in profession:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to enroll!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Enrolled in profession successfully.", fiber.Map{
		"professionId":    professionID,
		"currentCourseId": firstLink.CourseID,
		"currentModuleId": firstModule.ID,
	})
}

func UnenrollFromProfession(c *fiber.Ctx) error {
	userID := c.Locals("userId").(uint)
	professionID := c.Locals("professionID").(uint)

	var user models.User
	if err := database.Database.Db.First(&user, userID).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "User not found!", nil)
	}

	if user.CurrentProfessionID == nil || *user.CurrentProfessionID != professionID {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Not enrolled in this profession!", nil)
	}

	updates := map[string]interface{}{"current_profession_id": nil}
	if user.CurrentCourseID != nil {
		var link courseModel.ProfessionCourse
		err := database.Database.Db.Where("profession_id = ? AND course_id = ?", professionID, *user.CurrentCourseID).
			First(&link).Error
		if err == nil {
			updates["current_course_id"] = nil
			updates["current_module_id"] = nil
		}
	}

	if err := database.Database.Db.Model(&user).Updates(updates).Error; err != nil {
		log.Println("Failed to unenroll from profession:", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to unenroll!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Unenrolled from profession successfully.", nil)
}

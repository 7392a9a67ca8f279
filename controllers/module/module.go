package moduleController

import (
	"encoding/json"
	"log"
	"time"

	"abhyasi/database"
	"abhyasi/middleware"
	"abhyasi/models"
	courseModels "abhyasi/models/course"
	moduleValidator "abhyasi/validators/module"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// CreateModule creates a module at the end of a course's ordering
func CreateModule(c *fiber.Ctx) error {
	reqData := c.Locals("validatedModule").(*moduleValidator.CreateModuleRequest)
	db := database.Database.Db

	var courseRow courseModels.Course
	if err := db.Where("id = ? AND is_deleted = ?", reqData.CourseID, false).First(&courseRow).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Course not found!", nil)
	}

	// Append after the course's last module
	var lastOrder int
	db.Model(&courseModels.Module{}).
		Where("course_id = ? AND is_deleted = ?", reqData.CourseID, false).
		Select("COALESCE(MAX(order_index), 0)").Scan(&lastOrder)

	module := courseModels.Module{
		CourseID:           reqData.CourseID,
		Title:              reqData.Title,
		OrderIndex:         lastOrder + 1,
		Topics:             datatypesJSON(reqData.Topics),
		TheoryText:         reqData.TheoryText,
		TheoryPdfURL:       reqData.TheoryPdfURL,
		InterviewQuestions: datatypesJSON(reqData.InterviewQuestions),
		McqPassingPercent:  reqData.McqPassingPercent,
		IsLocked:           lastOrder > 0, // everything after the entry module starts locked
	}
	if module.McqPassingPercent <= 0 {
		module.McqPassingPercent = 70
	}

	for i, mcq := range reqData.MCQs {
		options, _ := json.Marshal(mcq.Options)
		maxAttempts := mcq.MaxAttempts
		if maxAttempts <= 0 {
			maxAttempts = 3
		}
		module.MCQs = append(module.MCQs, courseModels.MCQ{
			Question:           mcq.Question,
			Options:            options,
			CorrectOptionIndex: mcq.CorrectOptionIndex,
			Explanation:        mcq.Explanation,
			MaxAttempts:        maxAttempts,
			OrderIndex:         i,
		})
	}

	if task := reqData.CodingTask; task != nil {
		languages, _ := json.Marshal(task.Languages)
		timeout := task.TimeoutSeconds
		if timeout <= 0 {
			timeout = 30
		}
		coding := &courseModels.CodingTask{
			Title:          task.Title,
			Description:    task.Description,
			Languages:      languages,
			TemplateFiles:  datatypesJSON(task.TemplateFiles),
			TimeoutSeconds: timeout,
		}
		for i, tc := range task.Testcases {
			coding.Testcases = append(coding.Testcases, courseModels.Testcase{
				Label:          tc.Label,
				Input:          tc.Input,
				ExpectedOutput: tc.ExpectedOutput,
				Hidden:         tc.Hidden,
				OrderIndex:     i,
			})
		}
		module.CodingTask = coding
	}

	if err := db.Create(&module).Error; err != nil {
		log.Printf("Error in CreateModule: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create module!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Module created successfully!", module)
}

// EditModule applies a partial update to a module
func EditModule(c *fiber.Ctx) error {
	moduleID := c.Locals("moduleID").(uint)
	reqData := c.Locals("validatedModuleEdit").(*moduleValidator.EditModuleRequest)
	db := database.Database.Db

	var module courseModels.Module
	if err := db.Where("id = ? AND is_deleted = ?", moduleID, false).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	updates := make(map[string]interface{})
	if reqData.Title != nil {
		updates["title"] = *reqData.Title
	}
	if reqData.TheoryText != nil {
		updates["theory_text"] = *reqData.TheoryText
	}
	if reqData.TheoryPdfURL != nil {
		updates["theory_pdf_url"] = *reqData.TheoryPdfURL
	}
	if reqData.Published != nil {
		updates["published"] = *reqData.Published
	}
	if reqData.IsLocked != nil {
		// The entry module of a course is never locked
		updates["is_locked"] = *reqData.IsLocked && module.OrderIndex != 1
	}

	if len(updates) > 0 {
		if err := db.Model(&module).Updates(updates).Error; err != nil {
			log.Printf("Error in EditModule: %v", err)
			return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to edit module!", nil)
		}
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module updated successfully!", module)
}

// RemoveModule soft deletes a module
func RemoveModule(c *fiber.Ctx) error {
	moduleID := c.Locals("moduleID").(uint)
	db := database.Database.Db

	var module courseModels.Module
	if err := db.Where("id = ? AND is_deleted = ?", moduleID, false).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	if err := db.Model(&module).Update("is_deleted", true).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to delete module!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module deleted successfully!", nil)
}

// GetModule returns a module with the requesting user's assessment state.
// Correct answers stay hidden, and hidden testcases are stripped of their
// input and expected output.
func GetModule(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	moduleID := c.Locals("moduleID").(uint)
	db := database.Database.Db

	var module courseModels.Module
	if err := db.Preload("MCQs", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_index asc")
	}).Preload("CodingTask.Testcases", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_index asc")
	}).Where("id = ? AND is_deleted = ?", moduleID, false).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	if module.IsLocked && module.OrderIndex != 1 {
		var viewer models.User
		if err := db.Select("current_module_id").First(&viewer, userID).Error; err != nil ||
			viewer.CurrentModuleID == nil || *viewer.CurrentModuleID != module.ID {
			return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Module is locked!", nil)
		}
	}

	if module.CodingTask != nil {
		for i := range module.CodingTask.Testcases {
			if module.CodingTask.Testcases[i].Hidden {
				module.CodingTask.Testcases[i].Input = ""
				module.CodingTask.Testcases[i].ExpectedOutput = ""
			}
		}
	}

	state, err := buildUserState(db, userID, module)
	if err != nil {
		log.Printf("Error in GetModule: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to get module!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Module retrieved successfully!", fiber.Map{
		"module":    module,
		"userState": state,
	})
}

// userState is the per-user assessment view attached to a module response
type userState struct {
	IsMcqCompleted    bool        `json:"isMcqCompleted"`
	IsCodingCompleted bool        `json:"isCodingCompleted"`
	McqScore          *float64    `json:"mcqScore"`
	CodeScore         *float64    `json:"codeScore"`
	McqCooldownUntil  *time.Time  `json:"mcqCooldownUntil"`
	CodeCooldownUntil *time.Time  `json:"codeCooldownUntil"`
	McqAttemptsLeft   *int        `json:"mcqAttemptsLeft"`
	StoredCode        string      `json:"storedCode"`
	StoredLanguage    string      `json:"storedLanguage"`
}

func buildUserState(db *gorm.DB, userID uint, module courseModels.Module) (userState, error) {
	state := userState{}

	mcqLatest, err := courseModels.LatestSubmission(db, userID, module.ID, courseModels.TypeMCQ)
	if err != nil {
		return state, err
	}
	codeLatest, err := courseModels.LatestSubmission(db, userID, module.ID, courseModels.TypeCode)
	if err != nil {
		return state, err
	}

	state.IsMcqCompleted, err = courseModels.HasPassed(db, userID, module.ID, courseModels.TypeMCQ)
	if err != nil {
		return state, err
	}
	state.IsCodingCompleted, err = courseModels.HasPassed(db, userID, module.ID, courseModels.TypeCode)
	if err != nil {
		return state, err
	}

	maxAttempts := 0
	for _, mcq := range module.MCQs {
		if mcq.MaxAttempts > 0 && (maxAttempts == 0 || mcq.MaxAttempts < maxAttempts) {
			maxAttempts = mcq.MaxAttempts
		}
	}

	if mcqLatest != nil {
		state.McqScore = &mcqLatest.Score
		state.McqCooldownUntil = mcqLatest.CooldownUntil
		if maxAttempts > 0 {
			left := maxAttempts - mcqLatest.AttemptNumber
			if left < 0 {
				left = 0
			}
			state.McqAttemptsLeft = &left
		}
	} else if maxAttempts > 0 {
		left := maxAttempts
		state.McqAttemptsLeft = &left
	}

	if codeLatest != nil {
		state.CodeScore = &codeLatest.Score
		state.CodeCooldownUntil = codeLatest.CooldownUntil
		var payload struct {
			Code     string `json:"code"`
			Language string `json:"language"`
		}
		if err := json.Unmarshal(codeLatest.Payload, &payload); err == nil {
			state.StoredCode = payload.Code
			state.StoredLanguage = payload.Language
		}
	}

	return state, nil
}

func datatypesJSON(raw json.RawMessage) []byte {
	if len(raw) == 0 {
		return nil
	}
	return raw
}

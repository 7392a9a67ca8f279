package submissionController

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"abhyasi/config"
	"abhyasi/constants"
	"abhyasi/database"
	"abhyasi/middleware"
	"abhyasi/models"
	courseModels "abhyasi/models/course"
	"abhyasi/services/assessment"
	"abhyasi/services/progression"
	submissionValidator "abhyasi/validators/submission"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// SubmitCode runs a code submission against the module's coding task
// testcases and advances progression on a dual-pass. All testcases must
// pass; a single failure anywhere fails the submission.
func SubmitCode(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	if config.AppConfig != nil && !config.AppConfig.ExecutionEnabled {
		return middleware.JsonResponse(c, fiber.StatusServiceUnavailable, false, "Code execution is temporarily disabled!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	moduleID := c.Locals("moduleID").(uint)
	reqData := c.Locals("validatedCodeSubmission").(*submissionValidator.CodeSubmissionRequest)

	var module courseModels.Module
	if err := db.Preload("CodingTask.Testcases", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_index asc")
	}).Where("id = ? AND is_deleted = ?", moduleID, false).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	onModule := user.CurrentModuleID != nil && *user.CurrentModuleID == module.ID
	if module.IsLocked && module.OrderIndex != 1 && !onModule {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Module is locked!", nil)
	}
	if module.CodingTask == nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No coding task available for this module!", nil)
	}

	alreadyPassed, err := courseModels.HasPassed(db, userID, module.ID, courseModels.TypeCode)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to check submission history!", nil)
	}
	if alreadyPassed {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Coding task already completed for this module!", nil)
	}

	now := time.Now()
	latest, err := courseModels.LatestSubmission(db, userID, module.ID, courseModels.TypeCode)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to check submission history!", nil)
	}

	gate := progression.CheckAttempt(latest, 0, now)
	if !gate.Allowed {
		return middleware.JsonResponse(c, fiber.StatusTooManyRequests, false, "Submission is on cooldown!", fiber.Map{
			"cooldownUntil":    gate.CooldownUntil,
			"remainingSeconds": int(time.Until(*gate.CooldownUntil).Seconds()),
		})
	}

	outcome, err := assessment.RunCodingTask(c.Context(), ExecGateway, *module.CodingTask, reqData.Code, reqData.Language)
	if errors.Is(err, assessment.ErrLanguageNotAllowed) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Language not supported for this task!", nil)
	}
	if errors.Is(err, assessment.ErrNoCodingTask) {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "No coding task available for this module!", nil)
	}
	if err != nil {
		log.Printf("Error running coding task: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to run submission!", nil)
	}

	status := courseModels.StatusFailed
	var cooldownUntil *time.Time
	if outcome.Passed {
		status = courseModels.StatusPassed
	} else {
		cooldownUntil = progression.FailureCooldown(gate.AttemptNumber, now)
	}

	payloadJSON, _ := json.Marshal(fiber.Map{"code": reqData.Code, "language": reqData.Language})
	resultsJSON, _ := json.Marshal(outcome.Results)

	submission := courseModels.Submission{
		UserID:        userID,
		CourseID:      module.CourseID,
		ModuleID:      module.ID,
		Type:          courseModels.TypeCode,
		Payload:       payloadJSON,
		Status:        status,
		Score:         outcome.Score,
		AttemptNumber: gate.AttemptNumber,
		RunLogs:       outcome.Logs,
		TestResults:   resultsJSON,
		CooldownUntil: cooldownUntil,
	}

	flags := completionFlags{}
	var jobs []certJob

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&submission).Error; err != nil {
			return err
		}
		if !outcome.Passed {
			return nil
		}
		if err := addPoints(tx, userID, constants.CodeSubmissionPoints); err != nil {
			return err
		}
		mcqPassed, err := courseModels.HasPassed(tx, userID, module.ID, courseModels.TypeMCQ)
		if err != nil {
			return err
		}
		if mcqPassed && user.CurrentModuleID != nil && *user.CurrentModuleID == module.ID {
			flags, jobs, err = advanceUser(tx, &user, module, now)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "A submission for this attempt is already recorded!", nil)
		}
		log.Printf("Error in SubmitCode: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit code!", nil)
	}

	runCertJobs(jobs)

	message := "Code submitted successfully, but not passed"
	if outcome.Passed {
		message = "Code submitted successfully"
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, fiber.Map{
		"status":                status,
		"score":                 outcome.Score,
		"passed":                outcome.Passed,
		"attemptNumber":         gate.AttemptNumber,
		"testResults":           outcome.Results,
		"cooldownUntil":         cooldownUntil,
		"isModuleCompleted":     flags.ModuleCompleted,
		"isCourseCompleted":     flags.CourseCompleted,
		"isProfessionCompleted": flags.ProfessionCompleted,
		"nextCourseId":          flags.NextCourseID,
		"nextModuleId":          flags.NextModuleID,
	})
}

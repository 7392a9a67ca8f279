package submissionController

import (
	"encoding/json"
	"errors"
	"log"
	"time"

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

// SubmitMCQAnswer scores a quiz submission for a module and advances the
// user's progression when it completes the module's dual-pass gate.
func SubmitMCQAnswer(c *fiber.Ctx) error {
	userID, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	db := database.Database.Db

	var user models.User
	if err := db.Where("id = ? AND is_deleted = ?", userID, false).First(&user).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "User not found!", nil)
	}

	moduleID := c.Locals("moduleID").(uint)
	reqData := c.Locals("validatedMCQSubmission").(*submissionValidator.McqSubmissionRequest)

	var module courseModels.Module
	if err := db.Preload("MCQs", func(db *gorm.DB) *gorm.DB {
		return db.Order("order_index asc")
	}).Where("id = ? AND is_deleted = ?", moduleID, false).First(&module).Error; err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Module not found!", nil)
	}

	// The lock never applies to the module the user is currently on
	onModule := user.CurrentModuleID != nil && *user.CurrentModuleID == module.ID
	if module.IsLocked && module.OrderIndex != 1 && !onModule {
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Module is locked!", nil)
	}

	alreadyPassed, err := courseModels.HasPassed(db, userID, module.ID, courseModels.TypeMCQ)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to check submission history!", nil)
	}
	if alreadyPassed {
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "MCQ already completed for this module!", nil)
	}

	now := time.Now()
	latest, err := courseModels.LatestSubmission(db, userID, module.ID, courseModels.TypeMCQ)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to check submission history!", nil)
	}

	gate := progression.CheckAttempt(latest, assessment.EffectiveMaxAttempts(module.MCQs), now)
	if !gate.Allowed {
		if gate.Reason == progression.ReasonCooldown {
			return middleware.JsonResponse(c, fiber.StatusTooManyRequests, false, "Submission is on cooldown!", fiber.Map{
				"cooldownUntil":    gate.CooldownUntil,
				"remainingSeconds": int(time.Until(*gate.CooldownUntil).Seconds()),
			})
		}
		// Max attempts reached: impose the cooldown so the cycle can reset
		until := now.Add(progression.CooldownWindow)
		if latest != nil {
			if err := db.Model(latest).Update("cooldown_until", until).Error; err != nil {
				log.Printf("Error stamping cooldown on submission %d: %v", latest.ID, err)
			}
		}
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Max attempts reached, retry after the cooldown!", fiber.Map{
			"cooldownUntil": until,
		})
	}

	outcome, err := assessment.ScoreMCQ(module.MCQs, reqData.Answers, module.McqPassingPercent)
	if errors.Is(err, assessment.ErrAnswerCountMismatch) {
		return middleware.ValidationErrorResponse(c, map[string]string{
			"answers": "Answers must contain exactly one entry per question!",
		})
	}
	if errors.Is(err, assessment.ErrNoQuestions) {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "No MCQs available for this module!", nil)
	}
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to score submission!", nil)
	}

	status := courseModels.StatusFailed
	var cooldownUntil *time.Time
	if outcome.Passed {
		status = courseModels.StatusPassed
	} else {
		cooldownUntil = progression.FailureCooldown(gate.AttemptNumber, now)
	}

	payloadJSON, _ := json.Marshal(fiber.Map{"answers": reqData.Answers})
	resultsJSON, _ := json.Marshal(outcome.Results)

	submission := courseModels.Submission{
		UserID:        userID,
		CourseID:      module.CourseID,
		ModuleID:      module.ID,
		Type:          courseModels.TypeMCQ,
		Payload:       payloadJSON,
		Status:        status,
		Score:         outcome.Score,
		AttemptNumber: gate.AttemptNumber,
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
		if err := addPoints(tx, userID, constants.McqSubmissionPoints); err != nil {
			return err
		}
		codePassed, err := courseModels.HasPassed(tx, userID, module.ID, courseModels.TypeCode)
		if err != nil {
			return err
		}
		if codePassed && user.CurrentModuleID != nil && *user.CurrentModuleID == module.ID {
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
		log.Printf("Error in SubmitMCQAnswer: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to submit MCQ!", nil)
	}

	runCertJobs(jobs)

	message := "MCQ submitted successfully, but not passed"
	if outcome.Passed {
		message = "MCQ submitted successfully"
	}
	return middleware.JsonResponse(c, fiber.StatusOK, true, message, fiber.Map{
		"score":                 outcome.Score,
		"earned":                outcome.Earned,
		"possible":              outcome.Possible,
		"passed":                outcome.Passed,
		"attemptNumber":         gate.AttemptNumber,
		"results":               outcome.Results,
		"cooldownUntil":         cooldownUntil,
		"isModuleCompleted":     flags.ModuleCompleted,
		"isCourseCompleted":     flags.CourseCompleted,
		"isProfessionCompleted": flags.ProfessionCompleted,
		"nextCourseId":          flags.NextCourseID,
		"nextModuleId":          flags.NextModuleID,
	})
}

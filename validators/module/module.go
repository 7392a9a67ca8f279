package moduleValidator

import (
	"encoding/json"
	"strconv"
	"strings"

	"abhyasi/middleware"

	"github.com/gofiber/fiber/v2"
)

type McqInput struct {
	Question           string   `json:"question"`
	Options            []string `json:"options"`
	CorrectOptionIndex int      `json:"correct_option_index"`
	Explanation        string   `json:"explanation"`
	MaxAttempts        int      `json:"max_attempts"`
}

type TestcaseInput struct {
	Label          string `json:"label"`
	Input          string `json:"input"`
	ExpectedOutput string `json:"expected_output"`
	Hidden         bool   `json:"hidden"`
}

type CodingTaskInput struct {
	Title          string          `json:"title"`
	Description    string          `json:"description"`
	Languages      []string        `json:"languages"`
	TemplateFiles  json.RawMessage `json:"template_files"`
	TimeoutSeconds int             `json:"timeout_seconds"`
	Testcases      []TestcaseInput `json:"testcases"`
}

type CreateModuleRequest struct {
	CourseID           uint             `json:"course_id"`
	Title              string           `json:"title"`
	Topics             json.RawMessage  `json:"topics"`
	TheoryText         string           `json:"theory_text"`
	TheoryPdfURL       string           `json:"theory_pdf_url"`
	MCQs               []McqInput       `json:"mcqs"`
	CodingTask         *CodingTaskInput `json:"coding_task"`
	InterviewQuestions json.RawMessage  `json:"interview_questions"`
	McqPassingPercent  int              `json:"mcq_passing_percent"`
}

type EditModuleRequest struct {
	Title        *string `json:"title"`
	TheoryText   *string `json:"theory_text"`
	TheoryPdfURL *string `json:"theory_pdf_url"`
	Published    *bool   `json:"published"`
	IsLocked     *bool   `json:"is_locked"`
}

// ParseModuleID validates the moduleId path param into locals
func ParseModuleID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("moduleId"), 10, 32)
		if err != nil || id == 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid module id!", nil)
		}
		c.Locals("moduleID", uint(id))
		return c.Next()
	}
}

func CreateModule() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateModuleRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if reqData.CourseID == 0 {
			errors["course_id"] = "Course id is required!"
		}
		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		}
		for i, mcq := range reqData.MCQs {
			if strings.TrimSpace(mcq.Question) == "" {
				errors["mcqs"] = "Every MCQ needs a question!"
				break
			}
			if len(mcq.Options) < 2 {
				errors["mcqs"] = "Every MCQ needs at least two options!"
				break
			}
			if mcq.CorrectOptionIndex < 0 || mcq.CorrectOptionIndex >= len(mcq.Options) {
				errors["mcqs"] = "Correct option index out of range for question " + strconv.Itoa(i+1) + "!"
				break
			}
		}
		if task := reqData.CodingTask; task != nil {
			if strings.TrimSpace(task.Title) == "" {
				errors["coding_task"] = "Coding task title is required!"
			}
			for _, tc := range task.Testcases {
				if strings.TrimSpace(tc.Label) == "" {
					errors["coding_task"] = "Every testcase needs a label!"
					break
				}
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedModule", reqData)
		return c.Next()
	}
}

func EditModule() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(EditModuleRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if reqData.Title != nil && strings.TrimSpace(*reqData.Title) == "" {
			errors["title"] = "Title cannot be empty!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedModuleEdit", reqData)
		return c.Next()
	}
}

package submissionValidator

import (
	"strconv"
	"strings"

	"abhyasi/middleware"

	"github.com/gofiber/fiber/v2"
)

// McqSubmissionRequest is an answer set: one selected option index per question
type McqSubmissionRequest struct {
	Answers []int `json:"answers"`
}

// CodeSubmissionRequest carries the submitted source and its language
type CodeSubmissionRequest struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

func parseModuleID(c *fiber.Ctx) (uint, bool) {
	id, err := strconv.ParseUint(c.Params("moduleId"), 10, 32)
	if err != nil || id == 0 {
		return 0, false
	}
	return uint(id), true
}

func SubmitMCQ() fiber.Handler {
	return func(c *fiber.Ctx) error {
		moduleID, ok := parseModuleID(c)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid module id!", nil)
		}

		reqData := new(McqSubmissionRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if len(reqData.Answers) == 0 {
			errors["answers"] = "Answers are required!"
		}
		for _, a := range reqData.Answers {
			if a < 0 {
				errors["answers"] = "Answers must be non-negative option indices!"
				break
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("moduleID", moduleID)
		c.Locals("validatedMCQSubmission", reqData)
		return c.Next()
	}
}

func SubmitCode() fiber.Handler {
	return func(c *fiber.Ctx) error {
		moduleID, ok := parseModuleID(c)
		if !ok {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid module id!", nil)
		}

		reqData := new(CodeSubmissionRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if strings.TrimSpace(reqData.Code) == "" {
			errors["code"] = "Code is required!"
		}
		if strings.TrimSpace(reqData.Language) == "" {
			errors["language"] = "Language is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		reqData.Language = strings.ToLower(strings.TrimSpace(reqData.Language))
		c.Locals("moduleID", moduleID)
		c.Locals("validatedCodeSubmission", reqData)
		return c.Next()
	}
}

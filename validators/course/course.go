package courseValidator

import (
	"strconv"
	"strings"

	"abhyasi/middleware"

	"github.com/gofiber/fiber/v2"
)

type CreateCourseRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	Difficulty   string `json:"difficulty"`
	Duration     string `json:"duration"`
	ThumbnailURL string `json:"thumbnail_url"`
}

type EditCourseRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	Difficulty   *string `json:"difficulty"`
	Duration     *string `json:"duration"`
	ThumbnailURL *string `json:"thumbnail_url"`
	Status       *string `json:"status"`
}

type EnrollCourseRequest struct {
	ConfirmSwitch bool `json:"confirm_switch"`
}

// ParseCourseID validates the courseId path param into locals
func ParseCourseID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("courseId"), 10, 32)
		if err != nil || id == 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid course id!", nil)
		}
		c.Locals("courseID", uint(id))
		return c.Next()
	}
}

func CreateCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateCourseRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		if strings.TrimSpace(reqData.Title) == "" {
			errors["title"] = "Title is required!"
		} else if len(strings.TrimSpace(reqData.Title)) < 3 {
			errors["title"] = "Title must be at least 3 characters long!"
		}

		if strings.TrimSpace(reqData.Description) == "" {
			errors["description"] = "Description is required!"
		}

		switch reqData.Difficulty {
		case "", "easy", "medium", "hard":
		default:
			errors["difficulty"] = "Difficulty must be easy, medium or hard!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourse", reqData)
		return c.Next()
	}
}

func EditCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(EditCourseRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if reqData.Title != nil && strings.TrimSpace(*reqData.Title) == "" {
			errors["title"] = "Title cannot be empty!"
		}
		if reqData.Status != nil {
			switch *reqData.Status {
			case "draft", "published", "archived":
			default:
				errors["status"] = "Status must be draft, published or archived!"
			}
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedCourseEdit", reqData)
		return c.Next()
	}
}

func EnrollCourse() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(EnrollCourseRequest)
		// Body is optional; confirm_switch defaults to false
		_ = c.BodyParser(reqData)
		c.Locals("validatedEnroll", reqData)
		return c.Next()
	}
}

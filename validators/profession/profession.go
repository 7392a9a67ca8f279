package professionValidator

import (
	"strconv"
	"strings"

	"abhyasi/middleware"

	"github.com/gofiber/fiber/v2"
)

type CreateProfessionRequest struct {
	Name              string   `json:"name"`
	Description       string   `json:"description"`
	Thumbnail         string   `json:"thumbnail"`
	EstimatedDuration string   `json:"estimated_duration"`
	Tags              []string `json:"tags"`
}

type CourseWithOrder struct {
	CourseID uint `json:"course_id"`
	Order    int  `json:"order"`
}

type AssignCoursesRequest struct {
	Courses []CourseWithOrder `json:"courses"`
}

// ParseProfessionID validates the professionId path param into locals
func ParseProfessionID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		id, err := strconv.ParseUint(c.Params("professionId"), 10, 32)
		if err != nil || id == 0 {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid profession id!", nil)
		}
		c.Locals("professionID", uint(id))
		return c.Next()
	}
}

func CreateProfession() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(CreateProfessionRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if strings.TrimSpace(reqData.Name) == "" {
			errors["name"] = "Name is required!"
		}
		if strings.TrimSpace(reqData.Description) == "" {
			errors["description"] = "Description is required!"
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedProfession", reqData)
		return c.Next()
	}
}

func AssignCourses() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(AssignCoursesRequest)
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)
		if len(reqData.Courses) == 0 {
			errors["courses"] = "At least one course is required!"
		}
		seenOrders := make(map[int]bool)
		for _, entry := range reqData.Courses {
			if entry.CourseID == 0 {
				errors["courses"] = "Every entry needs a course id!"
				break
			}
			if entry.Order < 1 {
				errors["courses"] = "Course order must be a positive integer!"
				break
			}
			if seenOrders[entry.Order] {
				errors["courses"] = "Course orders must be unique!"
				break
			}
			seenOrders[entry.Order] = true
		}

		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedAssignCourses", reqData)
		return c.Next()
	}
}

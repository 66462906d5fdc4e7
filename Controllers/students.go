package Controllers

import (
	"errors"
	"log"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"Podium/Cache"
	"Podium/Models"
)

// StudentController handles the admin student endpoints
type StudentController struct {
	Cache *Cache.Store
}

// NewStudentController creates a new StudentController
func NewStudentController(cache *Cache.Store) *StudentController {
	return &StudentController{Cache: cache}
}

type studentForm struct {
	FullName       string `json:"fullName" validate:"required"`
	DepartmentName string `json:"departmentName" validate:"required"`
	AvatarURL      string `json:"avatarUrl" validate:"omitempty,url"`
	SSHR           int    `json:"sshr" validate:"gte=0"`
}

// GetStudents retrieves the full student collection for the admin tables.
func (ctrl *StudentController) GetStudents(c *fiber.Ctx) error {
	students, err := Models.ListStudents(c.Context())
	if err != nil {
		log.Println(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve students",
		})
	}
	return c.JSON(students)
}

// CreateStudent adds a new student at zero points.
func (ctrl *StudentController) CreateStudent(c *fiber.Ctx) error {
	var input studentForm
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Full name and department are required",
		})
	}

	id, err := Models.CreateStudent(c.Context(), &Models.Student{
		FullName:       input.FullName,
		DepartmentName: input.DepartmentName,
		AvatarURL:      input.AvatarURL,
		SSHR:           input.SSHR,
	})
	if err != nil {
		log.Println(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create student",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

// UpdateStudent edits a student's identity fields.
func (ctrl *StudentController) UpdateStudent(c *fiber.Ctx) error {
	id := c.Params("id")

	var input studentForm
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Full name and department are required",
		})
	}

	err := Models.UpdateStudent(c.Context(), id, &Models.Student{
		FullName:       input.FullName,
		DepartmentName: input.DepartmentName,
		AvatarURL:      input.AvatarURL,
		SSHR:           input.SSHR,
	})
	if err != nil {
		if errors.Is(err, Models.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Student not found"})
		}
		log.Println(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update student",
		})
	}

	ctrl.Cache.Invalidate("studentDetails:" + id)
	return c.JSON(fiber.Map{"message": "Student updated successfully"})
}

// DeleteStudent removes a student document.
func (ctrl *StudentController) DeleteStudent(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := Models.DeleteStudent(c.Context(), id); err != nil {
		log.Println(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete student",
		})
	}

	ctrl.Cache.Invalidate("studentDetails:" + id)
	return c.JSON(fiber.Map{"message": "Student deleted successfully"})
}

// parsePoints accepts the raw form input for a points award. Anything that
// is not a positive whole number is rejected before any remote call.
func parsePoints(raw string) (int, error) {
	amount, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || amount <= 0 {
		return 0, errors.New("Points must be a positive whole number")
	}
	return amount, nil
}

type awardForm struct {
	Points string `json:"points"`
}

// AwardPoints adds points to a student. The authoritative total is
// re-fetched before the write; see Models.AwardPoints for the concurrency
// caveat.
func (ctrl *StudentController) AwardPoints(c *fiber.Ctx) error {
	id := c.Params("id")

	var input awardForm
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	amount, err := parsePoints(input.Points)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	student, err := Models.AwardPoints(c.Context(), id, amount)
	if err != nil {
		if errors.Is(err, Models.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Student not found"})
		}
		log.Println(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to award points",
		})
	}

	ctrl.Cache.Invalidate("studentDetails:" + id)
	return c.JSON(student)
}

package Controllers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"Podium/Models"
)

// TaskController handles the admin task endpoints
type TaskController struct{}

// NewTaskController creates a new TaskController
func NewTaskController() *TaskController {
	return &TaskController{}
}

type taskForm struct {
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
	Deadline    string `json:"deadline" validate:"required"`
	Reward      int    `json:"reward" validate:"gte=0"`
}

// GetTasks retrieves the full task collection for the admin tables.
func (ctrl *TaskController) GetTasks(c *fiber.Ctx) error {
	tasks, err := Models.ListTasks(c.Context())
	if err != nil {
		log.Println(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve tasks",
		})
	}
	return c.JSON(tasks)
}

// CreateTask adds a new reward task, always pending.
func (ctrl *TaskController) CreateTask(c *fiber.Ctx) error {
	var input taskForm
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Title and deadline are required",
		})
	}

	id, err := Models.CreateTask(c.Context(), &Models.Task{
		Title:       input.Title,
		Description: input.Description,
		Deadline:    input.Deadline,
		Reward:      input.Reward,
	})
	if err != nil {
		log.Println(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create task",
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"id": id})
}

// UpdateTask edits a task; its status is preserved.
func (ctrl *TaskController) UpdateTask(c *fiber.Ctx) error {
	id := c.Params("id")

	var input taskForm
	if err := c.BodyParser(&input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Title and deadline are required",
		})
	}

	err := Models.UpdateTask(c.Context(), id, &Models.Task{
		Title:       input.Title,
		Description: input.Description,
		Deadline:    input.Deadline,
		Reward:      input.Reward,
	})
	if err != nil {
		if errors.Is(err, Models.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Task not found"})
		}
		log.Println(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update task",
		})
	}

	return c.JSON(fiber.Map{"message": "Task updated successfully"})
}

// CompleteTask marks a task completed. This is the only code path that
// performs the transition.
func (ctrl *TaskController) CompleteTask(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := Models.CompleteTask(c.Context(), id); err != nil {
		if errors.Is(err, Models.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Task not found"})
		}
		log.Println(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to complete task",
		})
	}

	return c.JSON(fiber.Map{"message": "Task marked as completed"})
}

// DeleteTask removes a task document. Every open subscription drops it
// with its next snapshot.
func (ctrl *TaskController) DeleteTask(c *fiber.Ctx) error {
	id := c.Params("id")

	if err := Models.DeleteTask(c.Context(), id); err != nil {
		log.Println(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete task",
		})
	}

	return c.JSON(fiber.Map{"message": "Task deleted successfully"})
}

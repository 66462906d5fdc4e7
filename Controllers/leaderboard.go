package Controllers

import (
	"encoding/json"
	"errors"
	"log"
	"time"

	"github.com/gofiber/fiber/v2"

	"Podium/Cache"
	"Podium/Live"
	"Podium/Models"
)

// LeaderboardController serves the public read side: the ranked
// leaderboard, the task list and per-student details. Reads go through the
// cached live feeds, so rapid re-navigation is absorbed by the throttle
// policy instead of re-subscribing.
type LeaderboardController struct {
	Cache    *Cache.Store
	Students *Live.Feed
	Tasks    *Live.Feed
}

func NewLeaderboardController(cache *Cache.Store, hub *Live.Hub) *LeaderboardController {
	return &LeaderboardController{
		Cache:    cache,
		Students: Live.NewFeed(Live.LeaderboardKey, cache, Live.StudentSource, hub),
		Tasks:    Live.NewFeed(Live.TasksKey, cache, Live.TaskSource, hub),
	}
}

// Close tears down both live feeds.
func (ctrl *LeaderboardController) Close() {
	ctrl.Students.Close()
	ctrl.Tasks.Close()
}

// GetLeaderboard returns the ranked student list.
func (ctrl *LeaderboardController) GetLeaderboard(c *fiber.Ctx) error {
	payload, ok := ctrl.Students.Activate(c.Context())
	if !ok {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Leaderboard is temporarily unavailable",
		})
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.SendString(payload)
}

// GetPublicTasks returns the task list filtered and sorted for the public
// page. The derivation is recomputed per request against the current
// clock; the page keeps its countdowns live with its own one-second tick.
func (ctrl *LeaderboardController) GetPublicTasks(c *fiber.Ctx) error {
	payload, ok := ctrl.Tasks.Activate(c.Context())
	if !ok {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Tasks are temporarily unavailable",
		})
	}

	var tasks []Models.Task
	if err := json.Unmarshal([]byte(payload), &tasks); err != nil {
		log.Println(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read tasks",
		})
	}

	now := time.Now()
	filtered := Models.FilterTasks(tasks,
		now,
		c.Query("filter", Models.FilterAll),
		c.Query("sort", Models.SortDefault))

	return c.JSON(fiber.Map{
		"tasks": filtered,
		"now":   now,
	})
}

// GetStudentDetails serves one student's detail view through the per-id
// TTL cache; a fresh cached copy short-circuits the document read.
func (ctrl *LeaderboardController) GetStudentDetails(c *fiber.Ctx) error {
	id := c.Params("id")
	key := "studentDetails:" + id

	if cached, ok := ctrl.Cache.Cached(key); ok {
		c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		return c.SendString(cached)
	}

	student, err := Models.GetStudent(c.Context(), id)
	if err != nil {
		if errors.Is(err, Models.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Student not found"})
		}
		log.Println(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve student",
		})
	}

	payload, err := json.Marshal(student)
	if err != nil {
		log.Println(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to read student",
		})
	}

	ctrl.Cache.Put(key, string(payload))
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(payload)
}

// GetStats feeds the admin overview tab: task status counts and the top
// five students by points. Reads the authoritative collections, not the
// cache.
func (ctrl *LeaderboardController) GetStats(c *fiber.Ctx) error {
	students, err := Models.ListStudents(c.Context())
	if err != nil {
		log.Println(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve students",
		})
	}
	tasks, err := Models.ListTasks(c.Context())
	if err != nil {
		log.Println(err.Error())
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve tasks",
		})
	}

	pending, completed := 0, 0
	for _, task := range tasks {
		switch task.Status {
		case Models.TaskStatusCompleted:
			completed++
		default:
			pending++
		}
	}

	ranked := Models.SortLeaderboard(students)
	if len(ranked) > 5 {
		ranked = ranked[:5]
	}

	return c.JSON(fiber.Map{
		"totalStudents":  len(students),
		"totalTasks":     len(tasks),
		"pendingTasks":   pending,
		"completedTasks": completed,
		"topStudents":    ranked,
	})
}

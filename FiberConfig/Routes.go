package FiberConfig

import (
	"fmt"
	"os"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/template/html"

	"Podium/Cache"
	"Podium/Controllers"
	"Podium/Live"
	"Podium/Models"
	"Podium/middleware"
)

func SetupRoutes(app *fiber.App, cacheStore *Cache.Store, hub *Live.Hub) *Controllers.LeaderboardController {
	// Initialize handlers
	leaderboardController := Controllers.NewLeaderboardController(cacheStore, hub)
	studentController := Controllers.NewStudentController(cacheStore)
	taskController := Controllers.NewTaskController()

	// Pages
	app.Get("/", func(c *fiber.Ctx) error {
		return c.Render("index", fiber.Map{"Title": "Leaderboard"})
	})
	app.Get("/root/admin/signin", func(c *fiber.Ctx) error {
		return c.Render("signin", fiber.Map{"Title": "Admin Sign In"})
	})
	app.Get("/root/admin", middleware.RequireSession(), func(c *fiber.Ctx) error {
		return c.Render("admin", fiber.Map{"Title": "Admin Dashboard"})
	})

	// Public API
	app.Get("/api/leaderboard", leaderboardController.GetLeaderboard)
	app.Get("/api/tasks", leaderboardController.GetPublicTasks)
	app.Get("/api/students/:id/details", leaderboardController.GetStudentDetails)

	// Auth
	app.Post("/api/Login", Controllers.Login)
	app.Post("/api/Logout", Controllers.Logout)
	app.Get("/api/validate-token", middleware.Verify(), Controllers.User)
	app.Get("/api/User", middleware.Verify(), Controllers.User)
	app.Post("/api/ChangePassword", middleware.Verify(), Controllers.ChangePassword)

	// Admin API
	admin := app.Group("/api/admin", middleware.Verify())
	admin.Get("/students", studentController.GetStudents)
	admin.Post("/students", studentController.CreateStudent)
	admin.Put("/students/:id", studentController.UpdateStudent)
	admin.Delete("/students/:id", studentController.DeleteStudent)
	admin.Post("/students/:id/points", studentController.AwardPoints)

	admin.Get("/tasks", taskController.GetTasks)
	admin.Post("/tasks", taskController.CreateTask)
	admin.Put("/tasks/:id", taskController.UpdateTask)
	admin.Put("/tasks/:id/complete", taskController.CompleteTask)
	admin.Delete("/tasks/:id", taskController.DeleteTask)

	admin.Get("/stats", leaderboardController.GetStats)
	admin.Get("/export", Controllers.ExportData)
	admin.Get("/logs", Controllers.GetLogs)
	admin.Get("/logs/stats", Controllers.GetLogStats)

	// WebSocket
	app.Use("/ws", Live.Upgrade)
	app.Get("/ws", hub.Handler())

	return leaderboardController
}

func FiberConfig() {
	fmt.Println("Server Up...")
	engine := html.New("./Templates", ".html")
	// Html Template engine
	app := fiber.New(fiber.Config{
		Views: engine,
	})
	app.Use(middleware.RequestLogger())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestCompression, // 2
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true, // Important for cookies
		MaxAge:           300,  // Max age for preflight requests caching (5 minutes)
	}))

	cacheStore := Cache.NewStore(Models.DB)
	hub := Live.NewHub()
	go hub.Run()

	leaderboardController := SetupRoutes(app, cacheStore, hub)
	defer leaderboardController.Close()

	app.Static("/static", "static/", fiber.Static{Compress: true, CacheDuration: time.Second * 10})

	addr := os.Getenv("LISTEN_ADDR")
	if addr == "" {
		addr = ":3001"
	}
	app.Listen(addr)
}

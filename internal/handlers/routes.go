package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
)

// Register mounts the interview API on app.
func Register(app *fiber.App, interview *InterviewHandler, reports *ReportHandler) {
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now(),
		})
	})

	app.Post("/upload-resume", interview.HandleUploadResume)
	app.Post("/submit-answer", interview.HandleSubmitAnswer)
	app.Get("/sessions/:id", interview.HandleGetSession)
	app.Get("/reports/:id", reports.HandleGetReport)

	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "AI Interview Prep API",
			"version": "1.0.0",
			"endpoints": []string{
				"POST /upload-resume",
				"POST /submit-answer",
				"GET /sessions/:id",
				"GET /reports/:id",
				"GET /health",
			},
		})
	})
}

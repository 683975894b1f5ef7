package handlers

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/interview-prep/internal/services"
)

// writeError maps service errors onto status codes and the {"error": ...} body.
func writeError(c *fiber.Ctx, err error) error {
	status, message := classify(err)
	if status >= fiber.StatusInternalServerError {
		log.Printf("❌ %s %s: %v\n", c.Method(), c.Path(), err)
	}
	return c.Status(status).JSON(fiber.Map{
		"error": message,
	})
}

func classify(err error) (int, string) {
	var docErr *services.DocumentError

	switch {
	case errors.Is(err, services.ErrNoFile):
		return fiber.StatusBadRequest, services.ErrNoFile.Error()
	case errors.Is(err, services.ErrInvalidRequest):
		return fiber.StatusBadRequest, services.ErrInvalidRequest.Error()
	case errors.As(err, &docErr):
		return fiber.StatusBadRequest, docErr.Reason
	case errors.Is(err, services.ErrNotAResume):
		return fiber.StatusBadRequest, services.ErrNotAResume.Error()
	case errors.Is(err, services.ErrSessionNotFound):
		return fiber.StatusNotFound, services.ErrSessionNotFound.Error()
	case errors.Is(err, services.ErrSessionCompleted):
		return fiber.StatusConflict, services.ErrSessionCompleted.Error()
	case errors.Is(err, services.ErrExtractionFailed):
		return fiber.StatusInternalServerError, services.ErrExtractionFailed.Error()
	case errors.Is(err, services.ErrGeneration), errors.Is(err, services.ErrFinalReport):
		return fiber.StatusInternalServerError, err.Error()
	default:
		return fiber.StatusInternalServerError, "Internal server error."
	}
}

// ErrorHandler handles errors that escape route handlers, such as unknown routes
// or oversized bodies.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}

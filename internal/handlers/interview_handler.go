package handlers

import (
	"fmt"
	"io"
	"strings"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/interview-prep/internal/models"
	"alfredoptarigan/interview-prep/internal/services"
)

type InterviewHandler struct {
	interview   services.InterviewService
	maxFileSize int64
}

func NewInterviewHandler(interview services.InterviewService, maxFileSize int64) *InterviewHandler {
	return &InterviewHandler{
		interview:   interview,
		maxFileSize: maxFileSize,
	}
}

// HandleUploadResume handles POST /upload-resume
func (h *InterviewHandler) HandleUploadResume(c *fiber.Ctx) error {
	fileHeader, err := c.FormFile("file")
	if err != nil || fileHeader.Filename == "" {
		return writeError(c, services.ErrNoFile)
	}

	if h.maxFileSize > 0 && fileHeader.Size > h.maxFileSize {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("File too large. Max size: %d bytes", h.maxFileSize),
		})
	}

	src, err := fileHeader.Open()
	if err != nil {
		return writeError(c, fmt.Errorf("%w: %w", services.ErrExtractionFailed, err))
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return writeError(c, fmt.Errorf("%w: %w", services.ErrExtractionFailed, err))
	}

	session, err := h.interview.CreateSession(c.UserContext(), data, fileHeader.Filename)
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(models.UploadResumeResponse{
		SessionID:     session.ID,
		FirstQuestion: session.Questions[0],
	})
}

// HandleSubmitAnswer handles POST /submit-answer
func (h *InterviewHandler) HandleSubmitAnswer(c *fiber.Ctx) error {
	var req models.SubmitAnswerRequest

	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request payload",
		})
	}
	if strings.TrimSpace(req.SessionID) == "" {
		return writeError(c, services.ErrInvalidRequest)
	}

	result, err := h.interview.SubmitAnswer(c.UserContext(), req.SessionID, req.CurrentQuestion, req.CurrentAnswer)
	if err != nil {
		return writeError(c, err)
	}

	if result.IsFinal() {
		return c.JSON(models.FinalReportResponse{
			QuestionCount: result.QuestionCount,
			FinalReport:   result.FinalReport,
		})
	}

	return c.JSON(models.NextQuestionResponse{
		NextQuestion:  result.NextQuestion,
		QuestionCount: result.QuestionCount,
	})
}

// HandleGetSession handles GET /sessions/:id
func (h *InterviewHandler) HandleGetSession(c *fiber.Ctx) error {
	session, err := h.interview.GetSession(c.UserContext(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}

	return c.JSON(models.SessionResponse{
		SessionID:       session.ID,
		QuestionCount:   session.QuestionCount(),
		TotalQuestions:  h.interview.TotalQuestions(),
		CurrentQuestion: session.CurrentQuestion(),
		Questions:       session.Questions,
		Answers:         session.Answers,
		Completed:       session.Completed,
		FinalReport:     session.FinalReport,
		UpdatedAt:       session.UpdatedAt,
	})
}

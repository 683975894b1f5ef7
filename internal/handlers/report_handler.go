package handlers

import (
	"encoding/json"
	"errors"

	"github.com/gofiber/fiber/v2"

	"alfredoptarigan/interview-prep/internal/models"
	"alfredoptarigan/interview-prep/internal/repositories"
	"alfredoptarigan/interview-prep/internal/services"
)

type ReportHandler struct {
	interview  services.InterviewService
	reportRepo repositories.ReportRepository
}

// NewReportHandler serves final reports. reportRepo may be nil when the archive
// is disabled; live sessions are still served.
func NewReportHandler(interview services.InterviewService, reportRepo repositories.ReportRepository) *ReportHandler {
	return &ReportHandler{
		interview:  interview,
		reportRepo: reportRepo,
	}
}

// HandleGetReport handles GET /reports/:id
func (h *ReportHandler) HandleGetReport(c *fiber.Ctx) error {
	sessionID := c.Params("id")

	session, err := h.interview.GetSession(c.UserContext(), sessionID)
	switch {
	case err == nil && session.Completed:
		return c.JSON(models.ReportResponse{
			SessionID:     session.ID,
			QuestionCount: session.QuestionCount(),
			FinalReport:   session.FinalReport,
			CreatedAt:     session.UpdatedAt,
		})
	case err == nil:
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Interview not completed yet.",
		})
	case !errors.Is(err, services.ErrSessionNotFound):
		return writeError(c, err)
	}

	if h.reportRepo == nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Report not found.",
		})
	}

	archived, err := h.reportRepo.FindBySessionID(sessionID)
	if err != nil {
		if errors.Is(err, repositories.ErrReportNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
				"error": "Report not found.",
			})
		}
		return writeError(c, err)
	}

	var report models.FinalReport
	if err := json.Unmarshal([]byte(archived.Report), &report); err != nil {
		return writeError(c, err)
	}

	return c.JSON(models.ReportResponse{
		SessionID:     archived.SessionID,
		QuestionCount: archived.QuestionCount,
		FinalReport:   &report,
		CreatedAt:     archived.CreatedAt,
	})
}

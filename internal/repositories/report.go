package repositories

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"alfredoptarigan/interview-prep/internal/models"
)

var ErrReportNotFound = errors.New("report not found")

type ReportRepository interface {
	Save(report *models.InterviewReport) error
	FindBySessionID(sessionID string) (*models.InterviewReport, error)
}

type reportRepository struct {
	db *gorm.DB
}

func NewReportRepository(db *gorm.DB) ReportRepository {
	return &reportRepository{db: db}
}

// Save inserts the report or replaces the stored one for the same session.
func (r *reportRepository) Save(report *models.InterviewReport) error {
	if err := r.db.Clauses(clause.OnConflict{UpdateAll: true}).Create(report).Error; err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	return nil
}

func (r *reportRepository) FindBySessionID(sessionID string) (*models.InterviewReport, error) {
	var report models.InterviewReport
	if err := r.db.Where("session_id = ?", sessionID).First(&report).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to find report: %w", err)
	}
	return &report, nil
}

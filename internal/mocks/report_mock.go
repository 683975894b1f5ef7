package mocks

import (
	"sync"

	"github.com/stretchr/testify/mock"

	"alfredoptarigan/interview-prep/internal/models"
)

type MockReportRepository struct {
	mock.Mock
}

func (m *MockReportRepository) Save(report *models.InterviewReport) error {
	args := m.Called(report)
	return args.Error(0)
}

func (m *MockReportRepository) FindBySessionID(sessionID string) (*models.InterviewReport, error) {
	args := m.Called(sessionID)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.InterviewReport), args.Error(1)
}

// ReportRecorder is a ReportSink that keeps every report it receives.
type ReportRecorder struct {
	mu      sync.Mutex
	reports []*models.InterviewReport
}

func (r *ReportRecorder) Enqueue(report *models.InterviewReport) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reports = append(r.reports, report)
}

func (r *ReportRecorder) Reports() []*models.InterviewReport {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]*models.InterviewReport{}, r.reports...)
}

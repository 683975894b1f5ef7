package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"alfredoptarigan/interview-prep/internal/models"
)

type MockInterviewGenerator struct {
	mock.Mock
}

func (m *MockInterviewGenerator) FirstQuestion(ctx context.Context, resumeText string) (string, error) {
	args := m.Called(ctx, resumeText)
	return args.String(0), args.Error(1)
}

func (m *MockInterviewGenerator) NextQuestion(ctx context.Context, resumeText string, previousQuestions, previousAnswers []string, currentQuestion, currentAnswer string) (string, error) {
	args := m.Called(ctx, resumeText, previousQuestions, previousAnswers, currentQuestion, currentAnswer)
	return args.String(0), args.Error(1)
}

func (m *MockInterviewGenerator) FinalReport(ctx context.Context, resumeText string, questions, answers []string) (*models.FinalReport, error) {
	args := m.Called(ctx, resumeText, questions, answers)

	if args.Get(0) == nil {
		return nil, args.Error(1)
	}

	return args.Get(0).(*models.FinalReport), args.Error(1)
}

func (m *MockInterviewGenerator) IsResume(ctx context.Context, text string) (bool, error) {
	args := m.Called(ctx, text)
	return args.Bool(0), args.Error(1)
}

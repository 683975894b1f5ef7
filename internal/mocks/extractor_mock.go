package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockResumeExtractor struct {
	mock.Mock
}

func (m *MockResumeExtractor) Extract(ctx context.Context, data []byte, filename string) (string, error) {
	args := m.Called(ctx, data, filename)
	return args.String(0), args.Error(1)
}

package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"comesapi/internal/model"
)

type MockDocumentAnalyzer struct {
	mock.Mock
}

func (m *MockDocumentAnalyzer) AnalyzeDocuments(ctx context.Context, files map[string]model.FileInfo) (map[string]any, error) {
	args := m.Called(ctx, files)
	res, _ := args.Get(0).(map[string]any)
	return res, args.Error(1)
}

func (m *MockDocumentAnalyzer) GenerateStructuredSummary(result map[string]any) string {
	args := m.Called(result)
	return args.String(0)
}

type MockTranscriptVerifier struct {
	mock.Mock
}

func (m *MockTranscriptVerifier) VerifyTranscript(ctx context.Context, files map[string]model.FileInfo, uploadType string) (map[string]any, error) {
	args := m.Called(ctx, files, uploadType)
	res, _ := args.Get(0).(map[string]any)
	return res, args.Error(1)
}

func (m *MockTranscriptVerifier) GenerateStructuredTranscript(result map[string]any) string {
	args := m.Called(result)
	return args.String(0)
}

package service

import (
	"context"

	"comesapi/internal/model"
)

// Fixed response when the GenAI client could not be initialized at startup.
const unavailableMessage = "Google GenAI service not initialized. Please set GOOGLE_GENAI_API_KEY environment variable."

// UnavailableAnalyzer stands in for AnalysisService when the GenAI client
// could not be constructed (missing credential or client init failure).
// Uploads still work; every analysis call reports the fixed error.
type UnavailableAnalyzer struct{}

var _ DocumentAnalyzer = UnavailableAnalyzer{}

func (UnavailableAnalyzer) AnalyzeDocuments(_ context.Context, _ map[string]model.FileInfo) (map[string]any, error) {
	return map[string]any{"error": unavailableMessage}, nil
}

func (UnavailableAnalyzer) GenerateStructuredSummary(_ map[string]any) string {
	return unavailableMessage
}

// UnavailableVerifier is the transcript counterpart of UnavailableAnalyzer.
type UnavailableVerifier struct{}

var _ TranscriptVerifier = UnavailableVerifier{}

func (UnavailableVerifier) VerifyTranscript(_ context.Context, _ map[string]model.FileInfo, _ string) (map[string]any, error) {
	return map[string]any{
		"error":    unavailableMessage,
		"metadata": map[string]any{"status": "failed"},
	}, nil
}

func (UnavailableVerifier) GenerateStructuredTranscript(_ map[string]any) string {
	return unavailableMessage
}

package model

import "time"

// Upload types for transcript verification.
const (
	UploadTypeSingle   = "single"   // one bilingual transcript file
	UploadTypeSeparate = "separate" // transcript_zh + transcript_en
)

// TranscriptVerification represents a transcript verification request and
// its results. Unlike Application it has no pending state; records are
// created already uploaded.
type TranscriptVerification struct {
	ID                 string              `json:"id"`
	Files              map[string]FileInfo `json:"files"`
	UploadType         string              `json:"upload_type"`
	Status             Status              `json:"status"`
	VerificationResult map[string]any      `json:"verification_result"`
	StructuredResult   *string             `json:"structured_result"`
	ErrorMessage       *string             `json:"error_message"`
	CreatedAt          time.Time           `json:"created_at"`
	UpdatedAt          time.Time           `json:"updated_at"`
}

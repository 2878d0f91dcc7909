package model

import "time"

// Status tracks a record through its processing lifecycle.
// It advances monotonically except on failure.
type Status string

const (
	StatusPending   Status = "pending"
	StatusUploaded  Status = "uploaded"
	StatusAnalyzing Status = "analyzing"
	StatusAnalyzed  Status = "analyzed"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// FileInfo describes one uploaded file tracked under a logical key
// (e.g. "transcript", "resume").
type FileInfo struct {
	Filename    string `json:"filename"`
	StoragePath string `json:"storage_path"`
	ContentType string `json:"content_type"`
}

// Application represents a student application with its uploaded files and
// analysis results. It is a pure domain model with no persistence coupling;
// records live only in the in-memory store for the lifetime of the process.
type Application struct {
	ID                string              `json:"id"`
	Files             map[string]FileInfo `json:"files"`
	Status            Status              `json:"status"`
	AnalysisResult    map[string]any      `json:"analysis_result"`
	StructuredSummary *string             `json:"structured_summary"`
	ErrorMessage      *string             `json:"error_message"`
	CreatedAt         time.Time           `json:"created_at"`
	UpdatedAt         time.Time           `json:"updated_at"`
}

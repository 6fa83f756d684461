package models

import "time"

// ExportKind enumerates what an export contains.
type ExportKind string

const (
	ExportKindCompletedWork ExportKind = "completed-work"
)

// ExportFormat enumerates supported export formats.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportStatus captures background job lifecycle states.
type ExportStatus string

const (
	ExportStatusQueued  ExportStatus = "queued"
	ExportStatusRunning ExportStatus = "running"
	ExportStatusDone    ExportStatus = "done"
	ExportStatusFailed  ExportStatus = "failed"
)

// ExportJob tracks one asynchronous export.
type ExportJob struct {
	ID         string       `json:"id"`
	Kind       ExportKind   `json:"kind"`
	Format     ExportFormat `json:"format"`
	Status     ExportStatus `json:"status"`
	ResultPath string       `json:"-"`
	Token      string       `json:"-"`
	URL        string       `json:"url,omitempty"`
	ExpiresAt  *time.Time   `json:"expiresAt,omitempty"`
	Error      string       `json:"error,omitempty"`
	CreatedBy  string       `json:"createdBy"`
	CreatedAt  time.Time    `json:"createdAt"`
	FinishedAt *time.Time   `json:"finishedAt,omitempty"`
}

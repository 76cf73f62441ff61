package models

import (
	"time"

	"github.com/google/uuid"
)

// ReportFormat selects the rendered file type of an export.
type ReportFormat string

const (
	ReportFormatCSV ReportFormat = "csv"
	ReportFormatPDF ReportFormat = "pdf"
)

// ReportType names what an export job renders.
type ReportType string

const (
	ReportTypeCertificates ReportType = "certificates"
	ReportTypeAttendance   ReportType = "attendance"
)

// ExportJobStatus tracks an export job through its lifecycle.
type ExportJobStatus string

const (
	ExportJobPending   ExportJobStatus = "pending"
	ExportJobRunning   ExportJobStatus = "running"
	ExportJobCompleted ExportJobStatus = "completed"
	ExportJobFailed    ExportJobStatus = "failed"
)

// ExportJobParams scopes what an export job covers.
type ExportJobParams struct {
	ClassroomID *uuid.UUID `json:"classroom_id,omitempty"`
	Year        *int       `json:"year,omitempty"`
	From        *time.Time `json:"from,omitempty"`
	To          *time.Time `json:"to,omitempty"`
}

// ExportJob is an asynchronous report generation request and its outcome.
type ExportJob struct {
	ID          uuid.UUID       `json:"id"`
	Type        ReportType      `json:"type"`
	Format      ReportFormat    `json:"format"`
	Params      ExportJobParams `json:"params"`
	Status      ExportJobStatus `json:"status"`
	Error       *string         `json:"error,omitempty"`
	URL         *string         `json:"url,omitempty"`
	ExpiresAt   *time.Time      `json:"expires_at,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`
}

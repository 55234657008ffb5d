package models

import "time"

// Report formats.
const (
	ReportFormatPDF  = "pdf"
	ReportFormatCSV  = "csv"
	ReportFormatXLSX = "xlsx"
)

// VisitReportQuery mirrors the report endpoint query string.
type VisitReportQuery struct {
	From     string `form:"from"`
	To       string `form:"to"`
	Citizen  string `form:"citizen"`
	Format   string `form:"format"`
	Download bool   `form:"-"`
}

// Document is a rendered binary file ready to stream.
type Document struct {
	Filename    string
	ContentType string
	Body        []byte
	Rows        int
	Total       int
}

// PhotoUpload describes a stored visitor photo and its signed link.
type PhotoUpload struct {
	Path      string    `json:"path"`
	Token     string    `json:"token"`
	URL       string    `json:"url,omitempty"`
	ExpiresAt time.Time `json:"expires_at"`
	Size      int       `json:"size"`
}

// SystemMetrics is a light snapshot of process counters for the health endpoint.
type SystemMetrics struct {
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	VisitCheckins            uint64    `json:"visit_checkins"`
	VisitCheckouts           uint64    `json:"visit_checkouts"`
	AuditRecorded            uint64    `json:"audit_recorded"`
	AuditFailures            uint64    `json:"audit_failures"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}

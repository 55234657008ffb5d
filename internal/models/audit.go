package models

import (
	"encoding/json"
	"time"
)

// Audit actions.
const (
	AuditActionLogin          = "login"
	AuditActionUserCreated    = "user_created"
	AuditActionCaseCreated    = "case_created"
	AuditActionCaseReopened   = "case_reopened"
	AuditActionCaseClosed     = "case_closed"
	AuditActionVisitCheckin   = "visit_checkin"
	AuditActionVisitCheckout  = "visit_checkout"
	AuditActionReportDownload = "report_download"
)

// Audited entity types.
const (
	AuditEntityUser   = "User"
	AuditEntityCase   = "VisitCase"
	AuditEntityVisit  = "Visit"
	AuditEntityReport = "Report"
)

// AuditLog is an append-only audit trail record.
type AuditLog struct {
	ID       int64           `db:"id" json:"id"`
	ActorID  *string         `db:"actor_id" json:"actor_id,omitempty"`
	Action   string          `db:"action" json:"action"`
	Entity   string          `db:"entity" json:"entity"`
	EntityID string          `db:"entity_id" json:"entity_id"`
	Payload  json.RawMessage `db:"payload" json:"payload,omitempty"`
	IP       *string         `db:"ip" json:"ip,omitempty"`
	TS       time.Time       `db:"ts" json:"ts"`
}

// AuditLogFilter narrows audit listings.
type AuditLogFilter struct {
	Action   string
	Entity   string
	ActorID  string
	Page     int
	PageSize int
}

package models

import (
	"fmt"
	"strings"
	"time"
)

// CaseState enumerates the lifecycle of a visit case.
type CaseState string

const (
	CaseStateOpen       CaseState = "OPEN"
	CaseStateInProgress CaseState = "IN_PROGRESS"
	CaseStateClosed     CaseState = "CLOSED"
)

// VisitCase groups every visit a citizen makes for one topic.
type VisitCase struct {
	ID               int64      `db:"id" json:"id"`
	Code             string     `db:"code" json:"code"`
	CitizenID        int64      `db:"citizen_id" json:"citizen_id"`
	TopicID          int64      `db:"topic_id" json:"topic_id"`
	State            CaseState  `db:"state" json:"state"`
	OpenedAt         time.Time  `db:"opened_at" json:"opened_at"`
	ClosedAt         *time.Time `db:"closed_at" json:"closed_at,omitempty"`
	ClosedReason     string     `db:"closed_reason" json:"closed_reason"`
	LastReopenReason string     `db:"last_reopen_reason" json:"last_reopen_reason"`
	CreatedAt        time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updated_at"`
}

// CaseCode derives the persistent case code from the citizen and topic
// identities. It is stable across reopenings.
func CaseCode(citizenID, topicID int64) string {
	return strings.ToUpper(fmt.Sprintf("CASE-%d-%d", citizenID, topicID))
}

// CaseDetail is a case joined with its topic.
type CaseDetail struct {
	VisitCase
	Topic Topic `db:"topic" json:"topic"`
}

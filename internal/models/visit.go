package models

import (
	"fmt"
	"time"
)

// Visit is a single physical check-in/check-out under a case.
type Visit struct {
	ID           int64      `db:"id" json:"id"`
	CaseID       int64      `db:"case_id" json:"case_id"`
	CheckinAt    time.Time  `db:"checkin_at" json:"checkin_at"`
	CheckoutAt   *time.Time `db:"checkout_at" json:"checkout_at,omitempty"`
	IntakeUserID string     `db:"intake_user_id" json:"intake_user_id"`
	TargetUnit   string     `db:"target_unit" json:"target_unit"`
	Reason       string     `db:"reason" json:"reason"`
	PhotoPath    string     `db:"photo_path" json:"photo_path"`
	BadgeCode    *string    `db:"badge_code" json:"badge_code"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// BadgeCode formats the printable badge code for a persisted visit identity.
func BadgeCode(year int, visitID int64) string {
	return fmt.Sprintf("VIS-%d-%06d", year, visitID)
}

// Badge returns the assigned badge code or an empty string.
func (v Visit) Badge() string {
	if v.BadgeCode == nil {
		return ""
	}
	return *v.BadgeCode
}

// VisitDetail is a visit joined with its case, citizen and topic, the shape
// consumed by badges, reports and API responses.
type VisitDetail struct {
	Visit
	Case    VisitCase `db:"vcase" json:"case"`
	Citizen Citizen   `db:"citizen" json:"citizen"`
	Topic   Topic     `db:"topic" json:"topic"`
}

// VisitFilter selects visits for reports.
type VisitFilter struct {
	From        time.Time
	To          time.Time
	CitizenID   *int64
	CitizenName string
	Limit       int
}

// VisitStats summarises the current day at the front desk.
type VisitStats struct {
	Active              int       `json:"active"`
	CheckinsToday       int       `json:"checkins_today"`
	CheckoutsToday      int       `json:"checkouts_today"`
	AverageMinutesToday float64   `json:"average_minutes_today"`
	DayStart            time.Time `json:"day_start"`
	DayEnd              time.Time `json:"day_end"`
}

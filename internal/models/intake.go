package models

// CitizenInput carries the visitor identity captured at the front desk.
type CitizenInput struct {
	NationalID string `json:"national_id" validate:"omitempty,national_id"`
	Passport   string `json:"passport" validate:"omitempty,max=32"`
	Name       string `json:"name" validate:"required,max=128"`
	Phone      string `json:"phone" validate:"omitempty,visitor_phone"`
	Origin     string `json:"origin" validate:"omitempty,max=128"`
}

// VisitRequest is the check-in payload. The citizen is upserted and the case
// for (citizen, topic) resolved before the visit is recorded.
type VisitRequest struct {
	Citizen             CitizenInput `json:"citizen" validate:"-"`
	TopicID             int64        `json:"topic_id" validate:"required,gt=0"`
	TargetUnit          string       `json:"target_unit" validate:"required,max=128"`
	Reason              string       `json:"reason" validate:"max=256"`
	PhotoPath           string       `json:"photo_path" validate:"max=255"`
	ReopenJustification string       `json:"reopen_justification"`
}

// CheckoutByBadgeRequest checks a visitor out using the printed badge code.
type CheckoutByBadgeRequest struct {
	BadgeCode string `json:"badge_code" validate:"required,max=32"`
}

// CloseCaseRequest closes a case administratively.
type CloseCaseRequest struct {
	Reason string `json:"reason" validate:"required,max=255"`
}

// CitizenLookup is a citizen with every case opened for them.
type CitizenLookup struct {
	Citizen Citizen      `json:"citizen"`
	Cases   []CaseDetail `json:"cases"`
}

// ActionMeta identifies who performed an operation and from where.
type ActionMeta struct {
	ActorID string
	IP      string
}

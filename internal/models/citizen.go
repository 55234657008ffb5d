package models

import "time"

// Citizen is the identity record of a visitor. At least one of NationalID or
// Passport is always present.
type Citizen struct {
	ID         int64     `db:"id" json:"id"`
	NationalID *string   `db:"national_id" json:"national_id"`
	Passport   *string   `db:"passport" json:"passport"`
	Name       string    `db:"name" json:"name"`
	Phone      string    `db:"phone" json:"phone"`
	Origin     string    `db:"origin" json:"origin"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// Identifier returns the national ID when present, otherwise the passport.
func (c Citizen) Identifier() string {
	if c.NationalID != nil && *c.NationalID != "" {
		return *c.NationalID
	}
	if c.Passport != nil {
		return *c.Passport
	}
	return ""
}

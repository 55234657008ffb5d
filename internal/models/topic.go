package models

import "time"

// Topic is a catalog entry describing the matter a citizen visits about.
// The catalog itself is maintained elsewhere; the registry only reads it.
type Topic struct {
	ID          int64     `db:"id" json:"id"`
	Code        string    `db:"code" json:"code"`
	Name        string    `db:"name" json:"name"`
	Description string    `db:"description" json:"description"`
	Unit        string    `db:"unit" json:"unit"`
	IsActive    bool      `db:"is_active" json:"is_active"`
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time `db:"updated_at" json:"updated_at"`
}

// Label renders the "code - name" form used on badges and reports.
func (t Topic) Label() string {
	return t.Code + " - " + t.Name
}

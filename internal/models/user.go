package models

import "time"

// Operator groups.
const (
	GroupReception  = "reception"
	GroupSupervisor = "supervisor"
	GroupAdmin      = "admin"
)

// DefaultGroups are created by the bootstrap routine.
var DefaultGroups = []string{GroupReception, GroupSupervisor, GroupAdmin}

// User represents an operator stored in the users table.
type User struct {
	ID           string     `db:"id" json:"id"`
	Username     string     `db:"username" json:"username"`
	Email        string     `db:"email" json:"email"`
	PasswordHash string     `db:"password_hash" json:"-"`
	FullName     string     `db:"full_name" json:"full_name"`
	IsSuperuser  bool       `db:"is_superuser" json:"is_superuser"`
	Active       bool       `db:"active" json:"active"`
	LastLogin    *time.Time `db:"last_login" json:"last_login,omitempty"`
	CreatedAt    time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time  `db:"updated_at" json:"updated_at"`
}

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

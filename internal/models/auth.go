package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// LoginRequest holds credentials for authenticating an operator.
type LoginRequest struct {
	Username  string `json:"username" validate:"required"`
	Password  string `json:"password" validate:"required"`
	IP        string `json:"-"`
	UserAgent string `json:"-"`
}

// LoginResponse returns the issued access token and user info.
type LoginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	User        UserInfo  `json:"user"`
	IssuedAt    time.Time `json:"issued_at"`
}

// UserInfo describes the authenticated user in responses.
type UserInfo struct {
	ID          string   `json:"id"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	FullName    string   `json:"full_name"`
	IsSuperuser bool     `json:"is_superuser"`
	Groups      []string `json:"groups"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	UserID      string   `json:"user_id"`
	Username    string   `json:"username"`
	FullName    string   `json:"full_name"`
	IsSuperuser bool     `json:"is_superuser"`
	Groups      []string `json:"groups"`
	jwt.RegisteredClaims
}

// InGroup reports whether the claims grant membership in any of the groups.
// Superusers pass every group check.
func (c *JWTClaims) InGroup(groups ...string) bool {
	if c == nil {
		return false
	}
	if c.IsSuperuser {
		return true
	}
	for _, want := range groups {
		for _, have := range c.Groups {
			if have == want {
				return true
			}
		}
	}
	return false
}

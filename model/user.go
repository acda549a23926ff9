package model

import (
	"database/sql"
	"time"
)

// Role is the subscription tier of a user account.
type Role string

const (
	RoleStandard Role = "standard"
	RolePremium  Role = "premium"
	RoleAdmin    Role = "admin"
)

// InitialDownloadCredits is granted to every new standard account.
const InitialDownloadCredits = 5

// User represents a user in the system.
type User struct {
	ID              int64          `json:"id"`
	Username        string         `json:"username"`
	Email           string         `json:"email"`
	PasswordHash    string         `json:"-"` // Not exposed in API responses
	FullName        sql.NullString `json:"fullName,omitempty"`
	Avatar          string         `json:"avatar,omitempty"`
	Role            Role           `json:"role"`
	DownloadCredits int            `json:"downloadCredits"`
	PremiumUntil    sql.NullTime   `json:"premiumUntil,omitempty"`
	CreatedAt       time.Time      `json:"createdAt"`
	UpdatedAt       time.Time      `json:"updatedAt"`
}

// IsPremiumActive reports whether the premium subscription is live at
// the given instant. Expiry is exclusive: at premiumUntil itself the
// subscription is already over.
func (u *User) IsPremiumActive(now time.Time) bool {
	return u.Role == RolePremium && u.PremiumUntil.Valid && u.PremiumUntil.Time.After(now)
}

package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// UserType distinguishes clients from lawyers
type UserType string

const (
	UserTypeBusiness UserType = "business"
	UserTypeLawyer   UserType = "lawyer"
)

// User represents a user entity
type User struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never serialize password hash
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	UserType     UserType  `json:"user_type"`
	Phone        string    `json:"phone"`
	Location     string    `json:"location"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// DisplayName joins first and last name
func (u *User) DisplayName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// UserProfile holds the professional details edited on the profile page
type UserProfile struct {
	UserID           uuid.UUID `json:"user_id"`
	Bio              string    `json:"bio"`
	Experience       string    `json:"experience"`
	AreasOfExpertise []string  `json:"areas_of_expertise"`
	Certifications   []string  `json:"certifications"`
	WebsiteURL       string    `json:"website_url"`
	LinkedInURL      string    `json:"linkedin_url"`
	HourlyRate       float64   `json:"hourly_rate"`
	UpdatedAt        time.Time `json:"updated_at"`
}

// Session is an opaque bearer token issued at login
type Session struct {
	Token     string    `json:"token"`
	UserID    uuid.UUID `json:"user_id"`
	ExpiresAt time.Time `json:"expires_at"`
	CreatedAt time.Time `json:"created_at"`
}

// Expired reports whether the session is no longer valid at now
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

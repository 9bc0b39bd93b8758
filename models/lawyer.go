package models

import (
	"slices"
	"time"

	"github.com/google/uuid"
)

// Lawyer represents a lawyer in the directory
type Lawyer struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Firm      string     `json:"firm"`
	Expertise []string   `json:"expertise"`
	Location  string     `json:"location"`
	Rating    float64    `json:"rating"`  // 0-5
	Reviews   int        `json:"reviews"` // never negative
	AvatarURL string     `json:"avatar_url"`
	Bio       string     `json:"bio"`
	UserID    *uuid.UUID `json:"user_id,omitempty"` // owning account, nil for seeded records
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// HasExpertise reports whether tag is one of the lawyer's expertise tags
// The comparison is exact and case-sensitive
func (l *Lawyer) HasExpertise(tag string) bool {
	return slices.Contains(l.Expertise, tag)
}

// LawyerFilter narrows a directory listing
type LawyerFilter struct {
	Expertise string // exact tag
	Location  string // exact location
	Search    string // case-insensitive substring of name or firm
	Limit     int
	Offset    int
}

// Expertises are the practice areas offered as directory filters
var Expertises = []string{
	"Corporate Law",
	"Intellectual Property",
	"Family Law",
	"Criminal Law",
	"Real Estate Law",
	"Tax Law",
	"Immigration Law",
	"Labor Law",
}

// Locations are the cities offered as directory filters
var Locations = []string{
	"New York, NY",
	"Los Angeles, CA",
	"Chicago, IL",
	"Houston, TX",
	"Phoenix, AZ",
	"Philadelphia, PA",
	"San Antonio, TX",
	"San Diego, CA",
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Profile holds the public-facing data for a user. The ID equals the user's
// id; the row is created lazily on first save.
type Profile struct {
	ID        uuid.UUID `json:"id"`
	FullName  *string   `json:"full_name,omitempty"`
	Username  *string   `json:"username,omitempty"`
	Bio       *string   `json:"bio,omitempty"`
	Country   *string   `json:"country,omitempty"`
	AvatarURL *string   `json:"avatar_url,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DisplayName returns the best human-readable name for the profile,
// preferring full name over username. Empty when neither is set.
func (p Profile) DisplayName() string {
	if p.FullName != nil && *p.FullName != "" {
		return *p.FullName
	}
	if p.Username != nil && *p.Username != "" {
		return *p.Username
	}
	return ""
}

package models

import (
	"time"

	"github.com/google/uuid"
)

// Registration links a hackathon to either one user or one team.
// Exactly one of UserID or TeamID is set, never both.
type Registration struct {
	ID           uuid.UUID  `json:"id"`
	HackathonID  uuid.UUID  `json:"hackathon_id"`
	UserID       *uuid.UUID `json:"user_id,omitempty"`
	TeamID       *uuid.UUID `json:"team_id,omitempty"`
	RegisteredAt time.Time  `json:"registered_at"`
}

// IsTeam reports whether this is a team registration.
func (r Registration) IsTeam() bool {
	return r.TeamID != nil
}

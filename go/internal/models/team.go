package models

import (
	"time"

	"github.com/google/uuid"
)

// Team represents a named group of users owned by its creator
type Team struct {
	ID          uuid.UUID    `json:"id"`
	Name        string       `json:"name"`
	Description *string      `json:"description,omitempty"`
	CreatedBy   uuid.UUID    `json:"created_by"`
	CreatedAt   time.Time    `json:"created_at"`
	Members     []TeamMember `json:"members,omitempty"`
}

// TeamMember is the membership edge between a team and a user
type TeamMember struct {
	ID       uuid.UUID `json:"id"`
	TeamID   uuid.UUID `json:"team_id"`
	UserID   uuid.UUID `json:"user_id"`
	JoinedAt time.Time `json:"joined_at"`
}

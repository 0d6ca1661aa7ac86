package models

import (
	"time"

	"github.com/google/uuid"
)

// ParticipationType represents how participants register for a hackathon
type ParticipationType string

const (
	ParticipationIndividual ParticipationType = "Individual"
	ParticipationTeam       ParticipationType = "Team"
)

// Hackathon represents a hackathon event
type Hackathon struct {
	ID                uuid.UUID         `json:"id"`
	Title             string            `json:"title"`
	Description       *string           `json:"description,omitempty"`
	StartDate         *time.Time        `json:"start_date,omitempty"`
	EndDate           *time.Time        `json:"end_date,omitempty"`
	Location          *string           `json:"location,omitempty"`
	Prize             *string           `json:"prize,omitempty"`
	ImageURL          *string           `json:"image_url,omitempty"`
	ParticipationType ParticipationType `json:"participation_type"`
	// MaxTeamSize is 1 for individual hackathons and 2-5 for team hackathons.
	MaxTeamSize int       `json:"max_team_size"`
	CreatedBy   uuid.UUID `json:"created_by"`
	CreatedAt   time.Time `json:"created_at"`
}

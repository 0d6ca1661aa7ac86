package hackathons

import (
	"time"

	"github.com/hackhub/hackhub/go/internal/models"
)

// CreateHackathonRequest represents the data needed to create a hackathon
type CreateHackathonRequest struct {
	Title             string                   `json:"title"`
	Description       *string                  `json:"description,omitempty"`
	StartDate         *time.Time               `json:"start_date,omitempty"`
	EndDate           *time.Time               `json:"end_date,omitempty"`
	Location          *string                  `json:"location,omitempty"`
	Prize             *string                  `json:"prize,omitempty"`
	ImageURL          *string                  `json:"image_url,omitempty"`
	ParticipationType models.ParticipationType `json:"participation_type"`
	MaxTeamSize       int                      `json:"max_team_size"`
}

// UpdateHackathonRequest represents the fields that can be updated
type UpdateHackathonRequest struct {
	Title             *string                   `json:"title,omitempty"`
	Description       *string                   `json:"description,omitempty"`
	StartDate         *time.Time                `json:"start_date,omitempty"`
	EndDate           *time.Time                `json:"end_date,omitempty"`
	Location          *string                   `json:"location,omitempty"`
	Prize             *string                   `json:"prize,omitempty"`
	ImageURL          *string                   `json:"image_url,omitempty"`
	ParticipationType *models.ParticipationType `json:"participation_type,omitempty"`
	MaxTeamSize       *int                      `json:"max_team_size,omitempty"`
}

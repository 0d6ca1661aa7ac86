package registrations

import "github.com/google/uuid"

// Participant is a resolved display entry for insights: the raw id plus the
// best display name available.
type Participant struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// TeamInsight summarizes one registered team
type TeamInsight struct {
	ID          uuid.UUID     `json:"id"`
	Name        string        `json:"name"`
	MemberCount int           `json:"memberCount"`
	Members     []Participant `json:"members"`
}

// InsightsData aggregates participant and team counts for a hackathon.
// TotalTeamParticipants sums member counts across registered teams without
// deduplicating users that appear in more than one team.
type InsightsData struct {
	TotalIndividualParticipants int           `json:"totalIndividualParticipants"`
	TotalTeams                  int           `json:"totalTeams"`
	TotalTeamParticipants       int           `json:"totalTeamParticipants"`
	Teams                       []TeamInsight `json:"teams"`
	Individuals                 []Participant `json:"individuals"`
}

// RegisterTeamRequest carries the team to register for a hackathon
type RegisterTeamRequest struct {
	TeamID uuid.UUID `json:"team_id"`
}

// RegistrationStatus reports whether the current user is registered
type RegistrationStatus struct {
	Registered bool `json:"registered"`
}

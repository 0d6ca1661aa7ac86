package registrations

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/hackhub/hackhub/go/internal/models"
)

// computeInsights aggregates the hackathon's registrations into participant
// and team counts with resolved display names. The full registration and
// member set is held in memory; expected cardinality is hundreds, not
// millions.
func (a *App) computeInsights(ctx context.Context, hackathonID uuid.UUID) (*InsightsData, error) {
	regs, err := a.repo.ListByHackathon(ctx, hackathonID)
	if err != nil {
		return nil, err
	}

	var individualIDs []uuid.UUID
	var teamIDs []uuid.UUID
	for _, reg := range regs {
		if reg.IsTeam() {
			teamIDs = append(teamIDs, *reg.TeamID)
		} else if reg.UserID != nil {
			individualIDs = append(individualIDs, *reg.UserID)
		}
	}

	type teamEntry struct {
		team    *models.Team
		members []models.TeamMember
	}
	entries := make([]teamEntry, 0, len(teamIDs))

	// Collect every user id up front so display names resolve in one lookup.
	userIDs := append([]uuid.UUID{}, individualIDs...)
	for _, teamID := range teamIDs {
		team, err := a.teams.GetTeam(ctx, teamID)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve registered team %s: %w", teamID, err)
		}
		members, err := a.teams.ListTeamMembers(ctx, teamID)
		if err != nil {
			return nil, fmt.Errorf("failed to list members of team %s: %w", teamID, err)
		}
		entries = append(entries, teamEntry{team: team, members: members})
		for _, m := range members {
			userIDs = append(userIDs, m.UserID)
		}
	}

	profiles, err := a.profiles.GetProfiles(ctx, userIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve profiles: %w", err)
	}

	insights := &InsightsData{
		TotalIndividualParticipants: len(individualIDs),
		TotalTeams:                  len(entries),
		Teams:                       []TeamInsight{},
		Individuals:                 []Participant{},
	}

	for _, id := range individualIDs {
		insights.Individuals = append(insights.Individuals, resolveParticipant(id, profiles))
	}

	for _, entry := range entries {
		ti := TeamInsight{
			ID:          entry.team.ID,
			Name:        entry.team.Name,
			MemberCount: len(entry.members),
			Members:     []Participant{},
		}
		for _, m := range entry.members {
			ti.Members = append(ti.Members, resolveParticipant(m.UserID, profiles))
		}
		// Member counts sum across teams without deduplication: a user in
		// two registered teams counts twice.
		insights.TotalTeamParticipants += ti.MemberCount
		insights.Teams = append(insights.Teams, ti)
	}

	return insights, nil
}

// resolveParticipant picks the best display name for a user, falling back to
// the raw id when no profile is found.
func resolveParticipant(id uuid.UUID, profiles map[uuid.UUID]models.Profile) Participant {
	if p, ok := profiles[id]; ok {
		if name := p.DisplayName(); name != "" {
			return Participant{ID: id, Name: name}
		}
	}
	return Participant{ID: id, Name: id.String()}
}

package registrations

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackhub/hackhub/go/internal/models"
)

func strPtr(s string) *string { return &s }

func (e *testEnv) addProfile(userID uuid.UUID, fullName string) {
	e.profiles.profiles[userID] = models.Profile{
		ID:       userID,
		FullName: strPtr(fullName),
	}
}

func TestInsightsMixedRegistrations(t *testing.T) {
	env := newTestEnv(t)
	h := env.addHackathon(models.ParticipationTeam, 5)

	soloID := uuid.New()
	env.addProfile(soloID, "Ada Lovelace")
	_, err := env.app.RegisterIndividual(context.Background(), h.ID, soloID)
	require.NoError(t, err)

	team := env.addTeam(2)
	env.addProfile(env.teams.members[team.ID][0].UserID, "Grace Hopper")
	env.addProfile(env.teams.members[team.ID][1].UserID, "Katherine Johnson")
	_, err = env.app.RegisterTeam(context.Background(), h.ID, team.ID)
	require.NoError(t, err)

	insights, err := env.app.InsightsForCreator(context.Background(), h.CreatedBy, h.ID)
	require.NoError(t, err)

	assert.Equal(t, 1, insights.TotalIndividualParticipants)
	assert.Equal(t, 1, insights.TotalTeams)
	assert.Equal(t, 2, insights.TotalTeamParticipants)

	require.Len(t, insights.Individuals, 1)
	assert.Equal(t, "Ada Lovelace", insights.Individuals[0].Name)

	require.Len(t, insights.Teams, 1)
	assert.Equal(t, team.ID, insights.Teams[0].ID)
	assert.Equal(t, 2, insights.Teams[0].MemberCount)
	require.Len(t, insights.Teams[0].Members, 2)
	assert.Equal(t, "Grace Hopper", insights.Teams[0].Members[0].Name)
	assert.Equal(t, "Katherine Johnson", insights.Teams[0].Members[1].Name)
}

func TestInsightsEmptyHackathon(t *testing.T) {
	env := newTestEnv(t)
	h := env.addHackathon(models.ParticipationTeam, 5)

	insights, err := env.app.InsightsForCreator(context.Background(), h.CreatedBy, h.ID)
	require.NoError(t, err)

	assert.Zero(t, insights.TotalIndividualParticipants)
	assert.Zero(t, insights.TotalTeams)
	assert.Zero(t, insights.TotalTeamParticipants)
	assert.NotNil(t, insights.Teams, "teams serializes as [] not null")
	assert.NotNil(t, insights.Individuals, "individuals serializes as [] not null")
}

func TestInsightsCountsSharedMembersPerTeam(t *testing.T) {
	env := newTestEnv(t)
	h := env.addHackathon(models.ParticipationTeam, 5)

	shared := uuid.New()
	env.addProfile(shared, "Shared Member")

	teamA := env.addTeam(1)
	teamB := env.addTeam(1)
	env.teams.members[teamA.ID] = append(env.teams.members[teamA.ID], models.TeamMember{
		ID: uuid.New(), TeamID: teamA.ID, UserID: shared,
	})
	env.teams.members[teamB.ID] = append(env.teams.members[teamB.ID], models.TeamMember{
		ID: uuid.New(), TeamID: teamB.ID, UserID: shared,
	})

	_, err := env.app.RegisterTeam(context.Background(), h.ID, teamA.ID)
	require.NoError(t, err)
	_, err = env.app.RegisterTeam(context.Background(), h.ID, teamB.ID)
	require.NoError(t, err)

	insights, err := env.app.InsightsForCreator(context.Background(), h.CreatedBy, h.ID)
	require.NoError(t, err)

	// A user on both registered teams is counted once per team.
	assert.Equal(t, 4, insights.TotalTeamParticipants)
	assert.Equal(t, 2, insights.TotalTeams)
}

func TestInsightsFallsBackToRawID(t *testing.T) {
	env := newTestEnv(t)
	h := env.addHackathon(models.ParticipationTeam, 5)

	soloID := uuid.New()
	_, err := env.app.RegisterIndividual(context.Background(), h.ID, soloID)
	require.NoError(t, err)

	insights, err := env.app.InsightsForCreator(context.Background(), h.CreatedBy, h.ID)
	require.NoError(t, err)

	require.Len(t, insights.Individuals, 1)
	assert.Equal(t, soloID.String(), insights.Individuals[0].Name)
}

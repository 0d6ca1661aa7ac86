package registrations

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/hackhub/hackhub/go/internal/apperrors"
	"github.com/hackhub/hackhub/go/internal/models"
)

// minTeamSize is the business-rule floor for team registration eligibility.
const minTeamSize = 2

// RegistrationsRepository defines what the app layer needs from the repository
type RegistrationsRepository interface {
	CreateUserRegistration(ctx context.Context, hackathonID, userID uuid.UUID, registeredAt time.Time) (*models.Registration, error)
	CreateTeamRegistration(ctx context.Context, hackathonID, teamID uuid.UUID, registeredAt time.Time) (*models.Registration, error)
	UserRegistrationExists(ctx context.Context, hackathonID, userID uuid.UUID) (bool, error)
	TeamRegistrationExists(ctx context.Context, hackathonID, teamID uuid.UUID) (bool, error)
	ListByHackathon(ctx context.Context, hackathonID uuid.UUID) ([]models.Registration, error)
	DeleteUserRegistration(ctx context.Context, hackathonID, userID uuid.UUID) error
	DeleteTeamRegistration(ctx context.Context, hackathonID, teamID uuid.UUID) error
	DeleteAllForHackathon(ctx context.Context, hackathonID uuid.UUID) error
	DeleteAllForTeam(ctx context.Context, teamID uuid.UUID) error
}

// HackathonGetter resolves hackathons for eligibility checks and ownership
type HackathonGetter interface {
	GetHackathon(ctx context.Context, id uuid.UUID) (*models.Hackathon, error)
}

// TeamDirectory resolves teams and their members
type TeamDirectory interface {
	GetTeam(ctx context.Context, id uuid.UUID) (*models.Team, error)
	CountTeamMembers(ctx context.Context, teamID uuid.UUID) (int, error)
	ListTeamMembers(ctx context.Context, teamID uuid.UUID) ([]models.TeamMember, error)
	IsMember(ctx context.Context, teamID, userID uuid.UUID) (bool, error)
}

// ProfileDirectory resolves display names for insight entries
type ProfileDirectory interface {
	GetProfiles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Profile, error)
}

// EventRecorder records domain events for asynchronous publishing. Recording
// is best effort: a failure never fails the operation that triggered it.
type EventRecorder interface {
	Record(ctx context.Context, eventType string, hackathonID uuid.UUID, payload any) error
}

// App is the registration rules engine: it decides whether a registration
// write is allowed and computes insight aggregates from existing rows.
type App struct {
	repo       RegistrationsRepository
	hackathons HackathonGetter
	teams      TeamDirectory
	profiles   ProfileDirectory
	events     EventRecorder
	clock      clockwork.Clock
}

// NewApp creates a new registrations App
func NewApp(repo RegistrationsRepository, hackathons HackathonGetter, teams TeamDirectory, profiles ProfileDirectory, events EventRecorder, clock clockwork.Clock) *App {
	return &App{
		repo:       repo,
		hackathons: hackathons,
		teams:      teams,
		profiles:   profiles,
		events:     events,
		clock:      clock,
	}
}

// RegisterIndividual registers a user for a hackathon. The caller is
// expected to have resolved an individual hackathon; the only checks here
// are the gateway's uniqueness constraint.
func (a *App) RegisterIndividual(ctx context.Context, hackathonID, userID uuid.UUID) (*models.Registration, error) {
	reg, err := a.repo.CreateUserRegistration(ctx, hackathonID, userID, a.clock.Now().UTC())
	if err != nil {
		return nil, err
	}

	a.recordEvent(ctx, "registration.individual.created", hackathonID, reg)
	log.Info().
		Str("hackathon_id", hackathonID.String()).
		Str("user_id", userID.String()).
		Msg("registered individual")
	return reg, nil
}

// RegisterTeam registers a team for a hackathon, enforcing the eligibility
// rules in order: the hackathon must exist and be team-based, and the team's
// member count must satisfy 2 <= count <= max_team_size (both bounds
// inclusive). The member-count check and the insert are not atomic; the
// uniqueness constraint is the real duplicate guard under concurrent
// writers.
func (a *App) RegisterTeam(ctx context.Context, hackathonID, teamID uuid.UUID) (*models.Registration, error) {
	h, err := a.hackathons.GetHackathon(ctx, hackathonID)
	if err != nil {
		return nil, err
	}
	if h.ParticipationType != models.ParticipationTeam {
		return nil, apperrors.ErrInvalidParticipationType
	}

	count, err := a.teams.CountTeamMembers(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to count team members: %w", err)
	}
	if count < minTeamSize {
		return nil, apperrors.ErrTeamTooSmall
	}
	if h.MaxTeamSize > 0 && count > h.MaxTeamSize {
		return nil, fmt.Errorf("%w: team size (%d) exceeds hackathon max (%d)",
			apperrors.ErrTeamTooLarge, count, h.MaxTeamSize)
	}

	reg, err := a.repo.CreateTeamRegistration(ctx, hackathonID, teamID, a.clock.Now().UTC())
	if err != nil {
		return nil, err
	}

	a.recordEvent(ctx, "registration.team.created", hackathonID, reg)
	log.Info().
		Str("hackathon_id", hackathonID.String()).
		Str("team_id", teamID.String()).
		Int("member_count", count).
		Msg("registered team")
	return reg, nil
}

// IsUserRegistered reports whether a registration exists for the pair. Used
// to gate UI state, not a security boundary.
func (a *App) IsUserRegistered(ctx context.Context, hackathonID, userID uuid.UUID) (bool, error) {
	return a.repo.UserRegistrationExists(ctx, hackathonID, userID)
}

// IsTeamRegistered reports whether a registration exists for the pair
func (a *App) IsTeamRegistered(ctx context.Context, hackathonID, teamID uuid.UUID) (bool, error) {
	return a.repo.TeamRegistrationExists(ctx, hackathonID, teamID)
}

// ListByHackathon retrieves all registrations for a hackathon
func (a *App) ListByHackathon(ctx context.Context, hackathonID uuid.UUID) ([]models.Registration, error) {
	return a.repo.ListByHackathon(ctx, hackathonID)
}

// UnregisterUser deletes the user's registration. Idempotent: deleting zero
// rows is success.
func (a *App) UnregisterUser(ctx context.Context, hackathonID, userID uuid.UUID) error {
	if err := a.repo.DeleteUserRegistration(ctx, hackathonID, userID); err != nil {
		return err
	}
	a.recordEvent(ctx, "registration.individual.deleted", hackathonID, map[string]uuid.UUID{"user_id": userID})
	return nil
}

// UnregisterTeam deletes the team's registration. Only the team's creator
// or a member may unregister it. Idempotent on the registration row.
func (a *App) UnregisterTeam(ctx context.Context, actorID, hackathonID, teamID uuid.UUID) error {
	team, err := a.teams.GetTeam(ctx, teamID)
	if err != nil {
		return err
	}
	if team.CreatedBy != actorID {
		member, err := a.teams.IsMember(ctx, teamID, actorID)
		if err != nil {
			return err
		}
		if !member {
			return apperrors.ErrForbidden
		}
	}

	if err := a.repo.DeleteTeamRegistration(ctx, hackathonID, teamID); err != nil {
		return err
	}
	a.recordEvent(ctx, "registration.team.deleted", hackathonID, map[string]uuid.UUID{"team_id": teamID})
	return nil
}

// DeleteAllForHackathon removes every registration for a hackathon. Called
// by the hackathons app ahead of deleting the hackathon itself.
func (a *App) DeleteAllForHackathon(ctx context.Context, hackathonID uuid.UUID) error {
	return a.repo.DeleteAllForHackathon(ctx, hackathonID)
}

// DeleteAllForTeam removes every registration referencing a team. Called by
// the teams app as the first step of its delete cascade.
func (a *App) DeleteAllForTeam(ctx context.Context, teamID uuid.UUID) error {
	return a.repo.DeleteAllForTeam(ctx, teamID)
}

// InsightsForCreator computes insights for a hackathon after verifying the
// caller created it.
func (a *App) InsightsForCreator(ctx context.Context, actorID, hackathonID uuid.UUID) (*InsightsData, error) {
	h, err := a.hackathons.GetHackathon(ctx, hackathonID)
	if err != nil {
		return nil, err
	}
	if h.CreatedBy != actorID {
		return nil, apperrors.ErrForbidden
	}
	return a.computeInsights(ctx, hackathonID)
}

func (a *App) recordEvent(ctx context.Context, eventType string, hackathonID uuid.UUID, payload any) {
	if a.events == nil {
		return
	}
	if err := a.events.Record(ctx, eventType, hackathonID, payload); err != nil {
		log.Warn().Err(err).Str("event_type", eventType).Msg("failed to record event")
	}
}

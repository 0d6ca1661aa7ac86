package teams

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"

	"github.com/hackhub/hackhub/go/internal/apperrors"
	"github.com/hackhub/hackhub/go/internal/models"
)

// minTeamSize is the floor enforced when removing members. Adding members
// has no cap; the hackathon's max team size is checked at registration time.
const minTeamSize = 2

// TeamsRepository defines the data access operations the teams app needs
type TeamsRepository interface {
	CreateTeam(ctx context.Context, req CreateTeamRequest, createdBy uuid.UUID, createdAt time.Time) (*models.Team, error)
	GetTeam(ctx context.Context, id uuid.UUID) (*models.Team, error)
	ListUserTeams(ctx context.Context, userID uuid.UUID) ([]models.Team, error)
	ListCreatedTeams(ctx context.Context, userID uuid.UUID) ([]models.Team, error)
	UpdateTeam(ctx context.Context, team *models.Team) (*models.Team, error)
	DeleteTeam(ctx context.Context, id uuid.UUID) error

	AddMember(ctx context.Context, teamID, userID uuid.UUID, joinedAt time.Time) (*models.TeamMember, error)
	RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error
	RemoveAllMembers(ctx context.Context, teamID uuid.UUID) error
	CountTeamMembers(ctx context.Context, teamID uuid.UUID) (int, error)
	ListTeamMembers(ctx context.Context, teamID uuid.UUID) ([]models.TeamMember, error)
	IsMember(ctx context.Context, teamID, userID uuid.UUID) (bool, error)

	CreateInvitation(ctx context.Context, teamID uuid.UUID, email string, invitedBy uuid.UUID, createdAt time.Time) (*models.TeamInvitation, error)
	GetInvitation(ctx context.Context, id uuid.UUID) (*models.TeamInvitation, error)
	ListInvitationsByEmail(ctx context.Context, email string) ([]models.TeamInvitation, error)
	UpdateInvitationStatus(ctx context.Context, id uuid.UUID, status models.InvitationStatus) error
	DeleteInvitation(ctx context.Context, id uuid.UUID) error
}

// RegistrationSweeper removes registrations referencing a team ahead of the
// team's deletion.
type RegistrationSweeper interface {
	DeleteAllForTeam(ctx context.Context, teamID uuid.UUID) error
}

// App implements team business logic
type App struct {
	repo          TeamsRepository
	registrations RegistrationSweeper
	clock         clockwork.Clock
}

// NewApp creates a new teams app
func NewApp(repo TeamsRepository, registrations RegistrationSweeper, clock clockwork.Clock) *App {
	return &App{repo: repo, registrations: registrations, clock: clock}
}

// CreateTeam creates a team and adds the creator as its first member
func (a *App) CreateTeam(ctx context.Context, req CreateTeamRequest, createdBy uuid.UUID) (*models.Team, error) {
	req.Name = strings.TrimSpace(req.Name)
	if req.Name == "" {
		return nil, fmt.Errorf("team name is required")
	}

	team, err := a.repo.CreateTeam(ctx, req, createdBy, a.clock.Now().UTC())
	if err != nil {
		return nil, err
	}

	member, err := a.repo.AddMember(ctx, team.ID, createdBy, a.clock.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to add creator to team: %w", err)
	}
	team.Members = []models.TeamMember{*member}

	log.Info().
		Str("team_id", team.ID.String()).
		Str("created_by", createdBy.String()).
		Msg("created team")
	return team, nil
}

// GetTeam retrieves a team with its members
func (a *App) GetTeam(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	team, err := a.repo.GetTeam(ctx, id)
	if err != nil {
		return nil, err
	}
	members, err := a.repo.ListTeamMembers(ctx, id)
	if err != nil {
		return nil, err
	}
	team.Members = members
	return team, nil
}

// ListUserTeams returns teams the user created or belongs to
func (a *App) ListUserTeams(ctx context.Context, userID uuid.UUID) ([]models.Team, error) {
	return a.repo.ListUserTeams(ctx, userID)
}

// ListCreatedTeams returns teams the user created
func (a *App) ListCreatedTeams(ctx context.Context, userID uuid.UUID) ([]models.Team, error) {
	return a.repo.ListCreatedTeams(ctx, userID)
}

// UpdateTeam applies a partial update. Only the creator may update.
func (a *App) UpdateTeam(ctx context.Context, actorID, teamID uuid.UUID, req UpdateTeamRequest) (*models.Team, error) {
	team, err := a.repo.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team.CreatedBy != actorID {
		return nil, apperrors.ErrForbidden
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, fmt.Errorf("team name is required")
		}
		team.Name = name
	}
	if req.Description != nil {
		team.Description = req.Description
	}

	return a.repo.UpdateTeam(ctx, team)
}

// DeleteTeam removes a team and everything referencing it: registrations
// first, then memberships, then the team row. The steps run sequentially;
// the first failure aborts and later steps are skipped.
func (a *App) DeleteTeam(ctx context.Context, actorID, teamID uuid.UUID) error {
	team, err := a.repo.GetTeam(ctx, teamID)
	if err != nil {
		return err
	}
	if team.CreatedBy != actorID {
		return apperrors.ErrForbidden
	}

	if err := a.registrations.DeleteAllForTeam(ctx, teamID); err != nil {
		return fmt.Errorf("failed to delete team registrations: %w", err)
	}
	if err := a.repo.RemoveAllMembers(ctx, teamID); err != nil {
		return err
	}
	if err := a.repo.DeleteTeam(ctx, teamID); err != nil {
		return err
	}

	log.Info().Str("team_id", teamID.String()).Msg("deleted team")
	return nil
}

// AddMember adds a user to a team. Only the creator may add members
// directly; everyone else joins by accepting an invitation. There is no
// size cap here: the hackathon's limit applies at registration time.
func (a *App) AddMember(ctx context.Context, actorID, teamID, userID uuid.UUID) (*models.TeamMember, error) {
	team, err := a.repo.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team.CreatedBy != actorID {
		return nil, apperrors.ErrForbidden
	}
	return a.repo.AddMember(ctx, teamID, userID, a.clock.Now().UTC())
}

// RemoveMember removes a user from a team, refusing to shrink it below the
// minimum viable size. The creator may remove anyone; members may remove
// themselves.
func (a *App) RemoveMember(ctx context.Context, actorID, teamID, userID uuid.UUID) error {
	team, err := a.repo.GetTeam(ctx, teamID)
	if err != nil {
		return err
	}
	if team.CreatedBy != actorID && actorID != userID {
		return apperrors.ErrForbidden
	}

	// Removing a non-member is a no-op; the floor only applies to a
	// removal that would actually shrink the team.
	member, err := a.repo.IsMember(ctx, teamID, userID)
	if err != nil {
		return err
	}
	if !member {
		return nil
	}

	count, err := a.repo.CountTeamMembers(ctx, teamID)
	if err != nil {
		return err
	}
	if count-1 < minTeamSize {
		return apperrors.ErrTeamTooSmall
	}

	return a.repo.RemoveMember(ctx, teamID, userID)
}

// IsMember reports whether the user belongs to the team
func (a *App) IsMember(ctx context.Context, teamID, userID uuid.UUID) (bool, error) {
	return a.repo.IsMember(ctx, teamID, userID)
}

// Invite creates a pending invitation to a team. The inviter must be the
// team's creator or a member.
func (a *App) Invite(ctx context.Context, actorID, teamID uuid.UUID, email string) (*models.TeamInvitation, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || !strings.Contains(email, "@") {
		return nil, fmt.Errorf("a valid email is required")
	}

	team, err := a.repo.GetTeam(ctx, teamID)
	if err != nil {
		return nil, err
	}
	if team.CreatedBy != actorID {
		member, err := a.repo.IsMember(ctx, teamID, actorID)
		if err != nil {
			return nil, err
		}
		if !member {
			return nil, apperrors.ErrForbidden
		}
	}

	inv, err := a.repo.CreateInvitation(ctx, teamID, email, actorID, a.clock.Now().UTC())
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("team_id", teamID.String()).
		Str("invitation_id", inv.ID.String()).
		Msg("created invitation")
	return inv, nil
}

// ListInvitationsForEmail returns pending invitations addressed to an email
func (a *App) ListInvitationsForEmail(ctx context.Context, email string) ([]models.TeamInvitation, error) {
	return a.repo.ListInvitationsByEmail(ctx, strings.ToLower(email))
}

// Accept joins the invited user to the team and marks the invitation
// accepted. The row is kept for history. The accepting user's email must
// match the invitation.
func (a *App) Accept(ctx context.Context, invitationID, userID uuid.UUID, email string) error {
	inv, err := a.repo.GetInvitation(ctx, invitationID)
	if err != nil {
		return err
	}
	if !strings.EqualFold(inv.Email, email) {
		return apperrors.ErrForbidden
	}
	if inv.Status != models.InvitationPending {
		return fmt.Errorf("invitation is no longer pending")
	}

	// Membership first: a failed insert leaves the invitation pending so
	// the user can retry. An existing membership still settles the row.
	if _, err := a.repo.AddMember(ctx, inv.TeamID, userID, a.clock.Now().UTC()); err != nil &&
		!errors.Is(err, apperrors.ErrAlreadyMember) {
		return err
	}

	return a.repo.UpdateInvitationStatus(ctx, invitationID, models.InvitationAccepted)
}

// Decline marks the invitation declined, keeping the row
func (a *App) Decline(ctx context.Context, invitationID uuid.UUID, email string) error {
	inv, err := a.repo.GetInvitation(ctx, invitationID)
	if err != nil {
		return err
	}
	if !strings.EqualFold(inv.Email, email) {
		return apperrors.ErrForbidden
	}
	if inv.Status != models.InvitationPending {
		return fmt.Errorf("invitation is no longer pending")
	}
	return a.repo.UpdateInvitationStatus(ctx, invitationID, models.InvitationDeclined)
}

// Cancel deletes an invitation. Only the inviter or the team's creator may
// cancel.
func (a *App) Cancel(ctx context.Context, actorID, invitationID uuid.UUID) error {
	inv, err := a.repo.GetInvitation(ctx, invitationID)
	if err != nil {
		return err
	}
	if inv.InvitedBy != actorID {
		team, err := a.repo.GetTeam(ctx, inv.TeamID)
		if err != nil {
			return err
		}
		if team.CreatedBy != actorID {
			return apperrors.ErrForbidden
		}
	}
	return a.repo.DeleteInvitation(ctx, invitationID)
}

package teams

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hackhub/hackhub/go/internal/apperrors"
	"github.com/hackhub/hackhub/go/internal/models"
	"github.com/hackhub/hackhub/go/internal/pgutil"
)

const teamColumns = `id, name, description, created_by, created_at`

const invitationColumns = `id, team_id, email, invited_by, status, created_at`

// Repository implements team, membership and invitation data access
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new teams repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateTeam inserts a new team row
func (r *Repository) CreateTeam(ctx context.Context, req CreateTeamRequest, createdBy uuid.UUID, createdAt time.Time) (*models.Team, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO teams (name, description, created_by, created_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING `+teamColumns,
		req.Name, req.Description, createdBy, createdAt)

	team, err := scanTeam(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}
	return team, nil
}

// GetTeam retrieves a team by ID without its members
func (r *Repository) GetTeam(ctx context.Context, id uuid.UUID) (*models.Team, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+teamColumns+` FROM teams WHERE id = $1`, id)

	team, err := scanTeam(row)
	if err != nil {
		if pgutil.IsNoRows(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get team: %w", err)
	}
	return team, nil
}

// ListUserTeams returns teams the user created or belongs to, newest first
func (r *Repository) ListUserTeams(ctx context.Context, userID uuid.UUID) ([]models.Team, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT DISTINCT t.id, t.name, t.description, t.created_by, t.created_at
		 FROM teams t
		 LEFT JOIN team_members tm ON tm.team_id = t.id
		 WHERE t.created_by = $1 OR tm.user_id = $1
		 ORDER BY t.created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user teams: %w", err)
	}
	defer rows.Close()
	return collectTeams(rows)
}

// ListCreatedTeams returns teams created by the user, newest first
func (r *Repository) ListCreatedTeams(ctx context.Context, userID uuid.UUID) ([]models.Team, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+teamColumns+` FROM teams WHERE created_by = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list created teams: %w", err)
	}
	defer rows.Close()
	return collectTeams(rows)
}

// UpdateTeam writes the team's mutable fields
func (r *Repository) UpdateTeam(ctx context.Context, team *models.Team) (*models.Team, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE teams SET name = $2, description = $3 WHERE id = $1
		 RETURNING `+teamColumns,
		team.ID, team.Name, team.Description)

	updated, err := scanTeam(row)
	if err != nil {
		if pgutil.IsNoRows(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update team: %w", err)
	}
	return updated, nil
}

// DeleteTeam removes the team row
func (r *Repository) DeleteTeam(ctx context.Context, id uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM teams WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete team: %w", err)
	}
	return nil
}

// AddMember inserts a membership row. A duplicate pair maps to
// apperrors.ErrAlreadyMember via the unique constraint.
func (r *Repository) AddMember(ctx context.Context, teamID, userID uuid.UUID, joinedAt time.Time) (*models.TeamMember, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO team_members (team_id, user_id, joined_at)
		 VALUES ($1, $2, $3)
		 RETURNING id, team_id, user_id, joined_at`,
		teamID, userID, joinedAt)

	var m models.TeamMember
	if err := row.Scan(&m.ID, &m.TeamID, &m.UserID, &m.JoinedAt); err != nil {
		if pgutil.IsUniqueViolation(err) {
			return nil, apperrors.ErrAlreadyMember
		}
		return nil, fmt.Errorf("failed to add team member: %w", err)
	}
	return &m, nil
}

// RemoveMember deletes a membership row. Deleting zero rows is success.
func (r *Repository) RemoveMember(ctx context.Context, teamID, userID uuid.UUID) error {
	if _, err := r.pool.Exec(ctx,
		`DELETE FROM team_members WHERE team_id = $1 AND user_id = $2`, teamID, userID); err != nil {
		return fmt.Errorf("failed to remove team member: %w", err)
	}
	return nil
}

// RemoveAllMembers deletes every membership row for a team
func (r *Repository) RemoveAllMembers(ctx context.Context, teamID uuid.UUID) error {
	if _, err := r.pool.Exec(ctx,
		`DELETE FROM team_members WHERE team_id = $1`, teamID); err != nil {
		return fmt.Errorf("failed to remove team members: %w", err)
	}
	return nil
}

// CountTeamMembers returns the number of members in a team
func (r *Repository) CountTeamMembers(ctx context.Context, teamID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM team_members WHERE team_id = $1`, teamID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count team members: %w", err)
	}
	return count, nil
}

// ListTeamMembers returns a team's members in join order
func (r *Repository) ListTeamMembers(ctx context.Context, teamID uuid.UUID) ([]models.TeamMember, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT id, team_id, user_id, joined_at FROM team_members
		 WHERE team_id = $1 ORDER BY joined_at ASC`, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to list team members: %w", err)
	}
	defer rows.Close()

	var members []models.TeamMember
	for rows.Next() {
		var m models.TeamMember
		if err := rows.Scan(&m.ID, &m.TeamID, &m.UserID, &m.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan team member: %w", err)
		}
		members = append(members, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read team members: %w", err)
	}
	return members, nil
}

// IsMember reports whether the user belongs to the team
func (r *Repository) IsMember(ctx context.Context, teamID, userID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM team_members WHERE team_id = $1 AND user_id = $2)`,
		teamID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check team membership: %w", err)
	}
	return exists, nil
}

// CreateInvitation inserts a pending invitation row
func (r *Repository) CreateInvitation(ctx context.Context, teamID uuid.UUID, email string, invitedBy uuid.UUID, createdAt time.Time) (*models.TeamInvitation, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO team_invitations (team_id, email, invited_by, status, created_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+invitationColumns,
		teamID, email, invitedBy, models.InvitationPending, createdAt)

	inv, err := scanInvitation(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create invitation: %w", err)
	}
	return inv, nil
}

// GetInvitation retrieves an invitation by ID
func (r *Repository) GetInvitation(ctx context.Context, id uuid.UUID) (*models.TeamInvitation, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+invitationColumns+` FROM team_invitations WHERE id = $1`, id)

	inv, err := scanInvitation(row)
	if err != nil {
		if pgutil.IsNoRows(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get invitation: %w", err)
	}
	return inv, nil
}

// ListInvitationsByEmail returns pending invitations addressed to an email,
// newest first.
func (r *Repository) ListInvitationsByEmail(ctx context.Context, email string) ([]models.TeamInvitation, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+invitationColumns+` FROM team_invitations
		 WHERE email = $1 AND status = $2 ORDER BY created_at DESC`,
		email, models.InvitationPending)
	if err != nil {
		return nil, fmt.Errorf("failed to list invitations: %w", err)
	}
	defer rows.Close()

	var invitations []models.TeamInvitation
	for rows.Next() {
		inv, err := scanInvitation(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan invitation: %w", err)
		}
		invitations = append(invitations, *inv)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read invitations: %w", err)
	}
	return invitations, nil
}

// UpdateInvitationStatus sets the invitation's status, keeping the row
func (r *Repository) UpdateInvitationStatus(ctx context.Context, id uuid.UUID, status models.InvitationStatus) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE team_invitations SET status = $2 WHERE id = $1`, id, status)
	if err != nil {
		return fmt.Errorf("failed to update invitation status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// DeleteInvitation removes the invitation row
func (r *Repository) DeleteInvitation(ctx context.Context, id uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM team_invitations WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete invitation: %w", err)
	}
	return nil
}

func scanTeam(row pgx.Row) (*models.Team, error) {
	var t models.Team
	if err := row.Scan(&t.ID, &t.Name, &t.Description, &t.CreatedBy, &t.CreatedAt); err != nil {
		return nil, err
	}
	return &t, nil
}

func collectTeams(rows pgx.Rows) ([]models.Team, error) {
	var teams []models.Team
	for rows.Next() {
		t, err := scanTeam(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan team: %w", err)
		}
		teams = append(teams, *t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read teams: %w", err)
	}
	return teams, nil
}

func scanInvitation(row pgx.Row) (*models.TeamInvitation, error) {
	var inv models.TeamInvitation
	if err := row.Scan(&inv.ID, &inv.TeamID, &inv.Email, &inv.InvitedBy, &inv.Status, &inv.CreatedAt); err != nil {
		return nil, err
	}
	return &inv, nil
}

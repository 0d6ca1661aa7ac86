package registrations

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hackhub/hackhub/go/internal/apperrors"
	"github.com/hackhub/hackhub/go/internal/models"
	"github.com/hackhub/hackhub/go/internal/pgutil"
)

const registrationColumns = `id, hackathon_id, user_id, team_id, registered_at`

// Repository implements registration data access operations. The unique
// indexes on (hackathon_id, user_id) and (hackathon_id, team_id) are the
// real duplicate guard; inserts that lose that race come back as
// apperrors.ErrDuplicateRegistration.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new registrations repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateUserRegistration inserts an individual registration (team_id null)
func (r *Repository) CreateUserRegistration(ctx context.Context, hackathonID, userID uuid.UUID, registeredAt time.Time) (*models.Registration, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO hackathon_registrations (hackathon_id, user_id, team_id, registered_at)
		 VALUES ($1, $2, NULL, $3)
		 RETURNING `+registrationColumns,
		hackathonID, userID, registeredAt)

	reg, err := scanRegistration(row)
	if err != nil {
		if pgutil.IsUniqueViolation(err) {
			return nil, apperrors.ErrDuplicateRegistration
		}
		return nil, fmt.Errorf("failed to create user registration: %w", err)
	}
	return reg, nil
}

// CreateTeamRegistration inserts a team registration (user_id null)
func (r *Repository) CreateTeamRegistration(ctx context.Context, hackathonID, teamID uuid.UUID, registeredAt time.Time) (*models.Registration, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO hackathon_registrations (hackathon_id, user_id, team_id, registered_at)
		 VALUES ($1, NULL, $2, $3)
		 RETURNING `+registrationColumns,
		hackathonID, teamID, registeredAt)

	reg, err := scanRegistration(row)
	if err != nil {
		if pgutil.IsUniqueViolation(err) {
			return nil, apperrors.ErrDuplicateRegistration
		}
		return nil, fmt.Errorf("failed to create team registration: %w", err)
	}
	return reg, nil
}

// UserRegistrationExists reports whether the user is registered for the hackathon
func (r *Repository) UserRegistrationExists(ctx context.Context, hackathonID, userID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM hackathon_registrations WHERE hackathon_id = $1 AND user_id = $2)`,
		hackathonID, userID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check user registration: %w", err)
	}
	return exists, nil
}

// TeamRegistrationExists reports whether the team is registered for the hackathon
func (r *Repository) TeamRegistrationExists(ctx context.Context, hackathonID, teamID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM hackathon_registrations WHERE hackathon_id = $1 AND team_id = $2)`,
		hackathonID, teamID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check team registration: %w", err)
	}
	return exists, nil
}

// ListByHackathon retrieves all registrations for a hackathon
func (r *Repository) ListByHackathon(ctx context.Context, hackathonID uuid.UUID) ([]models.Registration, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+registrationColumns+` FROM hackathon_registrations WHERE hackathon_id = $1`,
		hackathonID)
	if err != nil {
		return nil, fmt.Errorf("failed to list registrations: %w", err)
	}
	defer rows.Close()

	var regs []models.Registration
	for rows.Next() {
		var reg models.Registration
		if err := rows.Scan(&reg.ID, &reg.HackathonID, &reg.UserID, &reg.TeamID, &reg.RegisteredAt); err != nil {
			return nil, fmt.Errorf("failed to scan registration: %w", err)
		}
		regs = append(regs, reg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read registrations: %w", err)
	}
	return regs, nil
}

// DeleteUserRegistration deletes the registration for (hackathon, user).
// Deleting zero rows is not an error.
func (r *Repository) DeleteUserRegistration(ctx context.Context, hackathonID, userID uuid.UUID) error {
	if _, err := r.pool.Exec(ctx,
		`DELETE FROM hackathon_registrations WHERE hackathon_id = $1 AND user_id = $2`,
		hackathonID, userID); err != nil {
		return fmt.Errorf("failed to delete user registration: %w", err)
	}
	return nil
}

// DeleteTeamRegistration deletes the registration for (hackathon, team).
// Deleting zero rows is not an error.
func (r *Repository) DeleteTeamRegistration(ctx context.Context, hackathonID, teamID uuid.UUID) error {
	if _, err := r.pool.Exec(ctx,
		`DELETE FROM hackathon_registrations WHERE hackathon_id = $1 AND team_id = $2`,
		hackathonID, teamID); err != nil {
		return fmt.Errorf("failed to delete team registration: %w", err)
	}
	return nil
}

// DeleteAllForHackathon deletes every registration for a hackathon
func (r *Repository) DeleteAllForHackathon(ctx context.Context, hackathonID uuid.UUID) error {
	if _, err := r.pool.Exec(ctx,
		`DELETE FROM hackathon_registrations WHERE hackathon_id = $1`, hackathonID); err != nil {
		return fmt.Errorf("failed to delete hackathon registrations: %w", err)
	}
	return nil
}

// DeleteAllForTeam deletes every registration referencing a team
func (r *Repository) DeleteAllForTeam(ctx context.Context, teamID uuid.UUID) error {
	if _, err := r.pool.Exec(ctx,
		`DELETE FROM hackathon_registrations WHERE team_id = $1`, teamID); err != nil {
		return fmt.Errorf("failed to delete team registrations: %w", err)
	}
	return nil
}

func scanRegistration(row interface{ Scan(...any) error }) (*models.Registration, error) {
	var reg models.Registration
	err := row.Scan(&reg.ID, &reg.HackathonID, &reg.UserID, &reg.TeamID, &reg.RegisteredAt)
	if err != nil {
		return nil, err
	}
	return &reg, nil
}

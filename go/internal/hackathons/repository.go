package hackathons

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

const hackathonColumns = `id, title, description, start_date, end_date, location, prize, image_url, participation_type, max_team_size, created_by, created_at`

// Repository implements hackathon data access operations
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new hackathons repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateHackathon inserts a new hackathon row
func (r *Repository) CreateHackathon(ctx context.Context, req CreateHackathonRequest, createdBy uuid.UUID, createdAt time.Time) (*models.Hackathon, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO hackathons (title, description, start_date, end_date, location, prize, image_url, participation_type, max_team_size, created_by, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		 RETURNING `+hackathonColumns,
		req.Title, req.Description, req.StartDate, req.EndDate, req.Location,
		req.Prize, req.ImageURL, req.ParticipationType, req.MaxTeamSize, createdBy, createdAt)

	h, err := scanHackathon(row)
	if err != nil {
		return nil, fmt.Errorf("failed to create hackathon: %w", err)
	}
	return h, nil
}

// GetHackathon retrieves a hackathon by ID. A missing row maps to
// apperrors.ErrNotFound rather than a storage error.
func (r *Repository) GetHackathon(ctx context.Context, id uuid.UUID) (*models.Hackathon, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+hackathonColumns+` FROM hackathons WHERE id = $1`, id)

	h, err := scanHackathon(row)
	if err != nil {
		if pgutil.IsNoRows(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get hackathon: %w", err)
	}
	return h, nil
}

// ListHackathons retrieves all hackathons ordered by start date
func (r *Repository) ListHackathons(ctx context.Context) ([]models.Hackathon, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+hackathonColumns+` FROM hackathons ORDER BY start_date ASC NULLS LAST`)
	if err != nil {
		return nil, fmt.Errorf("failed to list hackathons: %w", err)
	}
	defer rows.Close()

	return collectHackathons(rows)
}

// ListRecentHackathons retrieves the most recently created hackathons
func (r *Repository) ListRecentHackathons(ctx context.Context, limit int) ([]models.Hackathon, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+hackathonColumns+` FROM hackathons ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list recent hackathons: %w", err)
	}
	defer rows.Close()

	return collectHackathons(rows)
}

// ListHackathonsByCreator retrieves all hackathons created by a user
func (r *Repository) ListHackathonsByCreator(ctx context.Context, userID uuid.UUID) ([]models.Hackathon, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+hackathonColumns+` FROM hackathons WHERE created_by = $1 ORDER BY created_at DESC`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list hackathons by creator: %w", err)
	}
	defer rows.Close()

	return collectHackathons(rows)
}

// UpdateHackathon writes all mutable columns of the hackathon
func (r *Repository) UpdateHackathon(ctx context.Context, h *models.Hackathon) (*models.Hackathon, error) {
	row := r.pool.QueryRow(ctx,
		`UPDATE hackathons
		 SET title = $2, description = $3, start_date = $4, end_date = $5, location = $6,
		     prize = $7, image_url = $8, participation_type = $9, max_team_size = $10
		 WHERE id = $1
		 RETURNING `+hackathonColumns,
		h.ID, h.Title, h.Description, h.StartDate, h.EndDate, h.Location,
		h.Prize, h.ImageURL, h.ParticipationType, h.MaxTeamSize)

	updated, err := scanHackathon(row)
	if err != nil {
		if pgutil.IsNoRows(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to update hackathon: %w", err)
	}
	return updated, nil
}

// DeleteHackathon deletes a hackathon row by ID
func (r *Repository) DeleteHackathon(ctx context.Context, id uuid.UUID) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM hackathons WHERE id = $1`, id); err != nil {
		return fmt.Errorf("failed to delete hackathon: %w", err)
	}
	return nil
}

func scanHackathon(row pgx.Row) (*models.Hackathon, error) {
	var h models.Hackathon
	err := row.Scan(&h.ID, &h.Title, &h.Description, &h.StartDate, &h.EndDate,
		&h.Location, &h.Prize, &h.ImageURL, &h.ParticipationType, &h.MaxTeamSize,
		&h.CreatedBy, &h.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &h, nil
}

func collectHackathons(rows pgx.Rows) ([]models.Hackathon, error) {
	var hackathons []models.Hackathon
	for rows.Next() {
		h, err := scanHackathon(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan hackathon: %w", err)
		}
		hackathons = append(hackathons, *h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read hackathons: %w", err)
	}
	return hackathons, nil
}

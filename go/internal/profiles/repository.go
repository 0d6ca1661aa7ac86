package profiles

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/hackhub/hackhub/go/internal/apperrors"
	"github.com/hackhub/hackhub/go/internal/models"
	"github.com/hackhub/hackhub/go/internal/pgutil"
)

const profileColumns = `id, full_name, username, bio, country, avatar_url, updated_at`

// Repository implements profile data access operations
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new profiles repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// GetProfile retrieves a profile by user ID
func (r *Repository) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = $1`, userID)

	p, err := scanProfile(row)
	if err != nil {
		if pgutil.IsNoRows(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return p, nil
}

// UpsertProfile writes the profile, creating the row on first save
func (r *Repository) UpsertProfile(ctx context.Context, p *models.Profile) (*models.Profile, error) {
	row := r.pool.QueryRow(ctx,
		`INSERT INTO profiles (id, full_name, username, bio, country, avatar_url, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 ON CONFLICT (id) DO UPDATE SET
		   full_name = EXCLUDED.full_name,
		   username = EXCLUDED.username,
		   bio = EXCLUDED.bio,
		   country = EXCLUDED.country,
		   avatar_url = EXCLUDED.avatar_url,
		   updated_at = EXCLUDED.updated_at
		 RETURNING `+profileColumns,
		p.ID, p.FullName, p.Username, p.Bio, p.Country, p.AvatarURL, p.UpdatedAt)

	saved, err := scanProfile(row)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert profile: %w", err)
	}
	return saved, nil
}

// GetProfiles retrieves profiles for a set of user IDs, keyed by ID.
// Missing profiles are simply absent from the result.
func (r *Repository) GetProfiles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Profile, error) {
	out := make(map[uuid.UUID]models.Profile, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := r.pool.Query(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get profiles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		out[p.ID] = *p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read profiles: %w", err)
	}
	return out, nil
}

func scanProfile(row pgx.Row) (*models.Profile, error) {
	var p models.Profile
	if err := row.Scan(&p.ID, &p.FullName, &p.Username, &p.Bio, &p.Country, &p.AvatarURL, &p.UpdatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

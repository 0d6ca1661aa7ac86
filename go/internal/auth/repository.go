package auth

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

// Repository implements user account data access
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new auth repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// CreateUser inserts a new account. A duplicate email maps to
// apperrors.ErrAlreadyExists.
func (r *Repository) CreateUser(ctx context.Context, email, passHash string, fullName *string, createdAt time.Time) (*models.User, error) {
	var u models.User
	err := r.pool.QueryRow(ctx,
		`INSERT INTO users (email, pass_hash, full_name, created_at)
		 VALUES ($1, $2, $3, $4)
		 RETURNING id, email, full_name, created_at`,
		email, passHash, fullName, createdAt,
	).Scan(&u.ID, &u.Email, &u.FullName, &u.CreatedAt)
	if err != nil {
		if pgutil.IsUniqueViolation(err) {
			return nil, apperrors.ErrAlreadyExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return &u, nil
}

// GetUserByEmail retrieves an account and its password hash by email
func (r *Repository) GetUserByEmail(ctx context.Context, email string) (*models.User, string, error) {
	var u models.User
	var passHash string
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, full_name, created_at, pass_hash FROM users WHERE email = $1`, email,
	).Scan(&u.ID, &u.Email, &u.FullName, &u.CreatedAt, &passHash)
	if err != nil {
		if pgutil.IsNoRows(err) {
			return nil, "", apperrors.ErrNotFound
		}
		return nil, "", fmt.Errorf("failed to get user by email: %w", err)
	}
	return &u, passHash, nil
}

// GetUser retrieves an account by ID
func (r *Repository) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	var u models.User
	err := r.pool.QueryRow(ctx,
		`SELECT id, email, full_name, created_at FROM users WHERE id = $1`, id,
	).Scan(&u.ID, &u.Email, &u.FullName, &u.CreatedAt)
	if err != nil {
		if pgutil.IsNoRows(err) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &u, nil
}

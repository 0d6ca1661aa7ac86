package profiles

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"

	"github.com/hackhub/hackhub/go/internal/apperrors"
	"github.com/hackhub/hackhub/go/internal/models"
)

// ProfilesRepository defines the data access operations the profiles app needs
type ProfilesRepository interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	UpsertProfile(ctx context.Context, p *models.Profile) (*models.Profile, error)
	GetProfiles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Profile, error)
}

// UpdateProfileRequest carries a partial profile update; nil fields are
// unchanged.
type UpdateProfileRequest struct {
	FullName  *string `json:"full_name,omitempty"`
	Username  *string `json:"username,omitempty"`
	Bio       *string `json:"bio,omitempty"`
	Country   *string `json:"country,omitempty"`
	AvatarURL *string `json:"avatar_url,omitempty"`
}

// App implements profile business logic
type App struct {
	repo  ProfilesRepository
	clock clockwork.Clock
}

// NewApp creates a new profiles app
func NewApp(repo ProfilesRepository, clock clockwork.Clock) *App {
	return &App{repo: repo, clock: clock}
}

// GetProfile retrieves the user's profile. A user who never saved one gets
// an empty profile rather than a 404: the row is created lazily on first
// save.
func (a *App) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	p, err := a.repo.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return &models.Profile{ID: userID}, nil
		}
		return nil, err
	}
	return p, nil
}

// UpdateProfile applies a partial update, creating the row on first save
func (a *App) UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*models.Profile, error) {
	p, err := a.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.FullName != nil {
		p.FullName = normalized(req.FullName)
	}
	if req.Username != nil {
		p.Username = normalized(req.Username)
	}
	if req.Bio != nil {
		p.Bio = normalized(req.Bio)
	}
	if req.Country != nil {
		p.Country = normalized(req.Country)
	}
	if req.AvatarURL != nil {
		p.AvatarURL = normalized(req.AvatarURL)
	}
	p.UpdatedAt = a.clock.Now().UTC()

	return a.repo.UpsertProfile(ctx, p)
}

// SetAvatarURL records the avatar's public URL after an upload
func (a *App) SetAvatarURL(ctx context.Context, userID uuid.UUID, url string) (*models.Profile, error) {
	return a.UpdateProfile(ctx, userID, UpdateProfileRequest{AvatarURL: &url})
}

// GetProfiles retrieves profiles for a set of user IDs
func (a *App) GetProfiles(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Profile, error) {
	return a.repo.GetProfiles(ctx, ids)
}

// normalized trims the value and maps an empty string to nil so cleared
// fields store NULL.
func normalized(s *string) *string {
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}

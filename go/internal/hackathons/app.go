package hackathons

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

const (
	minTeamSize = 2
	maxTeamSize = 5

	defaultRecentLimit = 6
)

// HackathonsRepository defines what the app layer needs from the repository
type HackathonsRepository interface {
	CreateHackathon(ctx context.Context, req CreateHackathonRequest, createdBy uuid.UUID, createdAt time.Time) (*models.Hackathon, error)
	GetHackathon(ctx context.Context, id uuid.UUID) (*models.Hackathon, error)
	ListHackathons(ctx context.Context) ([]models.Hackathon, error)
	ListRecentHackathons(ctx context.Context, limit int) ([]models.Hackathon, error)
	ListHackathonsByCreator(ctx context.Context, userID uuid.UUID) ([]models.Hackathon, error)
	UpdateHackathon(ctx context.Context, h *models.Hackathon) (*models.Hackathon, error)
	DeleteHackathon(ctx context.Context, id uuid.UUID) error
}

// RegistrationSweeper removes all registrations referencing a hackathon
// before the hackathon row itself goes away.
type RegistrationSweeper interface {
	DeleteAllForHackathon(ctx context.Context, hackathonID uuid.UUID) error
}

// App handles hackathon business logic
type App struct {
	repo          HackathonsRepository
	registrations RegistrationSweeper
	clock         clockwork.Clock
}

// NewApp creates a new hackathons App
func NewApp(repo HackathonsRepository, registrations RegistrationSweeper, clock clockwork.Clock) *App {
	return &App{
		repo:          repo,
		registrations: registrations,
		clock:         clock,
	}
}

// CreateHackathon creates a new hackathon with validation. Individual
// hackathons get max_team_size forced to 1; team hackathons must declare a
// size between 2 and 5.
func (a *App) CreateHackathon(ctx context.Context, actorID uuid.UUID, req CreateHackathonRequest) (*models.Hackathon, error) {
	if err := validateCreateRequest(&req); err != nil {
		return nil, err
	}

	h, err := a.repo.CreateHackathon(ctx, req, actorID, a.clock.Now().UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to create hackathon: %w", err)
	}

	log.Info().
		Str("hackathon_id", h.ID.String()).
		Str("participation_type", string(h.ParticipationType)).
		Msg("created hackathon")
	return h, nil
}

// GetHackathon retrieves a hackathon by ID
func (a *App) GetHackathon(ctx context.Context, id uuid.UUID) (*models.Hackathon, error) {
	return a.repo.GetHackathon(ctx, id)
}

// ListHackathons retrieves all hackathons ordered by start date
func (a *App) ListHackathons(ctx context.Context) ([]models.Hackathon, error) {
	return a.repo.ListHackathons(ctx)
}

// ListRecentHackathons retrieves the most recently created hackathons
func (a *App) ListRecentHackathons(ctx context.Context, limit int) ([]models.Hackathon, error) {
	if limit <= 0 {
		limit = defaultRecentLimit
	}
	return a.repo.ListRecentHackathons(ctx, limit)
}

// ListHackathonsByCreator retrieves the hackathons created by a user
func (a *App) ListHackathonsByCreator(ctx context.Context, userID uuid.UUID) ([]models.Hackathon, error) {
	return a.repo.ListHackathonsByCreator(ctx, userID)
}

// UpdateHackathon merges the update into the stored hackathon. Only the
// creator may update.
func (a *App) UpdateHackathon(ctx context.Context, actorID, id uuid.UUID, req UpdateHackathonRequest) (*models.Hackathon, error) {
	h, err := a.repo.GetHackathon(ctx, id)
	if err != nil {
		return nil, err
	}
	if h.CreatedBy != actorID {
		return nil, apperrors.ErrForbidden
	}

	applyUpdate(h, req)
	if err := validateHackathon(h); err != nil {
		return nil, err
	}

	updated, err := a.repo.UpdateHackathon(ctx, h)
	if err != nil {
		return nil, fmt.Errorf("failed to update hackathon: %w", err)
	}

	log.Info().Str("hackathon_id", id.String()).Msg("updated hackathon")
	return updated, nil
}

// DeleteHackathon removes the hackathon and its registrations. Only the
// creator may delete. Registrations go first so no registration row is left
// pointing at a missing hackathon; the sequence is not transactional.
func (a *App) DeleteHackathon(ctx context.Context, actorID, id uuid.UUID) error {
	h, err := a.repo.GetHackathon(ctx, id)
	if err != nil {
		return err
	}
	if h.CreatedBy != actorID {
		return apperrors.ErrForbidden
	}

	if err := a.registrations.DeleteAllForHackathon(ctx, id); err != nil {
		return fmt.Errorf("failed to delete hackathon registrations: %w", err)
	}
	if err := a.repo.DeleteHackathon(ctx, id); err != nil {
		return err
	}

	log.Info().Str("hackathon_id", id.String()).Msg("deleted hackathon")
	return nil
}

func validateCreateRequest(req *CreateHackathonRequest) error {
	if req.Title == "" {
		return fmt.Errorf("title is required")
	}
	switch req.ParticipationType {
	case models.ParticipationIndividual:
		// max_team_size is ignored for individual hackathons
		req.MaxTeamSize = 1
	case models.ParticipationTeam:
		if req.MaxTeamSize < minTeamSize || req.MaxTeamSize > maxTeamSize {
			return fmt.Errorf("max_team_size must be between %d and %d for team hackathons", minTeamSize, maxTeamSize)
		}
	default:
		return fmt.Errorf("participation_type must be %q or %q", models.ParticipationIndividual, models.ParticipationTeam)
	}
	return nil
}

func validateHackathon(h *models.Hackathon) error {
	if h.Title == "" {
		return fmt.Errorf("title cannot be empty")
	}
	switch h.ParticipationType {
	case models.ParticipationIndividual:
		h.MaxTeamSize = 1
	case models.ParticipationTeam:
		if h.MaxTeamSize < minTeamSize || h.MaxTeamSize > maxTeamSize {
			return fmt.Errorf("max_team_size must be between %d and %d for team hackathons", minTeamSize, maxTeamSize)
		}
	default:
		return fmt.Errorf("participation_type must be %q or %q", models.ParticipationIndividual, models.ParticipationTeam)
	}
	return nil
}

func applyUpdate(h *models.Hackathon, req UpdateHackathonRequest) {
	if req.Title != nil {
		h.Title = *req.Title
	}
	if req.Description != nil {
		h.Description = req.Description
	}
	if req.StartDate != nil {
		h.StartDate = req.StartDate
	}
	if req.EndDate != nil {
		h.EndDate = req.EndDate
	}
	if req.Location != nil {
		h.Location = req.Location
	}
	if req.Prize != nil {
		h.Prize = req.Prize
	}
	if req.ImageURL != nil {
		h.ImageURL = req.ImageURL
	}
	if req.ParticipationType != nil {
		h.ParticipationType = *req.ParticipationType
	}
	if req.MaxTeamSize != nil {
		h.MaxTeamSize = *req.MaxTeamSize
	}
}

package registrations

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/hackhub/hackhub/go/internal/auth"
	"github.com/hackhub/hackhub/go/internal/httpx"
	"github.com/hackhub/hackhub/go/internal/models"
)

// RegistrationsApp defines what the service layer needs from the registrations application
type RegistrationsApp interface {
	RegisterIndividual(ctx context.Context, hackathonID, userID uuid.UUID) (*models.Registration, error)
	RegisterTeam(ctx context.Context, hackathonID, teamID uuid.UUID) (*models.Registration, error)
	IsUserRegistered(ctx context.Context, hackathonID, userID uuid.UUID) (bool, error)
	ListByHackathon(ctx context.Context, hackathonID uuid.UUID) ([]models.Registration, error)
	UnregisterUser(ctx context.Context, hackathonID, userID uuid.UUID) error
	UnregisterTeam(ctx context.Context, actorID, hackathonID, teamID uuid.UUID) error
	InsightsForCreator(ctx context.Context, actorID, hackathonID uuid.UUID) (*InsightsData, error)
}

// Service exposes the registrations app over HTTP
type Service struct {
	app RegistrationsApp
}

// NewService creates a new registrations HTTP service
func NewService(app RegistrationsApp) *Service {
	return &Service{app: app}
}

// RegisterRoutes registers registration routes with the mux. Every route
// requires a session.
func (s *Service) RegisterRoutes(mux *http.ServeMux, requireAuth func(http.HandlerFunc) http.HandlerFunc) {
	mux.HandleFunc("POST /api/hackathons/{id}/register", requireAuth(s.handleRegisterIndividual))
	mux.HandleFunc("DELETE /api/hackathons/{id}/register", requireAuth(s.handleUnregisterUser))
	mux.HandleFunc("POST /api/hackathons/{id}/register-team", requireAuth(s.handleRegisterTeam))
	mux.HandleFunc("DELETE /api/hackathons/{id}/register-team/{teamID}", requireAuth(s.handleUnregisterTeam))
	mux.HandleFunc("GET /api/hackathons/{id}/registration", requireAuth(s.handleRegistrationStatus))
	mux.HandleFunc("GET /api/hackathons/{id}/registrations", requireAuth(s.handleListRegistrations))
	mux.HandleFunc("GET /api/hackathons/{id}/insights", requireAuth(s.handleInsights))
}

func (s *Service) handleRegisterIndividual(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	hackathonID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httpx.BadRequest(w, "invalid hackathon id")
		return
	}

	reg, err := s.app.RegisterIndividual(r.Context(), hackathonID, identity.ID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, reg)
}

func (s *Service) handleRegisterTeam(w http.ResponseWriter, r *http.Request) {
	hackathonID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httpx.BadRequest(w, "invalid hackathon id")
		return
	}

	var req RegisterTeamRequest
	if err := httpx.DecodeJSON(r, &req); err != nil || req.TeamID == uuid.Nil {
		httpx.BadRequest(w, "team_id is required")
		return
	}

	reg, err := s.app.RegisterTeam(r.Context(), hackathonID, req.TeamID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, reg)
}

func (s *Service) handleUnregisterUser(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	hackathonID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httpx.BadRequest(w, "invalid hackathon id")
		return
	}

	if err := s.app.UnregisterUser(r.Context(), hackathonID, identity.ID); err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]bool{"unregistered": true})
}

func (s *Service) handleUnregisterTeam(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	hackathonID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httpx.BadRequest(w, "invalid hackathon id")
		return
	}
	teamID, err := uuid.Parse(r.PathValue("teamID"))
	if err != nil {
		httpx.BadRequest(w, "invalid team id")
		return
	}

	if err := s.app.UnregisterTeam(r.Context(), identity.ID, hackathonID, teamID); err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]bool{"unregistered": true})
}

func (s *Service) handleRegistrationStatus(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	hackathonID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httpx.BadRequest(w, "invalid hackathon id")
		return
	}

	registered, err := s.app.IsUserRegistered(r.Context(), hackathonID, identity.ID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, RegistrationStatus{Registered: registered})
}

func (s *Service) handleListRegistrations(w http.ResponseWriter, r *http.Request) {
	hackathonID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httpx.BadRequest(w, "invalid hackathon id")
		return
	}

	regs, err := s.app.ListByHackathon(r.Context(), hackathonID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, regs)
}

func (s *Service) handleInsights(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	hackathonID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httpx.BadRequest(w, "invalid hackathon id")
		return
	}

	insights, err := s.app.InsightsForCreator(r.Context(), identity.ID, hackathonID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, insights)
}

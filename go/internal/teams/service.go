package teams

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/hackhub/hackhub/go/internal/auth"
	"github.com/hackhub/hackhub/go/internal/httpx"
	"github.com/hackhub/hackhub/go/internal/models"
)

// TeamsApp defines what the service layer needs from the teams application
type TeamsApp interface {
	CreateTeam(ctx context.Context, req CreateTeamRequest, createdBy uuid.UUID) (*models.Team, error)
	GetTeam(ctx context.Context, id uuid.UUID) (*models.Team, error)
	ListUserTeams(ctx context.Context, userID uuid.UUID) ([]models.Team, error)
	ListCreatedTeams(ctx context.Context, userID uuid.UUID) ([]models.Team, error)
	UpdateTeam(ctx context.Context, actorID, teamID uuid.UUID, req UpdateTeamRequest) (*models.Team, error)
	DeleteTeam(ctx context.Context, actorID, teamID uuid.UUID) error

	AddMember(ctx context.Context, actorID, teamID, userID uuid.UUID) (*models.TeamMember, error)
	RemoveMember(ctx context.Context, actorID, teamID, userID uuid.UUID) error

	Invite(ctx context.Context, actorID, teamID uuid.UUID, email string) (*models.TeamInvitation, error)
	ListInvitationsForEmail(ctx context.Context, email string) ([]models.TeamInvitation, error)
	Accept(ctx context.Context, invitationID, userID uuid.UUID, email string) error
	Decline(ctx context.Context, invitationID uuid.UUID, email string) error
	Cancel(ctx context.Context, actorID, invitationID uuid.UUID) error
}

// Service exposes the teams app over HTTP
type Service struct {
	app TeamsApp
}

// NewService creates a new teams HTTP service
func NewService(app TeamsApp) *Service {
	return &Service{app: app}
}

// RegisterRoutes registers team and invitation routes with the mux
func (s *Service) RegisterRoutes(mux *http.ServeMux, requireAuth func(http.HandlerFunc) http.HandlerFunc) {
	mux.HandleFunc("POST /api/teams", requireAuth(s.handleCreateTeam))
	mux.HandleFunc("GET /api/teams", requireAuth(s.handleListCreatedTeams))
	mux.HandleFunc("GET /api/my/teams", requireAuth(s.handleListMyTeams))
	mux.HandleFunc("GET /api/teams/{id}", requireAuth(s.handleGetTeam))
	mux.HandleFunc("PUT /api/teams/{id}", requireAuth(s.handleUpdateTeam))
	mux.HandleFunc("DELETE /api/teams/{id}", requireAuth(s.handleDeleteTeam))
	mux.HandleFunc("POST /api/teams/{id}/members", requireAuth(s.handleAddMember))
	mux.HandleFunc("DELETE /api/teams/{id}/members/{userID}", requireAuth(s.handleRemoveMember))
	mux.HandleFunc("POST /api/teams/{id}/invitations", requireAuth(s.handleInvite))
	mux.HandleFunc("GET /api/my/invitations", requireAuth(s.handleMyInvitations))
	mux.HandleFunc("POST /api/invitations/{id}/accept", requireAuth(s.handleAccept))
	mux.HandleFunc("POST /api/invitations/{id}/decline", requireAuth(s.handleDecline))
	mux.HandleFunc("DELETE /api/invitations/{id}", requireAuth(s.handleCancel))
}

func (s *Service) handleCreateTeam(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	var req CreateTeamRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.BadRequest(w, "invalid request body")
		return
	}

	team, err := s.app.CreateTeam(r.Context(), req, identity.ID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, team)
}

func (s *Service) handleListCreatedTeams(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	teams, err := s.app.ListCreatedTeams(r.Context(), identity.ID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, teams)
}

func (s *Service) handleListMyTeams(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	teams, err := s.app.ListUserTeams(r.Context(), identity.ID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, teams)
}

func (s *Service) handleGetTeam(w http.ResponseWriter, r *http.Request) {
	teamID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httpx.BadRequest(w, "invalid team id")
		return
	}

	team, err := s.app.GetTeam(r.Context(), teamID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, team)
}

func (s *Service) handleUpdateTeam(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	teamID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httpx.BadRequest(w, "invalid team id")
		return
	}

	var req UpdateTeamRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.BadRequest(w, "invalid request body")
		return
	}

	team, err := s.app.UpdateTeam(r.Context(), identity.ID, teamID, req)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, team)
}

func (s *Service) handleDeleteTeam(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	teamID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httpx.BadRequest(w, "invalid team id")
		return
	}

	if err := s.app.DeleteTeam(r.Context(), identity.ID, teamID); err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (s *Service) handleAddMember(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	teamID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httpx.BadRequest(w, "invalid team id")
		return
	}

	var req AddMemberRequest
	if err := httpx.DecodeJSON(r, &req); err != nil || req.UserID == uuid.Nil {
		httpx.BadRequest(w, "user_id is required")
		return
	}

	member, err := s.app.AddMember(r.Context(), identity.ID, teamID, req.UserID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, member)
}

func (s *Service) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	teamID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httpx.BadRequest(w, "invalid team id")
		return
	}
	userID, err := uuid.Parse(r.PathValue("userID"))
	if err != nil {
		httpx.BadRequest(w, "invalid user id")
		return
	}

	if err := s.app.RemoveMember(r.Context(), identity.ID, teamID, userID); err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]bool{"removed": true})
}

func (s *Service) handleInvite(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	teamID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httpx.BadRequest(w, "invalid team id")
		return
	}

	var req InviteRequest
	if err := httpx.DecodeJSON(r, &req); err != nil || req.Email == "" {
		httpx.BadRequest(w, "email is required")
		return
	}

	inv, err := s.app.Invite(r.Context(), identity.ID, teamID, req.Email)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, inv)
}

func (s *Service) handleMyInvitations(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	invitations, err := s.app.ListInvitationsForEmail(r.Context(), identity.Email)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, invitations)
}

func (s *Service) handleAccept(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	invitationID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httpx.BadRequest(w, "invalid invitation id")
		return
	}

	if err := s.app.Accept(r.Context(), invitationID, identity.ID, identity.Email); err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]bool{"accepted": true})
}

func (s *Service) handleDecline(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	invitationID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httpx.BadRequest(w, "invalid invitation id")
		return
	}

	if err := s.app.Decline(r.Context(), invitationID, identity.Email); err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]bool{"declined": true})
}

func (s *Service) handleCancel(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	invitationID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httpx.BadRequest(w, "invalid invitation id")
		return
	}

	if err := s.app.Cancel(r.Context(), identity.ID, invitationID); err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]bool{"canceled": true})
}

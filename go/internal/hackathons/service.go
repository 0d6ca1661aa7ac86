package hackathons

import (
	"context"
	"fmt"
	"net/http"
	"path"
	"strconv"

	"github.com/google/uuid"

	"github.com/hackhub/hackhub/go/internal/apperrors"
	"github.com/hackhub/hackhub/go/internal/auth"
	"github.com/hackhub/hackhub/go/internal/httpx"
	"github.com/hackhub/hackhub/go/internal/models"
	"github.com/hackhub/hackhub/go/internal/storage"
)

// maxImageUploadBytes caps hackathon image uploads at 5 MiB.
const maxImageUploadBytes = 5 << 20

// HackathonsApp defines what the service layer needs from the hackathons application
type HackathonsApp interface {
	CreateHackathon(ctx context.Context, actorID uuid.UUID, req CreateHackathonRequest) (*models.Hackathon, error)
	GetHackathon(ctx context.Context, id uuid.UUID) (*models.Hackathon, error)
	ListHackathons(ctx context.Context) ([]models.Hackathon, error)
	ListRecentHackathons(ctx context.Context, limit int) ([]models.Hackathon, error)
	ListHackathonsByCreator(ctx context.Context, userID uuid.UUID) ([]models.Hackathon, error)
	UpdateHackathon(ctx context.Context, actorID, id uuid.UUID, req UpdateHackathonRequest) (*models.Hackathon, error)
	DeleteHackathon(ctx context.Context, actorID, id uuid.UUID) error
}

// Service exposes the hackathons app over HTTP
type Service struct {
	app   HackathonsApp
	store storage.Store
}

// NewService creates a new hackathons HTTP service
func NewService(app HackathonsApp, store storage.Store) *Service {
	return &Service{app: app, store: store}
}

// RegisterRoutes registers hackathon routes with the mux. requireAuth wraps
// handlers that need a session.
func (s *Service) RegisterRoutes(mux *http.ServeMux, requireAuth func(http.HandlerFunc) http.HandlerFunc) {
	mux.HandleFunc("GET /api/hackathons", s.handleList)
	mux.HandleFunc("GET /api/hackathons/recent", s.handleListRecent)
	mux.HandleFunc("GET /api/hackathons/{id}", s.handleGet)
	mux.HandleFunc("POST /api/hackathons", requireAuth(s.handleCreate))
	mux.HandleFunc("PUT /api/hackathons/{id}", requireAuth(s.handleUpdate))
	mux.HandleFunc("DELETE /api/hackathons/{id}", requireAuth(s.handleDelete))
	mux.HandleFunc("POST /api/hackathons/{id}/image", requireAuth(s.handleUploadImage))
	mux.HandleFunc("GET /api/my/hackathons", requireAuth(s.handleListMine))
}

func (s *Service) handleList(w http.ResponseWriter, r *http.Request) {
	hackathons, err := s.app.ListHackathons(r.Context())
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, hackathons)
}

func (s *Service) handleListRecent(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > 100 {
			httpx.BadRequest(w, "invalid limit")
			return
		}
		limit = n
	}

	hackathons, err := s.app.ListRecentHackathons(r.Context(), limit)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, hackathons)
}

func (s *Service) handleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httpx.BadRequest(w, "invalid hackathon id")
		return
	}

	h, err := s.app.GetHackathon(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, h)
}

func (s *Service) handleCreate(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	var req CreateHackathonRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.BadRequest(w, "invalid JSON body")
		return
	}

	h, err := s.app.CreateHackathon(r.Context(), identity.ID, req)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusCreated, h)
}

func (s *Service) handleUpdate(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httpx.BadRequest(w, "invalid hackathon id")
		return
	}

	var req UpdateHackathonRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.BadRequest(w, "invalid JSON body")
		return
	}

	h, err := s.app.UpdateHackathon(r.Context(), identity.ID, id, req)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, h)
}

func (s *Service) handleDelete(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httpx.BadRequest(w, "invalid hackathon id")
		return
	}

	if err := s.app.DeleteHackathon(r.Context(), identity.ID, id); err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, map[string]bool{"deleted": true})
}

func (s *Service) handleListMine(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	hackathons, err := s.app.ListHackathonsByCreator(r.Context(), identity.ID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, hackathons)
}

func (s *Service) handleUploadImage(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		httpx.BadRequest(w, "invalid hackathon id")
		return
	}

	// The store write is not undone on a failed update, so the creator
	// check has to happen before anything touches the store.
	h, err := s.app.GetHackathon(r.Context(), id)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	if h.CreatedBy != identity.ID {
		httpx.WriteError(w, apperrors.ErrForbidden)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImageUploadBytes)
	file, header, err := r.FormFile("image")
	if err != nil {
		httpx.BadRequest(w, "image file is required")
		return
	}
	defer file.Close()

	objectPath := fmt.Sprintf("hackathons/%s%s", id, path.Ext(header.Filename))
	url, err := s.store.Upload(r.Context(), objectPath, file, true)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	updated, err := s.app.UpdateHackathon(r.Context(), identity.ID, id, UpdateHackathonRequest{ImageURL: &url})
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, updated)
}

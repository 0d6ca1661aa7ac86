package profiles

import (
	"context"
	"fmt"
	"net/http"
	"path"

	"github.com/google/uuid"

	"github.com/hackhub/hackhub/go/internal/auth"
	"github.com/hackhub/hackhub/go/internal/httpx"
	"github.com/hackhub/hackhub/go/internal/models"
	"github.com/hackhub/hackhub/go/internal/storage"
)

const maxAvatarUploadBytes = 2 << 20

// ProfilesApp defines what the service layer needs from the profiles
// application.
type ProfilesApp interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, req UpdateProfileRequest) (*models.Profile, error)
	SetAvatarURL(ctx context.Context, userID uuid.UUID, url string) (*models.Profile, error)
}

// Service exposes the profiles app over HTTP
type Service struct {
	app   ProfilesApp
	store storage.Store
}

// NewService creates a new profiles HTTP service
func NewService(app ProfilesApp, store storage.Store) *Service {
	return &Service{app: app, store: store}
}

// RegisterRoutes registers profile routes with the mux
func (s *Service) RegisterRoutes(mux *http.ServeMux, requireAuth func(http.HandlerFunc) http.HandlerFunc) {
	mux.HandleFunc("GET /api/profile", requireAuth(s.handleGet))
	mux.HandleFunc("PUT /api/profile", requireAuth(s.handleUpdate))
	mux.HandleFunc("POST /api/profile/avatar", requireAuth(s.handleUploadAvatar))
}

func (s *Service) handleGet(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	p, err := s.app.GetProfile(r.Context(), identity.ID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, p)
}

func (s *Service) handleUpdate(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	var req UpdateProfileRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.BadRequest(w, "invalid request body")
		return
	}

	p, err := s.app.UpdateProfile(r.Context(), identity.ID, req)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, p)
}

func (s *Service) handleUploadAvatar(w http.ResponseWriter, r *http.Request) {
	identity, _ := auth.IdentityFromContext(r.Context())

	r.Body = http.MaxBytesReader(w, r.Body, maxAvatarUploadBytes)
	file, header, err := r.FormFile("avatar")
	if err != nil {
		httpx.BadRequest(w, "avatar file is required")
		return
	}
	defer file.Close()

	objectPath := fmt.Sprintf("avatars/%s%s", identity.ID, path.Ext(header.Filename))
	url, err := s.store.Upload(r.Context(), objectPath, file, true)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	p, err := s.app.SetAvatarURL(r.Context(), identity.ID, url)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, p)
}

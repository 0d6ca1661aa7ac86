package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/hackhub/hackhub/go/internal/httpx"
	"github.com/hackhub/hackhub/go/internal/models"
)

// AuthApp defines what the service layer needs from the auth application
type AuthApp interface {
	SignUp(ctx context.Context, req SignUpRequest) (*models.User, string, error)
	SignIn(ctx context.Context, req SignInRequest) (*models.User, string, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
}

type sessionResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

// Service exposes the auth app over HTTP
type Service struct {
	app          AuthApp
	cookieSecure bool
}

// NewService creates a new auth HTTP service
func NewService(app AuthApp, cookieSecure bool) *Service {
	return &Service{app: app, cookieSecure: cookieSecure}
}

// RegisterRoutes registers auth routes with the mux
func (s *Service) RegisterRoutes(mux *http.ServeMux, requireAuth func(http.HandlerFunc) http.HandlerFunc) {
	mux.HandleFunc("POST /api/auth/signup", s.handleSignUp)
	mux.HandleFunc("POST /api/auth/signin", s.handleSignIn)
	mux.HandleFunc("POST /api/auth/signout", s.handleSignOut)
	mux.HandleFunc("GET /api/me", requireAuth(s.handleMe))
}

func (s *Service) handleSignUp(w http.ResponseWriter, r *http.Request) {
	var req SignUpRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.BadRequest(w, "invalid JSON body")
		return
	}

	user, token, err := s.app.SignUp(r.Context(), req)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}

	s.setSessionCookie(w, token)
	httpx.WriteJSON(w, http.StatusCreated, sessionResponse{User: user, Token: token})
}

func (s *Service) handleSignIn(w http.ResponseWriter, r *http.Request) {
	var req SignInRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.BadRequest(w, "invalid JSON body")
		return
	}

	user, token, err := s.app.SignIn(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			httpx.WriteJSON(w, http.StatusUnauthorized, map[string]string{"error": err.Error()})
			return
		}
		httpx.WriteError(w, err)
		return
	}

	s.setSessionCookie(w, token)
	httpx.WriteJSON(w, http.StatusOK, sessionResponse{User: user, Token: token})
}

func (s *Service) handleSignOut(w http.ResponseWriter, r *http.Request) {
	// Sessions are stateless tokens; sign-out just clears the cookie.
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.cookieSecure,
		MaxAge:   -1,
	})
	httpx.WriteJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Service) handleMe(w http.ResponseWriter, r *http.Request) {
	identity, _ := IdentityFromContext(r.Context())

	user, err := s.app.GetUser(r.Context(), identity.ID)
	if err != nil {
		httpx.WriteError(w, err)
		return
	}
	httpx.WriteJSON(w, http.StatusOK, user)
}

func (s *Service) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   s.cookieSecure,
		MaxAge:   int(tokenLifetime / time.Second),
	})
}

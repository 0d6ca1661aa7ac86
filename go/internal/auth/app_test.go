package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hackhub/hackhub/go/internal/apperrors"
	"github.com/hackhub/hackhub/go/internal/models"
)

type fakeUsers struct {
	byEmail map[string]*models.User
	hashes  map[string]string
}

func newFakeUsers() *fakeUsers {
	return &fakeUsers{
		byEmail: make(map[string]*models.User),
		hashes:  make(map[string]string),
	}
}

func (f *fakeUsers) CreateUser(_ context.Context, email, passHash string, fullName *string, createdAt time.Time) (*models.User, error) {
	if _, ok := f.byEmail[email]; ok {
		return nil, apperrors.ErrAlreadyExists
	}
	u := &models.User{ID: uuid.New(), Email: email, FullName: fullName, CreatedAt: createdAt}
	f.byEmail[email] = u
	f.hashes[email] = passHash
	return u, nil
}

func (f *fakeUsers) GetUserByEmail(_ context.Context, email string) (*models.User, string, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, "", apperrors.ErrNotFound
	}
	return u, f.hashes[email], nil
}

func (f *fakeUsers) GetUser(_ context.Context, id uuid.UUID) (*models.User, error) {
	for _, u := range f.byEmail {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func TestSignUpAndVerifyToken(t *testing.T) {
	clock := clockwork.NewFakeClock()
	app := NewApp(newFakeUsers(), "secret", clock)

	user, token, err := app.SignUp(context.Background(), SignUpRequest{
		Email:    "dev@example.com",
		Password: "hunter22",
	})
	require.NoError(t, err)
	require.NotEmpty(t, token)

	identity, err := app.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, identity.ID)
	assert.Equal(t, "dev@example.com", identity.Email)
}

func TestSignUpValidation(t *testing.T) {
	app := NewApp(newFakeUsers(), "secret", clockwork.NewFakeClock())

	_, _, err := app.SignUp(context.Background(), SignUpRequest{Password: "hunter22"})
	assert.Error(t, err, "email required")

	_, _, err = app.SignUp(context.Background(), SignUpRequest{Email: "dev@example.com", Password: "short"})
	assert.Error(t, err, "password too short")
}

func TestSignUpDuplicateEmail(t *testing.T) {
	app := NewApp(newFakeUsers(), "secret", clockwork.NewFakeClock())

	_, _, err := app.SignUp(context.Background(), SignUpRequest{Email: "dev@example.com", Password: "hunter22"})
	require.NoError(t, err)

	_, _, err = app.SignUp(context.Background(), SignUpRequest{Email: "dev@example.com", Password: "hunter22"})
	assert.ErrorIs(t, err, apperrors.ErrAlreadyExists)
}

func TestSignInWrongPassword(t *testing.T) {
	app := NewApp(newFakeUsers(), "secret", clockwork.NewFakeClock())

	_, _, err := app.SignUp(context.Background(), SignUpRequest{Email: "dev@example.com", Password: "hunter22"})
	require.NoError(t, err)

	_, _, err = app.SignIn(context.Background(), SignInRequest{Email: "dev@example.com", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	// Unknown email yields the same error.
	_, _, err = app.SignIn(context.Background(), SignInRequest{Email: "ghost@example.com", Password: "hunter22"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestSignInIssuesValidToken(t *testing.T) {
	app := NewApp(newFakeUsers(), "secret", clockwork.NewFakeClock())

	user, _, err := app.SignUp(context.Background(), SignUpRequest{Email: "dev@example.com", Password: "hunter22"})
	require.NoError(t, err)

	_, token, err := app.SignIn(context.Background(), SignInRequest{Email: "dev@example.com", Password: "hunter22"})
	require.NoError(t, err)

	identity, err := app.VerifyToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, identity.ID)
}

func TestTokenExpires(t *testing.T) {
	clock := clockwork.NewFakeClock()
	app := NewApp(newFakeUsers(), "secret", clock)

	_, token, err := app.SignUp(context.Background(), SignUpRequest{Email: "dev@example.com", Password: "hunter22"})
	require.NoError(t, err)

	clock.Advance(23 * time.Hour)
	_, err = app.VerifyToken(token)
	assert.NoError(t, err, "still valid inside the lifetime")

	clock.Advance(2 * time.Hour)
	_, err = app.VerifyToken(token)
	assert.Error(t, err, "expired after the lifetime")
}

func TestVerifyTokenRejectsWrongSecret(t *testing.T) {
	clock := clockwork.NewFakeClock()
	app := NewApp(newFakeUsers(), "secret", clock)
	other := NewApp(newFakeUsers(), "different", clock)

	_, token, err := app.SignUp(context.Background(), SignUpRequest{Email: "dev@example.com", Password: "hunter22"})
	require.NoError(t, err)

	_, err = other.VerifyToken(token)
	assert.Error(t, err)
}

func TestRequireAuth(t *testing.T) {
	clock := clockwork.NewFakeClock()
	app := NewApp(newFakeUsers(), "secret", clock)

	user, token, err := app.SignUp(context.Background(), SignUpRequest{Email: "dev@example.com", Password: "hunter22"})
	require.NoError(t, err)

	var seen Identity
	handler := app.RequireAuth(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = IdentityFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	// No credentials.
	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/api/me", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	// Bearer header.
	rec = httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, user.ID, seen.ID)

	// Session cookie.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.AddCookie(&http.Cookie{Name: CookieName, Value: token})
	handler(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	// Garbage token.
	rec = httptest.NewRecorder()
	req = httptest.NewRequest(http.MethodGet, "/api/me", nil)
	req.Header.Set("Authorization", "Bearer not-a-token")
	handler(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

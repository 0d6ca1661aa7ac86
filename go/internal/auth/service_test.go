package auth

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == CookieName {
			return c
		}
	}
	t.Fatalf("no %s cookie set", CookieName)
	return nil
}

func TestSignInSetsSessionCookie(t *testing.T) {
	app := NewApp(newFakeUsers(), "secret", clockwork.NewFakeClock())
	svc := NewService(app, false)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/auth/signup",
		strings.NewReader(`{"email":"dev@example.com","password":"hunter22"}`))
	svc.handleSignUp(rec, req)
	require.Equal(t, http.StatusCreated, rec.Code)

	c := sessionCookie(t, rec)
	assert.NotEmpty(t, c.Value)
	assert.True(t, c.HttpOnly)
	assert.Equal(t, "/", c.Path)
	// The lifetime is relative, not pinned to a wall-clock Expires.
	assert.Equal(t, int(tokenLifetime/time.Second), c.MaxAge)
	assert.True(t, c.Expires.IsZero())
}

func TestSignOutClearsSessionCookie(t *testing.T) {
	app := NewApp(newFakeUsers(), "secret", clockwork.NewFakeClock())
	svc := NewService(app, false)

	rec := httptest.NewRecorder()
	svc.handleSignOut(rec, httptest.NewRequest(http.MethodPost, "/api/auth/signout", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	c := sessionCookie(t, rec)
	assert.Empty(t, c.Value)
	assert.Less(t, c.MaxAge, 0)
}

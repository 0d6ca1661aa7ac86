package auth

import (
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Identity is the session identity threaded through request contexts. The
// rest of the system treats it as opaque: an id, an email and optional
// display metadata.
type Identity struct {
	ID    uuid.UUID `json:"id"`
	Email string    `json:"email"`
	Name  *string   `json:"name,omitempty"`
}

// SignUpRequest represents the data needed to create an account
type SignUpRequest struct {
	Email    string  `json:"email"`
	Password string  `json:"password"`
	FullName *string `json:"full_name,omitempty"`
}

// SignInRequest represents a password sign-in attempt
type SignInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionClaims struct {
	Email string  `json:"email"`
	Name  *string `json:"name,omitempty"`
	jwt.RegisteredClaims
}

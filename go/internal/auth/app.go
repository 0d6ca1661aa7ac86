package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/hackhub/hackhub/go/internal/models"
)

const (
	tokenIssuer   = "hackhub"
	tokenLifetime = 24 * time.Hour

	minPasswordLen = 6
	bcryptCost     = 10
)

// ErrInvalidCredentials is returned for a failed sign-in. The same error
// covers an unknown email and a wrong password so the response does not
// reveal which accounts exist.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UsersRepository defines what the app layer needs from the repository
type UsersRepository interface {
	CreateUser(ctx context.Context, email, passHash string, fullName *string, createdAt time.Time) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, string, error)
	GetUser(ctx context.Context, id uuid.UUID) (*models.User, error)
}

// App handles account and session logic
type App struct {
	repo   UsersRepository
	secret []byte
	clock  clockwork.Clock
}

// NewApp creates a new auth App
func NewApp(repo UsersRepository, secret string, clock clockwork.Clock) *App {
	return &App{
		repo:   repo,
		secret: []byte(secret),
		clock:  clock,
	}
}

// SignUp creates an account and returns it with a fresh session token
func (a *App) SignUp(ctx context.Context, req SignUpRequest) (*models.User, string, error) {
	if req.Email == "" {
		return nil, "", fmt.Errorf("email is required")
	}
	if len(req.Password) < minPasswordLen {
		return nil, "", fmt.Errorf("password must be at least %d characters", minPasswordLen)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		return nil, "", fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := a.repo.CreateUser(ctx, req.Email, string(hash), req.FullName, a.clock.Now().UTC())
	if err != nil {
		return nil, "", err
	}

	token, err := a.issueToken(user)
	if err != nil {
		return nil, "", err
	}

	log.Info().Str("user_id", user.ID.String()).Msg("user signed up")
	return user, token, nil
}

// SignIn verifies the password and returns the account with a session token
func (a *App) SignIn(ctx context.Context, req SignInRequest) (*models.User, string, error) {
	user, passHash, err := a.repo.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword([]byte(passHash), []byte(req.Password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := a.issueToken(user)
	if err != nil {
		return nil, "", err
	}

	log.Info().Str("user_id", user.ID.String()).Msg("user signed in")
	return user, token, nil
}

// GetUser retrieves an account by ID
func (a *App) GetUser(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return a.repo.GetUser(ctx, id)
}

// VerifyToken parses and validates a session token, returning the identity
// it carries.
func (a *App) VerifyToken(tokenStr string) (Identity, error) {
	tok, err := jwt.ParseWithClaims(tokenStr, &sessionClaims{}, func(token *jwt.Token) (any, error) {
		return a.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(a.clock.Now))
	if err != nil || !tok.Valid {
		return Identity{}, fmt.Errorf("invalid session token")
	}

	claims, ok := tok.Claims.(*sessionClaims)
	if !ok {
		return Identity{}, fmt.Errorf("invalid session claims")
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Identity{}, fmt.Errorf("invalid subject in session token")
	}

	return Identity{ID: id, Email: claims.Email, Name: claims.Name}, nil
}

func (a *App) issueToken(user *models.User) (string, error) {
	now := a.clock.Now()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, sessionClaims{
		Email: user.Email,
		Name:  user.FullName,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    tokenIssuer,
		},
	})

	signed, err := tok.SignedString(a.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session token: %w", err)
	}
	return signed, nil
}

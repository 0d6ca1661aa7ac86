package main

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jonboulle/clockwork"

	"github.com/hackhub/hackhub/go/internal/auth"
	"github.com/hackhub/hackhub/go/internal/hackathons"
	"github.com/hackhub/hackhub/go/internal/outbox"
	"github.com/hackhub/hackhub/go/internal/profiles"
	"github.com/hackhub/hackhub/go/internal/registrations"
	"github.com/hackhub/hackhub/go/internal/storage"
	"github.com/hackhub/hackhub/go/internal/teams"
)

type Services struct {
	AuthApp *auth.App

	Auth          *auth.Service
	Hackathons    *hackathons.Service
	Registrations *registrations.Service
	Teams         *teams.Service
	Profiles      *profiles.Service

	OutboxRepo *outbox.Repository
}

func setupServices(pool *pgxpool.Pool, store storage.Store, cfg *Config) *Services {
	// Dependency chain per entity: repository, app, service. Apps depend on
	// each other through narrow interfaces, wired here.
	clock := clockwork.NewRealClock()

	authRepo := auth.NewRepository(pool)
	authApp := auth.NewApp(authRepo, cfg.JWTSecret, clock)
	authService := auth.NewService(authApp, cfg.CookieSecure)

	outboxRepo := outbox.NewRepository(pool)
	recorder := outbox.NewRecorder(outboxRepo, clock)

	hackathonsRepo := hackathons.NewRepository(pool)
	teamsRepo := teams.NewRepository(pool)
	profilesRepo := profiles.NewRepository(pool)

	registrationsApp := registrations.NewApp(
		registrations.NewRepository(pool),
		hackathonsRepo,
		teamsRepo,
		profilesRepo,
		recorder,
		clock,
	)
	registrationsService := registrations.NewService(registrationsApp)

	hackathonsApp := hackathons.NewApp(hackathonsRepo, registrationsApp, clock)
	hackathonsService := hackathons.NewService(hackathonsApp, store)

	teamsApp := teams.NewApp(teamsRepo, registrationsApp, clock)
	teamsService := teams.NewService(teamsApp)

	profilesApp := profiles.NewApp(profilesRepo, clock)
	profilesService := profiles.NewService(profilesApp, store)

	return &Services{
		AuthApp:       authApp,
		Auth:          authService,
		Hackathons:    hackathonsService,
		Registrations: registrationsService,
		Teams:         teamsService,
		Profiles:      profilesService,
		OutboxRepo:    outboxRepo,
	}
}

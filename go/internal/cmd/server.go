package main

import (
	"fmt"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"github.com/rs/zerolog/log"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/hackhub/hackhub/go/internal/live"
	"github.com/hackhub/hackhub/go/internal/metrics"
	"github.com/hackhub/hackhub/go/internal/storage"
)

func setupServer(cfg *Config, services *Services, store *storage.DiskStore, liveHandler *live.Handler) *http.Server {
	mux := http.NewServeMux()

	c := cors.New(cors.Options{
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
			http.MethodPut,
			http.MethodPatch,
			http.MethodDelete,
		},
		AllowedOrigins: []string{"*"},
		AllowedHeaders: []string{"*"},
	})

	registerServices(mux, services)

	if liveHandler != nil {
		liveHandler.RegisterRoutes(mux)
	}

	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("GET /media/", http.StripPrefix("/media/", http.FileServer(http.Dir(store.Root()))))
	setupHealthCheck(mux)

	handler := c.Handler(metrics.Middleware(mux))

	return &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Port),
		Handler: h2c.NewHandler(handler, &http2.Server{}),
	}
}

func registerServices(mux *http.ServeMux, services *Services) {
	requireAuth := services.AuthApp.RequireAuth

	services.Auth.RegisterRoutes(mux, requireAuth)
	services.Hackathons.RegisterRoutes(mux, requireAuth)
	services.Registrations.RegisterRoutes(mux, requireAuth)
	services.Teams.RegisterRoutes(mux, requireAuth)
	services.Profiles.RegisterRoutes(mux, requireAuth)
}

func setupHealthCheck(mux *http.ServeMux) {
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			log.Error().Err(err).Msg("failed to write health check response")
		}
	})
}

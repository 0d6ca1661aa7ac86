package live

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Handler exposes the WebSocket upgrade endpoint for hackathon event feeds
type Handler struct {
	manager *ConnectionManager
}

// NewHandler creates a new WebSocket handler
func NewHandler(manager *ConnectionManager) *Handler {
	return &Handler{manager: manager}
}

// RegisterRoutes registers the feed endpoint with the mux
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /ws/hackathons", h.handleConnect)
}

func (h *Handler) handleConnect(w http.ResponseWriter, r *http.Request) {
	idStr := r.URL.Query().Get("hackathon_id")
	if idStr == "" {
		http.Error(w, "hackathon_id is required", http.StatusBadRequest)
		return
	}

	hackathonID, err := uuid.Parse(idStr)
	if err != nil {
		http.Error(w, "invalid hackathon_id", http.StatusBadRequest)
		return
	}

	if err := h.manager.Upgrade(w, r, hackathonID); err != nil {
		log.Error().Err(err).
			Str("hackathon_id", hackathonID.String()).
			Msg("failed to upgrade WebSocket connection")
	}
}

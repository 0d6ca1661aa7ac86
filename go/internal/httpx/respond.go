// Package httpx holds the JSON request/response helpers shared by the
// service layer. Domain errors surface here and nowhere else.
package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/hackhub/hackhub/go/internal/apperrors"
)

type errorBody struct {
	Error string `json:"error"`
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("failed to encode JSON response")
	}
}

// WriteError maps a domain error onto an HTTP status and writes it as a
// transient-notification style body. Unclassified errors become 500 with a
// generic message so storage details never leak to clients.
func WriteError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound):
		WriteJSON(w, http.StatusNotFound, errorBody{Error: err.Error()})
	case errors.Is(err, apperrors.ErrDuplicateRegistration),
		errors.Is(err, apperrors.ErrAlreadyMember),
		errors.Is(err, apperrors.ErrAlreadyExists):
		WriteJSON(w, http.StatusConflict, errorBody{Error: err.Error()})
	case errors.Is(err, apperrors.ErrInvalidParticipationType):
		WriteJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
	case errors.Is(err, apperrors.ErrTeamTooSmall), errors.Is(err, apperrors.ErrTeamTooLarge):
		WriteJSON(w, http.StatusUnprocessableEntity, errorBody{Error: err.Error()})
	case errors.Is(err, apperrors.ErrAuthRequired):
		WriteJSON(w, http.StatusUnauthorized, errorBody{Error: err.Error()})
	case errors.Is(err, apperrors.ErrForbidden):
		WriteJSON(w, http.StatusForbidden, errorBody{Error: err.Error()})
	default:
		log.Error().Err(err).Msg("request failed")
		WriteJSON(w, http.StatusInternalServerError, errorBody{Error: "internal error"})
	}
}

// BadRequest writes a 400 with the given message.
func BadRequest(w http.ResponseWriter, msg string) {
	WriteJSON(w, http.StatusBadRequest, errorBody{Error: msg})
}

// DecodeJSON decodes the request body into v.
func DecodeJSON(r *http.Request, v any) error {
	return json.NewDecoder(r.Body).Decode(v)
}

package server

import (
	"errors"
	"net/http"

	"score4/internal/board"
	"score4/internal/session"
)

// errorBody is the uniform JSON error shape. Kind is a stable machine
// readable code; Message is for humans.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// kindOf maps machine errors to an HTTP status and a stable error code.
func kindOf(err error) (int, string) {
	switch {
	case errors.Is(err, session.ErrGameNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, session.ErrNotParticipant):
		return http.StatusForbidden, "not_a_participant"
	case errors.Is(err, session.ErrNotYourTurn):
		return http.StatusConflict, "not_your_turn"
	case errors.Is(err, board.ErrColumnFull):
		return http.StatusConflict, "column_full"
	case errors.Is(err, session.ErrGameFull):
		return http.StatusConflict, "game_full"
	case errors.Is(err, session.ErrGameFinished):
		return http.StatusConflict, "game_finished"
	case errors.Is(err, session.ErrGameNotReady):
		return http.StatusConflict, "waiting_for_opponent"
	case errors.Is(err, session.ErrGameNotFinished):
		return http.StatusConflict, "game_in_progress"
	case errors.Is(err, session.ErrConflict):
		return http.StatusConflict, "conflict"
	case errors.Is(err, session.ErrMalformed):
		return http.StatusBadRequest, "malformed"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status, kind := kindOf(err)
	if status == http.StatusInternalServerError {
		s.logger.Error("request failed", "error", err)
	}
	s.writeJSON(w, status, errorBody{Error: kind, Message: err.Error()})
}

func (s *Server) writeIdentityRequired(w http.ResponseWriter) {
	s.writeJSON(w, http.StatusUnauthorized, errorBody{
		Error:   "identity_required",
		Message: "set the X-Player-ID header",
	})
}

package server

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"score4/internal/board"
	"score4/internal/realtime"
	"score4/internal/session"
)

// createRequest leaves Difficulty a pointer so an omitted field falls back
// to the configured default while an explicit 0 stays 0.
type createRequest struct {
	Mode       session.Mode `json:"mode"`
	Rule       session.Rule `json:"rule"`
	Difficulty *int         `json:"difficulty"`
}

type moveRequest struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	id, ok := s.resolver.Resolve(r)
	if !ok {
		s.writeIdentityRequired(w)
		return
	}
	// an empty body creates a game with server defaults
	var req createRequest
	if err := decodeJSON(r, &req); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, fmt.Errorf("%w: %v", session.ErrMalformed, err))
		return
	}
	g, err := s.machine.Create(r.Context(), id, session.CreateParams{
		Mode:       req.Mode,
		Rule:       req.Rule,
		Difficulty: req.Difficulty,
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, session.NewSnapshot(g))
}

func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	g, err := s.machine.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	// polling clients must always observe the freshest state
	w.Header().Set("Cache-Control", "no-store, max-age=0, must-revalidate")
	s.writeJSON(w, http.StatusOK, session.NewSnapshot(g))
}

type joinResponse struct {
	Seat string           `json:"seat"`
	Game session.Snapshot `json:"game"`
}

func (s *Server) handleJoin(w http.ResponseWriter, r *http.Request) {
	id, ok := s.resolver.Resolve(r)
	if !ok {
		s.writeIdentityRequired(w)
		return
	}
	g, seat, err := s.machine.Join(r.Context(), id, r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, joinResponse{
		Seat: seat.String(),
		Game: session.NewSnapshot(g),
	})
}

func (s *Server) handleMove(w http.ResponseWriter, r *http.Request) {
	id, ok := s.resolver.Resolve(r)
	if !ok {
		s.writeIdentityRequired(w)
		return
	}
	var req moveRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, fmt.Errorf("%w: %v", session.ErrMalformed, err))
		return
	}
	g, err := s.machine.Move(r.Context(), id, r.PathValue("id"), board.Column{X: req.X, Y: req.Y})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, session.NewSnapshot(g))
}

type rematchResponse struct {
	Status session.RematchStatus `json:"status"`
	Game   session.Snapshot      `json:"game"`
}

func (s *Server) handleRematch(w http.ResponseWriter, r *http.Request) {
	id, ok := s.resolver.Resolve(r)
	if !ok {
		s.writeIdentityRequired(w)
		return
	}
	g, status, err := s.machine.VoteRematch(r.Context(), id, r.PathValue("id"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, rematchResponse{
		Status: status,
		Game:   session.NewSnapshot(g),
	})
}

type chatResponse struct {
	Messages []realtime.ChatMessage `json:"messages"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	gameID := r.PathValue("id")
	if _, err := s.machine.Get(r.Context(), gameID); err != nil {
		s.writeError(w, err)
		return
	}
	msgs := s.hub.Chat(gameID)
	if msgs == nil {
		msgs = []realtime.ChatMessage{}
	}
	s.writeJSON(w, http.StatusOK, chatResponse{Messages: msgs})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	id, ok := s.resolver.Resolve(r)
	if !ok {
		s.writeIdentityRequired(w)
		return
	}
	gameID := r.PathValue("id")
	if _, err := s.machine.Get(r.Context(), gameID); err != nil {
		s.writeError(w, err)
		return
	}
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("websocket upgrade failed", "game", gameID, "error", err)
		return
	}
	s.hub.Attach(conn, gameID, id.ID)
}

// Package server exposes the game machine over a JSON HTTP API plus a
// per-game websocket channel.
package server

import (
	"encoding/json"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"

	"score4/internal/realtime"
	"score4/internal/session"
)

// Server binds the state machine and the realtime hub to HTTP routes.
type Server struct {
	machine  *session.Machine
	hub      *realtime.Hub
	resolver Resolver
	logger   *log.Logger
	upgrader websocket.Upgrader
}

// New builds a Server with the default header resolver.
func New(machine *session.Machine, hub *realtime.Hub, logger *log.Logger) *Server {
	return &Server{
		machine:  machine,
		hub:      hub,
		resolver: HeaderResolver{},
		logger:   logger,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// SetResolver replaces the identity resolver.
func (s *Server) SetResolver(r Resolver) {
	s.resolver = r
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/games", s.handleCreate)
	mux.HandleFunc("GET /api/games/{id}", s.handleSnapshot)
	mux.HandleFunc("POST /api/games/{id}/join", s.handleJoin)
	mux.HandleFunc("POST /api/games/{id}/move", s.handleMove)
	mux.HandleFunc("POST /api/games/{id}/rematch", s.handleRematch)
	mux.HandleFunc("GET /api/games/{id}/chat", s.handleChat)
	mux.HandleFunc("GET /api/games/{id}/ws", s.handleWS)
	return mux
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("encode response", "error", err)
	}
}

func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

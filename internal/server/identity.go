package server

import (
	"net/http"
	"strconv"

	"score4/internal/session"
)

// Resolver extracts the caller's identity from a request. Identity
// management itself lives outside this service; the server only needs a
// stable id per participant.
type Resolver interface {
	Resolve(r *http.Request) (session.Identity, bool)
}

// HeaderResolver reads the identity from the X-Player-ID and X-Player-Bot
// headers, falling back to the player and bot query parameters for clients
// that cannot set headers on a websocket upgrade.
type HeaderResolver struct{}

func (HeaderResolver) Resolve(r *http.Request) (session.Identity, bool) {
	id := r.Header.Get("X-Player-ID")
	bot := r.Header.Get("X-Player-Bot")
	if id == "" {
		id = r.URL.Query().Get("player")
		bot = r.URL.Query().Get("bot")
	}
	if id == "" {
		return session.Identity{}, false
	}
	isBot, _ := strconv.ParseBool(bot)
	return session.Identity{ID: id, Bot: isBot}, true
}

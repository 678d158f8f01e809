// Package realtime fans game events out to websocket subscribers. The hub
// keeps one subscriber set per game and never blocks the publisher: a slow
// client loses events and resyncs from the snapshot endpoint.
package realtime

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"score4/internal/session"
)

// EventChat carries one chat message to a game's subscribers.
const EventChat session.EventKind = "chat-message"

// Event is the wire envelope for every message pushed to subscribers.
type Event struct {
	Type    session.EventKind `json:"type"`
	GameID  string            `json:"gameId"`
	Payload any               `json:"payload,omitempty"`
}

// DisconnectHandler is called when a subscriber drops off a game. The hub
// reports every departure; the handler decides whether it matters.
type DisconnectHandler func(gameID, playerID string)

// Hub tracks websocket subscribers per game and implements
// session.Publisher.
type Hub struct {
	logger *log.Logger

	mu    sync.RWMutex
	rooms map[string]map[*Client]struct{}
	chats map[string]*ChatLog

	onDisconnect DisconnectHandler
}

// NewHub creates an empty hub.
func NewHub(logger *log.Logger) *Hub {
	return &Hub{
		logger: logger,
		rooms:  make(map[string]map[*Client]struct{}),
		chats:  make(map[string]*ChatLog),
	}
}

// SetDisconnectHandler installs the departure callback. Must be called
// before the first subscriber attaches.
func (h *Hub) SetDisconnectHandler(fn DisconnectHandler) {
	h.onDisconnect = fn
}

// Publish broadcasts an event to every subscriber of the game. It never
// blocks: clients whose send buffer is full are skipped.
func (h *Hub) Publish(gameID string, kind session.EventKind, payload any) {
	data, err := json.Marshal(Event{Type: kind, GameID: gameID, Payload: payload})
	if err != nil {
		h.logger.Error("encode event", "game", gameID, "type", kind, "error", err)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.rooms[gameID] {
		select {
		case c.send <- data:
		default:
			h.logger.Warn("subscriber lagging, dropping event",
				"game", gameID, "player", c.playerID, "type", kind)
		}
	}
}

// Chat returns the message history of a game, oldest first.
func (h *Hub) Chat(gameID string) []ChatMessage {
	h.mu.RLock()
	cl := h.chats[gameID]
	h.mu.RUnlock()
	if cl == nil {
		return nil
	}
	return cl.Messages()
}

// SubscriberCount reports the number of attached clients for a game.
func (h *Hub) SubscriberCount(gameID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[gameID])
}

func (h *Hub) register(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	room := h.rooms[c.gameID]
	if room == nil {
		room = make(map[*Client]struct{})
		h.rooms[c.gameID] = room
	}
	room[c] = struct{}{}
	h.logger.Debug("subscriber attached", "game", c.gameID, "player", c.playerID)
}

func (h *Hub) unregister(c *Client) {
	h.mu.Lock()
	room := h.rooms[c.gameID]
	if _, ok := room[c]; !ok {
		h.mu.Unlock()
		return
	}
	delete(room, c)
	if len(room) == 0 {
		delete(h.rooms, c.gameID)
	}
	close(c.send)
	h.mu.Unlock()

	h.logger.Debug("subscriber detached", "game", c.gameID, "player", c.playerID)
	if h.onDisconnect != nil {
		h.onDisconnect(c.gameID, c.playerID)
	}
}

// postChat appends a message to the game's chat log and broadcasts it.
func (h *Hub) postChat(gameID, from, text string) {
	h.mu.Lock()
	cl := h.chats[gameID]
	if cl == nil {
		cl = NewChatLog(chatHistorySize)
		h.chats[gameID] = cl
	}
	msg, ok := cl.Append(from, text, time.Now())
	h.mu.Unlock()
	if !ok {
		return
	}
	h.Publish(gameID, EventChat, msg)
}

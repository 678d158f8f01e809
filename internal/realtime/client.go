package realtime

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 120 * time.Second
	pingPeriod     = 30 * time.Second
	maxMessageSize = 1024
)

// inbound is the only message shape clients may send. Everything else on
// the socket is game state pushed by the hub.
type inbound struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// Client is one websocket subscriber of a game.
type Client struct {
	hub      *Hub
	conn     *websocket.Conn
	gameID   string
	playerID string
	send     chan []byte
}

// Attach registers a freshly upgraded connection with the hub and starts
// its pumps. The read pump runs on the caller's goroutine and returns when
// the connection dies.
func (h *Hub) Attach(conn *websocket.Conn, gameID, playerID string) {
	c := &Client{
		hub:      h,
		conn:     conn,
		gameID:   gameID,
		playerID: playerID,
		send:     make(chan []byte, 64),
	}
	h.register(c)
	go c.writePump()
	c.readPump()
}

func (c *Client) readPump() {
	defer func() {
		c.hub.unregister(c)
		_ = c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				c.hub.logger.Debug("websocket read error",
					"game", c.gameID, "player", c.playerID, "error", err)
			}
			return
		}

		var in inbound
		if err := json.Unmarshal(data, &in); err != nil {
			continue
		}
		if in.Type == "chat" {
			c.hub.postChat(c.gameID, c.playerID, in.Text)
		}
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
				_ = c.conn.WriteMessage(websocket.CloseMessage, nil)
				return
			}
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

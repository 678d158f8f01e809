package realtime

import (
	"encoding/json"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"score4/internal/session"
)

func newTestHub() *Hub {
	return NewHub(log.New(io.Discard))
}

// testClient attaches a pumpless subscriber so tests can observe the send
// channel directly.
func testClient(h *Hub, gameID, playerID string, buffer int) *Client {
	c := &Client{hub: h, gameID: gameID, playerID: playerID, send: make(chan []byte, buffer)}
	h.register(c)
	return c
}

func decodeEvent(t *testing.T, data []byte) Event {
	t.Helper()
	var ev Event
	require.NoError(t, json.Unmarshal(data, &ev))
	return ev
}

func TestPublishFansOutToGameSubscribers(t *testing.T) {
	h := newTestHub()
	a := testClient(h, "g1", "alice", 4)
	b := testClient(h, "g1", "bob", 4)
	other := testClient(h, "g2", "carol", 4)

	h.Publish("g1", session.EventStateUpdated, map[string]int{"version": 3})

	for _, c := range []*Client{a, b} {
		select {
		case data := <-c.send:
			ev := decodeEvent(t, data)
			assert.Equal(t, session.EventStateUpdated, ev.Type)
			assert.Equal(t, "g1", ev.GameID)
		default:
			t.Fatalf("subscriber %s received nothing", c.playerID)
		}
	}
	assert.Empty(t, other.send, "other game must not receive the event")
}

func TestPublishDropsWhenSubscriberIsFull(t *testing.T) {
	h := newTestHub()
	c := testClient(h, "g1", "alice", 1)
	c.send <- []byte("stale")

	h.Publish("g1", session.EventStateUpdated, nil)

	assert.Len(t, c.send, 1, "full subscriber must be skipped, not blocked on")
}

func TestUnregisterReportsDisconnect(t *testing.T) {
	h := newTestHub()
	var gotGame, gotPlayer string
	h.SetDisconnectHandler(func(gameID, playerID string) {
		gotGame, gotPlayer = gameID, playerID
	})

	c := testClient(h, "g1", "alice", 4)
	require.Equal(t, 1, h.SubscriberCount("g1"))

	h.unregister(c)

	assert.Equal(t, "g1", gotGame)
	assert.Equal(t, "alice", gotPlayer)
	assert.Zero(t, h.SubscriberCount("g1"))

	_, open := <-c.send
	assert.False(t, open, "send channel must be closed on unregister")

	// double unregister is a no-op
	gotPlayer = ""
	h.unregister(c)
	assert.Empty(t, gotPlayer)
}

func TestChatAppendsAndBroadcasts(t *testing.T) {
	h := newTestHub()
	c := testClient(h, "g1", "alice", 4)

	h.postChat("g1", "alice", "  hello there  ")

	msgs := h.Chat("g1")
	require.Len(t, msgs, 1)
	assert.Equal(t, "alice", msgs[0].From)
	assert.Equal(t, "hello there", msgs[0].Text)

	select {
	case data := <-c.send:
		ev := decodeEvent(t, data)
		assert.Equal(t, EventChat, ev.Type)
	default:
		t.Fatal("chat message was not broadcast")
	}
}

func TestChatIgnoresBlankMessages(t *testing.T) {
	h := newTestHub()
	c := testClient(h, "g1", "alice", 4)

	h.postChat("g1", "alice", "   ")

	assert.Empty(t, h.Chat("g1"))
	assert.Empty(t, c.send)
}

func TestChatHistoryIsBounded(t *testing.T) {
	h := newTestHub()
	for i := 0; i < chatHistorySize+10; i++ {
		h.postChat("g1", "alice", fmt.Sprintf("msg %d", i))
	}

	msgs := h.Chat("g1")
	require.Len(t, msgs, chatHistorySize)
	assert.Equal(t, "msg 10", msgs[0].Text, "oldest entries must be evicted first")
	assert.Equal(t, fmt.Sprintf("msg %d", chatHistorySize+9), msgs[len(msgs)-1].Text)
}

func TestChatLogTruncatesOversizedText(t *testing.T) {
	l := NewChatLog(4)
	long := make([]rune, maxChatRunes+100)
	for i := range long {
		long[i] = 'x'
	}

	msg, ok := l.Append("alice", string(long), time.Now())
	require.True(t, ok)
	assert.Len(t, []rune(msg.Text), maxChatRunes)
}

func TestChatForUnknownGameIsEmpty(t *testing.T) {
	h := newTestHub()
	assert.Empty(t, h.Chat("nope"))
}

// Package session owns every authoritative state transition of a game:
// create, join, submit-move, vote-rematch, abandon, and the staleness
// sweep. The persisted Game record is the single source of truth; nothing
// outside this package mutates it.
package session

import (
	"context"
	"time"

	"score4/internal/board"
)

// Mode distinguishes playing against the built-in opponent from playing
// against another human.
type Mode string

const (
	ModeComputer Mode = "computer"
	ModeHuman    Mode = "human"
)

// Rule is the win policy applied uniformly for the whole game, chosen at
// creation time.
type Rule string

const (
	// RuleFirstLine ends the game the instant any line completes.
	RuleFirstLine Rule = "first_line"
	// RuleFullBoard ends the game when the board is full; most completed
	// lines wins.
	RuleFullBoard Rule = "full_board"
)

// Outcome is the winner of a finished game.
type Outcome string

const (
	OutcomeNone  Outcome = "none"
	OutcomeWhite Outcome = "white"
	OutcomeBlack Outcome = "black"
	OutcomeDraw  Outcome = "draw"
)

func outcomeFor(c board.Cell) Outcome {
	switch c {
	case board.White:
		return OutcomeWhite
	case board.Black:
		return OutcomeBlack
	default:
		return OutcomeNone
	}
}

// Move is one entry of a game's ordered move history.
type Move struct {
	X     int        `json:"x"`
	Y     int        `json:"y"`
	Color board.Cell `json:"color"`
}

// Scores are cumulative completed-line counts for the whole session: they
// carry across rematch resets.
type Scores struct {
	White int `json:"white"`
	Black int `json:"black"`
}

// Identity is a resolved caller identity, produced by the external
// identity/session system. Bot marks non-human participants, which the
// rematch auto-vote consumes.
type Identity struct {
	ID  string
	Bot bool
}

// ComputerID is the identity occupying the black seat of computer games.
const ComputerID = "computer"

// Game is the authoritative record of one game session.
type Game struct {
	ID      string
	WhiteID string
	// BlackID is empty until a second participant joins a human game.
	BlackID  string
	BlackBot bool

	Board      board.Board
	Turn       board.Cell
	StartColor board.Cell

	// ScoreCarry accumulates line counts from earlier games of this
	// session; Scores is always ScoreCarry plus the current board's
	// evaluation.
	ScoreCarry Scores
	Scores     Scores

	Winner    Outcome
	Finished  bool
	Abandoned bool

	Mode       Mode
	Rule       Rule
	Difficulty int

	Moves        []Move
	RematchWhite bool
	RematchBlack bool
	WinningCells []board.Coord

	// Version increments on every persisted write and keys the store's
	// conditional update.
	Version   int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Waiting reports whether the game is still waiting for a second
// participant.
func (g *Game) Waiting() bool {
	return g.BlackID == ""
}

// SeatOf returns the color the identity occupies, or Empty for
// non-participants.
func (g *Game) SeatOf(id string) board.Cell {
	switch {
	case id != "" && id == g.WhiteID:
		return board.White
	case id != "" && id == g.BlackID:
		return board.Black
	default:
		return board.Empty
	}
}

func (g *Game) seatID(c board.Cell) string {
	switch c {
	case board.White:
		return g.WhiteID
	case board.Black:
		return g.BlackID
	default:
		return ""
	}
}

// Store is the persistence boundary. Update must be an atomic conditional
// write keyed on the game's Version, returning ErrConflict when the
// precondition no longer holds.
type Store interface {
	Create(ctx context.Context, g *Game) error
	Get(ctx context.Context, id string) (*Game, error)
	Update(ctx context.Context, g *Game) error
	// ListStale returns unfinished human-vs-human games with no update
	// since cutoff.
	ListStale(ctx context.Context, cutoff time.Time) ([]*Game, error)
}

// EventKind names the real-time events fanned out to a game's channel.
type EventKind string

const (
	EventStateUpdated     EventKind = "state-updated"
	EventGameReset        EventKind = "game-reset"
	EventRematchRequested EventKind = "rematch-requested"
	EventGameAbandoned    EventKind = "game-abandoned"
)

// Publisher is the narrow fan-out capability injected into the machine.
// Publish is fire-and-forget: the writer never waits on subscribers.
// Publishes from concurrent requests are not ordered relative to each
// other; snapshot payloads carry Version so receivers can drop stale ones.
type Publisher interface {
	Publish(gameID string, kind EventKind, payload any)
}

// NopPublisher discards every event. Used by the sweep command and tests.
type NopPublisher struct{}

func (NopPublisher) Publish(string, EventKind, any) {}

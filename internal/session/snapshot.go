package session

import (
	"time"

	"score4/internal/board"
)

// Snapshot is the full game state served to polling clients and carried by
// state-update events. Version lets subscribers discard a snapshot that
// arrives after a newer one; the polling endpoint always serves the latest.
type Snapshot struct {
	ID           string        `json:"id"`
	White        string        `json:"white"`
	Black        string        `json:"black,omitempty"`
	Board        board.Board   `json:"board"`
	Turn         board.Cell    `json:"turn"`
	StartColor   board.Cell    `json:"startColor"`
	Scores       Scores        `json:"scores"`
	Winner       Outcome       `json:"winner"`
	Finished     bool          `json:"finished"`
	Abandoned    bool          `json:"abandoned"`
	Waiting      bool          `json:"waiting"`
	Mode         Mode          `json:"mode"`
	Rule         Rule          `json:"rule"`
	Difficulty   int           `json:"difficulty"`
	Moves        []Move        `json:"moves"`
	RematchWhite bool          `json:"rematchWhite"`
	RematchBlack bool          `json:"rematchBlack"`
	WinningCells []board.Coord `json:"winningCells,omitempty"`
	Version      int64         `json:"version"`
	UpdatedAt    time.Time     `json:"updatedAt"`
}

// NewSnapshot copies the authoritative fields of g into a wire shape.
func NewSnapshot(g *Game) Snapshot {
	return Snapshot{
		ID:           g.ID,
		White:        g.WhiteID,
		Black:        g.BlackID,
		Board:        g.Board,
		Turn:         g.Turn,
		StartColor:   g.StartColor,
		Scores:       g.Scores,
		Winner:       g.Winner,
		Finished:     g.Finished,
		Abandoned:    g.Abandoned,
		Waiting:      g.Waiting(),
		Mode:         g.Mode,
		Rule:         g.Rule,
		Difficulty:   g.Difficulty,
		Moves:        g.Moves,
		RematchWhite: g.RematchWhite,
		RematchBlack: g.RematchBlack,
		WinningCells: g.WinningCells,
		Version:      g.Version,
		UpdatedAt:    g.UpdatedAt,
	}
}

// Package board implements the pure 4x4x4 game grid: gravity drops, line
// evaluation, and board inspection. Boards are small value types with no
// I/O and no locking; callers own all concurrency concerns.
package board

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Size is the edge length of the cube. Every dimension, including the
// stacking height, spans [0, Size).
const Size = 4

// Cell is the occupant of a single grid position.
type Cell uint8

const (
	Empty Cell = iota
	White
	Black
)

func (c Cell) String() string {
	switch c {
	case White:
		return "white"
	case Black:
		return "black"
	default:
		return "empty"
	}
}

// MarshalJSON encodes the cell by name so wire payloads read "white" and
// "black" like every other enum in the API.
func (c Cell) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.String())
}

func (c *Cell) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	switch s {
	case "white":
		*c = White
	case "black":
		*c = Black
	case "empty":
		*c = Empty
	default:
		return fmt.Errorf("%w: %q", ErrInvalidCell, s)
	}
	return nil
}

// Opponent returns the other playing color. Calling it on Empty returns Empty.
func (c Cell) Opponent() Cell {
	switch c {
	case White:
		return Black
	case Black:
		return White
	default:
		return Empty
	}
}

var (
	ErrColumnFull       = errors.New("column full")
	ErrColumnOutOfRange = errors.New("column out of range")
	ErrInvalidCell      = errors.New("invalid cell value")
)

// Column identifies one of the 16 (x, y) positions a piece can be dropped
// into. A column holds up to Size stacked pieces.
type Column struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// Valid reports whether the column lies inside the grid.
func (c Column) Valid() bool {
	return c.X >= 0 && c.X < Size && c.Y >= 0 && c.Y < Size
}

// Coord addresses a single cell of the cube; Z is the stacking height.
type Coord struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

// Board is the full cube, indexed [x][y][z]. Within a column all occupied
// cells are contiguous starting at z=0: a drop always lands on the lowest
// empty cell.
type Board struct {
	Grid  [Size][Size][Size]Cell `json:"grid"`
	Moves int                    `json:"moves"`
}

// New returns an empty board.
func New() Board {
	return Board{}
}

// At returns the occupant of co.
func (b *Board) At(co Coord) Cell {
	return b.Grid[co.X][co.Y][co.Z]
}

// Drop places c at the lowest empty height of col and returns the new board
// plus the landing height. The input board is never modified; on error it
// is returned unchanged.
func Drop(b Board, col Column, c Cell) (Board, int, error) {
	if !col.Valid() {
		return b, -1, ErrColumnOutOfRange
	}
	if c != White && c != Black {
		return b, -1, ErrInvalidCell
	}
	for z := 0; z < Size; z++ {
		if b.Grid[col.X][col.Y][z] == Empty {
			b.Grid[col.X][col.Y][z] = c
			b.Moves++
			return b, z, nil
		}
	}
	return b, -1, ErrColumnFull
}

// IsFull reports whether all 64 cells are occupied.
func IsFull(b *Board) bool {
	return b.Moves >= Size*Size*Size
}

// ColumnFull reports whether col has no empty cell left. The gravity
// invariant makes the top cell the only one that needs checking.
func ColumnFull(b *Board, col Column) bool {
	return b.Grid[col.X][col.Y][Size-1] != Empty
}

// OpenColumns returns every column that still accepts a drop.
func OpenColumns(b *Board) []Column {
	var out []Column
	for x := 0; x < Size; x++ {
		for y := 0; y < Size; y++ {
			if b.Grid[x][y][Size-1] == Empty {
				out = append(out, Column{X: x, Y: y})
			}
		}
	}
	return out
}

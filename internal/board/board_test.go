package board

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCellJSONUsesNames(t *testing.T) {
	data, err := json.Marshal([]Cell{Empty, White, Black})
	require.NoError(t, err)
	assert.JSONEq(t, `["empty", "white", "black"]`, string(data))

	var c Cell
	require.NoError(t, json.Unmarshal([]byte(`"black"`), &c))
	assert.Equal(t, Black, c)

	err = json.Unmarshal([]byte(`"purple"`), &c)
	assert.ErrorIs(t, err, ErrInvalidCell)
}

func TestLineTableShape(t *testing.T) {
	require.Len(t, Lines, LineCount)

	type key [Size]Coord
	seen := make(map[key]struct{})

	var vertical, layer, wall, space int
	for _, ln := range Lines {
		cells := make(map[Coord]struct{})
		for _, co := range ln {
			require.GreaterOrEqual(t, co.X, 0)
			require.Less(t, co.X, Size)
			require.GreaterOrEqual(t, co.Y, 0)
			require.Less(t, co.Y, Size)
			require.GreaterOrEqual(t, co.Z, 0)
			require.Less(t, co.Z, Size)
			cells[co] = struct{}{}
		}
		require.Len(t, cells, Size, "line cells must be distinct: %v", ln)

		sorted := ln
		for i := 0; i < len(sorted); i++ {
			for j := i + 1; j < len(sorted); j++ {
				a, b := sorted[i], sorted[j]
				if b.X < a.X || (b.X == a.X && (b.Y < a.Y || (b.Y == a.Y && b.Z < a.Z))) {
					sorted[i], sorted[j] = sorted[j], sorted[i]
				}
			}
		}
		_, dup := seen[key(sorted)]
		require.False(t, dup, "duplicate line %v", ln)
		seen[key(sorted)] = struct{}{}

		xConst := ln[0].X == ln[1].X && ln[1].X == ln[2].X && ln[2].X == ln[3].X
		yConst := ln[0].Y == ln[1].Y && ln[1].Y == ln[2].Y && ln[2].Y == ln[3].Y
		zConst := ln[0].Z == ln[1].Z && ln[1].Z == ln[2].Z && ln[2].Z == ln[3].Z
		switch {
		case xConst && yConst:
			vertical++
		case zConst:
			layer++
		case xConst || yConst:
			wall++
		default:
			space++
		}
	}

	assert.Equal(t, 16, vertical)
	assert.Equal(t, 40, layer)
	assert.Equal(t, 16, wall)
	assert.Equal(t, 4, space)
}

func TestDropGravity(t *testing.T) {
	b := New()
	col := Column{X: 1, Y: 2}
	colors := []Cell{White, Black, White, Black}
	for want, c := range colors {
		var z int
		var err error
		b, z, err = Drop(b, col, c)
		require.NoError(t, err)
		assert.Equal(t, want, z, "piece %d must land at the lowest empty height", want)
	}
	assert.Equal(t, 4, b.Moves)
}

func TestDropColumnFullRejects(t *testing.T) {
	b := New()
	col := Column{X: 0, Y: 0}
	var err error
	for i := 0; i < Size; i++ {
		b, _, err = Drop(b, col, White)
		require.NoError(t, err)
	}

	got, z, err := Drop(b, col, Black)
	require.ErrorIs(t, err, ErrColumnFull)
	assert.Equal(t, -1, z)
	assert.Equal(t, b, got, "a rejected drop must leave the board untouched")
}

func TestDropValidation(t *testing.T) {
	b := New()

	_, _, err := Drop(b, Column{X: 4, Y: 0}, White)
	assert.ErrorIs(t, err, ErrColumnOutOfRange)

	_, _, err = Drop(b, Column{X: 0, Y: -1}, White)
	assert.ErrorIs(t, err, ErrColumnOutOfRange)

	_, _, err = Drop(b, Column{X: 0, Y: 0}, Empty)
	assert.ErrorIs(t, err, ErrInvalidCell)
}

func TestEvaluateEmpty(t *testing.T) {
	b := New()
	ev := Evaluate(&b)
	assert.Zero(t, ev.White)
	assert.Zero(t, ev.Black)
	assert.Empty(t, ev.Cells)
}

func TestEvaluateVerticalLine(t *testing.T) {
	b := New()
	col := Column{X: 3, Y: 0}
	var err error
	for i := 0; i < Size; i++ {
		b, _, err = Drop(b, col, Black)
		require.NoError(t, err)
	}

	ev := Evaluate(&b)
	assert.Equal(t, 0, ev.White)
	assert.Equal(t, 1, ev.Black)
	assert.ElementsMatch(t, []Coord{
		{3, 0, 0}, {3, 0, 1}, {3, 0, 2}, {3, 0, 3},
	}, ev.Cells)
}

func TestEvaluateSpaceDiagonal(t *testing.T) {
	b := New()
	// support pieces so the diagonal cells (i, i, i) are reachable by drops
	for i := 0; i < Size; i++ {
		col := Column{X: i, Y: i}
		var err error
		for z := 0; z < i; z++ {
			b, _, err = Drop(b, col, Black)
			require.NoError(t, err)
		}
		b, _, err = Drop(b, col, White)
		require.NoError(t, err)
	}

	ev := Evaluate(&b)
	assert.Equal(t, 1, ev.White)
	assert.Contains(t, ev.Cells, Coord{0, 0, 0})
	assert.Contains(t, ev.Cells, Coord{3, 3, 3})
}

// halfBoard fills the cube completely, White in the x<2 half and Black in
// the x>=2 half, using the given column visit order.
func halfBoard(t *testing.T, order []Column) Board {
	t.Helper()
	b := New()
	for _, col := range order {
		c := White
		if col.X >= 2 {
			c = Black
		}
		var err error
		for z := 0; z < Size; z++ {
			b, _, err = Drop(b, col, c)
			require.NoError(t, err)
		}
	}
	return b
}

func TestEvaluateOrderIndependence(t *testing.T) {
	forward := OpenColumns(&Board{})
	backward := make([]Column, len(forward))
	for i, col := range forward {
		backward[len(forward)-1-i] = col
	}

	b1 := halfBoard(t, forward)
	b2 := halfBoard(t, backward)

	require.Equal(t, b1, b2)
	assert.Equal(t, Evaluate(&b1), Evaluate(&b2))
}

func TestEvaluateHalfBoardIsBalanced(t *testing.T) {
	b := halfBoard(t, OpenColumns(&Board{}))
	require.True(t, IsFull(&b))

	// monochrome lines are exactly those with constant x: 8+8 verticals,
	// 8+8 in-layer columns, 4+4 wall diagonals
	ev := Evaluate(&b)
	assert.Equal(t, 20, ev.White)
	assert.Equal(t, 20, ev.Black)
	assert.Len(t, ev.Cells, 64)
}

func TestOpenColumns(t *testing.T) {
	b := New()
	require.Len(t, OpenColumns(&b), Size*Size)

	col := Column{X: 2, Y: 2}
	var err error
	for i := 0; i < Size; i++ {
		b, _, err = Drop(b, col, White)
		require.NoError(t, err)
	}

	assert.True(t, ColumnFull(&b, col))
	open := OpenColumns(&b)
	assert.Len(t, open, Size*Size-1)
	assert.NotContains(t, open, col)
}

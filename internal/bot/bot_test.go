package bot

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"score4/internal/board"
)

func mustDrop(t *testing.T, b board.Board, col board.Column, c board.Cell) board.Board {
	t.Helper()
	nb, _, err := board.Drop(b, col, c)
	require.NoError(t, err)
	return nb
}

func TestBlocksImmediateThreat(t *testing.T) {
	// three White pieces stacked at (0,0); a White drop there completes the
	// vertical, so the block check must claim the column
	b := board.New()
	for i := 0; i < 3; i++ {
		b = mustDrop(t, b, board.Column{X: 0, Y: 0}, board.White)
	}

	for seed := int64(0); seed < 20; seed++ {
		col, ok := Choose(&b, board.Black, 100, rand.New(rand.NewSource(seed)))
		require.True(t, ok)
		assert.Equal(t, board.Column{X: 0, Y: 0}, col, "seed %d", seed)
	}
}

func TestWinBeatsBlock(t *testing.T) {
	// Black can complete its own vertical at (3,3) while White threatens at
	// (0,0); the win check runs first and takes the winning column
	b := board.New()
	for i := 0; i < 3; i++ {
		b = mustDrop(t, b, board.Column{X: 0, Y: 0}, board.White)
		b = mustDrop(t, b, board.Column{X: 3, Y: 3}, board.Black)
	}

	col, ok := Choose(&b, board.Black, 100, rand.New(rand.NewSource(1)))
	require.True(t, ok)
	assert.Equal(t, board.Column{X: 3, Y: 3}, col)
}

func TestZeroDifficultyPlaysBlind(t *testing.T) {
	// at difficulty 0 the lucidity check never passes, so even an obvious
	// block is sometimes missed; with only two open columns the bot must
	// eventually pick the non-blocking one
	b := board.New()
	for i := 0; i < 3; i++ {
		b = mustDrop(t, b, board.Column{X: 0, Y: 0}, board.White)
	}
	for x := 0; x < board.Size; x++ {
		for y := 0; y < board.Size; y++ {
			col := board.Column{X: x, Y: y}
			if col == (board.Column{X: 0, Y: 0}) || col == (board.Column{X: 3, Y: 3}) {
				continue
			}
			for !board.ColumnFull(&b, col) {
				b = mustDrop(t, b, col, board.Black)
			}
		}
	}

	ignored := false
	for seed := int64(0); seed < 50 && !ignored; seed++ {
		col, ok := Choose(&b, board.Black, 0, rand.New(rand.NewSource(seed)))
		require.True(t, ok)
		if col == (board.Column{X: 3, Y: 3}) {
			ignored = true
		}
	}
	assert.True(t, ignored, "a blind bot should not block reliably")
}

func TestOnlyLegalColumns(t *testing.T) {
	b := board.New()
	full := board.Column{X: 1, Y: 1}
	for i := 0; i < board.Size; i++ {
		b = mustDrop(t, b, full, board.White)
	}

	for seed := int64(0); seed < 50; seed++ {
		col, ok := Choose(&b, board.Black, 0, rand.New(rand.NewSource(seed)))
		require.True(t, ok)
		assert.NotEqual(t, full, col, "seed %d", seed)
	}
}

func TestNoLegalColumn(t *testing.T) {
	b := board.New()
	var err error
	for x := 0; x < board.Size; x++ {
		for y := 0; y < board.Size; y++ {
			for z := 0; z < board.Size; z++ {
				c := board.White
				if x >= 2 {
					c = board.Black
				}
				b, _, err = board.Drop(b, board.Column{X: x, Y: y}, c)
				require.NoError(t, err)
			}
		}
	}
	require.True(t, board.IsFull(&b))

	_, ok := Choose(&b, board.Black, 100, rand.New(rand.NewSource(1)))
	assert.False(t, ok)
}

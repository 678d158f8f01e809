// Package bot implements the computer opponent: one-ply lookahead, first
// matching column rather than best.
package bot

import (
	"math/rand"

	"score4/internal/board"
)

// Choose picks a column for me to drop into. difficulty in [0,100] drives
// the per-turn lucidity check: below the gate the bot skips the win/block
// evaluation entirely and plays a uniformly random legal column. Returns
// false when the board has no legal column left.
func Choose(b *board.Board, me board.Cell, difficulty int, rng *rand.Rand) (board.Column, bool) {
	open := board.OpenColumns(b)
	if len(open) == 0 {
		return board.Column{}, false
	}

	if rng.Intn(100) < difficulty {
		cur := board.Evaluate(b)

		// any column that completes one of my lines is played outright
		for _, col := range open {
			nb, _, err := board.Drop(*b, col, me)
			if err != nil {
				continue
			}
			if ev := board.Evaluate(&nb); ev.Score(me) > cur.Score(me) {
				return col, true
			}
		}

		// any column the opponent would score from must be occupied
		opp := me.Opponent()
		for _, col := range open {
			nb, _, err := board.Drop(*b, col, opp)
			if err != nil {
				continue
			}
			if ev := board.Evaluate(&nb); ev.Score(opp) > cur.Score(opp) {
				return col, true
			}
		}
	}

	return open[rng.Intn(len(open))], true
}

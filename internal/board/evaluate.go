package board

// Evaluation is the derived score state of a board: completed line counts
// per color plus every cell belonging to a completed line, in a stable
// order for win highlighting.
type Evaluation struct {
	White int     `json:"white"`
	Black int     `json:"black"`
	Cells []Coord `json:"cells,omitempty"`
}

// Score returns the completed line count for one color.
func (e Evaluation) Score(c Cell) int {
	switch c {
	case White:
		return e.White
	case Black:
		return e.Black
	default:
		return 0
	}
}

// Evaluate recounts all 76 lines from scratch. Scoring is a pure function
// of the final board state, independent of the order moves were applied.
func Evaluate(b *Board) Evaluation {
	var ev Evaluation
	var seen [Size][Size][Size]bool
	for _, ln := range Lines {
		first := b.At(ln[0])
		if first == Empty {
			continue
		}
		complete := true
		for _, co := range ln[1:] {
			if b.At(co) != first {
				complete = false
				break
			}
		}
		if !complete {
			continue
		}
		if first == White {
			ev.White++
		} else {
			ev.Black++
		}
		for _, co := range ln {
			if !seen[co.X][co.Y][co.Z] {
				seen[co.X][co.Y][co.Z] = true
				ev.Cells = append(ev.Cells, co)
			}
		}
	}
	return ev
}

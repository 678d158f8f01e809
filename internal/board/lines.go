package board

// Line is one of the fixed four-cell alignments that score a point when
// uniformly occupied by one color.
type Line [Size]Coord

// LineCount is the number of distinct scoring alignments in the cube.
const LineCount = 76

// Lines enumerates every scoring alignment exactly once: 16 verticals, 40
// in-layer lines (rows, columns and the two diagonals of each height layer),
// 16 wall diagonals, and the 4 space diagonals.
var Lines = buildLines()

func buildLines() []Line {
	lines := make([]Line, 0, LineCount)

	// one vertical per column
	for x := 0; x < Size; x++ {
		for y := 0; y < Size; y++ {
			var ln Line
			for z := 0; z < Size; z++ {
				ln[z] = Coord{x, y, z}
			}
			lines = append(lines, ln)
		}
	}

	// per height layer: rows, columns-in-layer and both layer diagonals
	for z := 0; z < Size; z++ {
		for y := 0; y < Size; y++ {
			var ln Line
			for x := 0; x < Size; x++ {
				ln[x] = Coord{x, y, z}
			}
			lines = append(lines, ln)
		}
		for x := 0; x < Size; x++ {
			var ln Line
			for y := 0; y < Size; y++ {
				ln[y] = Coord{x, y, z}
			}
			lines = append(lines, ln)
		}
		var d1, d2 Line
		for i := 0; i < Size; i++ {
			d1[i] = Coord{i, i, z}
			d2[i] = Coord{i, Size - 1 - i, z}
		}
		lines = append(lines, d1, d2)
	}

	// the two rising diagonals of each wall plane, fixing x then fixing y
	for x := 0; x < Size; x++ {
		var d1, d2 Line
		for i := 0; i < Size; i++ {
			d1[i] = Coord{x, i, i}
			d2[i] = Coord{x, i, Size - 1 - i}
		}
		lines = append(lines, d1, d2)
	}
	for y := 0; y < Size; y++ {
		var d1, d2 Line
		for i := 0; i < Size; i++ {
			d1[i] = Coord{i, y, i}
			d2[i] = Coord{i, y, Size - 1 - i}
		}
		lines = append(lines, d1, d2)
	}

	// space diagonals, corner to corner through the whole cube
	var s1, s2, s3, s4 Line
	for i := 0; i < Size; i++ {
		s1[i] = Coord{i, i, i}
		s2[i] = Coord{i, i, Size - 1 - i}
		s3[i] = Coord{i, Size - 1 - i, i}
		s4[i] = Coord{Size - 1 - i, i, i}
	}
	return append(lines, s1, s2, s3, s4)
}

package xiangqi

import "github.com/playvn/gamehub-backend/internal/entity"

// inCheck reports whether the general of the given color is attacked,
// including the facing-generals rule.
func inCheck(b *Board, color int) bool {
	g, ok := b.find(General, color)
	if !ok {
		// A missing general is a lost game; treat as permanent check.
		return true
	}

	if o, ok := b.find(General, 1-color); ok {
		if o.Y == g.Y && b.countBetween(o, g) == 0 {
			return true
		}
	}

	for x := 0; x < Rows; x++ {
		for y := 0; y < Cols; y++ {
			p := b[x][y]
			if p.Empty() || p.Color == color || p.Kind == General {
				continue
			}
			if validateGeometry(b, entity.Point{X: x, Y: y}, g) == nil {
				return true
			}
		}
	}
	return false
}

// moved returns a copy of the board with the from piece moved onto to.
func moved(b *Board, from, to entity.Point) Board {
	nb := *b
	nb[to.X][to.Y] = nb[from.X][from.Y]
	nb[from.X][from.Y] = Piece{}
	return nb
}

// hasAnyLegalMove reports whether the color has at least one move that
// does not leave its own general in check. Worst case it simulates every
// destination for every piece, which is bounded and fast enough for a
// per-move terminal check.
func hasAnyLegalMove(b *Board, color int) bool {
	for x := 0; x < Rows; x++ {
		for y := 0; y < Cols; y++ {
			p := b[x][y]
			if p.Empty() || p.Color != color {
				continue
			}
			from := entity.Point{X: x, Y: y}
			for tx := 0; tx < Rows; tx++ {
				for ty := 0; ty < Cols; ty++ {
					to := entity.Point{X: tx, Y: ty}
					if from == to {
						continue
					}
					if dest := b[tx][ty]; !dest.Empty() && dest.Color == color {
						continue
					}
					if validateGeometry(b, from, to) != nil {
						continue
					}
					nb := moved(b, from, to)
					if !inCheck(&nb, color) {
						return true
					}
				}
			}
		}
	}
	return false
}

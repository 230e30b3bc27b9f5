package xiangqi

import "github.com/playvn/gamehub-backend/internal/entity"

const (
	Rows = 10
	Cols = 9
)

// Seats. Red sits at the bottom (rows 5-9) and moves first.
const (
	Red   = 0
	Black = 1
)

// Piece kinds.
const (
	General  = 'G'
	Advisor  = 'A'
	Elephant = 'E'
	Horse    = 'H'
	Chariot  = 'R'
	Cannon   = 'C'
	Soldier  = 'S'
)

// Piece occupies one intersection; the zero value is an empty point.
type Piece struct {
	Kind  byte
	Color int
}

func (that Piece) Empty() bool {
	return that.Kind == 0
}

// Board is row-major: [row][col], row 0 at the black edge.
type Board [Rows][Cols]Piece

// riverRow is the first row on the red side; red pieces cross the river
// by moving to a row below it, black by moving to it or further.
const riverRow = 5

func inBounds(p entity.Point) bool {
	return p.X >= 0 && p.X < Rows && p.Y >= 0 && p.Y < Cols
}

func inPalace(p entity.Point, color int) bool {
	if p.Y < 3 || p.Y > 5 {
		return false
	}
	if color == Red {
		return p.X >= 7 && p.X <= 9
	}
	return p.X >= 0 && p.X <= 2
}

// InitialBoard lays out the standard opening position.
func InitialBoard() Board {
	var b Board

	back := []byte{Chariot, Horse, Elephant, Advisor, General, Advisor, Elephant, Horse, Chariot}
	for y, kind := range back {
		b[0][y] = Piece{Kind: kind, Color: Black}
		b[9][y] = Piece{Kind: kind, Color: Red}
	}

	b[2][1] = Piece{Kind: Cannon, Color: Black}
	b[2][7] = Piece{Kind: Cannon, Color: Black}
	b[7][1] = Piece{Kind: Cannon, Color: Red}
	b[7][7] = Piece{Kind: Cannon, Color: Red}

	for y := 0; y < Cols; y += 2 {
		b[3][y] = Piece{Kind: Soldier, Color: Black}
		b[6][y] = Piece{Kind: Soldier, Color: Red}
	}

	return b
}

func cellCode(p Piece) string {
	if p.Empty() {
		return ""
	}
	side := "r"
	if p.Color == Black {
		side = "b"
	}
	return side + string(p.Kind)
}

func (that *Board) snapshot() entity.BoardSnapshot {
	grid := make([][]string, Rows)
	for x := range grid {
		grid[x] = make([]string, Cols)
		for y := range grid[x] {
			grid[x][y] = cellCode(that[x][y])
		}
	}
	return entity.BoardSnapshot{Grid: grid}
}

func (that *Board) find(kind byte, color int) (entity.Point, bool) {
	for x := 0; x < Rows; x++ {
		for y := 0; y < Cols; y++ {
			p := that[x][y]
			if p.Kind == kind && p.Color == color {
				return entity.Point{X: x, Y: y}, true
			}
		}
	}
	return entity.Point{}, false
}

// countBetween counts pieces strictly between two points sharing a row or
// a column.
func (that *Board) countBetween(from, to entity.Point) int {
	n := 0
	if from.X == to.X {
		lo, hi := min(from.Y, to.Y), max(from.Y, to.Y)
		for y := lo + 1; y < hi; y++ {
			if !that[from.X][y].Empty() {
				n++
			}
		}
		return n
	}
	lo, hi := min(from.X, to.X), max(from.X, to.X)
	for x := lo + 1; x < hi; x++ {
		if !that[x][from.Y].Empty() {
			n++
		}
	}
	return n
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

package entity

// Point addresses an intersection: X is the row, Y the column, both
// zero-based from the top-left corner.
type Point struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// PieceMove is a xiangqi move.
type PieceMove struct {
	From Point `json:"from"`
	To   Point `json:"to"`
}

// StoneMove is a weiqi placement or a pass.
type StoneMove struct {
	X    int  `json:"x"`
	Y    int  `json:"y"`
	Pass bool `json:"pass,omitempty"`
}

// DiceMove is a ludo action: either a roll request or a piece advance.
// Roll is filled in by the engine when the move is applied, so replaying
// the move history reproduces the same board without re-rolling.
type DiceMove struct {
	RollRequest bool `json:"roll_request,omitempty"`
	Piece       int  `json:"piece"`
	Roll        int  `json:"roll,omitempty"`
}

// Move is a tagged union over the game kinds; exactly one field is set.
type Move struct {
	Xiangqi *PieceMove `json:"xiangqi,omitempty"`
	Weiqi   *StoneMove `json:"weiqi,omitempty"`
	Ludo    *DiceMove  `json:"ludo,omitempty"`
}

// Package ludo implements the four-player race game: a shared 56-cell
// loop with per-seat entry offsets, private run-in lanes, dice-gated yard
// exits and captures on non-safe cells.
package ludo

import (
	"fmt"
	"math/rand"

	"github.com/playvn/gamehub-backend/internal/apperror"
	"github.com/playvn/gamehub-backend/internal/entity"
)

const (
	PiecesPerSeat = 4
	TrackLen      = 56
	LaneLen       = 6

	// Piece positions are seat-relative: yard, then track cells 0..55
	// (absolute cell = (pos + offset) mod 56), then lane cells up to the
	// terminal. Exact landing on the terminal is required.
	Yard     = -1
	Terminal = TrackLen + LaneLen - 1

	// seatSpacing is the entry-offset distance between seats; absolute
	// cells at multiples of it are safe from capture.
	seatSpacing = TrackLen / 4

	// maxStreak bounds a turn: a third consecutive maximum roll forfeits
	// the extra turn instead of granting another one.
	maxStreak = 3
)

// Rules holds the configurable dice parameters. Roll overrides the dice
// source; tests inject deterministic rolls through it.
type Rules struct {
	DiceMax int
	Roll    func() int
}

type Engine struct {
	seats      int
	positions  [][]int
	eliminated []bool
	turn       int
	pending    int // rolled value waiting for a piece move, 0 if none
	streak     int // consecutive max rolls by the current player
	diceMax    int
	roll       func() int
	terminal   bool
	result     *entity.GameResult
}

func New(seats int, rules Rules) (*Engine, error) {
	if seats < 2 || seats > PiecesPerSeat {
		return nil, fmt.Errorf("%w: ludo takes 2 to 4 players", apperror.ErrInvalidParticipantCount)
	}

	diceMax := rules.DiceMax
	if diceMax == 0 {
		diceMax = 6
	}
	roll := rules.Roll
	if roll == nil {
		roll = func() int { return rand.Intn(diceMax) + 1 }
	}

	positions := make([][]int, seats)
	for s := range positions {
		positions[s] = []int{Yard, Yard, Yard, Yard}
	}

	return &Engine{
		seats:      seats,
		positions:  positions,
		eliminated: make([]bool, seats),
		diceMax:    diceMax,
		roll:       roll,
	}, nil
}

func (that *Engine) Kind() entity.GameKind { return entity.KindLudo }

func (that *Engine) Seats() int { return that.seats }

func (that *Engine) CurrentSeat() int { return that.turn }

func (that *Engine) IsTerminal() bool { return that.terminal }

func (that *Engine) Result() *entity.GameResult { return that.result }

func (that *Engine) Board() entity.BoardSnapshot {
	pieces := make([][]int, that.seats)
	for s := range pieces {
		pieces[s] = append([]int(nil), that.positions[s]...)
	}
	return entity.BoardSnapshot{SeatPieces: pieces, PendingRoll: that.pending}
}

func (that *Engine) Apply(seat int, mv entity.Move) (entity.Move, error) {
	if that.terminal {
		return entity.Move{}, apperror.ErrGameFinished
	}
	if seat != that.turn {
		return entity.Move{}, apperror.ErrNotYourTurn
	}
	if mv.Ludo == nil {
		return entity.Move{}, apperror.NewIllegalMove(apperror.ReasonWrongPayload, "expected a dice move")
	}

	if mv.Ludo.RollRequest {
		return that.applyRoll(seat, mv.Ludo.Roll)
	}
	return that.applyAdvance(seat, mv.Ludo.Piece)
}

// applyRoll rolls the dice (or replays a recorded roll) and decides
// whether the player may move; with no movable piece the turn passes
// immediately.
func (that *Engine) applyRoll(seat, recorded int) (entity.Move, error) {
	if that.pending != 0 {
		return entity.Move{}, apperror.NewIllegalMove(apperror.ReasonPendingRoll, "move a piece before rolling again")
	}

	rolled := recorded
	if rolled == 0 {
		rolled = that.roll()
	}

	if rolled == that.diceMax {
		that.streak++
	} else {
		that.streak = 0
	}

	applied := entity.Move{Ludo: &entity.DiceMove{RollRequest: true, Roll: rolled}}

	if len(that.movablePieces(seat, rolled)) == 0 {
		that.advanceTurn()
		return applied, nil
	}

	that.pending = rolled
	return applied, nil
}

func (that *Engine) applyAdvance(seat, piece int) (entity.Move, error) {
	if that.pending == 0 {
		return entity.Move{}, apperror.NewIllegalMove(apperror.ReasonNoRoll, "roll the dice first")
	}
	if piece < 0 || piece >= PiecesPerSeat {
		return entity.Move{}, apperror.NewIllegalMove(apperror.ReasonOutOfBounds, "piece index must be 0..3")
	}
	if err := that.canMove(seat, piece, that.pending); err != nil {
		return entity.Move{}, err
	}

	steps := that.pending
	that.pending = 0

	pos := that.positions[seat][piece]
	if pos == Yard {
		that.positions[seat][piece] = 0
		that.capture(seat, 0)
	} else {
		next := pos + steps
		that.positions[seat][piece] = next
		if next < TrackLen {
			that.capture(seat, next)
		}
	}

	applied := entity.Move{Ludo: &entity.DiceMove{Piece: piece, Roll: steps}}

	if that.allHome(seat) {
		that.terminal = true
		that.result = &entity.GameResult{WinnerSeat: seat, Reason: entity.ResultAllHome}
		return applied, nil
	}

	if steps == that.diceMax && that.streak < maxStreak {
		return applied, nil // extra turn
	}
	that.advanceTurn()
	return applied, nil
}

func (that *Engine) Resign(seat int) {
	if that.terminal || that.eliminated[seat] {
		return
	}
	that.eliminated[seat] = true
	for i := range that.positions[seat] {
		that.positions[seat][i] = Yard
	}

	active := make([]int, 0, that.seats)
	for s := 0; s < that.seats; s++ {
		if !that.eliminated[s] {
			active = append(active, s)
		}
	}
	if len(active) == 1 {
		that.terminal = true
		that.result = &entity.GameResult{WinnerSeat: active[0], Reason: entity.ResultElimination}
		return
	}
	if that.turn == seat {
		that.advanceTurn()
	}
}

// PendingRoll reports the rolled value awaiting a piece move, 0 if none.
func (that *Engine) PendingRoll() int { return that.pending }

// MovablePieces lists the pieces the current player could advance with
// the given roll.
func (that *Engine) MovablePieces(seat, steps int) []int {
	return that.movablePieces(seat, steps)
}

func (that *Engine) movablePieces(seat, steps int) []int {
	out := make([]int, 0, PiecesPerSeat)
	for i := 0; i < PiecesPerSeat; i++ {
		if that.canMove(seat, i, steps) == nil {
			out = append(out, i)
		}
	}
	return out
}

func (that *Engine) canMove(seat, piece, steps int) error {
	pos := that.positions[seat][piece]

	if pos == Terminal {
		return apperror.NewIllegalMove(apperror.ReasonPastTerminal, "piece already finished")
	}

	dest := pos + steps
	if pos == Yard {
		if steps != that.diceMax {
			return apperror.NewIllegalMove(apperror.ReasonNeedsMaxRoll, "a maximum roll is required to leave the yard")
		}
		dest = 0
	} else if dest > Terminal {
		return apperror.NewIllegalMove(apperror.ReasonPastTerminal, "cannot move past the terminal cell")
	}

	if dest != Terminal {
		for i, p := range that.positions[seat] {
			if i != piece && p == dest {
				return apperror.NewIllegalMove(apperror.ReasonPieceBlocked, "destination holds your own piece")
			}
		}
	}
	return nil
}

// capture sends every opponent piece standing on the landing cell back to
// its yard, unless the cell is safe. Lane cells are private and never
// capture.
func (that *Engine) capture(seat, pos int) {
	abs := that.absolute(seat, pos)
	if abs%seatSpacing == 0 {
		return
	}
	for s := 0; s < that.seats; s++ {
		if s == seat || that.eliminated[s] {
			continue
		}
		for i, p := range that.positions[s] {
			if p >= 0 && p < TrackLen && that.absolute(s, p) == abs {
				that.positions[s][i] = Yard
			}
		}
	}
}

func (that *Engine) absolute(seat, pos int) int {
	return (pos + seat*seatSpacing) % TrackLen
}

func (that *Engine) allHome(seat int) bool {
	for _, p := range that.positions[seat] {
		if p != Terminal {
			return false
		}
	}
	return true
}

func (that *Engine) advanceTurn() {
	that.pending = 0
	that.streak = 0
	for i := 1; i <= that.seats; i++ {
		next := (that.turn + i) % that.seats
		if !that.eliminated[next] {
			that.turn = next
			return
		}
	}
}

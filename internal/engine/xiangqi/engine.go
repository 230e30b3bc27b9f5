// Package xiangqi implements the Chinese Chess rule engine: per-piece
// movement geometry, check detection and checkmate/stalemate terminal
// detection on a 9x10 board.
package xiangqi

import (
	"github.com/playvn/gamehub-backend/internal/apperror"
	"github.com/playvn/gamehub-backend/internal/entity"
)

// Rules holds the configurable conventions. StalemateIsLoss follows the
// Chinese convention: the stalemated side loses rather than draws.
type Rules struct {
	StalemateIsLoss bool
}

type Engine struct {
	board    Board
	turn     int
	terminal bool
	result   *entity.GameResult
	rules    Rules
}

func New(rules Rules) *Engine {
	return NewWithPosition(InitialBoard(), Red, rules)
}

// NewWithPosition starts from an arbitrary position. Used to restore
// adjourned games and by tests.
func NewWithPosition(board Board, turn int, rules Rules) *Engine {
	return &Engine{board: board, turn: turn, rules: rules}
}

func (that *Engine) Kind() entity.GameKind { return entity.KindXiangqi }

func (that *Engine) Seats() int { return 2 }

func (that *Engine) CurrentSeat() int { return that.turn }

func (that *Engine) IsTerminal() bool { return that.terminal }

func (that *Engine) Result() *entity.GameResult { return that.result }

func (that *Engine) Board() entity.BoardSnapshot { return that.board.snapshot() }

func (that *Engine) Apply(seat int, mv entity.Move) (entity.Move, error) {
	if that.terminal {
		return entity.Move{}, apperror.ErrGameFinished
	}
	if seat != that.turn {
		return entity.Move{}, apperror.ErrNotYourTurn
	}
	if mv.Xiangqi == nil {
		return entity.Move{}, illegal(apperror.ReasonWrongPayload, "expected a piece move")
	}

	from, to := mv.Xiangqi.From, mv.Xiangqi.To
	if !inBounds(from) || !inBounds(to) {
		return entity.Move{}, illegal(apperror.ReasonOutOfBounds, "")
	}
	if from == to {
		return entity.Move{}, illegal(apperror.ReasonGeometry, "move must change position")
	}

	p := that.board[from.X][from.Y]
	switch {
	case p.Empty():
		return entity.Move{}, illegal(apperror.ReasonEmptyFrom, "")
	case p.Color != seat:
		return entity.Move{}, illegal(apperror.ReasonNotYourPiece, "")
	}

	if dest := that.board[to.X][to.Y]; !dest.Empty() && dest.Color == seat {
		return entity.Move{}, illegal(apperror.ReasonOccupied, "cannot capture your own piece")
	}

	if err := validateGeometry(&that.board, from, to); err != nil {
		return entity.Move{}, err
	}

	next := moved(&that.board, from, to)
	if inCheck(&next, seat) {
		return entity.Move{}, illegal(apperror.ReasonInCheck, "move leaves your general in check")
	}

	that.board = next

	opponent := 1 - seat
	if !hasAnyLegalMove(&that.board, opponent) {
		that.terminal = true
		if inCheck(&that.board, opponent) {
			that.result = &entity.GameResult{WinnerSeat: seat, Reason: entity.ResultCheckmate}
		} else if that.rules.StalemateIsLoss {
			that.result = &entity.GameResult{WinnerSeat: seat, Reason: entity.ResultStalemate}
		} else {
			that.result = &entity.GameResult{WinnerSeat: -1, Draw: true, Reason: entity.ResultStalemate}
		}
		return mv, nil
	}

	that.turn = opponent
	return mv, nil
}

func (that *Engine) Resign(seat int) {
	if that.terminal {
		return
	}
	that.terminal = true
	that.result = &entity.GameResult{WinnerSeat: 1 - seat, Reason: entity.ResultResignation}
}

// InCheck reports whether the side to move is currently in check. The
// rendering layer uses it to annotate the board.
func (that *Engine) InCheck() bool {
	return !that.terminal && inCheck(&that.board, that.turn)
}

// Package weiqi implements the Go rule engine: captures by liberty count,
// the suicide rule, positional superko and area scoring.
package weiqi

import (
	"fmt"

	"github.com/playvn/gamehub-backend/internal/apperror"
	"github.com/playvn/gamehub-backend/internal/entity"
)

const (
	empty = int8(0)
	black = int8(1) // seat 0
	white = int8(2) // seat 1
)

// Rules holds the configurable scoring parameters. Komi is added to
// white's area score; zero komi keeps ties representable.
type Rules struct {
	Size int
	Komi float64
}

type Engine struct {
	size     int
	board    []int8
	turn     int
	passes   int
	captures [2]int
	// seen holds every position as it stood right after each player's own
	// turns, keyed by that player; a move recreating one of the mover's
	// prior positions violates positional superko.
	seen     map[string]struct{}
	terminal bool
	result   *entity.GameResult
	komi     float64
}

func New(rules Rules) (*Engine, error) {
	size := rules.Size
	if size == 0 {
		size = 19
	}
	if size != 9 && size != 13 && size != 19 {
		return nil, fmt.Errorf("%w: board size must be 9, 13 or 19", apperror.ErrInvalidBoardSize)
	}

	that := &Engine{
		size:  size,
		board: make([]int8, size*size),
		seen:  make(map[string]struct{}),
		komi:  rules.Komi,
	}
	that.seen[that.positionKey(0)] = struct{}{}
	that.seen[that.positionKey(1)] = struct{}{}
	return that, nil
}

func (that *Engine) Kind() entity.GameKind { return entity.KindWeiqi }

func (that *Engine) Seats() int { return 2 }

func (that *Engine) CurrentSeat() int { return that.turn }

func (that *Engine) IsTerminal() bool { return that.terminal }

func (that *Engine) Result() *entity.GameResult { return that.result }

func (that *Engine) Size() int { return that.size }

func (that *Engine) Board() entity.BoardSnapshot {
	grid := make([][]string, that.size)
	for x := range grid {
		grid[x] = make([]string, that.size)
		for y := range grid[x] {
			switch that.board[x*that.size+y] {
			case black:
				grid[x][y] = "B"
			case white:
				grid[x][y] = "W"
			}
		}
	}
	return entity.BoardSnapshot{Grid: grid}
}

func (that *Engine) Apply(seat int, mv entity.Move) (entity.Move, error) {
	if that.terminal {
		return entity.Move{}, apperror.ErrGameFinished
	}
	if seat != that.turn {
		return entity.Move{}, apperror.ErrNotYourTurn
	}
	if mv.Weiqi == nil {
		return entity.Move{}, apperror.NewIllegalMove(apperror.ReasonWrongPayload, "expected a stone move")
	}

	if mv.Weiqi.Pass {
		that.passes++
		that.turn = 1 - seat
		that.seen[that.positionKey(seat)] = struct{}{}
		if that.passes >= 2 {
			that.terminal = true
			that.result = that.score()
		}
		return mv, nil
	}

	x, y := mv.Weiqi.X, mv.Weiqi.Y
	if x < 0 || x >= that.size || y < 0 || y >= that.size {
		return entity.Move{}, apperror.NewIllegalMove(apperror.ReasonOutOfBounds, "")
	}
	if that.board[x*that.size+y] != empty {
		return entity.Move{}, apperror.NewIllegalMove(apperror.ReasonOccupied, "")
	}

	own := stoneColor(seat)
	next := make([]int8, len(that.board))
	copy(next, that.board)
	next[x*that.size+y] = own

	captured := 0
	for _, n := range that.neighbors(x, y) {
		if next[n] != opponentColor(seat) {
			continue
		}
		group, libs := that.groupOf(next, n)
		if libs == 0 {
			for _, idx := range group {
				next[idx] = empty
			}
			captured += len(group)
		}
	}

	if captured == 0 {
		if _, libs := that.groupOf(next, x*that.size+y); libs == 0 {
			return entity.Move{}, apperror.NewIllegalMove(apperror.ReasonSuicide, "")
		}
	}

	key := positionKeyOf(next, seat)
	if _, ok := that.seen[key]; ok {
		return entity.Move{}, apperror.NewIllegalMove(apperror.ReasonKo, "position repeats an earlier one")
	}

	that.board = next
	that.seen[key] = struct{}{}
	that.captures[seat] += captured
	that.passes = 0
	that.turn = 1 - seat
	return mv, nil
}

func (that *Engine) Resign(seat int) {
	if that.terminal {
		return
	}
	that.terminal = true
	that.result = &entity.GameResult{WinnerSeat: 1 - seat, Reason: entity.ResultResignation}
}

// Captures reports stones captured so far by the given seat.
func (that *Engine) Captures(seat int) int { return that.captures[seat] }

func stoneColor(seat int) int8 {
	if seat == 0 {
		return black
	}
	return white
}

func opponentColor(seat int) int8 {
	if seat == 0 {
		return white
	}
	return black
}

func (that *Engine) neighbors(x, y int) []int {
	out := make([]int, 0, 4)
	if x > 0 {
		out = append(out, (x-1)*that.size+y)
	}
	if x < that.size-1 {
		out = append(out, (x+1)*that.size+y)
	}
	if y > 0 {
		out = append(out, x*that.size+y-1)
	}
	if y < that.size-1 {
		out = append(out, x*that.size+y+1)
	}
	return out
}

// groupOf flood-fills the connected group containing start and counts its
// distinct liberties.
func (that *Engine) groupOf(board []int8, start int) (group []int, liberties int) {
	color := board[start]
	visited := make(map[int]bool, 8)
	libs := make(map[int]bool, 8)
	queue := []int{start}
	visited[start] = true

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		group = append(group, cur)

		for _, n := range that.neighbors(cur/that.size, cur%that.size) {
			switch {
			case board[n] == empty:
				libs[n] = true
			case board[n] == color && !visited[n]:
				visited[n] = true
				queue = append(queue, n)
			}
		}
	}
	return group, len(libs)
}

func (that *Engine) positionKey(seat int) string {
	return positionKeyOf(that.board, seat)
}

func positionKeyOf(board []int8, seat int) string {
	buf := make([]byte, 0, len(board)+2)
	buf = append(buf, byte('0'+seat), ':')
	for _, c := range board {
		buf = append(buf, byte('0'+c))
	}
	return string(buf)
}

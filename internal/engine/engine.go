// Package engine selects a rule engine for a game kind. The three engines
// are a closed set behind one capability interface; sessions pick a
// variant at creation time and never switch.
package engine

import (
	"fmt"

	"github.com/playvn/gamehub-backend/internal/apperror"
	"github.com/playvn/gamehub-backend/internal/engine/ludo"
	"github.com/playvn/gamehub-backend/internal/engine/weiqi"
	"github.com/playvn/gamehub-backend/internal/engine/xiangqi"
	"github.com/playvn/gamehub-backend/internal/entity"
)

// Engine is the capability set shared by all rule engines. Apply is
// strictly check-then-apply: on error the board is untouched. The applied
// move it returns is normalized (dice rolls resolved), so folding the
// returned moves over a fresh engine reproduces the board exactly.
type Engine interface {
	Kind() entity.GameKind
	Seats() int
	CurrentSeat() int
	Apply(seat int, mv entity.Move) (entity.Move, error)
	Resign(seat int)
	IsTerminal() bool
	Result() *entity.GameResult
	Board() entity.BoardSnapshot
}

// Rules carries the configurable game-rule parameters. Zero values fall
// back to each engine's defaults.
type Rules struct {
	Komi            float64
	BoardSize       int // weiqi
	DiceMax         int
	StalemateIsLoss bool
	Roll            func() int // ludo dice override, used by tests
}

func New(kind entity.GameKind, seats int, rules Rules) (Engine, error) {
	switch kind {
	case entity.KindXiangqi:
		return xiangqi.New(xiangqi.Rules{StalemateIsLoss: rules.StalemateIsLoss}), nil
	case entity.KindWeiqi:
		return weiqi.New(weiqi.Rules{Size: rules.BoardSize, Komi: rules.Komi})
	case entity.KindLudo:
		return ludo.New(seats, ludo.Rules{DiceMax: rules.DiceMax, Roll: rules.Roll})
	default:
		return nil, fmt.Errorf("%w: %q", apperror.ErrUnknownGameKind, kind)
	}
}

package xiangqi

import (
	"github.com/playvn/gamehub-backend/internal/apperror"
	"github.com/playvn/gamehub-backend/internal/entity"
)

func illegal(reason, detail string) error {
	return apperror.NewIllegalMove(reason, detail)
}

// validateGeometry checks the piece-specific movement rules for the piece
// standing on from. Bounds and own-piece capture are checked by the
// caller; check exposure is not considered here.
func validateGeometry(b *Board, from, to entity.Point) error {
	p := b[from.X][from.Y]

	switch p.Kind {
	case General:
		return validateGeneral(from, to, p.Color)
	case Advisor:
		return validateAdvisor(from, to, p.Color)
	case Elephant:
		return validateElephant(b, from, to, p.Color)
	case Horse:
		return validateHorse(b, from, to)
	case Chariot:
		return validateChariot(b, from, to)
	case Cannon:
		return validateCannon(b, from, to)
	case Soldier:
		return validateSoldier(from, to, p.Color)
	}

	return illegal(apperror.ReasonGeometry, "unknown piece kind")
}

func validateGeneral(from, to entity.Point, color int) error {
	if abs(from.X-to.X)+abs(from.Y-to.Y) != 1 {
		return illegal(apperror.ReasonGeometry, "general moves one orthogonal step")
	}
	if !inPalace(to, color) {
		return illegal(apperror.ReasonGeometry, "general must stay in the palace")
	}
	return nil
}

func validateAdvisor(from, to entity.Point, color int) error {
	if abs(from.X-to.X) != 1 || abs(from.Y-to.Y) != 1 {
		return illegal(apperror.ReasonGeometry, "advisor moves one diagonal step")
	}
	if !inPalace(to, color) {
		return illegal(apperror.ReasonGeometry, "advisor must stay in the palace")
	}
	return nil
}

func validateElephant(b *Board, from, to entity.Point, color int) error {
	if abs(from.X-to.X) != 2 || abs(from.Y-to.Y) != 2 {
		return illegal(apperror.ReasonGeometry, "elephant moves exactly two diagonal steps")
	}
	if !b[(from.X+to.X)/2][(from.Y+to.Y)/2].Empty() {
		return illegal(apperror.ReasonBlocked, "elephant eye is occupied")
	}
	if color == Red && to.X < riverRow {
		return illegal(apperror.ReasonGeometry, "elephant cannot cross the river")
	}
	if color == Black && to.X >= riverRow {
		return illegal(apperror.ReasonGeometry, "elephant cannot cross the river")
	}
	return nil
}

func validateHorse(b *Board, from, to entity.Point) error {
	dx, dy := abs(from.X-to.X), abs(from.Y-to.Y)
	if !(dx == 1 && dy == 2 || dx == 2 && dy == 1) {
		return illegal(apperror.ReasonGeometry, "horse moves in an L shape")
	}

	// Hobbling point: the orthogonally adjacent intersection on the long leg.
	var block entity.Point
	if dx == 2 {
		block = entity.Point{X: (from.X + to.X) / 2, Y: from.Y}
	} else {
		block = entity.Point{X: from.X, Y: (from.Y + to.Y) / 2}
	}
	if !b[block.X][block.Y].Empty() {
		return illegal(apperror.ReasonBlocked, "horse leg is hobbled")
	}
	return nil
}

func validateChariot(b *Board, from, to entity.Point) error {
	if from.X != to.X && from.Y != to.Y {
		return illegal(apperror.ReasonGeometry, "chariot moves orthogonally")
	}
	if b.countBetween(from, to) != 0 {
		return illegal(apperror.ReasonBlocked, "chariot path is blocked")
	}
	return nil
}

func validateCannon(b *Board, from, to entity.Point) error {
	if from.X != to.X && from.Y != to.Y {
		return illegal(apperror.ReasonGeometry, "cannon moves orthogonally")
	}

	screens := b.countBetween(from, to)
	if b[to.X][to.Y].Empty() {
		if screens != 0 {
			return illegal(apperror.ReasonBlocked, "cannon path is blocked")
		}
		return nil
	}
	if screens != 1 {
		return illegal(apperror.ReasonGeometry, "cannon captures over exactly one screen")
	}
	return nil
}

func validateSoldier(from, to entity.Point, color int) error {
	if abs(from.X-to.X)+abs(from.Y-to.Y) != 1 {
		return illegal(apperror.ReasonGeometry, "soldier moves one step")
	}

	if color == Red && to.X > from.X {
		return illegal(apperror.ReasonGeometry, "soldier cannot move backward")
	}
	if color == Black && to.X < from.X {
		return illegal(apperror.ReasonGeometry, "soldier cannot move backward")
	}

	crossed := from.X < riverRow
	if color == Black {
		crossed = from.X >= riverRow
	}
	if !crossed && from.Y != to.Y {
		return illegal(apperror.ReasonGeometry, "soldier moves sideways only after crossing the river")
	}
	return nil
}

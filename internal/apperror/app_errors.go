package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrAlreadyActive           = errors.New("channel already has an active session")
	ErrNotFound                = errors.New("session not found")
	ErrInvalidParticipantCount = errors.New("invalid participant count")
	ErrInvalidBoardSize        = errors.New("invalid board size")
	ErrNotParticipant          = errors.New("player is not a participant of this session")
	ErrNotYourTurn             = errors.New("it's not your turn")
	ErrGameFinished            = errors.New("game is already finished")
	ErrGameIsNotStarted        = errors.New("game is not started")
	ErrUnknownGameKind         = errors.New("unknown game kind")
)

// Reason codes carried by IllegalMove. The chat layer renders these into
// human messages, so they must stay stable.
const (
	ReasonOutOfBounds  = "out-of-bounds"
	ReasonOccupied     = "occupied"
	ReasonEmptyFrom    = "empty-from"
	ReasonNotYourPiece = "not-your-piece"
	ReasonGeometry     = "geometry"
	ReasonBlocked      = "blocked"
	ReasonInCheck      = "in-check"
	ReasonSuicide      = "suicide"
	ReasonKo           = "ko"
	ReasonNoRoll       = "no-roll"
	ReasonPendingRoll  = "pending-roll"
	ReasonNeedsMaxRoll = "needs-max-roll"
	ReasonPieceBlocked = "piece-blocked"
	ReasonPastTerminal = "past-terminal"
	ReasonWrongPayload = "wrong-payload"
)

// IllegalMove is a structured move rejection. Validation is strictly
// check-then-apply, so an IllegalMove guarantees the board was not mutated.
type IllegalMove struct {
	Reason string
	Detail string
}

func (that *IllegalMove) Error() string {
	if that.Detail == "" {
		return fmt.Sprintf("illegal move: %s", that.Reason)
	}
	return fmt.Sprintf("illegal move: %s: %s", that.Reason, that.Detail)
}

func NewIllegalMove(reason, detail string) *IllegalMove {
	return &IllegalMove{Reason: reason, Detail: detail}
}

// IllegalMoveReason extracts the reason code from an error chain, or "".
func IllegalMoveReason(err error) string {
	var im *IllegalMove
	if errors.As(err, &im) {
		return im.Reason
	}
	return ""
}

// Code maps an error to its stable machine-readable code for transports.
// Unknown errors map to "internal".
func Code(err error) string {
	if reason := IllegalMoveReason(err); reason != "" {
		return "illegal-move/" + reason
	}

	switch {
	case errors.Is(err, ErrAlreadyActive):
		return "already-active"
	case errors.Is(err, ErrNotFound):
		return "not-found"
	case errors.Is(err, ErrInvalidParticipantCount):
		return "invalid-participants"
	case errors.Is(err, ErrInvalidBoardSize):
		return "invalid-board-size"
	case errors.Is(err, ErrNotParticipant):
		return "not-participant"
	case errors.Is(err, ErrNotYourTurn):
		return "not-your-turn"
	case errors.Is(err, ErrGameFinished):
		return "game-finished"
	case errors.Is(err, ErrGameIsNotStarted):
		return "game-not-started"
	case errors.Is(err, ErrUnknownGameKind):
		return "unknown-game-kind"
	default:
		return "internal"
	}
}

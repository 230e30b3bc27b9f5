package entity

import (
	"fmt"
	"time"

	"github.com/playvn/gamehub-backend/internal/apperror"
)

type GameKind string

const (
	KindXiangqi GameKind = "xiangqi"
	KindWeiqi   GameKind = "weiqi"
	KindLudo    GameKind = "ludo"
)

const (
	StatusWaiting  = "waiting"
	StatusOngoing  = "ongoing"
	StatusFinished = "finished"
)

// Result reasons. Stable codes, rendered by the chat layer.
const (
	ResultCheckmate   = "checkmate"
	ResultStalemate   = "stalemate"
	ResultTwoPasses   = "two-passes"
	ResultAllHome     = "all-home"
	ResultResignation = "resignation"
	ResultElimination = "elimination"
	ResultTimeout     = "timeout"
)

// ParticipantLimits returns the allowed participant range per game kind.
func ParticipantLimits(kind GameKind) (minPlayers, maxPlayers int, err error) {
	switch kind {
	case KindXiangqi, KindWeiqi:
		return 2, 2, nil
	case KindLudo:
		return 2, 4, nil
	default:
		return 0, 0, fmt.Errorf("%w: %q", apperror.ErrUnknownGameKind, kind)
	}
}

type Player struct {
	ID         string `json:"id"`
	Seat       int    `json:"seat"`
	Eliminated bool   `json:"eliminated,omitempty"`
}

// ScoreBreakdown is the weiqi area-scoring result.
type ScoreBreakdown struct {
	Black float64 `json:"black"`
	White float64 `json:"white"`
	Komi  float64 `json:"komi"`
}

// GameResult describes how a session ended. WinnerSeat is filled by the
// rule engine; WinnerID is resolved by the session layer. A draw is
// reported explicitly, never silently collapsed into a winner.
type GameResult struct {
	WinnerSeat int             `json:"winner_seat"`
	WinnerID   string          `json:"winner_id,omitempty"`
	Draw       bool            `json:"draw,omitempty"`
	Reason     string          `json:"reason"`
	Score      *ScoreBreakdown `json:"score,omitempty"`
}

// SessionOptions are the per-session rule overrides accepted at creation.
type SessionOptions struct {
	BoardSize int `json:"board_size,omitempty"` // weiqi: 9, 13 or 19
}

// ArchivedMatch is one finished match as stored in the archive.
type ArchivedMatch struct {
	SessionID  string    `json:"session_id"`
	ChannelKey string    `json:"channel_key"`
	Kind       GameKind  `json:"kind"`
	WinnerID   string    `json:"winner_id,omitempty"`
	Draw       bool      `json:"draw,omitempty"`
	Reason     string    `json:"reason"`
	FinishedAt time.Time `json:"finished_at"`
}

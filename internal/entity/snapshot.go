package entity

import "time"

// BoardSnapshot is a read-only board projection for the rendering layer.
// Grid carries cell codes for grid games ("rG", "bS", "B", "W", "");
// SeatPieces carries per-seat piece positions for ludo (-1 = yard).
type BoardSnapshot struct {
	Grid        [][]string `json:"grid,omitempty"`
	SeatPieces  [][]int    `json:"seat_pieces,omitempty"`
	PendingRoll int        `json:"pending_roll,omitempty"`
}

// SessionSnapshot is the projection handed to external callers. It never
// aliases live session state.
type SessionSnapshot struct {
	ID            string        `json:"id"`
	ChannelKey    string        `json:"channel_key"`
	Kind          GameKind      `json:"kind"`
	Status        string        `json:"status"`
	Players       []Player      `json:"players"`
	CurrentPlayer string        `json:"current_player,omitempty"`
	Board         BoardSnapshot `json:"board"`
	LastMove      *Move         `json:"last_move,omitempty"`
	Result        *GameResult   `json:"result,omitempty"`
	CreatedAt     time.Time     `json:"created_at"`
	LastActivity  time.Time     `json:"last_activity"`
}

func (that *SessionSnapshot) IsFinished() bool {
	return that.Status == StatusFinished
}

func (that *SessionSnapshot) IsOngoing() bool {
	return that.Status == StatusOngoing
}

func (that *SessionSnapshot) IsWaiting() bool {
	return that.Status == StatusWaiting
}

// Package session wraps one rule engine with player identity, turn
// bookkeeping and the waiting→ongoing→finished state machine. All access
// goes through a per-session mutex, so moves against the same session are
// strictly serialized while unrelated sessions stay independent.
package session

import (
	"fmt"
	"reflect"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/playvn/gamehub-backend/internal/apperror"
	"github.com/playvn/gamehub-backend/internal/engine"
	"github.com/playvn/gamehub-backend/internal/entity"
)

type Session struct {
	mu sync.Mutex

	id         string
	channelKey string
	kind       entity.GameKind
	players    []entity.Player
	eng        engine.Engine
	rules      engine.Rules

	// history is append-only; replaying it over a fresh engine must
	// reproduce the current board exactly.
	history []entity.Move

	status       string
	result       *entity.GameResult
	lastMove     *entity.Move
	createdAt    time.Time
	lastActivity time.Time
}

func New(channelKey string, kind entity.GameKind, participantIDs []string, rules engine.Rules) (*Session, error) {
	minPlayers, maxPlayers, err := entity.ParticipantLimits(kind)
	if err != nil {
		return nil, err
	}
	if len(participantIDs) < minPlayers || len(participantIDs) > maxPlayers {
		return nil, fmt.Errorf("%w: %s takes %d-%d players, got %d",
			apperror.ErrInvalidParticipantCount, kind, minPlayers, maxPlayers, len(participantIDs))
	}
	seen := make(map[string]bool, len(participantIDs))
	for _, id := range participantIDs {
		if id == "" || seen[id] {
			return nil, fmt.Errorf("%w: participant ids must be unique and non-empty", apperror.ErrInvalidParticipantCount)
		}
		seen[id] = true
	}

	eng, err := engine.New(kind, len(participantIDs), rules)
	if err != nil {
		return nil, err
	}
	return NewWithEngine(channelKey, participantIDs, eng, rules), nil
}

// NewWithEngine attaches players to an already-built engine. Used to
// restore sessions from a known position and by tests.
func NewWithEngine(channelKey string, participantIDs []string, eng engine.Engine, rules engine.Rules) *Session {
	players := make([]entity.Player, len(participantIDs))
	for seat, id := range participantIDs {
		players[seat] = entity.Player{ID: id, Seat: seat}
	}

	now := time.Now()
	return &Session{
		id:           uuid.NewString(),
		channelKey:   channelKey,
		kind:         eng.Kind(),
		players:      players,
		eng:          eng,
		rules:        rules,
		status:       entity.StatusOngoing,
		createdAt:    now,
		lastActivity: now,
	}
}

func (that *Session) ID() string { return that.id }

func (that *Session) ChannelKey() string { return that.channelKey }

func (that *Session) Kind() entity.GameKind { return that.kind }

// Submit validates and applies one move. The lock is held across the
// whole read-validate-apply-snapshot span, so two racing submissions can
// never both observe the same turn.
func (that *Session) Submit(playerID string, mv entity.Move) (*entity.SessionSnapshot, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.status == entity.StatusFinished {
		return nil, apperror.ErrGameFinished
	}

	seat, err := that.seatOf(playerID)
	if err != nil {
		return nil, err
	}
	if seat != that.eng.CurrentSeat() {
		return nil, apperror.ErrNotYourTurn
	}

	applied, err := that.eng.Apply(seat, mv)
	if err != nil {
		return nil, err
	}

	that.history = append(that.history, applied)
	that.lastMove = &applied
	that.lastActivity = time.Now()
	if that.eng.IsTerminal() {
		that.finish(that.eng.Result())
	}
	return that.snapshot(), nil
}

// Resign eliminates the player; in two-player games the opponent wins by
// forfeit. Resigning an already finished session is a no-op that returns
// the same terminal snapshot.
func (that *Session) Resign(playerID string) (*entity.SessionSnapshot, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.status == entity.StatusFinished {
		return that.snapshot(), nil
	}

	seat, err := that.seatOf(playerID)
	if err != nil {
		return nil, err
	}

	that.players[seat].Eliminated = true
	that.eng.Resign(seat)
	that.lastActivity = time.Now()
	if that.eng.IsTerminal() {
		that.finish(that.eng.Result())
	}
	return that.snapshot(), nil
}

// Expire force-finishes the session after an inactivity timeout. Expiring
// twice returns the same terminal snapshot.
func (that *Session) Expire() *entity.SessionSnapshot {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.status != entity.StatusFinished {
		that.finish(&entity.GameResult{WinnerSeat: -1, Reason: entity.ResultTimeout})
	}
	return that.snapshot()
}

func (that *Session) Snapshot() *entity.SessionSnapshot {
	that.mu.Lock()
	defer that.mu.Unlock()
	return that.snapshot()
}

func (that *Session) IsFinished() bool {
	that.mu.Lock()
	defer that.mu.Unlock()
	return that.status == entity.StatusFinished
}

func (that *Session) LastActivity() time.Time {
	that.mu.Lock()
	defer that.mu.Unlock()
	return that.lastActivity
}

// VerifyReplay replays the whole move history over a fresh engine and
// compares boards; a mismatch means session state diverged from its
// history and the session must be treated as defective.
func (that *Session) VerifyReplay() error {
	that.mu.Lock()
	defer that.mu.Unlock()

	fresh, err := engine.New(that.kind, len(that.players), that.rules)
	if err != nil {
		return err
	}
	for i, mv := range that.history {
		if _, err := fresh.Apply(fresh.CurrentSeat(), mv); err != nil {
			return fmt.Errorf("replay diverged at move %d: %w", i, err)
		}
	}
	if !reflect.DeepEqual(fresh.Board(), that.eng.Board()) {
		return fmt.Errorf("replay produced a different board after %d moves", len(that.history))
	}
	return nil
}

// History returns a copy of the applied moves.
func (that *Session) History() []entity.Move {
	that.mu.Lock()
	defer that.mu.Unlock()
	return append([]entity.Move(nil), that.history...)
}

func (that *Session) seatOf(playerID string) (int, error) {
	for _, p := range that.players {
		if p.ID == playerID {
			return p.Seat, nil
		}
	}
	return 0, apperror.ErrNotParticipant
}

func (that *Session) finish(result *entity.GameResult) {
	that.status = entity.StatusFinished
	res := *result
	if res.WinnerSeat >= 0 && res.WinnerSeat < len(that.players) {
		res.WinnerID = that.players[res.WinnerSeat].ID
	}
	that.result = &res
	that.lastActivity = time.Now()
}

func (that *Session) snapshot() *entity.SessionSnapshot {
	snap := &entity.SessionSnapshot{
		ID:           that.id,
		ChannelKey:   that.channelKey,
		Kind:         that.kind,
		Status:       that.status,
		Players:      append([]entity.Player(nil), that.players...),
		Board:        that.eng.Board(),
		CreatedAt:    that.createdAt,
		LastActivity: that.lastActivity,
	}
	if that.lastMove != nil {
		mv := *that.lastMove
		snap.LastMove = &mv
	}
	if that.result != nil {
		res := *that.result
		snap.Result = &res
	}
	if that.status == entity.StatusOngoing {
		snap.CurrentPlayer = that.players[that.eng.CurrentSeat()].ID
	}
	return snap
}

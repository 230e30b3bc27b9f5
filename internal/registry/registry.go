// Package registry owns the channel-key → session mapping: admission
// control (one active session per channel), move dispatch and the
// inactivity sweeper. The registry mutex guards only the map itself;
// per-session serialization is the session's own lock, so unrelated
// channels never block each other.
package registry

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/playvn/gamehub-backend/internal/apperror"
	"github.com/playvn/gamehub-backend/internal/engine"
	"github.com/playvn/gamehub-backend/internal/entity"
	"github.com/playvn/gamehub-backend/internal/session"
)

// Recorder observes sessions reaching a terminal state, wherever that
// happens (move, resignation or sweep). Implementations must not block.
type Recorder interface {
	RecordFinished(snapshot *entity.SessionSnapshot)
}

type Config struct {
	Rules         engine.Rules
	IdleTimeout   time.Duration
	FinishedGrace time.Duration
	SweepInterval time.Duration
}

type Registry struct {
	logger   *slog.Logger
	config   Config
	recorder Recorder

	mu       sync.RWMutex
	sessions map[string]*session.Session
}

func New(logger *slog.Logger, config Config) *Registry {
	return &Registry{
		logger:   logger.With("component", "registry"),
		config:   config,
		sessions: make(map[string]*session.Session),
	}
}

// SetRecorder wires the finished-session observer. Call before any
// session can finish; the registry does not lock around the field.
func (that *Registry) SetRecorder(recorder Recorder) {
	that.recorder = recorder
}

// CreateSession admits a new session for the channel. A finished session
// still waiting out its grace period is evicted and replaced; an ongoing
// one rejects the request.
func (that *Registry) CreateSession(channelKey string, kind entity.GameKind, participantIDs []string, opts *entity.SessionOptions) (*entity.SessionSnapshot, error) {
	rules := that.config.Rules
	if opts != nil && opts.BoardSize != 0 {
		rules.BoardSize = opts.BoardSize
	}

	that.mu.Lock()
	defer that.mu.Unlock()

	if existing, ok := that.sessions[channelKey]; ok {
		if !existing.IsFinished() {
			return nil, apperror.ErrAlreadyActive
		}
		delete(that.sessions, channelKey)
	}

	sess, err := session.New(channelKey, kind, participantIDs, rules)
	if err != nil {
		return nil, err
	}
	that.sessions[channelKey] = sess

	that.logger.Info("session created", "channel", channelKey, "kind", kind, "players", len(participantIDs))
	return sess.Snapshot(), nil
}

func (that *Registry) Get(channelKey string) (*session.Session, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	sess, ok := that.sessions[channelKey]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	return sess, nil
}

func (that *Registry) Submit(channelKey, playerID string, mv entity.Move) (*entity.SessionSnapshot, error) {
	sess, err := that.Get(channelKey)
	if err != nil {
		return nil, err
	}

	snap, err := sess.Submit(playerID, mv)
	if err != nil {
		return nil, err
	}
	if snap.IsFinished() {
		that.recordFinished(snap)
	}
	return snap, nil
}

func (that *Registry) Resign(channelKey, playerID string) (*entity.SessionSnapshot, error) {
	sess, err := that.Get(channelKey)
	if err != nil {
		return nil, err
	}

	wasFinished := sess.IsFinished()
	snap, err := sess.Resign(playerID)
	if err != nil {
		return nil, err
	}
	if snap.IsFinished() && !wasFinished {
		that.recordFinished(snap)
	}
	return snap, nil
}

// End tears a session down explicitly. Expiring an already finished
// session is a no-op on the result, so the call is idempotent.
func (that *Registry) End(channelKey string) (*entity.SessionSnapshot, error) {
	that.mu.Lock()
	sess, ok := that.sessions[channelKey]
	if ok {
		delete(that.sessions, channelKey)
	}
	that.mu.Unlock()

	if !ok {
		return nil, apperror.ErrNotFound
	}

	wasFinished := sess.IsFinished()
	snap := sess.Expire()
	if !wasFinished {
		that.recordFinished(snap)
	}
	that.logger.Info("session ended", "channel", channelKey, "reason", snap.Result.Reason)
	return snap, nil
}

// Sweep evicts sessions that idled past the timeout (finishing them with
// a timeout result) and finished sessions past their grace period. It
// returns the evicted channel keys.
func (that *Registry) Sweep(now time.Time) []string {
	that.mu.RLock()
	candidates := make(map[string]*session.Session, len(that.sessions))
	for key, sess := range that.sessions {
		candidates[key] = sess
	}
	that.mu.RUnlock()

	var evicted []string
	for key, sess := range candidates {
		idle := now.Sub(sess.LastActivity())
		switch {
		case sess.IsFinished():
			if idle < that.config.FinishedGrace {
				continue
			}
		default:
			if idle < that.config.IdleTimeout {
				continue
			}
			snap := sess.Expire()
			that.recordFinished(snap)
			that.logger.Info("session timed out", "channel", key, "idle", idle)
		}

		that.mu.Lock()
		// Only evict if the channel still maps to the same session; it may
		// have been replaced since the scan.
		if current, ok := that.sessions[key]; ok && current == sess {
			delete(that.sessions, key)
			evicted = append(evicted, key)
		}
		that.mu.Unlock()
	}
	return evicted
}

// StartSweeper runs Sweep on an interval until the context is canceled.
func (that *Registry) StartSweeper(ctx context.Context) {
	interval := that.config.SweepInterval
	if interval <= 0 {
		interval = time.Minute
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				if evicted := that.Sweep(now); len(evicted) > 0 {
					that.logger.Info("swept sessions", "count", len(evicted))
				}
			}
		}
	}()
}

func (that *Registry) recordFinished(snap *entity.SessionSnapshot) {
	if that.recorder != nil {
		that.recorder.RecordFinished(snap)
	}
}

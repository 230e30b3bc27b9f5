package service

import (
	"context"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playvn/gamehub-backend/internal/apperror"
	"github.com/playvn/gamehub-backend/internal/engine"
	"github.com/playvn/gamehub-backend/internal/entity"
	"github.com/playvn/gamehub-backend/internal/registry"
)

type memorySessionRepo struct {
	mu        sync.Mutex
	snapshots map[string]*entity.SessionSnapshot
}

func newMemorySessionRepo() *memorySessionRepo {
	return &memorySessionRepo{snapshots: make(map[string]*entity.SessionSnapshot)}
}

func (that *memorySessionRepo) CreateOrUpdate(_ context.Context, snapshot *entity.SessionSnapshot) error {
	that.mu.Lock()
	defer that.mu.Unlock()
	that.snapshots[snapshot.ChannelKey] = snapshot
	return nil
}

func (that *memorySessionRepo) GetByChannel(_ context.Context, channelKey string) (*entity.SessionSnapshot, error) {
	that.mu.Lock()
	defer that.mu.Unlock()
	snapshot, ok := that.snapshots[channelKey]
	if !ok {
		return nil, apperror.ErrNotFound
	}
	return snapshot, nil
}

func (that *memorySessionRepo) DeleteByChannel(_ context.Context, channelKey string) error {
	that.mu.Lock()
	defer that.mu.Unlock()
	delete(that.snapshots, channelKey)
	return nil
}

type memoryArchiveRepo struct {
	mu      sync.Mutex
	matches []entity.ArchivedMatch
}

func (that *memoryArchiveRepo) Init(context.Context) error { return nil }

func (that *memoryArchiveRepo) Save(_ context.Context, snapshot *entity.SessionSnapshot) error {
	that.mu.Lock()
	defer that.mu.Unlock()
	that.matches = append(that.matches, entity.ArchivedMatch{
		SessionID:  snapshot.ID,
		ChannelKey: snapshot.ChannelKey,
		Kind:       snapshot.Kind,
		WinnerID:   snapshot.Result.WinnerID,
		Draw:       snapshot.Result.Draw,
		Reason:     snapshot.Result.Reason,
		FinishedAt: time.Now(),
	})
	return nil
}

func (that *memoryArchiveRepo) ListByChannel(_ context.Context, channelKey string, limit int) ([]entity.ArchivedMatch, error) {
	that.mu.Lock()
	defer that.mu.Unlock()
	var out []entity.ArchivedMatch
	for _, match := range that.matches {
		if match.ChannelKey == channelKey && len(out) < limit {
			out = append(out, match)
		}
	}
	return out, nil
}

func newTestService() (*GameService, *memorySessionRepo, *memoryArchiveRepo) {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	reg := registry.New(logger, registry.Config{
		Rules:         engine.Rules{BoardSize: 9, StalemateIsLoss: true},
		IdleTimeout:   30 * time.Minute,
		FinishedGrace: 2 * time.Minute,
	})

	sessions := newMemorySessionRepo()
	archive := &memoryArchiveRepo{}
	svc := NewGameService(logger, reg, sessions, archive)
	reg.SetRecorder(svc)

	return svc, sessions, archive
}

func TestGameService_DoublePassEndToEnd(t *testing.T) {
	ctx := context.Background()
	svc, sessions, _ := newTestService()

	// Given: a weiqi session on a chat channel
	snapshot, err := svc.CreateSession(ctx, "channel-1", entity.KindWeiqi, []string{"alice", "bob"}, nil)
	require.NoError(t, err)
	assert.Equal(t, entity.StatusOngoing, snapshot.Status)

	// When: alice plays a stone and both players pass
	_, err = svc.SubmitMove(ctx, "channel-1", "alice", entity.Move{Weiqi: &entity.StoneMove{X: 4, Y: 4}})
	require.NoError(t, err)
	_, err = svc.Pass(ctx, "channel-1", "bob")
	require.NoError(t, err)
	snapshot, err = svc.Pass(ctx, "channel-1", "alice")
	require.NoError(t, err)

	// Then: the game is scored and alice wins the whole board
	require.True(t, snapshot.IsFinished())
	require.NotNil(t, snapshot.Result)
	assert.Equal(t, "alice", snapshot.Result.WinnerID)
	assert.Equal(t, entity.ResultTwoPasses, snapshot.Result.Reason)
	require.NotNil(t, snapshot.Result.Score)
	assert.InDelta(t, 81, snapshot.Result.Score.Black, 0.001)

	// And: the match is archived exactly once
	matches, err := svc.History(ctx, "channel-1", 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, "alice", matches[0].WinnerID)

	// And: the persisted snapshot matches the terminal state
	persisted, err := sessions.GetByChannel(ctx, "channel-1")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusFinished, persisted.Status)
}

func TestGameService_RejectedMoveLeavesNoTrace(t *testing.T) {
	ctx := context.Background()
	svc, sessions, _ := newTestService()

	_, err := svc.CreateSession(ctx, "channel-1", entity.KindWeiqi, []string{"alice", "bob"}, nil)
	require.NoError(t, err)

	// When: bob tries to move out of turn
	_, err = svc.SubmitMove(ctx, "channel-1", "bob", entity.Move{Weiqi: &entity.StoneMove{X: 0, Y: 0}})

	// Then: the move is rejected and the persisted state still shows alice to move
	require.ErrorIs(t, err, apperror.ErrNotYourTurn)
	persisted, err := sessions.GetByChannel(ctx, "channel-1")
	require.NoError(t, err)
	assert.Equal(t, "alice", persisted.CurrentPlayer)
	assert.Empty(t, persisted.Board.Grid[0][0])
}

func TestGameService_RollDice(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	_, err := svc.CreateSession(ctx, "channel-1", entity.KindLudo, []string{"alice", "bob", "carol"}, nil)
	require.NoError(t, err)

	// When: alice rolls
	snapshot, err := svc.RollDice(ctx, "channel-1", "alice")

	// Then: the roll is recorded in the last move
	require.NoError(t, err)
	require.NotNil(t, snapshot.LastMove)
	require.NotNil(t, snapshot.LastMove.Ludo)
	assert.True(t, snapshot.LastMove.Ludo.RollRequest)
	assert.NotZero(t, snapshot.LastMove.Ludo.Roll)
}

func TestGameService_GetSnapshotFallsBackToStore(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	_, err := svc.CreateSession(ctx, "channel-1", entity.KindWeiqi, []string{"alice", "bob"}, nil)
	require.NoError(t, err)

	// When: the session is torn down
	_, err = svc.EndSession(ctx, "channel-1")
	require.NoError(t, err)

	// Then: the snapshot is still served from the store
	snapshot, err := svc.GetSnapshot(ctx, "channel-1")
	require.NoError(t, err)
	assert.Equal(t, entity.StatusFinished, snapshot.Status)

	// And: unknown channels stay unknown
	_, err = svc.GetSnapshot(ctx, "missing")
	require.ErrorIs(t, err, apperror.ErrNotFound)
}

func TestGameService_Resign(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newTestService()

	_, err := svc.CreateSession(ctx, "channel-1", entity.KindXiangqi, []string{"alice", "bob"}, nil)
	require.NoError(t, err)

	snapshot, err := svc.Resign(ctx, "channel-1", "bob")

	require.NoError(t, err)
	require.True(t, snapshot.IsFinished())
	assert.Equal(t, "alice", snapshot.Result.WinnerID)
	assert.Equal(t, entity.ResultResignation, snapshot.Result.Reason)

	matches, err := svc.History(ctx, "channel-1", 10)
	require.NoError(t, err)
	require.Len(t, matches, 1)
}

package repository

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/playvn/gamehub-backend/internal/entity"
	"github.com/playvn/gamehub-backend/internal/repository/storage/sqlite"
)

func newArchive(t *testing.T) (context.Context, ArchiveRepository) {
	t.Helper()

	ctx := context.Background()

	storage, err := sqlite.New(filepath.Join(t.TempDir(), "archive.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = storage.Connection.Close()
	})

	archiveRepo := NewArchiveRepository(storage.Connection)
	require.NoError(t, archiveRepo.Init(ctx))

	return ctx, archiveRepo
}

func finishedSnapshot(channelKey, winnerID string) *entity.SessionSnapshot {
	return &entity.SessionSnapshot{
		ID:         "11111111-2222-3333-4444-555555555555",
		ChannelKey: channelKey,
		Kind:       entity.KindWeiqi,
		Status:     entity.StatusFinished,
		Result: &entity.GameResult{
			WinnerSeat: 0,
			WinnerID:   winnerID,
			Reason:     entity.ResultTwoPasses,
			Score:      &entity.ScoreBreakdown{Black: 41, White: 40.5, Komi: 0.5},
		},
	}
}

func TestArchiveRepository_Save(t *testing.T) {
	t.Run("Save_Success", func(t *testing.T) {
		ctx, archiveRepo := newArchive(t)

		// Given: a finished session snapshot
		snapshot := finishedSnapshot("channel-1", "alice")

		// When: Save is called
		err := archiveRepo.Save(ctx, snapshot)

		// Then: no error should be returned
		require.NoError(t, err)
	})

	t.Run("Save_WithoutResult", func(t *testing.T) {
		ctx, archiveRepo := newArchive(t)

		// Given: a snapshot that never finished
		snapshot := finishedSnapshot("channel-1", "alice")
		snapshot.Result = nil

		// When: Save is called
		err := archiveRepo.Save(ctx, snapshot)

		// Then: it is rejected
		require.Error(t, err)
	})
}

func TestArchiveRepository_ListByChannel(t *testing.T) {
	ctx, archiveRepo := newArchive(t)

	// Given: two archived matches on the channel and one elsewhere
	require.NoError(t, archiveRepo.Save(ctx, finishedSnapshot("channel-1", "alice")))
	require.NoError(t, archiveRepo.Save(ctx, finishedSnapshot("channel-1", "bob")))
	require.NoError(t, archiveRepo.Save(ctx, finishedSnapshot("channel-2", "carol")))

	// When: the channel's history is listed
	matches, err := archiveRepo.ListByChannel(ctx, "channel-1", 10)

	// Then: only that channel's matches come back
	require.NoError(t, err)
	require.Len(t, matches, 2)
	for _, match := range matches {
		assert.Equal(t, "channel-1", match.ChannelKey)
		assert.Equal(t, entity.ResultTwoPasses, match.Reason)
	}

	// And: the limit caps the result
	matches, err = archiveRepo.ListByChannel(ctx, "channel-1", 1)
	require.NoError(t, err)
	assert.Len(t, matches, 1)
}

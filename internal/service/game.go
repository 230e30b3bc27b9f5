// Package service exposes the game operations the transports call. It
// delegates rule decisions to the registry and keeps Redis and the match
// archive in sync with what happened.
package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/playvn/gamehub-backend/internal/apperror"
	"github.com/playvn/gamehub-backend/internal/entity"
	"github.com/playvn/gamehub-backend/internal/registry"
	"github.com/playvn/gamehub-backend/internal/repository"
)

type GameService struct {
	logger   *slog.Logger
	registry *registry.Registry
	sessions repository.SessionRepository
	archive  repository.ArchiveRepository
}

func NewGameService(logger *slog.Logger, registry *registry.Registry, sessions repository.SessionRepository, archive repository.ArchiveRepository) *GameService {
	return &GameService{
		logger:   logger.With("component", "game_service"),
		registry: registry,
		sessions: sessions,
		archive:  archive,
	}
}

// CreateSession starts a new match on the channel.
func (that *GameService) CreateSession(ctx context.Context, channelKey string, kind entity.GameKind, participantIDs []string, opts *entity.SessionOptions) (*entity.SessionSnapshot, error) {
	snapshot, err := that.registry.CreateSession(channelKey, kind, participantIDs, opts)
	if err != nil {
		return nil, err
	}

	that.persist(ctx, snapshot)
	return snapshot, nil
}

// SubmitMove applies one move for the player. Rejected moves leave both
// the session and the persisted snapshot untouched.
func (that *GameService) SubmitMove(ctx context.Context, channelKey, playerID string, mv entity.Move) (*entity.SessionSnapshot, error) {
	snapshot, err := that.registry.Submit(channelKey, playerID, mv)
	if err != nil {
		return nil, err
	}

	that.persist(ctx, snapshot)
	return snapshot, nil
}

// Pass plays a pass for the player. Only weiqi sessions accept it.
func (that *GameService) Pass(ctx context.Context, channelKey, playerID string) (*entity.SessionSnapshot, error) {
	return that.SubmitMove(ctx, channelKey, playerID, entity.Move{Weiqi: &entity.StoneMove{Pass: true}})
}

// RollDice rolls for the player. Only ludo sessions accept it.
func (that *GameService) RollDice(ctx context.Context, channelKey, playerID string) (*entity.SessionSnapshot, error) {
	return that.SubmitMove(ctx, channelKey, playerID, entity.Move{Ludo: &entity.DiceMove{RollRequest: true}})
}

// Resign forfeits for the player.
func (that *GameService) Resign(ctx context.Context, channelKey, playerID string) (*entity.SessionSnapshot, error) {
	snapshot, err := that.registry.Resign(channelKey, playerID)
	if err != nil {
		return nil, err
	}

	that.persist(ctx, snapshot)
	return snapshot, nil
}

// EndSession tears the channel's session down.
func (that *GameService) EndSession(ctx context.Context, channelKey string) (*entity.SessionSnapshot, error) {
	snapshot, err := that.registry.End(channelKey)
	if err != nil {
		return nil, err
	}

	that.persist(ctx, snapshot)
	return snapshot, nil
}

// GetSnapshot reads the channel's session. Sessions already swept from
// memory are served from Redis until their key expires there too.
func (that *GameService) GetSnapshot(ctx context.Context, channelKey string) (*entity.SessionSnapshot, error) {
	sess, err := that.registry.Get(channelKey)
	if err == nil {
		return sess.Snapshot(), nil
	}
	if !errors.Is(err, apperror.ErrNotFound) {
		return nil, err
	}

	return that.sessions.GetByChannel(ctx, channelKey)
}

// History lists the channel's archived matches, newest first.
func (that *GameService) History(ctx context.Context, channelKey string, limit int) ([]entity.ArchivedMatch, error) {
	if limit <= 0 {
		limit = 10
	}
	return that.archive.ListByChannel(ctx, channelKey, limit)
}

// RecordFinished archives a terminal session. The registry calls it for
// sessions finished by the sweeper too, so every match lands in the
// archive exactly once per finish.
func (that *GameService) RecordFinished(snapshot *entity.SessionSnapshot) {
	log := that.logger.With("method", "RecordFinished")

	ctx := context.Background()
	if err := that.archive.Save(ctx, snapshot); err != nil {
		log.Error("failed to archive match", "channel", snapshot.ChannelKey, "error", err)
	}
	if err := that.sessions.CreateOrUpdate(ctx, snapshot); err != nil {
		log.Error("failed to persist finished session", "channel", snapshot.ChannelKey, "error", err)
	}
}

// persist mirrors the snapshot into Redis. Persistence is best effort;
// the in-memory session stays authoritative while it lives.
func (that *GameService) persist(ctx context.Context, snapshot *entity.SessionSnapshot) {
	if err := that.sessions.CreateOrUpdate(ctx, snapshot); err != nil {
		that.logger.Error("failed to persist session", "channel", snapshot.ChannelKey, "error", err)
	}
}

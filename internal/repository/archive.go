package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/playvn/gamehub-backend/internal/entity"
)

// ArchiveRepository keeps a permanent record of finished matches; the hot
// session state lives in Redis and is swept away after the grace period.
type ArchiveRepository interface {
	Init(ctx context.Context) error
	Save(ctx context.Context, snapshot *entity.SessionSnapshot) error
	ListByChannel(ctx context.Context, channelKey string, limit int) ([]entity.ArchivedMatch, error)
}

type archiveRepository struct {
	conn *sql.DB
}

func NewArchiveRepository(conn *sql.DB) ArchiveRepository {
	return &archiveRepository{
		conn: conn,
	}
}

func (that *archiveRepository) Init(ctx context.Context) error {
	query := `CREATE TABLE IF NOT EXISTS matches (
		session_id TEXT,
		channel_key TEXT,
		kind TEXT,
		winner_id TEXT,
		draw INTEGER,
		reason TEXT,
		score TEXT,
		finished_at TIMESTAMP
	)`

	_, err := that.conn.ExecContext(ctx, query)
	if err != nil {
		return fmt.Errorf("can't create matches table: %w", err)
	}

	return nil
}

func (that *archiveRepository) Save(ctx context.Context, snapshot *entity.SessionSnapshot) error {
	if snapshot.Result == nil {
		return fmt.Errorf("can't archive a session without a result")
	}

	var score string
	if snapshot.Result.Score != nil {
		raw, err := json.Marshal(snapshot.Result.Score)
		if err != nil {
			return fmt.Errorf("can't marshal score: %w", err)
		}
		score = string(raw)
	}

	query := `INSERT INTO matches (session_id, channel_key, kind, winner_id, draw, reason, score, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`

	_, err := that.conn.ExecContext(ctx, query,
		snapshot.ID, snapshot.ChannelKey, string(snapshot.Kind),
		snapshot.Result.WinnerID, snapshot.Result.Draw, snapshot.Result.Reason,
		score, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("can't save match: %w", err)
	}

	return nil
}

func (that *archiveRepository) ListByChannel(ctx context.Context, channelKey string, limit int) ([]entity.ArchivedMatch, error) {
	query := `SELECT session_id, kind, winner_id, draw, reason, finished_at
		FROM matches WHERE channel_key = ? ORDER BY finished_at DESC LIMIT ?`

	rows, err := that.conn.QueryContext(ctx, query, channelKey, limit)
	if err != nil {
		return nil, fmt.Errorf("can't list matches: %w", err)
	}
	defer rows.Close()

	var matches []entity.ArchivedMatch
	for rows.Next() {
		match := entity.ArchivedMatch{ChannelKey: channelKey}
		if err = rows.Scan(&match.SessionID, &match.Kind, &match.WinnerID, &match.Draw, &match.Reason, &match.FinishedAt); err != nil {
			return nil, fmt.Errorf("can't scan match: %w", err)
		}
		matches = append(matches, match)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("can't read matches: %w", err)
	}

	return matches, nil
}

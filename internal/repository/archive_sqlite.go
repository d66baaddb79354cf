package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"persona_chess/internal/domain/game"
)

const archiveSchema = `
CREATE TABLE IF NOT EXISTS archived_games (
	id            TEXT PRIMARY KEY,
	persona       TEXT NOT NULL,
	time_control  TEXT NOT NULL,
	player_color  TEXT NOT NULL,
	start_fen     TEXT,
	moves_json    TEXT NOT NULL,
	pgn           TEXT NOT NULL,
	result        TEXT NOT NULL,
	reason        TEXT NOT NULL,
	created_at    TEXT NOT NULL,
	finished_at   TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_archived_games_finished ON archived_games(finished_at);
`

// archiveTimeLayout keeps every fraction digit so that text order in
// SQLite matches time order.
const archiveTimeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// SqliteArchiveRepository stores finished games in a local SQLite file.
type SqliteArchiveRepository struct {
	db *sql.DB
}

func NewSqliteArchiveRepository(db *sql.DB) (*SqliteArchiveRepository, error) {
	if _, err := db.Exec(archiveSchema); err != nil {
		return nil, fmt.Errorf("migrate archive: %w", err)
	}
	return &SqliteArchiveRepository{db: db}, nil
}

func (s *SqliteArchiveRepository) ArchiveGame(ctx context.Context, g game.ArchivedGame) error {
	moves, err := json.Marshal(g.Moves)
	if err != nil {
		return fmt.Errorf("marshal moves: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO archived_games
			(id, persona, time_control, player_color, start_fen, moves_json, pgn, result, reason, created_at, finished_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.Persona, g.TimeControl, string(g.PlayerColor), g.StartFEN, string(moves), g.PGN,
		g.Result, g.Reason, g.CreatedAt.UTC().Format(archiveTimeLayout), g.FinishedAt.UTC().Format(archiveTimeLayout),
	)
	if err != nil {
		return fmt.Errorf("insert archived game: %w", err)
	}
	return nil
}

func (s *SqliteArchiveRepository) RecentGames(ctx context.Context, limit int) ([]game.ArchivedGame, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, persona, time_control, player_color, start_fen, moves_json, pgn, result, reason, created_at, finished_at
		FROM archived_games
		ORDER BY finished_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query archive: %w", err)
	}
	defer rows.Close()

	result := []game.ArchivedGame{}
	for rows.Next() {
		var (
			g                 game.ArchivedGame
			color, moves      string
			startFEN          sql.NullString
			created, finished string
		)
		if err := rows.Scan(&g.ID, &g.Persona, &g.TimeControl, &color, &startFEN, &moves, &g.PGN,
			&g.Result, &g.Reason, &created, &finished); err != nil {
			return nil, fmt.Errorf("scan archive: %w", err)
		}
		g.PlayerColor = game.Color(color)
		g.StartFEN = startFEN.String
		if err := json.Unmarshal([]byte(moves), &g.Moves); err != nil {
			return nil, fmt.Errorf("decode moves of %s: %w", g.ID, err)
		}
		if g.CreatedAt, err = time.Parse(archiveTimeLayout, created); err != nil {
			return nil, fmt.Errorf("parse created_at of %s: %w", g.ID, err)
		}
		if g.FinishedAt, err = time.Parse(archiveTimeLayout, finished); err != nil {
			return nil, fmt.Errorf("parse finished_at of %s: %w", g.ID, err)
		}
		result = append(result, g)
	}
	return result, rows.Err()
}

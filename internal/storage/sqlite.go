// Package storage provides SQLite-based persistence for game records.
// Uses the pure-Go modernc.org/sqlite driver to avoid CGO dependencies.
// The games table is the single source of truth every client converges to.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"score4/internal/board"
	"score4/internal/session"
)

// Store manages the SQLite database connection for game persistence.
// It implements session.Store.
type Store struct {
	db *sql.DB
}

// Open creates or opens a SQLite database at the given path. It creates
// the parent directories if needed and runs migrations.
func Open(dbPath string) (*Store, error) {
	// Expand ~ to home directory
	if dbPath != "" && dbPath[0] == '~' {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("storage: cannot expand home directory: %w", err)
		}
		dbPath = filepath.Join(home, dbPath[1:])
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: cannot create directory %s: %w", dir, err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("storage: cannot open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: cannot connect to database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage: migration failed: %w", err)
	}
	return store, nil
}

// migrate creates the database schema if it doesn't exist. Timestamps are
// unix seconds so the staleness sweep can compare them in SQL.
func (s *Store) migrate() error {
	schema := `
		CREATE TABLE IF NOT EXISTS games (
			id TEXT PRIMARY KEY,
			white_id TEXT NOT NULL,
			black_id TEXT NOT NULL DEFAULT '',
			black_bot INTEGER NOT NULL DEFAULT 0,
			board TEXT NOT NULL,
			turn INTEGER NOT NULL,
			start_color INTEGER NOT NULL,
			carry_white INTEGER NOT NULL DEFAULT 0,
			carry_black INTEGER NOT NULL DEFAULT 0,
			score_white INTEGER NOT NULL DEFAULT 0,
			score_black INTEGER NOT NULL DEFAULT 0,
			winner TEXT NOT NULL DEFAULT 'none',
			finished INTEGER NOT NULL DEFAULT 0,
			abandoned INTEGER NOT NULL DEFAULT 0,
			mode TEXT NOT NULL,
			rule TEXT NOT NULL,
			difficulty INTEGER NOT NULL DEFAULT 0,
			moves TEXT NOT NULL DEFAULT '[]',
			rematch_white INTEGER NOT NULL DEFAULT 0,
			rematch_black INTEGER NOT NULL DEFAULT 0,
			winning_cells TEXT NOT NULL DEFAULT '[]',
			version INTEGER NOT NULL DEFAULT 1,
			created_at INTEGER NOT NULL,
			updated_at INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_games_stale ON games(finished, mode, updated_at);
	`
	_, err := s.db.Exec(schema)
	return err
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

const gameColumns = `id, white_id, black_id, black_bot, board, turn, start_color,
	carry_white, carry_black, score_white, score_black, winner, finished, abandoned,
	mode, rule, difficulty, moves, rematch_white, rematch_black, winning_cells,
	version, created_at, updated_at`

// Create inserts a new game record.
func (s *Store) Create(ctx context.Context, g *session.Game) error {
	boardJSON, movesJSON, cellsJSON, err := encodeGame(g)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO games (`+gameColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		g.ID, g.WhiteID, g.BlackID, boolInt(g.BlackBot), boardJSON, g.Turn, g.StartColor,
		g.ScoreCarry.White, g.ScoreCarry.Black, g.Scores.White, g.Scores.Black,
		string(g.Winner), boolInt(g.Finished), boolInt(g.Abandoned),
		string(g.Mode), string(g.Rule), g.Difficulty, movesJSON,
		boolInt(g.RematchWhite), boolInt(g.RematchBlack), cellsJSON,
		g.Version, g.CreatedAt.Unix(), g.UpdatedAt.Unix(),
	)
	if err != nil {
		return fmt.Errorf("storage: insert game %s: %w", g.ID, err)
	}
	return nil
}

// Get loads one game by id.
func (s *Store) Get(ctx context.Context, id string) (*session.Game, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+gameColumns+` FROM games WHERE id = ?`, id)
	g, err := scanGame(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, session.ErrGameNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("storage: load game %s: %w", id, err)
	}
	return g, nil
}

// Update persists g under the compare-and-write precondition that the
// stored version still matches g.Version. A stale writer gets
// session.ErrConflict and must re-poll and retry. On success g.Version is
// advanced to the stored value.
func (s *Store) Update(ctx context.Context, g *session.Game) error {
	boardJSON, movesJSON, cellsJSON, err := encodeGame(g)
	if err != nil {
		return err
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE games SET
			black_id = ?, black_bot = ?, board = ?, turn = ?, start_color = ?,
			carry_white = ?, carry_black = ?, score_white = ?, score_black = ?,
			winner = ?, finished = ?, abandoned = ?, mode = ?, difficulty = ?,
			moves = ?, rematch_white = ?, rematch_black = ?, winning_cells = ?,
			version = version + 1, updated_at = ?
		WHERE id = ? AND version = ?`,
		g.BlackID, boolInt(g.BlackBot), boardJSON, g.Turn, g.StartColor,
		g.ScoreCarry.White, g.ScoreCarry.Black, g.Scores.White, g.Scores.Black,
		string(g.Winner), boolInt(g.Finished), boolInt(g.Abandoned),
		string(g.Mode), g.Difficulty, movesJSON,
		boolInt(g.RematchWhite), boolInt(g.RematchBlack), cellsJSON,
		g.UpdatedAt.Unix(), g.ID, g.Version,
	)
	if err != nil {
		return fmt.Errorf("storage: update game %s: %w", g.ID, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("storage: update game %s: %w", g.ID, err)
	}
	if n == 0 {
		var exists int
		if err := s.db.QueryRowContext(ctx,
			`SELECT COUNT(*) FROM games WHERE id = ?`, g.ID).Scan(&exists); err != nil {
			return fmt.Errorf("storage: update game %s: %w", g.ID, err)
		}
		if exists == 0 {
			return session.ErrGameNotFound
		}
		return session.ErrConflict
	}
	g.Version++
	return nil
}

// ListStale returns unfinished human-vs-human games with no update since
// cutoff, for the maintenance sweep.
func (s *Store) ListStale(ctx context.Context, cutoff time.Time) ([]*session.Game, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+gameColumns+` FROM games
		WHERE finished = 0 AND mode = ? AND updated_at < ?
		ORDER BY updated_at`,
		string(session.ModeHuman), cutoff.Unix(),
	)
	if err != nil {
		return nil, fmt.Errorf("storage: list stale games: %w", err)
	}
	defer rows.Close()

	var out []*session.Game
	for rows.Next() {
		g, err := scanGame(rows)
		if err != nil {
			return nil, fmt.Errorf("storage: list stale games: %w", err)
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGame(row rowScanner) (*session.Game, error) {
	var (
		g                               session.Game
		boardJSON, movesJSON, cellsJSON string
		winner, mode, rule              string
		blackBot, finished, abandoned   int
		rematchWhite, rematchBlack      int
		turn, startColor                uint8
		createdAt, updatedAt            int64
	)
	err := row.Scan(
		&g.ID, &g.WhiteID, &g.BlackID, &blackBot, &boardJSON, &turn, &startColor,
		&g.ScoreCarry.White, &g.ScoreCarry.Black, &g.Scores.White, &g.Scores.Black,
		&winner, &finished, &abandoned, &mode, &rule, &g.Difficulty, &movesJSON,
		&rematchWhite, &rematchBlack, &cellsJSON, &g.Version, &createdAt, &updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(boardJSON), &g.Board); err != nil {
		return nil, fmt.Errorf("decode board: %w", err)
	}
	if err := json.Unmarshal([]byte(movesJSON), &g.Moves); err != nil {
		return nil, fmt.Errorf("decode moves: %w", err)
	}
	if err := json.Unmarshal([]byte(cellsJSON), &g.WinningCells); err != nil {
		return nil, fmt.Errorf("decode winning cells: %w", err)
	}

	g.BlackBot = blackBot != 0
	g.Finished = finished != 0
	g.Abandoned = abandoned != 0
	g.RematchWhite = rematchWhite != 0
	g.RematchBlack = rematchBlack != 0
	g.Turn = board.Cell(turn)
	g.StartColor = board.Cell(startColor)
	g.Winner = session.Outcome(winner)
	g.Mode = session.Mode(mode)
	g.Rule = session.Rule(rule)
	g.CreatedAt = time.Unix(createdAt, 0)
	g.UpdatedAt = time.Unix(updatedAt, 0)
	return &g, nil
}

func encodeGame(g *session.Game) (boardJSON, movesJSON, cellsJSON string, err error) {
	b, err := json.Marshal(g.Board)
	if err != nil {
		return "", "", "", fmt.Errorf("storage: encode board: %w", err)
	}
	moves := g.Moves
	if moves == nil {
		moves = []session.Move{}
	}
	m, err := json.Marshal(moves)
	if err != nil {
		return "", "", "", fmt.Errorf("storage: encode moves: %w", err)
	}
	cells := g.WinningCells
	if cells == nil {
		cells = []board.Coord{}
	}
	c, err := json.Marshal(cells)
	if err != nil {
		return "", "", "", fmt.Errorf("storage: encode winning cells: %w", err)
	}
	return string(b), string(m), string(c), nil
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

// Exchange is one persisted question and answer.
type Exchange struct {
	ID        int64
	SessionID string
	Question  string
	Answer    string
	CreatedAt time.Time
}

// SQLiteStore keeps every exchange with its session id.
type SQLiteStore struct {
	db        *sql.DB
	sessionID string
}

// OpenSQLite opens (or creates) the database at path. Exchanges appended
// through the store are tagged with sessionID.
func OpenSQLite(ctx context.Context, path, sessionID string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create history directory: %w", err)
	}

	dsn := path + "?_journal_mode=WAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows one writer at a time.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &SQLiteStore{db: db, sessionID: sessionID}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS exchanges (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		session_id TEXT NOT NULL,
		question TEXT NOT NULL,
		answer TEXT NOT NULL,
		created_at INTEGER NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_exchanges_session ON exchanges(session_id);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// LoadQuestions returns the questions of every session, oldest first.
func (s *SQLiteStore) LoadQuestions() ([]string, error) {
	rows, err := s.db.Query(`SELECT question FROM exchanges ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to query questions: %w", err)
	}
	defer rows.Close()

	var questions []string
	for rows.Next() {
		var q string
		if err := rows.Scan(&q); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return dedupe(questions), nil
}

// AppendExchange inserts one row.
func (s *SQLiteStore) AppendExchange(ctx context.Context, question, answer string) error {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO exchanges (session_id, question, answer, created_at) VALUES (?, ?, ?, ?)`,
		s.sessionID, question, answer, time.Now().Unix())
	if err != nil {
		return fmt.Errorf("failed to insert exchange: %w", err)
	}
	return nil
}

// Exchanges returns the exchanges of one session, or of all sessions when
// sessionID is empty, oldest first.
func (s *SQLiteStore) Exchanges(ctx context.Context, sessionID string) ([]Exchange, error) {
	query := `SELECT id, session_id, question, answer, created_at FROM exchanges`
	var args []any
	if sessionID != "" {
		query += ` WHERE session_id = ?`
		args = append(args, sessionID)
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query exchanges: %w", err)
	}
	defer rows.Close()

	var out []Exchange
	for rows.Next() {
		var e Exchange
		var created int64
		if err := rows.Scan(&e.ID, &e.SessionID, &e.Question, &e.Answer, &created); err != nil {
			return nil, err
		}
		e.CreatedAt = time.Unix(created, 0)
		out = append(out, e)
	}
	return out, rows.Err()
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

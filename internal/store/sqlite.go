package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/orbitlab/planetforge/internal/derive"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS sessions (
	id         TEXT PRIMARY KEY,
	parameters TEXT NOT NULL,
	result     TEXT,
	created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_sessions_created_at ON sessions(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveSession(ctx context.Context, sess Session) error {
	paramsJSON, err := json.Marshal(sess.Parameters)
	if err != nil {
		return eris.Wrap(err, "sqlite: marshal parameters")
	}
	var resultJSON []byte
	if sess.Result != nil {
		resultJSON, err = json.Marshal(sess.Result)
		if err != nil {
			return eris.Wrap(err, "sqlite: marshal result")
		}
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, parameters, result, created_at) VALUES (?, ?, ?, ?)`,
		sess.ID, string(paramsJSON), string(resultJSON), sess.CreatedAt.UTC(),
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: insert session %s", sess.ID)
	}
	return nil
}

func (s *SQLiteStore) GetSession(ctx context.Context, id string) (*Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, parameters, result, created_at FROM sessions WHERE id = ?`, id)

	sess, err := scanSQLiteSession(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, eris.Wrapf(ErrNotFound, "%s", id)
		}
		return nil, eris.Wrapf(err, "sqlite: get session %s", id)
	}
	return sess, nil
}

func (s *SQLiteStore) ListSessions(ctx context.Context, limit int) ([]Session, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, parameters, result, created_at FROM sessions ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list sessions")
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		sess, err := scanSQLiteSession(rows.Scan)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan session")
		}
		sessions = append(sessions, *sess)
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "sqlite: iterate sessions")
	}
	return sessions, nil
}

func scanSQLiteSession(scan func(dest ...any) error) (*Session, error) {
	var sess Session
	var paramsJSON string
	var resultJSON sql.NullString
	var createdAt time.Time

	if err := scan(&sess.ID, &paramsJSON, &resultJSON, &createdAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(paramsJSON), &sess.Parameters); err != nil {
		return nil, eris.Wrap(err, "unmarshal parameters")
	}
	if resultJSON.Valid && resultJSON.String != "" {
		var r derive.Result
		if err := json.Unmarshal([]byte(resultJSON.String), &r); err != nil {
			return nil, eris.Wrap(err, "unmarshal result")
		}
		sess.Result = &r
	}
	sess.CreatedAt = createdAt.UTC()
	return &sess, nil
}

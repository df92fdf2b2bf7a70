package memory

import (
	"context"
	"database/sql"
	"time"

	"SignalSentinel/internal/model"
	"SignalSentinel/pkg/logger"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps the memory in a SQLite table.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the SQLite database and runs migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "open sqlite")
	}
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "set WAL mode")
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS last_signals (
		pair       TEXT PRIMARY KEY,
		signal     TEXT NOT NULL,
		updated_at INTEGER NOT NULL
	)`); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "migrate")
	}
	logger.Info("sqlite signal store opened: %s", dbPath)
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Name() string { return "sqlite" }

func (s *SQLiteStore) Load(ctx context.Context) (map[string]model.SignalKind, error) {
	last := make(map[string]model.SignalKind)
	rows, err := s.db.QueryContext(ctx, `SELECT pair, signal FROM last_signals`)
	if err != nil {
		return last, &model.PersistenceError{Op: "load", Err: err}
	}
	defer rows.Close()

	for rows.Next() {
		var pair, signal string
		if err := rows.Scan(&pair, &signal); err != nil {
			return make(map[string]model.SignalKind), &model.PersistenceError{Op: "load", Err: err}
		}
		if kind := model.SignalKind(signal); kind.Valid() {
			last[pair] = kind
		}
	}
	if err := rows.Err(); err != nil {
		return make(map[string]model.SignalKind), &model.PersistenceError{Op: "load", Err: err}
	}
	return last, nil
}

// Save upserts every entry of last in a single transaction.
func (s *SQLiteStore) Save(ctx context.Context, last map[string]model.SignalKind) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return &model.PersistenceError{Op: "save", Err: err}
	}
	now := time.Now().Unix()
	for pair, kind := range last {
		if _, err := tx.ExecContext(ctx, `INSERT INTO last_signals (pair, signal, updated_at) VALUES (?,?,?)
			ON CONFLICT(pair) DO UPDATE SET signal = excluded.signal, updated_at = excluded.updated_at`,
			pair, string(kind), now); err != nil {
			tx.Rollback()
			return &model.PersistenceError{Op: "save", Err: errors.Wrapf(err, "upsert %s", pair)}
		}
	}
	if err := tx.Commit(); err != nil {
		return &model.PersistenceError{Op: "save", Err: err}
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

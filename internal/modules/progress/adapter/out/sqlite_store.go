package out

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"pomodoro/internal/modules/progress/domain"
	progressout "pomodoro/internal/modules/progress/port/out"
	apperrors "pomodoro/internal/platform/errors"

	_ "modernc.org/sqlite"
)

type SQLiteRecordStore struct {
	db     *sql.DB
	loc    *time.Location
	logger zerolog.Logger
}

func NewSQLiteRecordStore(dbPath string, loc *time.Location, logger zerolog.Logger) (progressout.RecordStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, apperrors.NewStorage("create db dir", err)
	}
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, apperrors.NewStorage("open sqlite", err)
	}
	// one connection keeps appends ordered and avoids SQLITE_BUSY between writers
	db.SetMaxOpenConns(1)
	if loc == nil {
		loc = time.Local
	}
	store := &SQLiteRecordStore{db: db, loc: loc, logger: logger}
	if err := store.ensureSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

func (s *SQLiteRecordStore) ensureSchema(ctx context.Context) error {
	const ddl = `
CREATE TABLE IF NOT EXISTS sessions (
  seq INTEGER PRIMARY KEY AUTOINCREMENT,
  id TEXT NOT NULL,
  timestamp TEXT NOT NULL,
  duration INTEGER NOT NULL CHECK (duration >= 30),
  date TEXT NOT NULL,
  kind TEXT NOT NULL DEFAULT 'focus'
);
CREATE INDEX IF NOT EXISTS idx_sessions_date ON sessions(date);
`
	if _, err := s.db.ExecContext(ctx, ddl); err != nil {
		return apperrors.NewStorage("create sessions table", err)
	}
	return nil
}

func (s *SQLiteRecordStore) Append(ctx context.Context, record domain.Record) error {
	if err := record.Validate(); err != nil {
		return err
	}
	const stmt = `INSERT INTO sessions (id, timestamp, duration, date, kind) VALUES (?, ?, ?, ?, ?)`
	_, err := s.db.ExecContext(ctx, stmt,
		record.ID,
		domain.FormatTimestamp(record.Timestamp),
		record.Duration,
		record.Date,
		string(kindOrFocus(record.Kind)),
	)
	if err != nil {
		return apperrors.NewStorage("insert session", err)
	}
	return nil
}

func (s *SQLiteRecordStore) Scan(ctx context.Context, visit func(domain.Record) error) error {
	rows, err := s.db.QueryContext(ctx, `SELECT id, timestamp, duration, date, kind FROM sessions ORDER BY seq`)
	if err != nil {
		return apperrors.NewStorage("query sessions", err)
	}
	defer rows.Close()

	for rows.Next() {
		var e entry
		if err := rows.Scan(&e.ID, &e.Timestamp, &e.Duration, &e.Date, &e.Kind); err != nil {
			return apperrors.NewStorage("scan session", err)
		}
		record, err := e.toRecord(s.loc)
		if err != nil {
			s.logger.Warn().Err(err).Str("id", e.ID).Msg("skip malformed session row")
			continue
		}
		if err := visit(record); err != nil {
			return err
		}
	}
	if err := rows.Err(); err != nil {
		return apperrors.NewStorage("iterate sessions", err)
	}
	return nil
}

func (s *SQLiteRecordStore) Close() error {
	if err := s.db.Close(); err != nil {
		return fmt.Errorf("close sqlite: %w", err)
	}
	return nil
}

func kindOrFocus(kind domain.Kind) domain.Kind {
	if kind == "" {
		return domain.KindFocus
	}
	return kind
}

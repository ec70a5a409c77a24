package jobs

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const savedJobsSchema = `
CREATE TABLE IF NOT EXISTS saved_jobs (
	id       TEXT PRIMARY KEY,
	title    TEXT NOT NULL,
	company  TEXT NOT NULL,
	saved_at TEXT NOT NULL,
	posting  TEXT NOT NULL,
	UNIQUE(title, company)
)`

// SQLiteStore keeps saved jobs in a sqlite database.
type SQLiteStore struct {
	conn *sql.DB
}

// NewSQLiteStore opens dsn and creates the saved_jobs table when missing.
func NewSQLiteStore(ctx context.Context, dsn string) (*SQLiteStore, error) {
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	// sqlite serialises writers anyway; one connection keeps ":memory:" usable.
	conn.SetMaxOpenConns(1)

	if err := conn.PingContext(ctx); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping db: %w", err)
	}
	if _, err := conn.ExecContext(ctx, savedJobsSchema); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create saved_jobs: %w", err)
	}
	return &SQLiteStore{conn: conn}, nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]*SavedJob, error) {
	rows, err := s.conn.QueryContext(ctx, `SELECT id, saved_at, posting FROM saved_jobs ORDER BY saved_at, rowid`)
	if err != nil {
		return nil, fmt.Errorf("list saved jobs: %w", err)
	}
	defer rows.Close()

	var out []*SavedJob
	for rows.Next() {
		var id, savedAt, body string
		if err := rows.Scan(&id, &savedAt, &body); err != nil {
			return nil, fmt.Errorf("scan saved job: %w", err)
		}

		saved := &SavedJob{ID: id}
		if err := json.Unmarshal([]byte(body), &saved.Posting); err != nil {
			return nil, fmt.Errorf("decode saved job %s: %w", id, err)
		}
		if ts, err := time.Parse(time.RFC3339Nano, savedAt); err == nil {
			saved.SavedAt = ts
		}
		out = append(out, saved)
	}
	return out, rows.Err()
}

func (s *SQLiteStore) Add(ctx context.Context, p *Posting) (string, error) {
	if err := validate(p); err != nil {
		return "", err
	}

	key := p.Key()
	posting := *p
	posting.Title, posting.Company = key.Title, key.Company

	body, err := json.Marshal(posting)
	if err != nil {
		return "", fmt.Errorf("encode saved job: %w", err)
	}

	_, err = s.conn.ExecContext(ctx, `
INSERT INTO saved_jobs (id, title, company, saved_at, posting)
VALUES (?, ?, ?, ?, ?)
ON CONFLICT(title, company) DO UPDATE SET posting = excluded.posting`,
		uuid.NewString(), key.Title, key.Company, time.Now().UTC().Format(time.RFC3339Nano), string(body))
	if err != nil {
		return "", fmt.Errorf("save job %s: %w", key, err)
	}

	var id string
	err = s.conn.QueryRowContext(ctx,
		`SELECT id FROM saved_jobs WHERE title = ? AND company = ?`, key.Title, key.Company).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("read saved job id: %w", err)
	}
	return id, nil
}

func (s *SQLiteStore) Remove(ctx context.Context, title, company string) (bool, error) {
	key := NewKey(title, company)
	res, err := s.conn.ExecContext(ctx,
		`DELETE FROM saved_jobs WHERE title = ? AND company = ?`, key.Title, key.Company)
	if err != nil {
		return false, fmt.Errorf("remove saved job %s: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *SQLiteStore) Close() error {
	return s.conn.Close()
}

package db

import (
	"context"
	"database/sql"
	"time"
)

type Queries struct {
	db *sql.DB
}

func New(conn *sql.DB) *Queries {
	return &Queries{db: conn}
}

type Session struct {
	ID          string
	ProfileName string
	ProfileJSON string
	Info        string
	CreatedAt   time.Time
}

type InsertSessionParams struct {
	ID          string
	ProfileName string
	ProfileJSON string
	Info        string
	CreatedAt   time.Time
}

const insertSession = `INSERT INTO sessions (id, profile_name, profile_json, info, created_at) VALUES (?, ?, ?, ?, ?)`

func (q *Queries) InsertSession(ctx context.Context, arg InsertSessionParams) error {
	_, err := q.db.ExecContext(ctx, insertSession, arg.ID, arg.ProfileName, arg.ProfileJSON, arg.Info, arg.CreatedAt.UnixNano())
	return err
}

const getSession = `SELECT id, profile_name, profile_json, info, created_at FROM sessions WHERE id = ?`

func (q *Queries) GetSession(ctx context.Context, id string) (Session, error) {
	return scanSession(q.db.QueryRowContext(ctx, getSession, id))
}

const listSessions = `SELECT id, profile_name, profile_json, info, created_at FROM sessions
ORDER BY created_at DESC, rowid DESC LIMIT ?`

func (q *Queries) ListSessions(ctx context.Context, limit int64) ([]Session, error) {
	rows, err := q.db.QueryContext(ctx, listSessions, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanSession(row scanner) (Session, error) {
	var (
		s       Session
		created int64
	)
	if err := row.Scan(&s.ID, &s.ProfileName, &s.ProfileJSON, &s.Info, &created); err != nil {
		return Session{}, err
	}
	s.CreatedAt = time.Unix(0, created)
	return s, nil
}

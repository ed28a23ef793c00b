package sessions

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"goose/internal/db"
	"goose/internal/profile"

	"github.com/google/uuid"
)

var ErrSessionNotFound = errors.New("session not found")

// Session is a recorded run of goose and the profile it ran with.
type Session struct {
	ID          string
	ProfileName string
	Profile     *profile.Profile
	CreatedAt   time.Time
}

type Store struct {
	q   *db.Queries
	now func() time.Time
}

func NewStore(database *db.DB) *Store {
	return &Store{q: db.New(database.Conn()), now: time.Now}
}

// Start records a new session under a fresh id with a snapshot of p.
func (s *Store) Start(ctx context.Context, profileName string, p *profile.Profile) (Session, error) {
	raw, err := json.Marshal(p.Document())
	if err != nil {
		return Session{}, fmt.Errorf("encoding profile: %w", err)
	}

	sess := Session{
		ID:          uuid.NewString(),
		ProfileName: profileName,
		Profile:     p,
		CreatedAt:   s.now(),
	}
	if err := s.q.InsertSession(ctx, db.InsertSessionParams{
		ID:          sess.ID,
		ProfileName: profileName,
		ProfileJSON: string(raw),
		Info:        p.Info(),
		CreatedAt:   sess.CreatedAt,
	}); err != nil {
		return Session{}, fmt.Errorf("recording session: %w", err)
	}

	slog.Info("session started", "session_id", sess.ID, "profile", profileName)
	return sess, nil
}

func (s *Store) Get(ctx context.Context, id string) (Session, error) {
	row, err := s.q.GetSession(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return Session{}, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if err != nil {
		return Session{}, err
	}
	return decode(row)
}

// List returns up to limit sessions, newest first. Rows whose stored profile
// no longer decodes are skipped.
func (s *Store) List(ctx context.Context, limit int) ([]Session, error) {
	rows, err := s.q.ListSessions(ctx, int64(limit))
	if err != nil {
		return nil, err
	}

	out := make([]Session, 0, len(rows))
	for _, row := range rows {
		sess, err := decode(row)
		if err != nil {
			slog.Warn("skipping session with invalid profile", "session_id", row.ID, "error", err)
			continue
		}
		out = append(out, sess)
	}
	return out, nil
}

func decode(row db.Session) (Session, error) {
	var doc profile.Document
	if err := json.Unmarshal([]byte(row.ProfileJSON), &doc); err != nil {
		return Session{}, fmt.Errorf("decoding profile of session %s: %w", row.ID, err)
	}
	p, err := profile.FromDocument(doc)
	if err != nil {
		return Session{}, fmt.Errorf("profile of session %s: %w", row.ID, err)
	}
	return Session{
		ID:          row.ID,
		ProfileName: row.ProfileName,
		Profile:     p,
		CreatedAt:   row.CreatedAt,
	}, nil
}

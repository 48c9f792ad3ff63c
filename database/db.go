package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"cinemood/logging"
)

// ErrNotFound is returned when a session or watchlist id does not exist.
var ErrNotFound = errors.New("record not found")

// ─── Models ──────────────────────────────────────────────────────────────────

// Session is one served recommendation. The JSON columns hold the payloads
// exactly as they were returned to the client.
type Session struct {
	ID          string    `json:"id"`
	Emotion     string    `json:"emotion"`
	Weather     string    `json:"weather"`
	Temperature int       `json:"temperature"`
	Location    string    `json:"location"`
	Genres      string    `json:"genres"`
	GenreIDs    []int64   `json:"genre_ids"`
	ContextJSON string    `json:"context_json"`
	RowsJSON    string    `json:"rows_json"`
	BingeJSON   string    `json:"binge_json"`
	Source      string    `json:"source"` // "live" or "estimated"
	CreatedAt   time.Time `json:"created_at"`
}

type Watchlist struct {
	ID         string    `json:"id"`
	SessionID  string    `json:"session_id"`
	ViewerName string    `json:"viewer_name"`
	PDFData    []byte    `json:"pdf_data,omitempty"` // stored in DB, no filesystem needed
	CreatedAt  time.Time `json:"created_at"`
}

// ─── Store ───────────────────────────────────────────────────────────────────

// Store persists sessions and watchlists in PostgreSQL.
type Store struct {
	db *sql.DB
}

const (
	connectAttempts = 10
	connectDelay    = 2 * time.Second
)

// Open connects to dsn, waiting for the database to come up, and applies the
// migrations.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	for i := 0; i < connectAttempts; i++ {
		if err = db.PingContext(ctx); err == nil {
			break
		}
		logging.Warn().Err(err).Int("attempt", i+1).Int("max", connectAttempts).Msg("waiting for database")
		select {
		case <-ctx.Done():
			db.Close()
			return nil, ctx.Err()
		case <-time.After(connectDelay):
		}
	}
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("connect database after %d attempts: %w", connectAttempts, err)
	}

	s := &Store{db: db}
	if err := s.migrate(ctx); err != nil {
		db.Close()
		return nil, err
	}
	logging.Info().Msg("database connected and migrated")
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Backend() string { return "postgres" }

// ─── Migrations ───────────────────────────────────────────────────────────────

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS sessions (
		id           TEXT PRIMARY KEY,
		emotion      TEXT NOT NULL,
		weather      TEXT NOT NULL,
		temperature  INTEGER DEFAULT 0,
		location     TEXT,
		genres       TEXT NOT NULL,
		genre_ids    INTEGER[] NOT NULL,
		context_json TEXT,
		rows_json    TEXT,
		binge_json   TEXT,
		source       TEXT NOT NULL,
		created_at   TIMESTAMPTZ DEFAULT NOW()
	)`,

	`CREATE TABLE IF NOT EXISTS watchlists (
		id          TEXT PRIMARY KEY,
		session_id  TEXT NOT NULL REFERENCES sessions(id),
		viewer_name TEXT,
		pdf_data    BYTEA,
		created_at  TIMESTAMPTZ DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_watchlists_session_id
		ON watchlists(session_id)`,

	`CREATE INDEX IF NOT EXISTS idx_sessions_created_at
		ON sessions(created_at DESC)`,
}

func (s *Store) migrate(ctx context.Context) error {
	for _, m := range migrations {
		if _, err := s.db.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("migration failed: %w\nSQL: %s", err, m)
		}
	}
	return nil
}

// ─── CRUD ─────────────────────────────────────────────────────────────────────

func (s *Store) SaveSession(ctx context.Context, sess *Session) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (id, emotion, weather, temperature, location, genres, genre_ids,
			context_json, rows_json, binge_json, source)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)`,
		sess.ID, sess.Emotion, sess.Weather, sess.Temperature, sess.Location, sess.Genres,
		pq.Array(sess.GenreIDs), sess.ContextJSON, sess.RowsJSON, sess.BingeJSON, sess.Source)
	return err
}

func (s *Store) GetSession(ctx context.Context, id string) (*Session, error) {
	sess := &Session{}
	var location, contextJSON, rowsJSON, bingeJSON sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, emotion, weather, temperature, location, genres, genre_ids,
			context_json, rows_json, binge_json, source, created_at
		FROM sessions WHERE id = $1`, id).
		Scan(&sess.ID, &sess.Emotion, &sess.Weather, &sess.Temperature, &location, &sess.Genres,
			pq.Array(&sess.GenreIDs), &contextJSON, &rowsJSON, &bingeJSON, &sess.Source, &sess.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	sess.Location = location.String
	sess.ContextJSON = contextJSON.String
	sess.RowsJSON = rowsJSON.String
	sess.BingeJSON = bingeJSON.String
	return sess, nil
}

func (s *Store) SaveWatchlist(ctx context.Context, w *Watchlist) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO watchlists (id, session_id, viewer_name, pdf_data)
		VALUES ($1, $2, $3, $4)`,
		w.ID, w.SessionID, w.ViewerName, w.PDFData)
	return err
}

func (s *Store) GetWatchlist(ctx context.Context, id string) (*Watchlist, error) {
	w := &Watchlist{}
	var viewer sql.NullString
	err := s.db.QueryRowContext(ctx, `
		SELECT id, session_id, viewer_name, pdf_data, created_at
		FROM watchlists WHERE id = $1`, id).
		Scan(&w.ID, &w.SessionID, &viewer, &w.PDFData, &w.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	w.ViewerName = viewer.String
	return w, nil
}

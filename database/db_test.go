package database

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestMemoryStoreSessions(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return fixed }

	in := &Session{ID: "s1", Emotion: "sad", Weather: "Clear", Genres: "Drama, Action, Adventure", GenreIDs: []int64{18, 28, 12}, Source: "live"}
	if err := m.SaveSession(ctx, in); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}
	in.GenreIDs[0] = 99

	got, err := m.GetSession(ctx, "s1")
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.GenreIDs[0] != 18 {
		t.Error("stored session shares its slice with the caller")
	}
	if !got.CreatedAt.Equal(fixed) {
		t.Errorf("CreatedAt = %v, want %v", got.CreatedAt, fixed)
	}

	if _, err := m.GetSession(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreWatchlists(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryStore()

	if err := m.SaveWatchlist(ctx, &Watchlist{ID: "w1", SessionID: "nope"}); !errors.Is(err, ErrNotFound) {
		t.Errorf("watchlist for unknown session: err = %v", err)
	}

	_ = m.SaveSession(ctx, &Session{ID: "s1"})
	if err := m.SaveWatchlist(ctx, &Watchlist{ID: "w1", SessionID: "s1", PDFData: []byte("%PDF-1.3")}); err != nil {
		t.Fatalf("SaveWatchlist: %v", err)
	}
	got, err := m.GetWatchlist(ctx, "w1")
	if err != nil || string(got.PDFData) != "%PDF-1.3" {
		t.Fatalf("GetWatchlist = %+v, %v", got, err)
	}
	if _, err := m.GetWatchlist(ctx, "w2"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

// TestPostgresStore runs against a real database when CINEMOOD_TEST_DATABASE_URL
// is set.
func TestPostgresStore(t *testing.T) {
	dsn := os.Getenv("CINEMOOD_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("CINEMOOD_TEST_DATABASE_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	s, err := Open(ctx, dsn)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer s.Close()

	sess := &Session{
		ID: uuid.New().String(), Emotion: "calm", Weather: "Rain", Temperature: 55,
		Genres: "Documentary, Documentary, Drama, Romance", GenreIDs: []int64{99, 99, 18, 17},
		ContextJSON: `{"season":3}`, Source: "estimated",
	}
	if err := s.SaveSession(ctx, sess); err != nil {
		t.Fatalf("SaveSession: %v", err)
	}
	got, err := s.GetSession(ctx, sess.ID)
	if err != nil {
		t.Fatalf("GetSession: %v", err)
	}
	if got.Genres != sess.Genres || len(got.GenreIDs) != 4 || got.GenreIDs[3] != 17 {
		t.Errorf("round trip = %+v", got)
	}

	w := &Watchlist{ID: uuid.New().String(), SessionID: sess.ID, ViewerName: "Ana", PDFData: []byte("%PDF")}
	if err := s.SaveWatchlist(ctx, w); err != nil {
		t.Fatalf("SaveWatchlist: %v", err)
	}
	if _, err := s.GetWatchlist(ctx, uuid.New().String()); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

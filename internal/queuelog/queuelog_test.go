package queuelog

import (
	"database/sql"
	"errors"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/salterb/cast/internal/shared"
)

func newTestLog(t *testing.T) *QueueLog {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("failed to open in-memory database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return NewQueueLog(db)
}

func TestQueueLog(t *testing.T) {
	t.Run("Record", func(t *testing.T) {
		ql := newTestLog(t)

		entry := &Entry{
			TrackURI: "spotify:track:abc123",
			Title:    "Bohemian Rhapsody",
			Artist:   "Queen",
			Album:    "A Night at the Opera",
			ClientIP: "192.168.1.10",
		}

		if err := ql.Record(entry); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if entry.ID == "" {
			t.Error("expected generated entry id")
		}
		if entry.QueuedAt.IsZero() {
			t.Error("expected queued time to be set")
		}

		count, err := ql.Count()
		if err != nil {
			t.Fatalf("failed to count entries: %v", err)
		}
		if count != 1 {
			t.Errorf("expected one entry, got %d", count)
		}

		t.Run("Rejects Missing URI", func(t *testing.T) {
			err := ql.Record(&Entry{Title: "No URI"})
			if !errors.Is(err, shared.ErrInvalidInput) {
				t.Errorf("expected ErrInvalidInput, got %v", err)
			}
		})
	})

	t.Run("IsQueued", func(t *testing.T) {
		ql := newTestLog(t)

		queued, err := ql.IsQueued("spotify:track:abc123")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if queued {
			t.Error("expected track not to be queued yet")
		}

		if err := ql.Record(&Entry{TrackURI: "spotify:track:abc123", Title: "Bohemian Rhapsody"}); err != nil {
			t.Fatalf("failed to record entry: %v", err)
		}

		queued, err = ql.IsQueued("spotify:track:abc123")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !queued {
			t.Error("expected track to be reported as queued")
		}

		queued, err = ql.IsQueued("spotify:track:other")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if queued {
			t.Error("expected unrelated track not to be queued")
		}
	})

	t.Run("Recent", func(t *testing.T) {
		ql := newTestLog(t)

		tracks := []string{"spotify:track:1", "spotify:track:2", "spotify:track:3"}
		for i, uri := range tracks {
			entry := &Entry{TrackURI: uri, Title: tracks[i]}
			if err := ql.Record(entry); err != nil {
				t.Fatalf("failed to record entry: %v", err)
			}
		}

		entries, err := ql.Recent(2)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if len(entries) != 2 {
			t.Fatalf("expected 2 entries, got %d", len(entries))
		}
		if entries[0].TrackURI != "spotify:track:3" {
			t.Errorf("expected newest entry first, got %s", entries[0].TrackURI)
		}

		t.Run("Default Limit", func(t *testing.T) {
			entries, err := ql.Recent(0)
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if len(entries) != 3 {
				t.Errorf("expected all 3 entries with default limit, got %d", len(entries))
			}
		})
	})

	t.Run("Count Empty", func(t *testing.T) {
		ql := newTestLog(t)

		count, err := ql.Count()
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if count != 0 {
			t.Errorf("expected empty log, got %d entries", count)
		}
	})
}

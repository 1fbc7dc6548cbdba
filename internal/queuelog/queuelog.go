// package queuelog provides the persistence layer for queued tracks.
//
// The Spotify API offers no way to inspect the queue, so duplicate
// suppression works off a local log of everything CAST has queued.
// The log also records which client IP asked for each track.
package queuelog

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/salterb/cast/internal/shared"
)

// Entry represents one queued track in the log.
type Entry struct {
	ID       string    `json:"id"`
	TrackURI string    `json:"track_uri"`
	Title    string    `json:"title"`
	Artist   string    `json:"artist"`
	Album    string    `json:"album"`
	ClientIP string    `json:"client_ip"`
	QueuedAt time.Time `json:"queued_at"`
}

// QueueLog records queued tracks in SQLite and answers duplicate checks.
type QueueLog struct {
	db *sql.DB
}

// NewQueueLog creates a QueueLog backed by the given database connection.
func NewQueueLog(db *sql.DB) *QueueLog {
	return &QueueLog{db: db}
}

// Record inserts a new log entry with a generated ID and the current time.
func (q *QueueLog) Record(entry *Entry) error {
	if entry.TrackURI == "" {
		return fmt.Errorf("%w: entry missing track URI", shared.ErrInvalidInput)
	}

	entry.ID = shared.GenerateID()
	entry.QueuedAt = time.Now().UTC()

	query := `
		INSERT INTO queue_log (id, track_uri, title, artist, album, client_ip, queued_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := q.db.Exec(query,
		entry.ID,
		entry.TrackURI,
		entry.Title,
		entry.Artist,
		entry.Album,
		entry.ClientIP,
		entry.QueuedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert queue log entry: %w", err)
	}

	return nil
}

// IsQueued reports whether a track URI already appears in the log.
func (q *QueueLog) IsQueued(uri string) (bool, error) {
	var exists bool
	err := q.db.QueryRow("SELECT EXISTS(SELECT 1 FROM queue_log WHERE track_uri = ?)", uri).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check queue log: %w", err)
	}
	return exists, nil
}

// Recent returns the most recently queued entries, newest first.
func (q *QueueLog) Recent(limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, track_uri, title, artist, album, client_ip, queued_at
		FROM queue_log
		ORDER BY queued_at DESC
		LIMIT ?
	`

	rows, err := q.db.Query(query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query queue log: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.ID, &e.TrackURI, &e.Title, &e.Artist, &e.Album, &e.ClientIP, &e.QueuedAt); err != nil {
			return nil, fmt.Errorf("failed to scan queue log entry: %w", err)
		}
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate queue log: %w", err)
	}

	return entries, nil
}

// Count returns the total number of logged entries.
func (q *QueueLog) Count() (int, error) {
	var count int
	if err := q.db.QueryRow("SELECT COUNT(*) FROM queue_log").Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count queue log entries: %w", err)
	}
	return count, nil
}

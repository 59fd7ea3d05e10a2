// Package archive persists written snapshots into a local SQLite
// database so operators can replay or inspect history after the fact.
// It plugs into the pipeline as one more sink; archive failures never
// block the primary file output.
package archive

import (
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/transport-telemetry/simtelemetry/snapshot"
)

//go:embed schema.sql
var schemaSQL string

// Store writes snapshots to a SQLite file. SQLite allows one writer at
// a time, so the connection pool is pinned to a single connection; all
// calls arrive from the single pipeline goroutine anyway.
type Store struct {
	conn *sql.DB
}

// Open opens (creating if needed) the archive database at path and
// applies the schema.
func Open(path string) (*Store, error) {
	dsn := path + "?_journal=WAL&_busy_timeout=5000"
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open archive %s: %w", path, err)
	}
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("ping archive %s: %w", path, err)
	}
	if _, err := conn.Exec("PRAGMA synchronous = NORMAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("configure archive: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("apply archive schema: %w", err)
	}
	return &Store{conn: conn}, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.conn.Close()
}

// Write stores one snapshot row. Implements pipeline.Sink.
func (s *Store) Write(doc *snapshot.Document, encoded []byte) error {
	var gameTime any
	if doc.GameTime != nil {
		gameTime = *doc.GameTime
	}
	_, err := s.conn.Exec(
		`INSERT INTO snapshots
		 (snapshot_id, write_count, schema_version, created_at_utc, game_time,
		  vehicle_count, line_count, station_count, passenger_total, document)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(),
		doc.WriteCount,
		doc.SchemaVersion,
		time.Now().UTC().Format(time.RFC3339),
		gameTime,
		doc.Stats.Vehicles,
		doc.Stats.Lines,
		doc.Stats.Stations,
		doc.Stats.Passengers,
		encoded,
	)
	if err != nil {
		return fmt.Errorf("insert snapshot %d: %w", doc.WriteCount, err)
	}
	return nil
}

// Prune deletes archived snapshots older than keep, returning how many
// rows were removed.
func (s *Store) Prune(keep time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-keep).Format(time.RFC3339)
	res, err := s.conn.Exec("DELETE FROM snapshots WHERE created_at_utc < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune archive: %w", err)
	}
	return res.RowsAffected()
}

// Count returns the number of archived snapshots.
func (s *Store) Count() (int64, error) {
	var n int64
	if err := s.conn.QueryRow("SELECT COUNT(*) FROM snapshots").Scan(&n); err != nil {
		return 0, fmt.Errorf("count archive rows: %w", err)
	}
	return n, nil
}

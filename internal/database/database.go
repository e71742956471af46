package database

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB wraps a SQLite database connection.
type DB struct {
	conn *sql.DB
	path string
}

// Open creates or opens a SQLite database at the given path.
func Open(dbPath string) (*DB, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("setting journal mode: %w", err)
	}
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	if err := migrate(conn); err != nil {
		conn.Close()
		return nil, fmt.Errorf("migrating schema: %w", err)
	}

	return &DB{conn: conn, path: dbPath}, nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Path returns the database file path.
func (db *DB) Path() string {
	return db.path
}

// Stats holds summary counts for the status command.
type Stats struct {
	DigestCount    int
	ItemCount      int
	DeliveredCount int
	LatestRunDate  string
}

// GetStats returns summary counts over the archive.
func (db *DB) GetStats() (*Stats, error) {
	var s Stats
	if err := db.conn.QueryRow("SELECT COUNT(*) FROM digests").Scan(&s.DigestCount); err != nil {
		return nil, err
	}
	if err := db.conn.QueryRow("SELECT COUNT(*) FROM digest_items").Scan(&s.ItemCount); err != nil {
		return nil, err
	}
	if err := db.conn.QueryRow("SELECT COUNT(*) FROM digests WHERE delivered = 1").Scan(&s.DeliveredCount); err != nil {
		return nil, err
	}
	row := db.conn.QueryRow("SELECT run_date FROM digests ORDER BY run_date DESC LIMIT 1")
	if err := row.Scan(&s.LatestRunDate); err != nil && err != sql.ErrNoRows {
		return nil, err
	}
	return &s, nil
}

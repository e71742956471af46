package database

import (
	"database/sql"
	"encoding/json"
)

// InsertDigest inserts or replaces the digest for a run date and returns
// its row ID. Re-running the pipeline on the same day overwrites the
// previous archive entry.
func (db *DB) InsertDigest(runDate, bodyMarkdown string, itemCount int, delivered bool) (int64, error) {
	deliveredInt := 0
	if delivered {
		deliveredInt = 1
	}
	result, err := db.conn.Exec(
		`INSERT OR REPLACE INTO digests (run_date, body_markdown, item_count, delivered)
		VALUES (?, ?, ?, ?)`,
		runDate, bodyMarkdown, itemCount, deliveredInt,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// InsertDigestItem stores one ranked story under a digest.
func (db *DB) InsertDigestItem(item DigestItem) (int64, error) {
	keyChanges, err := json.Marshal(item.KeyChanges)
	if err != nil {
		return 0, err
	}
	result, err := db.conn.Exec(
		`INSERT INTO digest_items
		(digest_id, position, title, url, source, summary, key_changes,
		 rule_score, ai_score, final_score, publish_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.DigestID, item.Position, item.Title, item.URL, item.Source,
		item.Summary, string(keyChanges),
		item.RuleScore, item.AIScore, item.FinalScore, item.PublishDate,
	)
	if err != nil {
		return 0, err
	}
	return result.LastInsertId()
}

// GetDigest returns the digest for a run date, or nil if none exists.
func (db *DB) GetDigest(runDate string) (*Digest, error) {
	row := db.conn.QueryRow(
		`SELECT id, run_date, body_markdown, item_count, delivered, generated_at
		FROM digests WHERE run_date = ?`, runDate,
	)
	return scanDigest(row)
}

// GetLatestDigest returns the most recent digest, or nil if the archive
// is empty.
func (db *DB) GetLatestDigest() (*Digest, error) {
	row := db.conn.QueryRow(
		`SELECT id, run_date, body_markdown, item_count, delivered, generated_at
		FROM digests ORDER BY run_date DESC LIMIT 1`,
	)
	return scanDigest(row)
}

// GetAllDigests returns all digests ordered by run date, newest first.
func (db *DB) GetAllDigests() ([]Digest, error) {
	rows, err := db.conn.Query(
		"SELECT id, run_date, body_markdown, item_count, delivered, generated_at FROM digests ORDER BY run_date DESC",
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var digests []Digest
	for rows.Next() {
		var d Digest
		var delivered int
		if err := rows.Scan(&d.ID, &d.RunDate, &d.BodyMarkdown, &d.ItemCount, &delivered, &d.GeneratedAt); err != nil {
			return nil, err
		}
		d.Delivered = delivered != 0
		digests = append(digests, d)
	}
	return digests, rows.Err()
}

// GetDigestItems returns the stored items for a digest in rank order.
func (db *DB) GetDigestItems(digestID int64) ([]DigestItem, error) {
	rows, err := db.conn.Query(
		`SELECT id, digest_id, position, title, url, source, summary, key_changes,
		 rule_score, ai_score, final_score, publish_date
		FROM digest_items WHERE digest_id = ? ORDER BY position`, digestID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []DigestItem
	for rows.Next() {
		var item DigestItem
		var keyChanges sql.NullString
		if err := rows.Scan(&item.ID, &item.DigestID, &item.Position, &item.Title,
			&item.URL, &item.Source, &item.Summary, &keyChanges,
			&item.RuleScore, &item.AIScore, &item.FinalScore, &item.PublishDate); err != nil {
			return nil, err
		}
		if keyChanges.Valid && keyChanges.String != "" {
			if err := json.Unmarshal([]byte(keyChanges.String), &item.KeyChanges); err != nil {
				item.KeyChanges = nil
			}
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanDigest(row *sql.Row) (*Digest, error) {
	var d Digest
	var delivered int
	if err := row.Scan(&d.ID, &d.RunDate, &d.BodyMarkdown, &d.ItemCount, &delivered, &d.GeneratedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, err
	}
	d.Delivered = delivered != 0
	return &d, nil
}

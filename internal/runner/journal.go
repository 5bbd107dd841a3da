package runner

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// Journal tracks which sessions have been successfully submitted so a
// re-run after a crash or network failure does not double-post.
type Journal struct {
	db *sql.DB
}

// OpenJournal opens (or creates) the SQLite journal at dir/journal.db.
func OpenJournal(dir string) (*Journal, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating journal dir %s: %w", dir, err)
	}

	dbPath := filepath.Join(dir, "journal.db")
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening journal db: %w", err)
	}

	_, err = db.Exec(`CREATE TABLE IF NOT EXISTS submitted_sessions (
		hash         TEXT PRIMARY KEY,
		program_day  INTEGER NOT NULL,
		modality     TEXT NOT NULL,
		submitted_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	)`)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("creating journal table: %w", err)
	}

	return &Journal{db: db}, nil
}

// IsSubmitted checks whether an identical submission has already been sent.
func (j *Journal) IsSubmitted(sub Submission) (bool, error) {
	hash, err := hashSubmission(sub)
	if err != nil {
		return false, err
	}
	var count int
	err = j.db.QueryRow(
		`SELECT COUNT(*) FROM submitted_sessions WHERE hash = ?`, hash,
	).Scan(&count)
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// MarkSubmitted records a successful submission.
func (j *Journal) MarkSubmitted(sub Submission) error {
	hash, err := hashSubmission(sub)
	if err != nil {
		return err
	}
	_, err = j.db.Exec(
		`INSERT OR REPLACE INTO submitted_sessions (hash, program_day, modality) VALUES (?, ?, ?)`,
		hash, sub.ProgramDay, sub.Modality,
	)
	return err
}

// Close closes the journal database.
func (j *Journal) Close() error {
	return j.db.Close()
}

// hashSubmission derives the dedupe key from the submission's content.
func hashSubmission(sub Submission) (string, error) {
	data, err := json.Marshal(sub)
	if err != nil {
		return "", fmt.Errorf("hashing submission: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

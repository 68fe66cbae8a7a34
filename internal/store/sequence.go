package store

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
)

// eventSequence is the counter name shared by the lesson and LLM event
// tables. Merging both tables by sequence yields one ordered history.
const eventSequence = "events"

// sequenceCounter issues increasing numbers from a named row in the
// sequences table. The UPDATE ... RETURNING is atomic in SQLite; the mutex
// only keeps callers in this process from contending on the write lock.
type sequenceCounter struct {
	mu   sync.Mutex
	db   *sql.DB
	name string
}

func newSequenceCounter(db *sql.DB, name string) (*sequenceCounter, error) {
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS sequences (
		name TEXT PRIMARY KEY,
		val INTEGER NOT NULL DEFAULT 0
	)`); err != nil {
		return nil, fmt.Errorf("create sequences: %w", err)
	}
	if _, err := db.Exec(`INSERT OR IGNORE INTO sequences (name, val) VALUES (?, 0)`, name); err != nil {
		return nil, fmt.Errorf("seed sequence %q: %w", name, err)
	}
	return &sequenceCounter{db: db, name: name}, nil
}

// Next returns the next value, starting at 1.
func (c *sequenceCounter) Next(ctx context.Context) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var v int64
	row := c.db.QueryRowContext(ctx,
		`UPDATE sequences SET val = val + 1 WHERE name = ? RETURNING val`, c.name)
	if err := row.Scan(&v); err != nil {
		return 0, fmt.Errorf("sequence %q: %w", c.name, err)
	}
	return v, nil
}

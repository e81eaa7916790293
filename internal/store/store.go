// Package store provides SQLite persistence for read history and the
// generation log.
package store

import (
	"database/sql"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"
)

// Store handles SQLite persistence. NOT an interface - concrete type.
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Generation is one recorded backend call.
type Generation struct {
	ID        int64
	ItemID    int
	Kind      string // "summary", "suggestions", "followups", "chat"
	Provider  string
	Model     string
	Content   string
	Error     string
	CreatedAt time.Time
}

// Open creates a new Store with the given database path.
// Creates tables if they don't exist. File databases use WAL.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// one connection keeps a :memory: database alive and shared
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	s := &Store{db: db}
	if err := s.createTables(); err != nil {
		db.Close()
		return nil, fmt.Errorf("create tables: %w", err)
	}
	return s, nil
}

func (s *Store) createTables() error {
	schema := `
	CREATE TABLE IF NOT EXISTS reads (
		item_id INTEGER PRIMARY KEY,
		read_at DATETIME NOT NULL
	);

	CREATE TABLE IF NOT EXISTS generations (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		item_id INTEGER NOT NULL,
		kind TEXT NOT NULL,
		provider TEXT NOT NULL,
		model TEXT,
		content TEXT NOT NULL,
		error TEXT,
		created_at DATETIME NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_generations_item ON generations(item_id, created_at DESC);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// MarkRead records that an item was opened. Re-marking updates read_at.
func (s *Store) MarkRead(itemID int, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO reads (item_id, read_at) VALUES (?, ?)
		ON CONFLICT(item_id) DO UPDATE SET read_at = excluded.read_at
	`, itemID, at.UTC())
	if err != nil {
		return fmt.Errorf("mark read %d: %w", itemID, err)
	}
	return nil
}

// ReadSet returns which of ids have been read.
func (s *Store) ReadSet(ids []int) (map[int]bool, error) {
	out := make(map[int]bool, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(ids)), ",")
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}

	rows, err := s.db.Query(`SELECT item_id FROM reads WHERE item_id IN (`+placeholders+`)`, args...)
	if err != nil {
		return nil, fmt.Errorf("query reads: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id int
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan read: %w", err)
		}
		out[id] = true
	}
	return out, rows.Err()
}

// SaveGeneration appends a generation record. A zero CreatedAt is stamped
// with the current time.
func (s *Store) SaveGeneration(g Generation) error {
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.Exec(`
		INSERT INTO generations (item_id, kind, provider, model, content, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`, g.ItemID, g.Kind, g.Provider, g.Model, g.Content, g.Error, g.CreatedAt.UTC())
	if err != nil {
		return fmt.Errorf("save generation: %w", err)
	}
	return nil
}

// Generations returns the most recent records for an item, newest first.
func (s *Store) Generations(itemID, limit int) ([]Generation, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.Query(`
		SELECT id, item_id, kind, provider, model, content, error, created_at
		FROM generations
		WHERE item_id = ?
		ORDER BY created_at DESC, id DESC
		LIMIT ?
	`, itemID, limit)
	if err != nil {
		return nil, fmt.Errorf("query generations: %w", err)
	}
	defer rows.Close()

	var out []Generation
	for rows.Next() {
		var (
			g           Generation
			model, gerr sql.NullString
		)
		if err := rows.Scan(&g.ID, &g.ItemID, &g.Kind, &g.Provider, &model, &g.Content, &gerr, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan generation: %w", err)
		}
		g.Model = model.String
		g.Error = gerr.String
		out = append(out, g)
	}
	return out, rows.Err()
}

// Prune deletes generation records older than cutoff and returns how many
// were removed.
func (s *Store) Prune(cutoff time.Time) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.Exec(`DELETE FROM generations WHERE created_at < ?`, cutoff.UTC())
	if err != nil {
		return 0, fmt.Errorf("prune generations: %w", err)
	}
	return res.RowsAffected()
}

// Package sqlitestore is the durable, on-device table of ledger items.
//
// One file, one table:
//
//	items(id INTEGER PRIMARY KEY AUTOINCREMENT, name TEXT, cost REAL)
//
// AUTOINCREMENT keeps ids monotonic and never reused, even after DeleteAll.
// Every exported operation runs as a single unit of work: it either commits
// fully or leaves the table untouched.
package sqlitestore

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/idilsaglam/equipt/internal/model"
)

const createItemsTable = `CREATE TABLE IF NOT EXISTS items (
	id   INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL,
	cost REAL NOT NULL
)`

// Store owns the single database handle for the process.
type Store struct {
	db  *sql.DB
	log *zap.Logger
}

// Option tunes a Store at Open time.
type Option func(*Store)

// WithLogger attaches a logger; the default discards everything.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

// Open creates or opens the database at path and makes sure the items
// table exists. Safe to call on every process start.
func Open(path string, opts ...Option) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect database: %w", err)
	}

	// one reader/writer; a single connection also serializes units of work
	// in issue order
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	s := &Store{db: db, log: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, err
	}
	if err := s.Initialize(context.Background()); err != nil {
		db.Close()
		return nil, err
	}
	s.log.Debug("store opened", zap.String("path", path))
	return s, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			return fmt.Errorf("apply %q: %w", p, err)
		}
	}
	return nil
}

// Initialize creates the items table if it is absent. Idempotent.
func (s *Store) Initialize(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createItemsTable); err != nil {
		return fmt.Errorf("initialize items table: %w", err)
	}
	return nil
}

// Insert appends one record and returns the id the database assigned.
// Input is expected to be validated by the caller.
func (s *Store) Insert(ctx context.Context, name string, cost float64) (int64, error) {
	var id int64
	err := s.unit(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `INSERT INTO items (name, cost) VALUES (?, ?)`, name, cost)
		if err != nil {
			return err
		}
		id, err = res.LastInsertId()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("insert item: %w", err)
	}
	s.log.Debug("item inserted", zap.Int64("id", id), zap.String("name", name), zap.Float64("cost", cost))
	return id, nil
}

// SelectAll returns every persisted record in insertion order.
func (s *Store) SelectAll(ctx context.Context) ([]model.Item, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, name, cost FROM items ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("select items: %w", err)
	}
	defer rows.Close()

	items := []model.Item{}
	for rows.Next() {
		var it model.Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Cost); err != nil {
			return nil, fmt.Errorf("scan item: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("select items: %w", err)
	}
	return items, nil
}

// DeleteAll removes every record atomically.
func (s *Store) DeleteAll(ctx context.Context) error {
	var n int64
	err := s.unit(ctx, func(tx *sql.Tx) error {
		res, err := tx.ExecContext(ctx, `DELETE FROM items`)
		if err != nil {
			return err
		}
		n, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return fmt.Errorf("delete items: %w", err)
	}
	s.log.Debug("items deleted", zap.Int64("count", n))
	return nil
}

// Count reports how many records are persisted.
func (s *Store) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM items`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count items: %w", err)
	}
	return n, nil
}

// unit runs fn inside one transaction.
func (s *Store) unit(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback() // no-op after commit

	if err := fn(tx); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

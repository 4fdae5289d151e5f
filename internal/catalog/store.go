package catalog

import (
	"database/sql"
	"fmt"
	"math"
	"net/url"
	"strings"
	"time"

	// Registers the "sqlite" driver.
	_ "modernc.org/sqlite"

	"github.com/vmunix/flixcase/internal/migrations"
)

// DefaultResumeLimit caps ContinueWatching when no limit is given.
const DefaultResumeLimit = 20

// querier abstracts *sql.DB and *sql.Tx for shared query logic.
type querier interface {
	QueryRow(query string, args ...any) *sql.Row
	Query(query string, args ...any) (*sql.Rows, error)
	Exec(query string, args ...any) (sql.Result, error)
}

// Store provides access to catalog data.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore wraps an already migrated database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Open opens the SQLite catalog at path, creating it if needed, and applies
// pending migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn(path))
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("open catalog %s: %w", path, err)
	}
	if err := migrations.Apply(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migrate catalog: %w", err)
	}
	return NewStore(db), nil
}

func dsn(path string) string {
	q := url.Values{}
	q.Add("_pragma", "foreign_keys(1)")
	q.Add("_pragma", "busy_timeout(5000)")
	q.Add("_pragma", "journal_mode(WAL)")
	q.Set("_time_format", "sqlite")
	return path + "?" + q.Encode()
}

// DB returns the underlying handle, shared with the event log.
func (s *Store) DB() *sql.DB { return s.db }

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// Begin starts a transaction.
func (s *Store) Begin() (*Tx, error) {
	tx, err := s.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	return &Tx{tx: tx, now: s.now}, nil
}

// inTx runs fn in a transaction, committing on success.
func (s *Store) inTx(fn func(*Tx) error) error {
	tx, err := s.Begin()
	if err != nil {
		return err
	}
	if err := fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// Tx wraps a database transaction with the same methods as Store.
type Tx struct {
	tx  *sql.Tx
	now func() time.Time
}

// Commit commits the transaction.
func (t *Tx) Commit() error {
	return t.tx.Commit()
}

// Rollback aborts the transaction.
func (t *Tx) Rollback() error {
	return t.tx.Rollback()
}

// orderBy builds the ORDER BY clause for a listing. Ties fall back to id in
// the same direction so reversing the order reverses the sequence exactly.
func orderBy(prefix string, key SortKey, asc bool) string {
	dir := "DESC"
	if asc {
		dir = "ASC"
	}
	col := prefix + "added_at"
	if key == SortTitle {
		col = prefix + "title COLLATE NOCASE"
	}
	return fmt.Sprintf(" ORDER BY %s %s, %sid %s", col, dir, prefix, dir)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// likePattern returns a LIKE pattern matching s anywhere, for use with ESCAPE '\'.
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

func validSeconds(v float64) bool {
	return v >= 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func nullTime(ns sql.NullInt64) *time.Time {
	if !ns.Valid {
		return nil
	}
	t := time.Unix(0, ns.Int64).UTC()
	return &t
}

// scanner is implemented by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

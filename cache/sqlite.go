package cache

import (
	"database/sql"
	"time"

	"github.com/pkg/errors"
	_ "modernc.org/sqlite"
)

// SQLiteStore keeps entries in a SQLite file so a restart reuses fresh panels
type SQLiteStore struct {
	db *sql.DB
}

// Ensure SQLiteStore implements Store
var _ Store = (*SQLiteStore)(nil)

const createEntriesTable = `
CREATE TABLE IF NOT EXISTS cache_entries (
	key TEXT PRIMARY KEY,
	value BLOB NOT NULL,
	created_at INTEGER NOT NULL,
	ttl_nanos INTEGER NOT NULL
);
`

// NewSQLiteStore opens (and migrates) the database at path
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open cache db")
	}
	// Parallel panel writes would otherwise race for the file lock
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(createEntriesTable); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "migrate cache db")
	}

	return &SQLiteStore{db: db}, nil
}

// Get loads the entry for key
func (s *SQLiteStore) Get(key string) (Entry, bool, error) {
	var (
		value     []byte
		createdAt int64
		ttl       int64
	)
	err := s.db.QueryRow(
		`SELECT value, created_at, ttl_nanos FROM cache_entries WHERE key = ?`, key,
	).Scan(&value, &createdAt, &ttl)
	if err == sql.ErrNoRows {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, errors.Wrap(err, "cache get")
	}

	return Entry{
		Key:       key,
		Value:     value,
		CreatedAt: time.Unix(0, createdAt),
		TTL:       time.Duration(ttl),
	}, true, nil
}

// Put inserts or replaces the entry
func (s *SQLiteStore) Put(entry Entry) error {
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO cache_entries (key, value, created_at, ttl_nanos) VALUES (?, ?, ?, ?)`,
		entry.Key, entry.Value, entry.CreatedAt.UnixNano(), int64(entry.TTL),
	)
	if err != nil {
		return errors.Wrap(err, "cache put")
	}
	return nil
}

// Clear removes every entry
func (s *SQLiteStore) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM cache_entries`); err != nil {
		return errors.Wrap(err, "cache clear")
	}
	return nil
}

// ClearExpired removes entries whose window has passed at now
func (s *SQLiteStore) ClearExpired(now time.Time) (int64, error) {
	res, err := s.db.Exec(`DELETE FROM cache_entries WHERE created_at + ttl_nanos <= ?`, now.UnixNano())
	if err != nil {
		return 0, errors.Wrap(err, "cache clear expired")
	}
	return res.RowsAffected()
}

// Len counts stored entries
func (s *SQLiteStore) Len() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM cache_entries`).Scan(&n); err != nil {
		return 0, errors.Wrap(err, "cache len")
	}
	return n, nil
}

// Close releases the database connection
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

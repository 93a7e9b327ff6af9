// Package history persists completed dictations locally so the user
// can recover text that an application swallowed.
package history

import (
	"encoding/json"
	"fmt"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/google/uuid"
)

const keyPrefix = "entry:"

// Entry is one completed dictation.
type Entry struct {
	ID         string        `json:"id"`
	Text       string        `json:"text"`
	Language   string        `json:"language,omitempty"`
	Confidence float64       `json:"confidence"`
	Duration   time.Duration `json:"duration"`
	CreatedAt  time.Time     `json:"created_at"`
}

// Store is a badger-backed dictation log. Entries expire after the
// configured TTL; a zero TTL keeps them forever.
type Store struct {
	db  *badger.DB
	ttl time.Duration
}

// Open opens or creates the store at path.
func Open(path string, ttl time.Duration) (*Store, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open history store: %w", err)
	}
	return &Store{db: db, ttl: ttl}, nil
}

// Append stores a dictation. A missing ID or timestamp is filled in.
func (s *Store) Append(e Entry) (Entry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now()
	}

	value, err := json.Marshal(e)
	if err != nil {
		return Entry{}, fmt.Errorf("encode history entry: %w", err)
	}

	// Keys sort by creation time so Recent can iterate in reverse.
	key := fmt.Appendf(nil, "%s%020d:%s", keyPrefix, e.CreatedAt.UnixNano(), e.ID)

	err = s.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry(key, value)
		if s.ttl > 0 {
			entry = entry.WithTTL(s.ttl)
		}
		return txn.SetEntry(entry)
	})
	if err != nil {
		return Entry{}, fmt.Errorf("store history entry: %w", err)
	}
	return e, nil
}

// Recent returns up to n entries, newest first.
func (s *Store) Recent(n int) ([]Entry, error) {
	if n <= 0 {
		return nil, nil
	}

	var entries []Entry
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Reverse = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(keyPrefix)
		seek := append(append([]byte{}, prefix...), 0xFF)
		for it.Seek(seek); it.ValidForPrefix(prefix) && len(entries) < n; it.Next() {
			var e Entry
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &e)
			})
			if err != nil {
				return fmt.Errorf("decode history entry: %w", err)
			}
			entries = append(entries, e)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Close releases the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

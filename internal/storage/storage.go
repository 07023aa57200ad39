// Package storage persists engine configuration and lifetime search
// statistics in a local Badger database, so a restarted engine keeps
// its tuned options.
package storage

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	badger "github.com/dgraph-io/badger/v4"
	"github.com/rs/zerolog"

	"github.com/PedroHContessoto/pelanca/internal/engine"
)

const (
	keyOptions = "options"
	keyStats   = "stats"
)

// Options are the persisted engine settings.
type Options struct {
	HashMB  int `json:"hash_mb"`
	Threads int `json:"threads"`
}

// DefaultOptions returns the settings used before any are saved.
func DefaultOptions() Options {
	return Options{HashMB: engine.DefaultHashMB, Threads: 1}
}

// Stats accumulate across all searches ever run.
type Stats struct {
	Searches uint64 `json:"searches"`
	Nodes    uint64 `json:"nodes"`
	TimeMS   uint64 `json:"time_ms"`
}

// Store wraps the Badger database.
type Store struct {
	db  *badger.DB
	log zerolog.Logger
}

// DefaultDir returns the per-user database location.
func DefaultDir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(base, "pelanca"), nil
}

// Open opens or creates the database at dir.
func Open(dir string, log zerolog.Logger) (*Store, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, err
	}
	return &Store{db: db, log: log}, nil
}

// Close flushes and closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// LoadOptions returns the saved options, or defaults when none exist.
func (s *Store) LoadOptions() (Options, error) {
	opts := DefaultOptions()
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyOptions))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &opts)
		})
	})
	if err != nil {
		return DefaultOptions(), err
	}
	if opts.HashMB < 1 {
		opts.HashMB = engine.DefaultHashMB
	}
	if opts.Threads < 1 {
		opts.Threads = 1
	}
	return opts, nil
}

// SaveOptions persists opts.
func (s *Store) SaveOptions(opts Options) error {
	val, err := json.Marshal(opts)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(keyOptions), val)
	})
}

// LoadStats returns the accumulated statistics.
func (s *Store) LoadStats() (Stats, error) {
	var stats Stats
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(keyStats))
		if err == badger.ErrKeyNotFound {
			return nil
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &stats)
		})
	})
	return stats, err
}

// RecordSearch folds one finished search into the statistics.
func (s *Store) RecordSearch(nodes uint64, elapsed time.Duration) error {
	return s.db.Update(func(txn *badger.Txn) error {
		var stats Stats
		item, err := txn.Get([]byte(keyStats))
		if err == nil {
			if err := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &stats)
			}); err != nil {
				return err
			}
		} else if err != badger.ErrKeyNotFound {
			return err
		}
		stats.Searches++
		stats.Nodes += nodes
		stats.TimeMS += uint64(elapsed.Milliseconds())
		val, err := json.Marshal(stats)
		if err != nil {
			return err
		}
		return txn.Set([]byte(keyStats), val)
	})
}

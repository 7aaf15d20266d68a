// Package index persists the ingested episode list in a bbolt file so that
// a restart can skip ingestion while the sources are unchanged.
package index

import (
	"errors"
	"fmt"
	bolt "go.etcd.io/bbolt"
	"os"
	"path/filepath"
	"time"
)

var (
	ErrNotFound = errors.New("index: not found")
	// ErrStale means a cached list exists but may no longer match the
	// sources: it is older than the allowed age or its fingerprint differs.
	ErrStale = errors.New("index: stale")
)

type Store struct {
	db *bolt.DB
}

type OpenOptions struct {
	Path string // e.g. ".bodgelab/index.db"
	// Timeout bounds the wait for the file lock; zero means one second.
	Timeout time.Duration
}

func Open(opt OpenOptions) (*Store, error) {
	if opt.Path == "" {
		return nil, errors.New("index: missing path")
	}
	if opt.Timeout <= 0 {
		opt.Timeout = time.Second
	}
	if err := os.MkdirAll(filepath.Dir(opt.Path), 0o755); err != nil {
		return nil, fmt.Errorf("index: create dir: %w", err)
	}
	db, err := bolt.Open(opt.Path, 0o600, &bolt.Options{Timeout: opt.Timeout})
	if err != nil {
		return nil, fmt.Errorf("index: open %s: %w", opt.Path, err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

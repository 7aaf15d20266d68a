package index

import (
	"encoding/json"
	"fmt"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/domain/content"
	bolt "go.etcd.io/bbolt"
	"strings"
	"time"
)

type LoadOptions struct {
	// MaxAge rejects lists saved longer ago than this; zero disables the
	// check.
	MaxAge time.Duration
	// Fingerprint rejects lists saved under a different fingerprint; empty
	// disables the check.
	Fingerprint string
	Now         time.Time
}

func (s *Store) State() (State, error) {
	var st State
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		st, err = readState(tx)
		return err
	})
	return st, err
}

func readState(tx *bolt.Tx) (State, error) {
	b := tx.Bucket(bState)
	if b == nil {
		return State{}, ErrNotFound
	}
	v := b.Get(stateKey)
	if v == nil {
		return State{}, ErrNotFound
	}
	var st State
	if err := json.Unmarshal(v, &st); err != nil {
		return State{}, fmt.Errorf("index: decode state: %w", err)
	}
	return st, nil
}

// Load returns the stored list in date order. The stored State comes back
// alongside ErrStale so callers can report why the cache was rejected.
func (s *Store) Load(opt LoadOptions) ([]content.Episode, State, error) {
	if opt.Now.IsZero() {
		opt.Now = time.Now()
	}

	var (
		st  State
		out []content.Episode
	)
	err := s.db.View(func(tx *bolt.Tx) error {
		var err error
		if st, err = readState(tx); err != nil {
			return err
		}
		if opt.Fingerprint != "" && st.Fingerprint != opt.Fingerprint {
			return fmt.Errorf("%w: fingerprint changed", ErrStale)
		}
		if opt.MaxAge > 0 && opt.Now.Sub(st.SavedAt) > opt.MaxAge {
			return fmt.Errorf("%w: saved %s ago", ErrStale, opt.Now.Sub(st.SavedAt).Round(time.Second))
		}

		idx := tx.Bucket(bIdxDate)
		metaB := tx.Bucket(bMeta)
		if idx == nil || metaB == nil {
			return ErrNotFound
		}
		out = make([]content.Episode, 0, st.Count)
		cur := idx.Cursor()
		for k, _ := cur.First(); k != nil; k, _ = cur.Next() {
			id := idFromDateKey(k)
			v := metaB.Get([]byte(id))
			if v == nil {
				return fmt.Errorf("index: dangling date entry for %q", id)
			}
			var e content.Episode
			if err := json.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("index: decode %q: %w", id, err)
			}
			out = append(out, e)
		}
		return nil
	})
	if err != nil {
		return nil, st, err
	}
	return out, st, nil
}

func (s *Store) Get(id string) (content.Episode, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return content.Episode{}, ErrNotFound
	}
	var e content.Episode
	err := s.db.View(func(tx *bolt.Tx) error {
		b := tx.Bucket(bMeta)
		if b == nil {
			return ErrNotFound
		}
		v := b.Get([]byte(id))
		if v == nil {
			return ErrNotFound
		}
		return json.Unmarshal(v, &e)
	})
	return e, err
}

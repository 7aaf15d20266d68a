package index

import (
	"encoding/json"
	"errors"
	"fmt"
	"github.com/masonamadeus/the-bodge-lab-sub000/internal/domain/content"
	bolt "go.etcd.io/bbolt"
	"slices"
	"strings"
	"time"
)

// State describes the list currently stored.
type State struct {
	SavedAt     time.Time `json:"saved_at"`
	Fingerprint string    `json:"fingerprint"`
	Count       int       `json:"count"`
}

// DateOrder returns a copy of eps in the order Load returns them: by date,
// undated episodes as calendar.Fallback, ties in input order.
func DateOrder(eps []content.Episode) []content.Episode {
	out := slices.Clone(eps)
	slices.SortStableFunc(out, func(a, b content.Episode) int {
		return a.SortDate().Compare(b.SortDate())
	})
	return out
}

// Save replaces the stored list wholesale in one transaction.
func (s *Store) Save(eps []content.Episode, fingerprint string, now time.Time) error {
	ordered := DateOrder(eps)
	return s.db.Update(func(tx *bolt.Tx) error {
		for _, name := range [][]byte{bMeta, bIdxDate, bState} {
			if err := tx.DeleteBucket(name); err != nil && !errors.Is(err, bolt.ErrBucketNotFound) {
				return err
			}
		}
		metaB, err := tx.CreateBucket(bMeta)
		if err != nil {
			return err
		}
		idxB, err := tx.CreateBucket(bIdxDate)
		if err != nil {
			return err
		}
		stateB, err := tx.CreateBucket(bState)
		if err != nil {
			return err
		}

		count := 0
		for seq := range ordered {
			e := &ordered[seq]
			if strings.TrimSpace(e.ID) == "" {
				continue
			}
			if metaB.Get([]byte(e.ID)) != nil {
				return fmt.Errorf("index: duplicate id %q", e.ID)
			}
			eb, err := json.Marshal(e)
			if err != nil {
				return fmt.Errorf("index: encode %q: %w", e.ID, err)
			}
			if err := metaB.Put([]byte(e.ID), eb); err != nil {
				return err
			}
			if err := idxB.Put(dateKey(e, seq), []byte{1}); err != nil {
				return err
			}
			count++
		}

		sb, err := json.Marshal(State{SavedAt: now.UTC(), Fingerprint: fingerprint, Count: count})
		if err != nil {
			return err
		}
		return stateB.Put(stateKey, sb)
	})
}

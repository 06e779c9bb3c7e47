// Package watchlist keeps the user's set of watched coin ids and persists
// it as a JSON array under a single storage key.
package watchlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/status-im/market-dashboard/metrics"
)

var log = logrus.WithField("component", "watchlist")

// DefaultKey is the storage key holding the watchlist.
const DefaultKey = "watchlist"

// Store is the in-memory watchlist backed by Storage. Ids keep insertion order.
type Store struct {
	mu      sync.RWMutex
	storage Storage
	key     string
	ids     []string
}

func NewStore(storage Storage, key string) *Store {
	if key == "" {
		key = DefaultKey
	}
	return &Store{
		storage: storage,
		key:     key,
		ids:     []string{},
	}
}

// Load replaces the in-memory set with the persisted one. A missing or
// malformed value yields an empty watchlist; a storage read error does too,
// and is returned so the caller can report it.
func (s *Store) Load(ctx context.Context) error {
	data, err := s.storage.Get(ctx, s.key)

	var ids []string
	switch {
	case errors.Is(err, ErrNotFound):
		log.Infof("Watchlist: no stored watchlist under %q, starting empty", s.key)
		err = nil
	case err != nil:
		log.Warnf("Watchlist: failed to read %q, starting empty: %v", s.key, err)
	default:
		ids, err = decode(data)
		if err != nil {
			log.Warnf("Watchlist: stored value under %q is malformed, starting empty: %v", s.key, err)
			ids, err = nil, nil
		}
	}

	s.mu.Lock()
	s.ids = ids
	if s.ids == nil {
		s.ids = []string{}
	}
	n := len(s.ids)
	s.mu.Unlock()

	metrics.RecordWatchlistSize(n)
	if err != nil {
		return fmt.Errorf("failed to load watchlist: %w", err)
	}
	return nil
}

// decode parses a JSON array of ids, dropping empty and duplicate entries.
func decode(data []byte) ([]string, error) {
	var raw []string
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw == nil {
		return nil, errors.New("value is not an array")
	}

	seen := make(map[string]struct{}, len(raw))
	ids := make([]string, 0, len(raw))
	for _, id := range raw {
		if _, dup := seen[id]; dup || id == "" {
			continue
		}
		seen[id] = struct{}{}
		ids = append(ids, id)
	}
	return ids, nil
}

// Toggle adds id if absent or removes it if present, then persists the
// whole set. It returns the new membership. The in-memory change is kept
// even if persisting fails.
func (s *Store) Toggle(ctx context.Context, id string) (bool, error) {
	if id == "" {
		return false, errors.New("empty coin id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	watched := false
	if i := slices.Index(s.ids, id); i >= 0 {
		s.ids = slices.Delete(s.ids, i, i+1)
	} else {
		s.ids = append(s.ids, id)
		watched = true
	}
	metrics.RecordWatchlistSize(len(s.ids))

	data, err := json.Marshal(s.ids)
	if err != nil {
		return watched, err
	}
	if err := s.storage.Put(ctx, s.key, data); err != nil {
		log.Errorf("Watchlist: failed to persist %q: %v", s.key, err)
		return watched, fmt.Errorf("failed to persist watchlist: %w", err)
	}
	return watched, nil
}

func (s *Store) Contains(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Contains(s.ids, id)
}

// List returns the watched ids in insertion order.
func (s *Store) List() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.ids)
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.ids)
}

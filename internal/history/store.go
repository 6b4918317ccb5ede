// Package history provides the bounded, per-user search history store.
package history

import (
	"context"
	"sort"
	"time"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog/log"

	"github.com/drujkomax/yoldosh-go/pkg/models"
)

const (
	// MaxItems caps the persisted history; the oldest-by-insertion entry is
	// evicted first when exceeded.
	MaxItems = 20

	// DefaultFrequentCount and DefaultRecentCount are the sizes of the two
	// derived views when the caller passes n <= 0.
	DefaultFrequentCount = 5
	DefaultRecentCount   = 10

	keyPrefix = "search_history_"
	guestKey  = "guest"
)

// KV is the persistence surface the store needs. *local.Store satisfies it.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Put(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Store keeps an ordered sequence of search history items for one user,
// most recent insertion first, persisted as a JSON array under a key scoped
// to the user identity.
type Store struct {
	kv    KV
	key   string
	items []models.SearchHistoryItem

	// now is swappable so tests can control timestamp ordering.
	now func() time.Time
}

// NewStore loads the persisted history for userID (the fixed guest key is
// used when userID is empty). Read failures are logged and leave the
// in-memory list empty; they do not propagate.
func NewStore(ctx context.Context, kv KV, userID string) *Store {
	if userID == "" {
		userID = guestKey
	}
	s := &Store{kv: kv, key: keyPrefix + userID, now: time.Now}
	s.load(ctx)
	return s
}

func (s *Store) load(ctx context.Context) {
	raw, ok, err := s.kv.Get(ctx, s.key)
	if err != nil {
		log.Warn().Err(err).Str("key", s.key).Msg("Failed to load search history")
		return
	}
	if !ok {
		return
	}

	var items []models.SearchHistoryItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		log.Warn().Err(err).Str("key", s.key).Msg("Failed to decode search history")
		return
	}
	s.items = items
}

func (s *Store) persist(ctx context.Context) {
	raw, err := json.Marshal(s.items)
	if err != nil {
		log.Warn().Err(err).Str("key", s.key).Msg("Failed to encode search history")
		return
	}
	if err := s.kv.Put(ctx, s.key, string(raw)); err != nil {
		log.Warn().Err(err).Str("key", s.key).Msg("Failed to persist search history")
	}
}

// Add records a query. A repeat of an existing (from, to, date) tuple bumps
// its count and timestamp in place; a new query is prepended. The list is
// then truncated to MaxItems and persisted.
func (s *Store) Add(ctx context.Context, q models.SearchQuery) {
	found := false
	for i := range s.items {
		if s.items[i].Matches(q) {
			s.items[i].SearchCount++
			s.items[i].LastSearched = s.now().UnixMilli()
			found = true
			break
		}
	}
	if !found {
		s.items = append([]models.SearchHistoryItem{models.NewSearchHistoryItemAt(q, s.now())}, s.items...)
	}
	if len(s.items) > MaxItems {
		s.items = s.items[:MaxItems]
	}
	s.persist(ctx)
}

// Remove drops the item with the given id, if present, and persists.
func (s *Store) Remove(ctx context.Context, id string) {
	filtered := s.items[:0]
	for _, item := range s.items {
		if item.ID != id {
			filtered = append(filtered, item)
		}
	}
	s.items = filtered
	s.persist(ctx)
}

// Clear empties the list and removes the persisted key.
func (s *Store) Clear(ctx context.Context) {
	s.items = nil
	if err := s.kv.Delete(ctx, s.key); err != nil {
		log.Warn().Err(err).Str("key", s.key).Msg("Failed to clear search history")
	}
}

// All returns the history in storage order (most recent insertion first).
func (s *Store) All() []models.SearchHistoryItem {
	out := make([]models.SearchHistoryItem, len(s.items))
	copy(out, s.items)
	return out
}

// MostFrequent returns up to n items ordered by search count descending.
// The sort is stable with respect to storage order.
func (s *Store) MostFrequent(n int) []models.SearchHistoryItem {
	if n <= 0 {
		n = DefaultFrequentCount
	}
	out := s.All()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].SearchCount > out[j].SearchCount
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

// MostRecent returns up to n items ordered by last-searched time descending.
// The sort is stable with respect to storage order.
func (s *Store) MostRecent(n int) []models.SearchHistoryItem {
	if n <= 0 {
		n = DefaultRecentCount
	}
	out := s.All()
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LastSearched > out[j].LastSearched
	})
	if len(out) > n {
		out = out[:n]
	}
	return out
}

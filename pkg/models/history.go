// Package models contains domain models for yoldosh.
package models

import (
	"strconv"
	"time"
)

// SearchQuery is one origin/destination/date query as submitted by the user.
// Cities are display strings and are NOT normalized at storage time; history
// deduplication works on exact string equality.
type SearchQuery struct {
	FromCity      string `json:"from_city"`
	ToCity        string `json:"to_city"`
	DepartureDate string `json:"departure_date,omitempty"`
}

// SearchHistoryItem is a persisted record of one distinct query and its
// usage frequency. The JSON field names match the persisted wire format.
type SearchHistoryItem struct {
	ID            string `json:"id"`
	FromCity      string `json:"from_city"`
	ToCity        string `json:"to_city"`
	DepartureDate string `json:"departure_date,omitempty"`
	SearchCount   int    `json:"searchCount"`
	LastSearched  int64  `json:"lastSearched"`
}

// NewSearchHistoryItem creates an item for a first-time query.
func NewSearchHistoryItem(q SearchQuery) SearchHistoryItem {
	return NewSearchHistoryItemAt(q, time.Now())
}

// NewSearchHistoryItemAt is NewSearchHistoryItem with an explicit creation
// time, for callers that own the clock.
func NewSearchHistoryItemAt(q SearchQuery, now time.Time) SearchHistoryItem {
	return SearchHistoryItem{
		ID:            strconv.FormatInt(now.UnixNano(), 10),
		FromCity:      q.FromCity,
		ToCity:        q.ToCity,
		DepartureDate: q.DepartureDate,
		SearchCount:   1,
		LastSearched:  now.UnixMilli(),
	}
}

// Matches reports whether the item was created from the same query tuple.
// Exact string comparison, no normalization.
func (i SearchHistoryItem) Matches(q SearchQuery) bool {
	return i.FromCity == q.FromCity &&
		i.ToCity == q.ToCity &&
		i.DepartureDate == q.DepartureDate
}

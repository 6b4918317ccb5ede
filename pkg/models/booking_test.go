package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBookingStatusTransitions(t *testing.T) {
	tests := []struct {
		name    string
		from    BookingStatus
		to      BookingStatus
		allowed bool
	}{
		{"pending to confirmed", BookingPending, BookingConfirmed, true},
		{"pending to cancelled", BookingPending, BookingCancelled, true},
		{"pending to completed", BookingPending, BookingCompleted, false},
		{"confirmed to completed", BookingConfirmed, BookingCompleted, true},
		{"confirmed to cancelled", BookingConfirmed, BookingCancelled, true},
		{"confirmed to pending", BookingConfirmed, BookingPending, false},
		{"completed is terminal", BookingCompleted, BookingCancelled, false},
		{"cancelled is terminal", BookingCancelled, BookingConfirmed, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, tt.from.CanTransition(tt.to))

			next, err := tt.from.Transition(tt.to)
			if tt.allowed {
				require.NoError(t, err)
				assert.Equal(t, tt.to, next)
			} else {
				require.Error(t, err)
				var invalid *ErrInvalidTransition
				require.ErrorAs(t, err, &invalid)
				assert.Equal(t, tt.from, invalid.From)
				assert.Equal(t, tt.from, next, "status must not change on rejected transition")
			}
		})
	}
}

func TestBookingStatusValid(t *testing.T) {
	assert.True(t, BookingPending.Valid())
	assert.True(t, BookingCompleted.Valid())
	assert.False(t, BookingStatus("archived").Valid())
	assert.False(t, BookingStatus("").Valid())
}

func TestSearchHistoryItemMatches(t *testing.T) {
	q := SearchQuery{FromCity: "Ташкент", ToCity: "Самарканд", DepartureDate: "2026-09-01"}
	item := NewSearchHistoryItem(q)

	assert.Equal(t, 1, item.SearchCount)
	assert.NotEmpty(t, item.ID)
	assert.True(t, item.Matches(q))

	// Matching is exact, not normalized.
	assert.False(t, item.Matches(SearchQuery{FromCity: "ташкент", ToCity: "Самарканд", DepartureDate: "2026-09-01"}))
	assert.False(t, item.Matches(SearchQuery{FromCity: "Ташкент", ToCity: "Самарканд"}))
}

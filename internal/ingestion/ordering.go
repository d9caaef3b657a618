package ingestion

import (
	"errors"
	"sort"

	"univ3-pool-lab/internal/domain"
)

// ErrInvalidOrdering is returned when events are not in on-chain order.
var ErrInvalidOrdering = errors.New("events are not in deterministic order")

// SortEvents orders events by (block number ASC, log index ASC).
func SortEvents(events []*domain.Event) {
	sort.Slice(events, func(i, j int) bool {
		return compareEvents(events[i], events[j]) < 0
	})
}

// ValidateOrdering checks that events are strictly ordered.
// Returns ErrInvalidOrdering if not.
func ValidateOrdering(events []*domain.Event) error {
	for i := 1; i < len(events); i++ {
		if compareEvents(events[i-1], events[i]) >= 0 {
			return ErrInvalidOrdering
		}
	}
	return nil
}

// compareEvents returns negative, zero or positive for the
// (block number, log index) order of a versus b.
func compareEvents(a, b *domain.Event) int {
	if a.Meta.BlockNumber != b.Meta.BlockNumber {
		if a.Meta.BlockNumber < b.Meta.BlockNumber {
			return -1
		}
		return 1
	}
	if a.Meta.LogIndex != b.Meta.LogIndex {
		if a.Meta.LogIndex < b.Meta.LogIndex {
			return -1
		}
		return 1
	}
	return 0
}

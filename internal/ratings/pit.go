package ratings

import (
	"sort"
	"time"

	"github.com/yourusername/convergence/internal/models"
)

// PITStore holds dated rating snapshots and answers point-in-time lookups.
// The temporal-correctness invariant: AsOf returns the latest snapshot dated
// at or before the query date, never a later one.
type PITStore struct {
	snapshots []*models.RatingSnapshot
}

// NewPITStore builds a store from archive snapshots, sorting by date
func NewPITStore(snapshots []*models.RatingSnapshot) *PITStore {
	sorted := make([]*models.RatingSnapshot, 0, len(snapshots))
	for _, s := range snapshots {
		if s != nil {
			sorted = append(sorted, s)
		}
	}
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return &PITStore{snapshots: sorted}
}

// AsOf returns the latest snapshot dated at or before date, or nil when no
// snapshot qualifies (callers degrade the affected signals to neutral).
func (s *PITStore) AsOf(date time.Time) *models.RatingSnapshot {
	idx := sort.Search(len(s.snapshots), func(i int) bool {
		return s.snapshots[i].Date.After(date)
	})
	if idx == 0 {
		return nil
	}
	return s.snapshots[idx-1]
}

// Len returns the number of snapshots held
func (s *PITStore) Len() int {
	return len(s.snapshots)
}
